package shared

import "encoding/json"

// Patch is a tagged optional used in partial-update payloads. A field left
// out of the JSON body is "unchanged"; a field present in the body (even as
// null) is "set to value". This keeps "not provided" and "explicitly
// cleared" distinguishable, which plain pointers cannot do.
type Patch[T any] struct {
	value T
	set   bool
}

// PatchOf builds a set Patch, mainly for tests.
func PatchOf[T any](v T) Patch[T] {
	return Patch[T]{value: v, set: true}
}

// Set reports whether the field was provided.
func (p Patch[T]) Set() bool { return p.set }

// Value returns the provided value; the zero value when unset.
func (p Patch[T]) Value() T { return p.value }

// Apply overwrites dst when the field was provided.
func (p Patch[T]) Apply(dst *T) {
	if p.set {
		*dst = p.value
	}
}

// UnmarshalJSON records that the field appeared in the payload. Only called
// by encoding/json for keys present in the body.
func (p *Patch[T]) UnmarshalJSON(data []byte) error {
	p.set = true
	return json.Unmarshal(data, &p.value)
}
