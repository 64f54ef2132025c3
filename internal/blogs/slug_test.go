package blogs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello, World!":            "hello-world",
		"Café au Lait — reviewed":  "cafe-au-lait-reviewed",
		"  Leading & trailing  ":   "leading-trailing",
		"Über große Pläne":         "uber-gro-e-plane",
		"2025 Roadmap (v2)":        "2025-roadmap-v2",
		"already-a-slug":           "already-a-slug",
		"UPPER CASE":               "upper-case",
		"multiple   spaces---here": "multiple-spaces-here",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}

func TestSlugifyEmpty(t *testing.T) {
	assert.Equal(t, "", Slugify("!!!"))
	assert.Equal(t, "", Slugify(""))
}
