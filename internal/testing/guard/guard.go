package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("EMS_TEST_MODE") == "" {
			_ = os.Setenv("EMS_TEST_MODE", "1")
		}
	})
}
