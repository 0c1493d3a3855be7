package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("TABLEFORGE_TEST_MODE") == "" {
			_ = os.Setenv("TABLEFORGE_TEST_MODE", "1")
		}
	})
}
