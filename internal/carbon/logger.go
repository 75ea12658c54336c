package carbon

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

var (
	logger     atomic.Pointer[zerolog.Logger]
	loggerOnce sync.Once
)

func init() {
	nop := zerolog.Nop()
	logger.Store(&nop)
}

// SetLogger sets the logger used by the carbon package. Only the first call
// takes effect; it reports whether l was installed. Until then output is
// discarded.
func SetLogger(l zerolog.Logger) bool {
	installed := false
	loggerOnce.Do(func() {
		logger.Store(&l)
		installed = true
	})
	return installed
}

func pkgLogger() *zerolog.Logger {
	return logger.Load()
}
