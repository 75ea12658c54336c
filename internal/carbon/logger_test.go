package carbon

import (
	"bytes"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// TestSetLogger verifies only the first logger is installed and that
// installing it is safe while estimates run on other goroutines.
func TestSetLogger(t *testing.T) {
	var first, second bytes.Buffer

	assert.True(t, SetLogger(zerolog.New(&first).Level(zerolog.DebugLevel)))
	assert.False(t, SetLogger(zerolog.New(&second).Level(zerolog.DebugLevel)))

	_, ok := EstimateOK(JobParameters{})
	assert.False(t, ok)
	assert.Contains(t, first.String(), "estimate skipped: missing input")
	assert.Empty(t, second.String())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.False(t, SetLogger(zerolog.Nop()))
		}()
		go func() {
			defer wg.Done()
			Estimate(NewJobParameters(1, 1, 1, 1, 100))
		}()
	}
	wg.Wait()
}
