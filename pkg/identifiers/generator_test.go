package identifiers

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Next(t *testing.T) {
	g := NewGenerator(DefaultPrefix)
	id := g.Next()

	require.True(t, strings.HasPrefix(id.String(), "OL-"))
	u, err := uuid.Parse(strings.TrimPrefix(id.String(), "OL-"))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), u.Version())
}

func TestGenerator_NoPrefix(t *testing.T) {
	id := NewGenerator("").Next()

	_, err := uuid.Parse(id.String())
	assert.NoError(t, err)
}

func TestGenerator_Unique(t *testing.T) {
	g := NewGenerator("T")

	const workers, perWorker = 8, 200
	var (
		mu   sync.Mutex
		seen = make(map[OrderListID]struct{}, workers*perWorker)
		wg   sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := g.Next()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}
