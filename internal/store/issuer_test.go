package store

import (
	"context"
	"strings"
	"testing"

	"github.com/Aidin1998/finalex-ids/pkg/errors"
	"github.com/Aidin1998/finalex-ids/pkg/identifiers"
	"github.com/Aidin1998/finalex-ids/pkg/metrics"
	"github.com/Aidin1998/finalex-ids/testutil"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// scriptedSource replays a fixed sequence of candidates
type scriptedSource struct {
	ids  []string
	next int
}

func (s *scriptedSource) Next() identifiers.OrderListID {
	id := s.ids[s.next%len(s.ids)]
	s.next++
	return identifiers.NewOrderListID(id)
}

func newTestRepository(t *testing.T) *Repository {
	repo := NewRepository(testutil.NewTestDB(t), nil, zaptest.NewLogger(t))
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

func TestIssuer_Issue(t *testing.T) {
	repo := newTestRepository(t)
	issuer := NewIssuer(repo, identifiers.NewGenerator("OL"), 3, zaptest.NewLogger(t))

	before := promtestutil.ToFloat64(metrics.IDsIssued)

	id, err := issuer.Issue(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id.String(), "OL-"))

	found, err := repo.Exists(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, before+1, promtestutil.ToFloat64(metrics.IDsIssued))
}

func TestIssuer_RetriesOnCollision(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.Reserve(context.Background(), identifiers.NewOrderListID("OL-taken")))

	source := &scriptedSource{ids: []string{"OL-taken", "OL-free"}}
	issuer := NewIssuer(repo, source, 3, zaptest.NewLogger(t))

	id, err := issuer.Issue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "OL-free", id.String())
	assert.Equal(t, 2, source.next)
}

func TestIssuer_GivesUp(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.Reserve(context.Background(), identifiers.NewOrderListID("OL-taken")))

	source := &scriptedSource{ids: []string{"OL-taken"}}
	issuer := NewIssuer(repo, source, 2, nil)

	id, err := issuer.Issue(context.Background())
	require.Error(t, err)
	assert.True(t, id.IsZero())
	assert.True(t, errors.Is(err, errors.Unavailable))
	assert.True(t, errors.Is(err, errors.Conflict))
	assert.Equal(t, 2, source.next)
}

func TestIssuer_StopsOnStorageError(t *testing.T) {
	// no migration: inserts fail with a missing-table error
	repo := NewRepository(testutil.NewTestDB(t), nil, nil)
	source := &scriptedSource{ids: []string{"OL-1"}}
	issuer := NewIssuer(repo, source, 5, nil)

	_, err := issuer.Issue(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, errors.Conflict))
	assert.Equal(t, 1, source.next)
}
