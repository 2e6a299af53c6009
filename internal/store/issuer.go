package store

import (
	"context"

	"github.com/Aidin1998/finalex-ids/pkg/errors"
	"github.com/Aidin1998/finalex-ids/pkg/identifiers"
	"github.com/Aidin1998/finalex-ids/pkg/logger"
	"github.com/Aidin1998/finalex-ids/pkg/metrics"
	"go.uber.org/zap"
)

// IDSource produces candidate identifiers
type IDSource interface {
	Next() identifiers.OrderListID
}

// Issuer hands out identifiers that have never been issued before
type Issuer struct {
	repo        *Repository
	source      IDSource
	maxAttempts int
	logger      *zap.Logger
}

// NewIssuer creates an issuer drawing candidates from source
func NewIssuer(repo *Repository, source IDSource, maxAttempts int, log *zap.Logger) *Issuer {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Issuer{
		repo:        repo,
		source:      source,
		maxAttempts: maxAttempts,
		logger:      logger.OrNop(log).Named("issuer"),
	}
}

// Issue generates an identifier and records it in the ledger, drawing a new
// candidate whenever the previous one collides
func (i *Issuer) Issue(ctx context.Context) (identifiers.OrderListID, error) {
	var lastErr error
	for attempt := 1; attempt <= i.maxAttempts; attempt++ {
		id := i.source.Next()

		err := i.repo.Reserve(ctx, id)
		if err == nil {
			metrics.IDsIssued.Inc()
			i.logger.Debug("Issued order list id", zap.Stringer("order_list_id", id), zap.Int("attempt", attempt))
			return id, nil
		}
		if !errors.Is(err, errors.Conflict) {
			return identifiers.OrderListID{}, err
		}

		lastErr = err
		i.logger.Warn("Order list id collision, retrying",
			zap.Stringer("order_list_id", id),
			zap.Int("attempt", attempt))
	}

	return identifiers.OrderListID{}, errors.Unavailable.
		Explain("no unused order list id after %d attempts", i.maxAttempts).
		Wrap(lastErr)
}
