package store

import (
	"context"
	"time"

	"github.com/Aidin1998/finalex-ids/common/dbutil"
	"github.com/Aidin1998/finalex-ids/pkg/errors"
	"github.com/Aidin1998/finalex-ids/pkg/identifiers"
	"github.com/Aidin1998/finalex-ids/pkg/logger"
	"github.com/Aidin1998/finalex-ids/pkg/tracing"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// issuedKeyPrefix namespaces the redis keys mirroring ledger rows
const issuedKeyPrefix = "finalex:order_list_ids:issued:"

const (
	defaultListLimit = 100
	defaultCacheTTL  = 5 * time.Minute
)

// IssuedID is a ledger row recording an identifier handed out by this system
type IssuedID struct {
	ID        identifiers.OrderListID `json:"id" yaml:"id" gorm:"primaryKey;type:varchar(128)"`
	CreatedAt time.Time               `json:"created_at" yaml:"created_at" gorm:"index"`
}

func (IssuedID) TableName() string { return "issued_order_list_ids" }

// Repository persists issued order list identifiers using GORM, with an
// optional redis set in front of existence checks
type Repository struct {
	db       *gorm.DB
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
	tracer   trace.Tracer
}

// Option configures a Repository
type Option func(*Repository)

// WithCacheTTL bounds how long a cached hit may outlive its ledger row,
// e.g. after a delete whose eviction failed
func WithCacheTTL(ttl time.Duration) Option {
	return func(r *Repository) {
		if ttl > 0 {
			r.cacheTTL = ttl
		}
	}
}

// NewRepository creates a new ledger repository. cache may be nil.
func NewRepository(db *gorm.DB, cache *redis.Client, log *zap.Logger, opts ...Option) *Repository {
	r := &Repository{
		db:       db,
		cache:    cache,
		cacheTTL: defaultCacheTTL,
		logger:   logger.OrNop(log).Named("store"),
		tracer:   tracing.Tracer("store"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CacheTTL returns the lifetime of cached hits
func (r *Repository) CacheTTL() time.Duration { return r.cacheTTL }

func cacheKey(id identifiers.OrderListID) string {
	return issuedKeyPrefix + id.String()
}

// Migrate creates or updates the ledger table
func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&IssuedID{}); err != nil {
		return errors.Unavailable.Explain("failed to migrate ledger").Wrap(err)
	}
	return nil
}

// Reserve records id as issued. It returns errors.Conflict when id was
// already issued.
func (r *Repository) Reserve(ctx context.Context, id identifiers.OrderListID) (err error) {
	ctx, span := r.start(ctx, "store.Reserve", id)
	defer func() { finish(span, err) }()

	row := &IssuedID{ID: id, CreatedAt: time.Now().UTC()}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return dbutil.WrapError(err)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, cacheKey(id), 1, r.cacheTTL).Err(); err != nil {
			r.logger.Warn("Failed to cache issued order list id", zap.Stringer("order_list_id", id), zap.Error(err))
		}
	}
	return nil
}

// Exists reports whether id was issued
func (r *Repository) Exists(ctx context.Context, id identifiers.OrderListID) (found bool, err error) {
	ctx, span := r.start(ctx, "store.Exists", id)
	defer func() { finish(span, err) }()

	if r.cache != nil {
		hits, err := r.cache.Exists(ctx, cacheKey(id)).Result()
		if err != nil {
			r.logger.Warn("Redis lookup failed, falling back to database", zap.Error(err))
		} else if hits > 0 {
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return true, nil
		}
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&IssuedID{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, dbutil.WrapError(err)
	}
	if count > 0 && r.cache != nil {
		_ = r.cache.Set(ctx, cacheKey(id), 1, r.cacheTTL).Err()
	}
	return count > 0, nil
}

// Get returns the ledger row for id, or errors.NotFound
func (r *Repository) Get(ctx context.Context, id identifiers.OrderListID) (row *IssuedID, err error) {
	ctx, span := r.start(ctx, "store.Get", id)
	defer func() { finish(span, err) }()

	row, err = dbutil.FindOne[IssuedID](r.db.WithContext(ctx).Where("id = ?", id))
	if err != nil {
		if errors.Is(err, errors.NotFound) {
			return nil, errors.NotFound.Explain("order list id %q was not issued", id.String())
		}
		return nil, err
	}
	return row, nil
}

// List returns the most recently issued identifiers, newest first
func (r *Repository) List(ctx context.Context, limit int) (rows []IssuedID, err error) {
	ctx, span := r.tracer.Start(ctx, "store.List", trace.WithAttributes(attribute.Int("limit", limit)))
	defer func() { finish(span, err) }()

	if limit <= 0 {
		limit = defaultListLimit
	}
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, dbutil.WrapError(err)
	}
	return rows, nil
}

// Delete removes id from the ledger, making it eligible for reissue
func (r *Repository) Delete(ctx context.Context, id identifiers.OrderListID) (err error) {
	ctx, span := r.start(ctx, "store.Delete", id)
	defer func() { finish(span, err) }()

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&IssuedID{})
	if res.Error != nil {
		return dbutil.WrapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.NotFound.Explain("order list id %q was not issued", id.String())
	}

	if r.cache != nil {
		if err := r.cache.Del(ctx, cacheKey(id)).Err(); err != nil {
			r.logger.Warn("Failed to evict order list id from cache", zap.Stringer("order_list_id", id), zap.Error(err))
		}
	}
	return nil
}

func (r *Repository) start(ctx context.Context, name string, id identifiers.OrderListID) (context.Context, trace.Span) {
	return r.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("order_list_id", id.String())))
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
