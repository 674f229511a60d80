package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/noventicred/constrular/internal/domain"
)

var ErrSettingsNotFound = errors.New("store settings not found")

// Repository loads and updates the single store-wide settings row.
type Repository interface {
	Load(ctx context.Context) (domain.Settings, error)
	Update(ctx context.Context, s domain.Settings) error
}

// Service caches settings reads with a TTL. Singleflight collapses
// concurrent misses into one repository call.
type Service struct {
	repo Repository
	ttl  time.Duration
	sfg  singleflight.Group
	log  *zap.Logger

	mu        sync.RWMutex
	cached    *domain.Settings
	fetchedAt time.Time
}

func NewService(repo Repository, ttl time.Duration, log *zap.Logger) *Service {
	return &Service{repo: repo, ttl: ttl, log: log}
}

func (s *Service) Get(ctx context.Context) (domain.Settings, error) {
	s.mu.RLock()
	if s.cached != nil && time.Since(s.fetchedAt) < s.ttl {
		cached := *s.cached
		s.mu.RUnlock()
		return cached, nil
	}
	s.mu.RUnlock()

	v, err, _ := s.sfg.Do("settings", func() (interface{}, error) {
		loaded, err := s.repo.Load(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cached = &loaded
		s.fetchedAt = time.Now()
		s.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		// serve the stale copy if there is one, the storefront should
		// not stop selling because the settings read failed
		s.mu.RLock()
		defer s.mu.RUnlock()
		if s.cached != nil {
			s.log.Warn("settings load failed, serving stale copy", zap.Error(err))
			return *s.cached, nil
		}
		return domain.Settings{}, err
	}
	return v.(domain.Settings), nil
}

// Update writes through the repository and invalidates the cache.
func (s *Service) Update(ctx context.Context, settings domain.Settings) error {
	if err := s.repo.Update(ctx, settings); err != nil {
		return err
	}
	s.Invalidate()
	return nil
}

func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = nil
}

// SQLiteRepository reads the settings row from the catalog database.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Load(ctx context.Context) (domain.Settings, error) {
	var s domain.Settings
	err := r.db.QueryRowContext(ctx,
		`SELECT store_name, whatsapp_number, free_shipping_min, shipping_fee FROM store_settings WHERE id = 1`,
	).Scan(&s.StoreName, &s.WhatsAppNumber, &s.FreeShippingMin, &s.ShippingFee)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Settings{}, ErrSettingsNotFound
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("failed to query settings: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, s domain.Settings) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE store_settings SET store_name = ?, whatsapp_number = ?, free_shipping_min = ?, shipping_fee = ? WHERE id = 1`,
		s.StoreName, s.WhatsAppNumber, s.FreeShippingMin, s.ShippingFee)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return nil
}
