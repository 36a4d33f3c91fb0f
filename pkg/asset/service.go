package asset

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// SeedSource supplies the records loaded into an empty catalog.
type SeedSource interface {
	Records(ctx context.Context) ([]Asset, error)
}

// Service is the catalog's external interface: the browse view, the create
// and edit paths, deletion and seeding.
type Service struct {
	store     Repository
	validator *Validator
	seeds     SeedSource
	logger    *slog.Logger
	now       func() time.Time

	seedMu sync.Mutex
	seeded atomic.Bool
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithSeedSource sets the records SeedIfEmpty loads.
func WithSeedSource(src SeedSource) ServiceOption {
	return func(s *Service) { s.seeds = src }
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used for default dates.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService creates a new Service.
func NewService(store Repository, validator *Validator, opts ...ServiceOption) *Service {
	s := &Service{
		store:     store,
		validator: validator,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Vocabulary returns the option lists accepted by the validator.
func (s *Service) Vocabulary() Vocabulary {
	return s.validator.Vocabulary()
}

// Count returns the number of stored assets.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}

// SeedIfEmpty loads the seed records when the store holds no assets and
// returns how many were inserted. Once the store is non-empty it does
// nothing, so it is safe to call any number of times.
func (s *Service) SeedIfEmpty(ctx context.Context) (int, error) {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()

	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 || s.seeds == nil {
		s.seeded.Store(true)
		return 0, nil
	}

	records, err := s.seeds.Records(ctx)
	if err != nil {
		return 0, fmt.Errorf("load seed records: %w", err)
	}
	inserted := 0
	for i := range records {
		if _, err := s.store.Insert(ctx, &records[i]); err != nil {
			return inserted, fmt.Errorf("seed record %q: %w", records[i].Name, err)
		}
		inserted++
	}
	s.seeded.Store(true)
	s.logger.Info("seeded asset catalog", "records", inserted)
	return inserted, nil
}

// ListView returns the filtered, sorted browse view. The first call seeds an
// empty catalog; a seeding failure is logged and does not fail the listing.
func (s *Service) ListView(ctx context.Context, f Filter) ([]Asset, error) {
	if !s.seeded.Load() {
		if _, err := s.SeedIfEmpty(ctx); err != nil {
			s.logger.Warn("seeding on first browse failed", "error", err)
		}
	}
	records, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return Apply(records, f), nil
}

// Create validates p and stores it as a new asset. A blank or unparseable
// last_validated_on becomes today's date.
func (s *Service) Create(ctx context.Context, p Payload) (int64, error) {
	p = p.Normalize()
	p.LastValidatedOn = NormalizeDate(p.LastValidatedOn)
	if !IsISODate(p.LastValidatedOn) {
		p.LastValidatedOn = s.today()
	}
	if err := s.validator.Validate(p); err != nil {
		return 0, err
	}

	id, err := s.store.Insert(ctx, p.toAsset())
	if err != nil {
		return 0, err
	}
	s.logger.Info("created asset", "id", id, "name", p.Name)
	return id, nil
}

// ReadOne returns the asset with the given id, or ErrNotFound.
func (s *Service) ReadOne(ctx context.Context, id int64) (*Asset, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

// Update replaces every field of an existing asset. The asset must exist
// before the payload is validated. last_validated_on is normalized but,
// unlike Create, not defaulted.
func (s *Service) Update(ctx context.Context, id int64, p Payload) error {
	if _, err := s.ReadOne(ctx, id); err != nil {
		return err
	}

	p = p.Normalize()
	p.LastValidatedOn = NormalizeDate(p.LastValidatedOn)
	if err := s.validator.Validate(p); err != nil {
		return err
	}

	if err := s.store.Update(ctx, id, p.toAsset()); err != nil {
		return err
	}
	s.logger.Info("updated asset", "id", id)
	return nil
}

// Delete removes the asset with the given id. A missing id is not an error.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("deleted asset", "id", id)
	return nil
}

func (s *Service) today() string {
	return s.now().Format(DateLayout)
}
