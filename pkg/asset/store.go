package asset

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"
)

// Repository is the persistence contract the Service depends on.
type Repository interface {
	Insert(ctx context.Context, a *Asset) (int64, error)
	Update(ctx context.Context, id int64, a *Asset) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*Asset, error)
	ListAll(ctx context.Context) ([]Asset, error)
	Count(ctx context.Context) (int64, error)
}

// Store persists assets in a single table through GORM.
//
// Each mutation runs in its own transaction and mutations are serialized by
// the store, so concurrent writers cannot lose updates. Reads are not
// serialized.
type Store struct {
	db      *gorm.DB
	writeMu sync.Mutex
}

var _ Repository = (*Store)(nil)

// NewStore creates a new Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// sqliteColumns is the assets schema for SQLite, where ids must come from
// AUTOINCREMENT so that deleted ids are never handed out again. Columns that
// an older catalog lacks are added by AutoMigrate.
var sqliteColumns = []struct {
	name string
	ddl  string
}{
	{"id", "id INTEGER PRIMARY KEY AUTOINCREMENT"},
	{"name", "name TEXT NOT NULL"},
	{"url", "url TEXT NOT NULL"},
	{"short_summary", "short_summary TEXT NOT NULL"},
	{"primary_bu", "primary_bu TEXT NOT NULL"},
	{"secondary_bus", "secondary_bus TEXT NOT NULL DEFAULT '[]'"},
	{"use_cases", "use_cases TEXT NOT NULL DEFAULT '[]'"},
	{"asset_type", "asset_type TEXT NOT NULL"},
	{"license_flag", "license_flag TEXT NOT NULL"},
	{"license_notes", "license_notes TEXT NOT NULL DEFAULT ''"},
	{"readiness_score", "readiness_score INTEGER NOT NULL"},
	{"engineering_score", "engineering_score INTEGER NOT NULL"},
	{"maintenance_score", "maintenance_score INTEGER NOT NULL"},
	{"last_validated_on", "last_validated_on TEXT NOT NULL DEFAULT ''"},
	{"owner", "owner TEXT NOT NULL DEFAULT ''"},
	{"excelra_leverage", "excelra_leverage TEXT NOT NULL DEFAULT ''"},
	{"notes", "notes TEXT NOT NULL DEFAULT ''"},
}

// AutoMigrate creates the assets table if it does not exist and adds any
// missing columns. It is safe to call on every start.
func (s *Store) AutoMigrate() error {
	if s.db.Dialector.Name() != "sqlite" {
		if err := s.db.AutoMigrate(&Asset{}); err != nil {
			return fmt.Errorf("auto-migrate assets: %w", err)
		}
		return nil
	}

	ddl := make([]string, len(sqliteColumns))
	for i, c := range sqliteColumns {
		ddl[i] = c.ddl
	}
	create := fmt.Sprintf("CREATE TABLE IF NOT EXISTS assets (%s)", strings.Join(ddl, ", "))
	if err := s.db.Exec(create).Error; err != nil {
		return fmt.Errorf("create assets table: %w", err)
	}

	migrator := s.db.Migrator()
	for _, c := range sqliteColumns[1:] {
		if migrator.HasColumn(&Asset{}, c.name) {
			continue
		}
		if err := s.db.Exec("ALTER TABLE assets ADD COLUMN " + c.ddl).Error; err != nil {
			return fmt.Errorf("add assets column %s: %w", c.name, err)
		}
	}
	return nil
}

// Insert persists a new asset and returns its id. Any id already set on a is
// ignored; a is not modified.
func (s *Store) Insert(ctx context.Context, a *Asset) (int64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	row := *a
	row.ID = 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&row).Error
	})
	if err != nil {
		return 0, fmt.Errorf("insert asset: %w", err)
	}
	return row.ID, nil
}

// Update replaces every field of the asset with the given id. It returns
// ErrNotFound when no such asset exists.
func (s *Store) Update(ctx context.Context, id int64, a *Asset) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	row := *a
	row.ID = id
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&Asset{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return tx.Model(&Asset{}).Where("id = ?", id).Select("*").Omit("id").Updates(&row).Error
	})
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update asset %d: %w", id, err)
	}
	return nil
}

// Delete removes the asset with the given id. Deleting an id that does not
// exist is not an error.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).Delete(&Asset{}).Error
	})
	if err != nil {
		return fmt.Errorf("delete asset %d: %w", id, err)
	}
	return nil
}

// Get retrieves an asset by id.
// Returns nil, nil if no asset exists.
func (s *Store) Get(ctx context.Context, id int64) (*Asset, error) {
	var a Asset
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get asset %d: %w", id, err)
	}
	return &a, nil
}

// ListAll returns every asset, highest id first.
func (s *Store) ListAll(ctx context.Context) ([]Asset, error) {
	var assets []Asset
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return assets, nil
}

// Count returns the number of stored assets.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&Asset{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count assets: %w", err)
	}
	return n, nil
}
