package database

import (
	"context"
	"errors"
	"fmt"
	"hash/crc32"
	"log/slog"
	"os"
	"time"

	"gorm.io/gorm"
)

// bootLockName identifies the boot lock across replicas.
const bootLockName = "asset-scout-boot"

// BootLock serializes the boot sequence (schema migration and seeding) of
// replicas sharing one database. PostgreSQL uses a session advisory lock;
// SQLite and MySQL use a single-row lock table.
type BootLock struct {
	db            *gorm.DB
	logger        *slog.Logger
	holder        string
	retryInterval time.Duration
	maxAttempts   int
	staleAfter    time.Duration
}

// bootLockRow is the lock table row for dialects without advisory locks.
type bootLockRow struct {
	Name     string    `gorm:"primaryKey;column:name;type:varchar(64)"`
	Holder   string    `gorm:"column:holder"`
	LockedAt time.Time `gorm:"column:locked_at"`
}

func (bootLockRow) TableName() string { return "boot_lock" }

// NewBootLock creates a BootLock for db. A nil db yields a lock that just
// runs the function.
func NewBootLock(db *gorm.DB, logger *slog.Logger) *BootLock {
	if logger == nil {
		logger = slog.Default()
	}
	holder, _ := os.Hostname()
	if holder == "" {
		holder = "unknown"
	}
	return &BootLock{
		db:            db,
		logger:        logger,
		holder:        fmt.Sprintf("%s/%d", holder, os.Getpid()),
		retryInterval: time.Second,
		maxAttempts:   60,
		staleAfter:    5 * time.Minute,
	}
}

// Do runs fn while holding the lock. The lock is released even when fn
// fails; fn's error is returned unchanged.
func (l *BootLock) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if l.db == nil {
		return fn(ctx)
	}
	if l.db.Dialector.Name() == TypePostgres {
		return l.doAdvisory(ctx, fn)
	}
	return l.doTable(ctx, fn)
}

func (l *BootLock) doAdvisory(ctx context.Context, fn func(ctx context.Context) error) error {
	key := int64(crc32.ChecksumIEEE([]byte(bootLockName)))

	// Advisory locks belong to a session, so both calls must share one
	// connection.
	sqlDB, err := l.db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("reserve lock connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "SELECT pg_advisory_lock($1)", key); err != nil {
		return fmt.Errorf("acquire boot lock: %w", err)
	}
	defer func() {
		if _, err := conn.ExecContext(context.WithoutCancel(ctx), "SELECT pg_advisory_unlock($1)", key); err != nil {
			l.logger.Warn("release boot lock", "error", err)
		}
	}()
	return fn(ctx)
}

func (l *BootLock) doTable(ctx context.Context, fn func(ctx context.Context) error) error {
	db := l.db.WithContext(ctx)
	// Replicas may race to create the table; losing that race is fine.
	if err := db.AutoMigrate(&bootLockRow{}); err != nil && !db.Migrator().HasTable(&bootLockRow{}) {
		return fmt.Errorf("create boot lock table: %w", err)
	}

	var lastErr error
	acquired := false
	for attempt := 1; attempt <= l.maxAttempts; attempt++ {
		// A holder that crashed never releases; its row goes stale.
		db.Where("name = ? AND locked_at < ?", bootLockName, time.Now().Add(-l.staleAfter)).
			Delete(&bootLockRow{})

		row := bootLockRow{Name: bootLockName, Holder: l.holder, LockedAt: time.Now()}
		if lastErr = db.Create(&row).Error; lastErr == nil {
			acquired = true
			break
		}
		if attempt == 1 {
			l.logger.Info("waiting for boot lock", "holder", l.holder)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.retryInterval):
		}
	}
	if !acquired {
		return fmt.Errorf("acquire boot lock after %d attempts: %w", l.maxAttempts, errors.Join(ErrBootLockBusy, lastErr))
	}

	defer func() {
		err := l.db.WithContext(context.WithoutCancel(ctx)).
			Where("name = ? AND holder = ?", bootLockName, l.holder).
			Delete(&bootLockRow{}).Error
		if err != nil {
			l.logger.Warn("release boot lock", "error", err)
		}
	}()
	return fn(ctx)
}

// ErrBootLockBusy is returned when another replica holds the boot lock for
// longer than the wait allows.
var ErrBootLockBusy = errors.New("boot lock held by another process")
