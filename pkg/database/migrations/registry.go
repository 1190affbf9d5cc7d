// Package migrations holds the SQL that gorm's AutoMigrate cannot express.
// Each migration runs once per database and is recorded in schema_migrations.
package migrations

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"
)

type migration struct {
	name string
	up   func(*gorm.DB) error
}

var (
	mu         sync.Mutex
	registered []migration
)

// Register queues a migration. Migrations run in registration order.
func Register(name string, up func(*gorm.DB) error) {
	mu.Lock()
	defer mu.Unlock()

	registered = append(registered, migration{name: name, up: up})
}

type appliedMigration struct {
	Name      string    `gorm:"primaryKey;size:128"`
	AppliedAt time.Time `gorm:"not null"`
}

func (appliedMigration) TableName() string { return "schema_migrations" }

// Run applies every registered migration not yet recorded. Each one runs in its own transaction.
func Run(db *gorm.DB, log *slog.Logger) error {
	if err := db.AutoMigrate(&appliedMigration{}); err != nil {
		return fmt.Errorf("create migration ledger: %w", err)
	}

	var names []string
	if err := db.Model(&appliedMigration{}).Pluck("name", &names).Error; err != nil {
		return fmt.Errorf("read migration ledger: %w", err)
	}
	applied := make(map[string]bool, len(names))
	for _, name := range names {
		applied[name] = true
	}

	mu.Lock()
	pending := append([]migration(nil), registered...)
	mu.Unlock()

	ran := 0
	for _, m := range pending {
		if applied[m.name] {
			continue
		}

		log.Info("running migration", slog.String("name", m.name))
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.up(tx); err != nil {
				return err
			}
			return tx.Create(&appliedMigration{Name: m.name, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %s failed: %w", m.name, err)
		}
		ran++
	}

	log.Info("migrations up to date", slog.Int("applied", ran), slog.Int("registered", len(pending)))
	return nil
}
