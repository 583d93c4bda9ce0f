// repository/repository.go
package repository

import (
	"errors"
	"fmt"
	"strings"

	"tournament-booking-system/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Repository owns every postgres table of the service.
type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Open connects to postgres.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.TournamentCategory{},
		&models.Tournament{},
		&models.BookedSlot{},
		&models.Transaction{},
		&models.CoinLedgerEntry{},
		&models.Feedback{},
	)
}

func (r *Repository) DB() *gorm.DB {
	return r.db
}

// notFound maps gorm's missing-row error to the domain sentinel.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	return err
}

// uniqueViolation returns the violated constraint name for a postgres 23505.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", true
	}
	return "", false
}

// slotConflict turns a unique-index violation on booked_slots into the
// matching booking error.
func slotConflict(err error) error {
	constraint, ok := uniqueViolation(err)
	if !ok {
		return err
	}
	if strings.Contains(constraint, "slot_user") {
		return models.ErrAlreadyBooked
	}
	return models.ErrSlotTaken
}
