// internal/inventory/postgres.go
package inventory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	stderrors "lease-concierge/internal/common/errors"
	"lease-concierge/internal/common/logger"
	"lease-concierge/internal/models"
)

// PostgresInventory backs the portfolio with a units table. Reservation
// atomicity comes from a conditional UPDATE, so concurrent bookings of the
// same unit resolve at the database without application locking.
type PostgresInventory struct {
	db     *sql.DB
	logger logger.Logger
}

const unitColumns = "id, beds, baths, sqft, rent, available, floor, amenities"

func NewPostgresInventory(db *sql.DB, log logger.Logger) *PostgresInventory {
	return &PostgresInventory{db: db, logger: log}
}

// EnsureSchema creates the units table and loads the seed portfolio if the
// table is empty.
func (p *PostgresInventory) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS units (
			id        TEXT PRIMARY KEY,
			beds      INT NOT NULL,
			baths     NUMERIC(3,1) NOT NULL,
			sqft      INT NOT NULL,
			rent      INT NOT NULL,
			available BOOLEAN NOT NULL DEFAULT TRUE,
			floor     INT NOT NULL DEFAULT 0,
			amenities TEXT[] NOT NULL DEFAULT '{}'
		)`
	if _, err := p.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create units table: %w", err)
	}

	var count int
	if err := p.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM units").Scan(&count); err != nil {
		return fmt.Errorf("failed to count units: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, u := range SeedUnits() {
		_, err := p.db.ExecContext(ctx,
			"INSERT INTO units (id, beds, baths, sqft, rent, available, floor, amenities) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
			u.ID, u.Beds, u.Baths, u.Sqft, u.Rent, u.Available, u.Floor, pq.Array(u.Amenities),
		)
		if err != nil {
			return fmt.Errorf("failed to seed unit %s: %w", u.ID, err)
		}
	}
	p.logger.Info("seeded unit portfolio", map[string]interface{}{
		"units": len(SeedUnits()),
	})
	return nil
}

func (p *PostgresInventory) Find(ctx context.Context, prefs models.Preferences) ([]models.Unit, error) {
	query := "SELECT " + unitColumns + " FROM units WHERE available = TRUE"
	var args []interface{}
	if prefs.Beds != nil {
		query += " AND beds = $1"
		args = append(args, *prefs.Beds)
	}
	query += " ORDER BY rent, id"

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, stderrors.NewInventoryQueryFailedError(fmt.Errorf("failed to query units: %w", err))
	}
	defer rows.Close()

	return scanUnits(rows)
}

func (p *PostgresInventory) Available(ctx context.Context) ([]models.Unit, error) {
	return p.Find(ctx, models.Preferences{})
}

func (p *PostgresInventory) Get(ctx context.Context, unitID string) (models.Unit, error) {
	row := p.db.QueryRowContext(ctx,
		"SELECT "+unitColumns+" FROM units WHERE id = $1", unitID)

	u, err := scanUnit(row)
	if err == sql.ErrNoRows {
		return models.Unit{}, ErrUnitNotFound
	}
	if err != nil {
		return models.Unit{}, stderrors.NewInventoryQueryFailedError(fmt.Errorf("failed to get unit %s: %w", unitID, err))
	}
	return u, nil
}

func (p *PostgresInventory) Reserve(ctx context.Context, unitID string) error {
	res, err := p.db.ExecContext(ctx,
		"UPDATE units SET available = FALSE WHERE id = $1 AND available = TRUE", unitID)
	if err != nil {
		return fmt.Errorf("failed to reserve unit %s: %w", unitID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read reservation result: %w", err)
	}
	if affected == 1 {
		p.logger.Info("unit reserved", map[string]interface{}{
			"unit_id": unitID,
		})
		return nil
	}

	// Zero rows means either the unit is gone or someone got there first.
	var exists bool
	if err := p.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM units WHERE id = $1)", unitID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check unit %s: %w", unitID, err)
	}
	if !exists {
		return ErrUnitNotFound
	}
	p.logger.Warn("reservation conflict", map[string]interface{}{
		"unit_id": unitID,
	})
	return ErrAlreadyTaken
}

func (p *PostgresInventory) Alternatives(ctx context.Context, beds int) ([]models.AlternativeGroup, error) {
	units, err := p.Available(ctx)
	if err != nil {
		return nil, err
	}
	return groupAlternatives(units, beds), nil
}

// Release marks a unit available again, rolling back a reservation.
func (p *PostgresInventory) Release(ctx context.Context, unitID string) error {
	res, err := p.db.ExecContext(ctx,
		"UPDATE units SET available = TRUE WHERE id = $1", unitID)
	if err != nil {
		return fmt.Errorf("failed to release unit %s: %w", unitID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read release result: %w", err)
	}
	if affected == 0 {
		return ErrUnitNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUnit(row rowScanner) (models.Unit, error) {
	var u models.Unit
	err := row.Scan(&u.ID, &u.Beds, &u.Baths, &u.Sqft, &u.Rent, &u.Available, &u.Floor, pq.Array(&u.Amenities))
	return u, err
}

func scanUnits(rows *sql.Rows) ([]models.Unit, error) {
	var out []models.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unit: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate units: %w", err)
	}
	return out, nil
}
