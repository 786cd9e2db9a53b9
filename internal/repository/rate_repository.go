package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/liftpass/internal/model"
	"github.com/iliyamo/liftpass/internal/pricing"
)

const (
	qBaseCost      = "SELECT cost FROM base_price WHERE type = ?"
	qUpsertCost    = "INSERT INTO base_price (type, cost) VALUES (?, ?) ON DUPLICATE KEY UPDATE cost = VALUES(cost)"
	qIsHoliday     = "SELECT EXISTS(SELECT 1 FROM holidays WHERE holiday = ?)"
	qListHolidays  = "SELECT holiday, description FROM holidays ORDER BY holiday"
	qInsertHoliday = "INSERT INTO holidays (holiday, description) VALUES (?, ?)"
	qDeleteHoliday = "DELETE FROM holidays WHERE holiday = ?"
)

// RateRepo reads and writes the base_price and holidays tables. It satisfies
// pricing.Store.
type RateRepo struct {
	db *sql.DB
}

var _ pricing.Store = (*RateRepo)(nil)

func NewRateRepo(db *sql.DB) *RateRepo {
	return &RateRepo{db: db}
}

// BaseCost returns pricing.ErrUnknownPassType when no row exists for the type.
func (r *RateRepo) BaseCost(ctx context.Context, passType string) (int, error) {
	var cost int
	if err := r.db.QueryRowContext(ctx, qBaseCost, passType).Scan(&cost); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, pricing.ErrUnknownPassType
		}
		return 0, fmt.Errorf("select base cost: %w", err)
	}
	return cost, nil
}

// SetBaseCost upserts in a single statement, so readers never see a partial write.
func (r *RateRepo) SetBaseCost(ctx context.Context, passType string, cost int) error {
	if _, err := r.db.ExecContext(ctx, qUpsertCost, passType, cost); err != nil {
		return fmt.Errorf("upsert base cost: %w", err)
	}
	return nil
}

// IsHoliday matches on the calendar day only.
func (r *RateRepo) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	var ok bool
	if err := r.db.QueryRowContext(ctx, qIsHoliday, date.Format(model.DateLayout)).Scan(&ok); err != nil {
		return false, fmt.Errorf("select holiday: %w", err)
	}
	return ok, nil
}

func (r *RateRepo) ListHolidays(ctx context.Context) ([]model.Holiday, error) {
	rows, err := r.db.QueryContext(ctx, qListHolidays)
	if err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	defer rows.Close()

	out := []model.Holiday{}
	for rows.Next() {
		var (
			h    model.Holiday
			desc sql.NullString
		)
		if err := rows.Scan(&h.Date, &desc); err != nil {
			return nil, err
		}
		h.Description = desc.String
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// AddHoliday returns pricing.ErrHolidayExists when the date is already listed.
func (r *RateRepo) AddHoliday(ctx context.Context, h model.Holiday) error {
	if _, err := r.db.ExecContext(ctx, qInsertHoliday, h.Key(), h.Description); err != nil {
		if isDuplicateKey(err) {
			return pricing.ErrHolidayExists
		}
		return fmt.Errorf("insert holiday: %w", err)
	}
	return nil
}

// RemoveHoliday returns pricing.ErrHolidayNotFound when no row was deleted.
func (r *RateRepo) RemoveHoliday(ctx context.Context, date time.Time) error {
	res, err := r.db.ExecContext(ctx, qDeleteHoliday, date.Format(model.DateLayout))
	if err != nil {
		return fmt.Errorf("delete holiday: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pricing.ErrHolidayNotFound
	}
	return nil
}
