package db

import (
	"context"
	"fmt"
	"time"

	"github.com/gunmagohkin/co2-dashboard-daily/internal/logger"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/models"
)

// UpsertRecords stores fetched records, replacing earlier copies of the
// same (date, category, plant). Used to serve month views while the
// record store is unreachable.
func (db *DB) UpsertRecords(ctx context.Context, records []models.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO records (date, category, plant, fields_json, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date, category, plant) DO UPDATE SET
			fields_json = excluded.fields_json,
			fetched_at = excluded.fetched_at
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC().Format("2006-01-02 15:04:05")
	for _, rec := range records {
		fields, err := rec.MarshalFields()
		if err != nil {
			return err
		}
		_, err = stmt.ExecContext(ctx,
			rec.Date.Format(models.DateLayout),
			rec.Category,
			rec.Plant,
			fields,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert record: %w", err)
		}
	}

	return tx.Commit()
}

// GetMonthRecords returns cached records for one month, category and
// plant, ordered by date.
func (db *DB) GetMonthRecords(ctx context.Context, year int, month time.Month, category, plant string) ([]models.Record, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)

	query := `
		SELECT date, category, plant, fields_json
		FROM records
		WHERE date >= ? AND date <= ? AND category = ? AND plant = ?
		ORDER BY date
	`
	rows, err := db.QueryContext(ctx, query,
		first.Format(models.DateLayout),
		last.Format(models.DateLayout),
		category,
		plant,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query month records: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var records []models.Record
	for rows.Next() {
		var (
			dateStr    string
			rec        models.Record
			fieldsJSON string
		)
		if err := rows.Scan(&dateStr, &rec.Category, &rec.Plant, &fieldsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		rec.Date, err = time.Parse(models.DateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse cached date %q: %w", dateStr, err)
		}
		rec.Fields, err = models.UnmarshalFields(fieldsJSON)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// UpsertMonthlyTotal stores one month's computed consumption figures for
// the cross-month trend chart.
func (db *DB) UpsertMonthlyTotal(ctx context.Context, total models.MonthlyTotal) error {
	query := `
		INSERT INTO monthly_totals (year, month, category, plant, total_consumed, operating_days, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(year, month, category, plant) DO UPDATE SET
			total_consumed = excluded.total_consumed,
			operating_days = excluded.operating_days,
			computed_at = excluded.computed_at
	`
	_, err := db.ExecContext(ctx, query,
		total.Year,
		total.Month,
		total.Category,
		total.Plant,
		total.TotalConsumed,
		total.OperatingDays,
		time.Now().UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert monthly total: %w", err)
	}
	return nil
}

// GetMonthlyTotals returns up to limit months of history for a category
// and plant, oldest first, ending at the given month.
func (db *DB) GetMonthlyTotals(ctx context.Context, category, plant string, year int, month time.Month, limit int) ([]models.MonthlyTotal, error) {
	query := `
		SELECT year, month, category, plant, total_consumed, operating_days
		FROM monthly_totals
		WHERE category = ? AND plant = ?
		  AND (year < ? OR (year = ? AND month <= ?))
		ORDER BY year DESC, month DESC
		LIMIT ?
	`
	rows, err := db.QueryContext(ctx, query, category, plant, year, year, int(month), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly totals: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var totals []models.MonthlyTotal
	for rows.Next() {
		var t models.MonthlyTotal
		if err := rows.Scan(&t.Year, &t.Month, &t.Category, &t.Plant, &t.TotalConsumed, &t.OperatingDays); err != nil {
			return nil, fmt.Errorf("failed to scan monthly total: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse into chronological order for charting.
	for i, j := 0, len(totals)-1; i < j; i, j = i+1, j-1 {
		totals[i], totals[j] = totals[j], totals[i]
	}
	return totals, nil
}

// CountRecords returns the total number of cached records.
func (db *DB) CountRecords(ctx context.Context) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}
