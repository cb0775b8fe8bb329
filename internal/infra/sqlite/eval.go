package sqlite

import (
	"context"
	"fmt"

	"github.com/tutu-network/reimburse/internal/domain"
)

// ─── Evaluation Results ─────────────────────────────────────────────────────

// InsertResults stores a batch of case results in one transaction.
func (db *DB) InsertResults(ctx context.Context, results []domain.CaseResult) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO eval_results (case_index, days, miles, receipts, expected, actual, abs_error, path, lucky_cents)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		lucky := 0
		if r.LuckyCents {
			lucky = 1
		}
		if _, err := stmt.ExecContext(ctx,
			r.Index, r.Trip.Days, r.Trip.Miles, r.Trip.Receipts,
			r.Expected, r.Actual, r.Error, string(r.Path), lucky,
		); err != nil {
			return fmt.Errorf("insert case %d: %w", r.Index, err)
		}
	}
	return tx.Commit()
}

// Summary aggregates all stored results. Matches are strict: error < tolerance.
func (db *DB) Summary(ctx context.Context, exactTol, closeTol float64) (domain.EvalSummary, error) {
	var s domain.EvalSummary
	err := db.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN abs_error < ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN abs_error < ? THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(abs_error), 0),
			COALESCE(MAX(abs_error), 0)
		FROM eval_results
	`, exactTol, closeTol).Scan(&s.Cases, &s.ExactMatches, &s.CloseMatches, &s.AvgError, &s.MaxError)
	if err != nil {
		return domain.EvalSummary{}, fmt.Errorf("summary: %w", err)
	}
	s.Score = s.AvgError*100 + float64(s.Cases-s.ExactMatches)*0.1
	return s, nil
}

// PathBreakdown returns per-path counts and mean error, in path order.
func (db *DB) PathBreakdown(ctx context.Context) ([]domain.PathStats, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT path, COUNT(*), AVG(abs_error)
		FROM eval_results GROUP BY path ORDER BY path
	`)
	if err != nil {
		return nil, fmt.Errorf("path breakdown: %w", err)
	}
	defer rows.Close()

	var out []domain.PathStats
	for rows.Next() {
		var ps domain.PathStats
		var path string
		if err := rows.Scan(&path, &ps.Cases, &ps.AvgError); err != nil {
			return nil, err
		}
		ps.Path = domain.Path(path)
		out = append(out, ps)
	}
	return out, rows.Err()
}

// WorstCases returns the n results with the largest error, ties broken by
// case index.
func (db *DB) WorstCases(ctx context.Context, n int) ([]domain.CaseResult, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := db.db.QueryContext(ctx, `
		SELECT case_index, days, miles, receipts, expected, actual, abs_error, path, lucky_cents
		FROM eval_results
		ORDER BY abs_error DESC, case_index ASC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("worst cases: %w", err)
	}
	defer rows.Close()

	var out []domain.CaseResult
	for rows.Next() {
		var r domain.CaseResult
		var path string
		var lucky int
		if err := rows.Scan(
			&r.Index, &r.Trip.Days, &r.Trip.Miles, &r.Trip.Receipts,
			&r.Expected, &r.Actual, &r.Error, &path, &lucky,
		); err != nil {
			return nil, err
		}
		r.Path = domain.Path(path)
		r.LuckyCents = lucky == 1
		out = append(out, r)
	}
	return out, rows.Err()
}
