package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// TypeTotals sums posted entries across active accounts grouped by type.
// Accounts without posted entries still count toward AccountCount.
func (r *LedgerRepository) TypeTotals(ctx context.Context) ([]usecase.TypeTotals, error) {
	query := `
		SELECT
			a.type,
			COUNT(DISTINCT a.code),
			COALESCE(SUM(pe.amount) FILTER (WHERE pe.type = 'debit'), 0),
			COALESCE(SUM(pe.amount) FILTER (WHERE pe.type = 'credit'), 0)
		FROM accounts a
		LEFT JOIN (
			SELECT e.account_code, e.type, e.amount
			FROM entries e
			JOIN transactions t ON t.id = e.transaction_id
			WHERE t.status = 'posted'
		) pe ON pe.account_code = a.code
		WHERE a.active
		GROUP BY a.type
		ORDER BY a.type
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []usecase.TypeTotals

	for rows.Next() {
		var (
			tt          usecase.TypeTotals
			accType     string
			debitTotal  pgtype.Numeric
			creditTotal pgtype.Numeric
		)

		if err := rows.Scan(&accType, &tt.AccountCount, &debitTotal, &creditTotal); err != nil {
			return nil, err
		}

		tt.Type = domain.AccountType(accType)
		tt.DebitTotal = numericToDecimal(debitTotal)
		tt.CreditTotal = numericToDecimal(creditTotal)

		totals = append(totals, tt)
	}

	return totals, rows.Err()
}

// PostedCountSince counts transactions posted at or after the given time.
func (r *LedgerRepository) PostedCountSince(ctx context.Context, since time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM transactions WHERE status = 'posted' AND posted_at >= $1`

	var count int64
	if err := r.pool.QueryRow(ctx, query, since).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

// UnbalancedPostedCount counts posted transactions whose entry totals
// disagree. A non-zero result means the posting guard was bypassed.
func (r *LedgerRepository) UnbalancedPostedCount(ctx context.Context) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM (
			SELECT t.id
			FROM transactions t
			LEFT JOIN entries e ON e.transaction_id = t.id
			WHERE t.status = 'posted'
			GROUP BY t.id
			HAVING COALESCE(SUM(e.amount) FILTER (WHERE e.type = 'debit'), 0)
			    <> COALESCE(SUM(e.amount) FILTER (WHERE e.type = 'credit'), 0)
		) unbalanced
	`

	var count int64
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
