package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

const transactionColumns = `id, reference, date, description, status, total_amount, created_by, posted_by, posted_at, created_at, updated_at`

const entryColumns = `id, transaction_id, account_code, type, amount, description`

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create inserts a transaction together with its entries.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := pgxTx.Exec(ctx, query,
		txn.ID,
		txn.Reference,
		txn.Date,
		txn.Description,
		string(txn.Status),
		decimalToNumeric(txn.TotalAmount),
		txn.CreatedBy,
		txn.PostedBy,
		txn.PostedAt,
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateReference
		}

		return err
	}

	return r.insertEntries(ctx, pgxTx, txn.Entries)
}

// GetByReference retrieves a transaction with its entries.
func (r *TransactionRepository) GetByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	return r.getByReference(ctx, r.pool, reference, false)
}

// GetByReferenceForUpdate retrieves a transaction with its entries while
// holding a FOR UPDATE lock on the transaction row. Concurrent state
// transitions on the same transaction serialize on this lock.
func (r *TransactionRepository) GetByReferenceForUpdate(ctx context.Context, tx usecase.Transaction, reference string) (*domain.Transaction, error) {
	return r.getByReference(ctx, tx.(*Tx).PgxTx(), reference, true)
}

// pgx pools and transactions share Query/QueryRow signatures; this is the
// minimal surface the loaders need.
type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *TransactionRepository) getByReference(ctx context.Context, q rowQuerier, reference string, forUpdate bool) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE reference = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	txn, err := scanTransaction(q.QueryRow(ctx, query, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	entries, err := r.loadEntries(ctx, q, txn.ID)
	if err != nil {
		return nil, err
	}

	txn.Entries = entries

	return txn, nil
}

// ReplaceEntries swaps the full entry set of a transaction. Running inside
// the caller's storage transaction makes the swap atomic for readers.
func (r *TransactionRepository) ReplaceEntries(ctx context.Context, tx usecase.Transaction, transactionID string, entries []*domain.Entry) error {
	pgxTx := tx.(*Tx).PgxTx()

	if _, err := pgxTx.Exec(ctx, `DELETE FROM entries WHERE transaction_id = $1`, transactionID); err != nil {
		return err
	}

	if _, err := pgxTx.Exec(ctx, `UPDATE transactions SET updated_at = now() WHERE id = $1`, transactionID); err != nil {
		return err
	}

	return r.insertEntries(ctx, pgxTx, entries)
}

// UpdateStatus conditionally moves a transaction from one status to
// another. The WHERE clause on the current status makes the write a
// compare-and-set: if another writer got there first, zero rows match and
// the caller observes an invalid transition.
func (r *TransactionRepository) UpdateStatus(
	ctx context.Context,
	tx usecase.Transaction,
	transactionID string,
	from, to domain.TransactionStatus,
	postedBy *string,
	postedAt *time.Time,
	updatedAt time.Time,
) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE transactions
		SET status = $3, posted_by = $4, posted_at = $5, updated_at = $6
		WHERE id = $1 AND status = $2
	`

	tag, err := pgxTx.Exec(ctx, query, transactionID, string(from), string(to), postedBy, postedAt, updatedAt)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		var reference, current string

		err := pgxTx.QueryRow(ctx, `SELECT reference, status FROM transactions WHERE id = $1`, transactionID).
			Scan(&reference, &current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrTransactionNotFound
			}

			return err
		}

		return &domain.InvalidTransitionError{
			TransactionID: transactionID,
			Reference:     reference,
			From:          domain.TransactionStatus(current),
			To:            to,
		}
	}

	return nil
}

// List lists transactions ordered by creation time, newest first.
func (r *TransactionRepository) List(ctx context.Context, filter usecase.ListTransactionsFilter) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions`
	args := []any{}

	if filter.Status != nil {
		query += ` WHERE status = $1`
		args = append(args, string(*filter.Status))
	}

	query += ` ORDER BY created_at DESC`

	if filter.Status != nil {
		query += ` LIMIT $2 OFFSET $3`
	} else {
		query += ` LIMIT $1 OFFSET $2`
	}

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*domain.Transaction

	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}

		txns = append(txns, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, txn := range txns {
		entries, err := r.loadEntries(ctx, r.pool, txn.ID)
		if err != nil {
			return nil, err
		}

		txn.Entries = entries
	}

	return txns, nil
}

func (r *TransactionRepository) insertEntries(ctx context.Context, pgxTx pgx.Tx, entries []*domain.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}

	query := `
		INSERT INTO entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, entry := range entries {
		batch.Queue(query,
			entry.ID,
			entry.TransactionID,
			entry.AccountCode,
			string(entry.Type),
			decimalToNumeric(entry.Amount),
			entry.Description,
		)
	}

	results := pgxTx.SendBatch(ctx, batch)
	defer results.Close()

	for range entries {
		if _, err := results.Exec(); err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrInvalidEntryAccount
			}

			return err
		}
	}

	return nil
}

func (r *TransactionRepository) loadEntries(ctx context.Context, q rowQuerier, transactionID string) ([]*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE transaction_id = $1 ORDER BY id`

	rows, err := q.Query(ctx, query, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.Entry

	for rows.Next() {
		var (
			entry     domain.Entry
			entryType string
			amount    pgtype.Numeric
		)

		err := rows.Scan(
			&entry.ID,
			&entry.TransactionID,
			&entry.AccountCode,
			&entryType,
			&amount,
			&entry.Description,
		)
		if err != nil {
			return nil, err
		}

		entry.Type = domain.EntryType(entryType)
		entry.Amount = numericToDecimal(amount)

		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn         domain.Transaction
		status      string
		totalAmount pgtype.Numeric
	)

	err := row.Scan(
		&txn.ID,
		&txn.Reference,
		&txn.Date,
		&txn.Description,
		&status,
		&totalAmount,
		&txn.CreatedBy,
		&txn.PostedBy,
		&txn.PostedAt,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	txn.Status = domain.TransactionStatus(status)
	txn.TotalAmount = numericToDecimal(totalAmount)

	return &txn, nil
}
