package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/domain"
)

const accountColumns = `id, code, name, type, parent_code, description, active, created_by, created_at, updated_at`

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create inserts a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		account.ID,
		account.Code,
		account.Name,
		string(account.Type),
		account.ParentCode,
		account.Description,
		account.Active,
		account.CreatedBy,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateCode
		}

		if isForeignKeyViolation(err) {
			return domain.ErrInvalidParent
		}

		return err
	}

	return nil
}

// GetByCode retrieves an account by its code.
func (r *AccountRepository) GetByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1`

	row := r.pool.QueryRow(ctx, query, code)

	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return account, nil
}

// Update persists mutable account fields.
func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $2, parent_code = $3, description = $4, active = $5, updated_at = $6
		WHERE code = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		account.Code,
		account.Name,
		account.ParentCode,
		account.Description,
		account.Active,
		account.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidParent
		}

		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// Delete removes an account. Entries and child accounts hold RESTRICT
// foreign keys, so referenced accounts cannot be removed.
func (r *AccountRepository) Delete(ctx context.Context, code string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE code = $1`, code)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrAccountProtected
		}

		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// List lists accounts ordered by code with pagination.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY code LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// ListByType lists accounts of one type ordered by code.
func (r *AccountRepository) ListByType(ctx context.Context, accountType domain.AccountType) ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE type = $1 ORDER BY code`

	rows, err := r.pool.Query(ctx, query, string(accountType))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// SumPostedEntries aggregates debit and credit totals over entries of
// posted transactions for one account, optionally bounded by posting time.
func (r *AccountRepository) SumPostedEntries(ctx context.Context, code string, asOf *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(e.amount) FILTER (WHERE e.type = 'debit'), 0),
			COALESCE(SUM(e.amount) FILTER (WHERE e.type = 'credit'), 0)
		FROM entries e
		JOIN transactions t ON t.id = e.transaction_id
		WHERE e.account_code = $1
		  AND t.status = 'posted'
		  AND ($2::timestamptz IS NULL OR t.posted_at <= $2)
	`

	var debitTotal, creditTotal pgtype.Numeric

	if err := r.pool.QueryRow(ctx, query, code, asOf).Scan(&debitTotal, &creditTotal); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(debitTotal), numericToDecimal(creditTotal), nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account    domain.Account
		accType    string
		parentCode *string
	)

	err := row.Scan(
		&account.ID,
		&account.Code,
		&account.Name,
		&accType,
		&parentCode,
		&account.Description,
		&account.Active,
		&account.CreatedBy,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	account.Type = domain.AccountType(accType)
	account.ParentCode = parentCode

	return &account, nil
}

func scanAccounts(rows pgx.Rows) ([]*domain.Account, error) {
	var accounts []*domain.Account

	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}
