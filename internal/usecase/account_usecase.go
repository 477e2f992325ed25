package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/infrastructure/metrics"
)

// AccountUseCase owns the chart of accounts: creation, parent validation,
// deactivation and derived balances.
type AccountUseCase struct {
	accountRepo AccountRepository
	auditRepo   AuditRepository
	cache       Cache
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase. auditRepo, cache and
// metrics are optional.
func NewAccountUseCase(
	accountRepo AccountRepository,
	auditRepo AuditRepository,
	cache Cache,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
		cache:       cache,
		idGen:       idGen,
		metrics:     metrics,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Code        string
	Name        string
	Type        domain.AccountType
	ParentCode  *string
	Description string
}

// CreateAccount creates a new account in the chart of accounts.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	now := time.Now().UTC()

	account := &domain.Account{
		ID:          uc.idGen.Generate(),
		Code:        input.Code,
		Name:        input.Name,
		Type:        input.Type,
		ParentCode:  input.ParentCode,
		Description: input.Description,
		Active:      true,
		CreatedBy:   actorID(ctx),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	if _, err := uc.accountRepo.GetByCode(ctx, input.Code); err == nil {
		return nil, domain.ErrDuplicateCode
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	if input.ParentCode != nil {
		if err := uc.validateParent(ctx, input.Code, *input.ParentCode); err != nil {
			return nil, err
		}
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	uc.audit(ctx, domain.AuditActionAccountCreate, account.ID, nil, domain.MarshalState(account))

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}

	return account, nil
}

// UpdateAccountInput represents input for updating an account.
type UpdateAccountInput struct {
	Name        *string
	Description *string
	ParentCode  *string
}

// UpdateAccount updates mutable account fields. Changing the parent
// re-runs cycle detection against the existing tree.
func (uc *AccountUseCase) UpdateAccount(ctx context.Context, code string, input UpdateAccountInput) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	before := domain.MarshalState(account)

	if input.Name != nil {
		if err := domain.ValidateAccountName(*input.Name); err != nil {
			return nil, err
		}

		account.Name = *input.Name
	}

	if input.Description != nil {
		account.Description = *input.Description
	}

	if input.ParentCode != nil {
		if err := uc.validateParent(ctx, code, *input.ParentCode); err != nil {
			return nil, err
		}

		account.ParentCode = input.ParentCode
	}

	account.UpdatedAt = time.Now().UTC()

	if err := uc.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	uc.audit(ctx, domain.AuditActionAccountUpdate, account.ID, before, domain.MarshalState(account))

	return account, nil
}

// DeactivateAccount marks an account inactive. Historical entries and
// balance computation are unaffected; the account simply stops accepting
// a role in new structures. This is the retirement path for accounts
// that already took part in a transaction.
func (uc *AccountUseCase) DeactivateAccount(ctx context.Context, code string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if !account.Active {
		return account, nil
	}

	before := domain.MarshalState(account)

	account.Active = false
	account.UpdatedAt = time.Now().UTC()

	if err := uc.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	uc.audit(ctx, domain.AuditActionAccountDeactivate, account.ID, before, domain.MarshalState(account))

	return account, nil
}

// DeleteAccount removes an account that no entry or child account
// references. Referenced accounts are protected; deactivate them instead.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, code string) error {
	account, err := uc.accountRepo.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	if err := uc.accountRepo.Delete(ctx, code); err != nil {
		return err
	}

	uc.audit(ctx, domain.AuditActionAccountDelete, account.ID, domain.MarshalState(account), nil)

	return nil
}

// GetAccount retrieves an account by code.
func (uc *AccountUseCase) GetAccount(ctx context.Context, code string) (*domain.Account, error) {
	return uc.accountRepo.GetByCode(ctx, code)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts ordered by code.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	if input.Limit <= 0 {
		input.Limit = 50
	}

	if input.Limit > 500 {
		input.Limit = 500
	}

	return uc.accountRepo.List(ctx, input.Limit, input.Offset)
}

// ListAccountsByType lists accounts of one type ordered by code.
func (uc *AccountUseCase) ListAccountsByType(ctx context.Context, accountType domain.AccountType) ([]*domain.Account, error) {
	if !accountType.IsValid() {
		return nil, domain.ErrInvalidAccountType
	}

	return uc.accountRepo.ListByType(ctx, accountType)
}

// GetBalance derives the signed balance of an account from posted entries
// only. Draft, pending and cancelled entries never count. Current balances
// (asOf nil) are served through the cache when one is configured.
func (uc *AccountUseCase) GetBalance(ctx context.Context, code string, asOf *time.Time) (decimal.Decimal, error) {
	account, err := uc.accountRepo.GetByCode(ctx, code)
	if err != nil {
		return decimal.Zero, err
	}

	if asOf == nil && uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, balanceCacheKey(code)); err == nil {
			if balance, err := decimal.NewFromString(cached); err == nil {
				return balance, nil
			}
		}
	}

	start := time.Now()

	debitTotal, creditTotal, err := uc.accountRepo.SumPostedEntries(ctx, code, asOf)
	if err != nil {
		return decimal.Zero, err
	}

	balance := domain.SignedBalance(account.Type, debitTotal, creditTotal)

	if uc.metrics != nil {
		uc.metrics.BalanceQueryDuration.Observe(time.Since(start).Seconds())
	}

	if asOf == nil && uc.cache != nil {
		_ = uc.cache.Set(ctx, balanceCacheKey(code), balance.String(), BalanceCacheTTL)
	}

	return balance, nil
}

// validateParent rejects inactive, missing, self and cycle-forming parent
// references by walking the ancestor chain with a visited set.
func (uc *AccountUseCase) validateParent(ctx context.Context, code, parentCode string) error {
	if parentCode == code {
		return &domain.InvalidParentError{Code: code, ParentCode: parentCode, Reason: "account cannot be its own parent"}
	}

	parent, err := uc.accountRepo.GetByCode(ctx, parentCode)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return &domain.InvalidParentError{Code: code, ParentCode: parentCode, Reason: "parent account does not exist"}
		}

		return err
	}

	if !parent.Active {
		return &domain.InvalidParentError{Code: code, ParentCode: parentCode, Reason: "parent account is inactive"}
	}

	visited := map[string]bool{code: true}

	current := parent
	for depth := 0; depth < MaxParentDepth; depth++ {
		if visited[current.Code] {
			return &domain.InvalidParentError{Code: code, ParentCode: parentCode, Reason: "parent chain forms a cycle"}
		}

		visited[current.Code] = true

		if current.ParentCode == nil {
			return nil
		}

		next, err := uc.accountRepo.GetByCode(ctx, *current.ParentCode)
		if err != nil {
			return err
		}

		current = next
	}

	return &domain.InvalidParentError{Code: code, ParentCode: parentCode, Reason: "parent chain exceeds maximum depth"}
}

func (uc *AccountUseCase) audit(ctx context.Context, action domain.AuditAction, resourceID string, before, after domain.JSON) {
	if uc.auditRepo == nil {
		return
	}

	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       actorID(ctx),
		Action:       string(action),
		ResourceType: domain.AggregateTypeAccount,
		ResourceID:   resourceID,
		BeforeState:  before,
		AfterState:   after,
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	})
}

func balanceCacheKey(code string) string {
	return "balance:" + code
}

func actorID(ctx context.Context) string {
	if user, ok := domain.UserFromContext(ctx); ok {
		return user.ID
	}

	return "system"
}
