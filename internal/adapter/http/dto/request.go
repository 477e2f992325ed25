package dto

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

var validate = validator.New()

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Code        string  `json:"code"        validate:"required,max=20"`
	Name        string  `json:"name"        validate:"required,max=255"`
	Type        string  `json:"type"        validate:"required,oneof=asset liability equity revenue expense"`
	ParentCode  *string `json:"parent_code,omitempty" validate:"omitempty,max=20"`
	Description string  `json:"description,omitempty"`
}

// Validate validates the request.
func (r *CreateAccountRequest) Validate() error {
	return validate.Struct(r)
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Code:        r.Code,
		Name:        r.Name,
		Type:        domain.AccountType(r.Type),
		ParentCode:  r.ParentCode,
		Description: r.Description,
	}
}

// UpdateAccountRequest represents a request to update an account. Absent
// fields are left unchanged.
type UpdateAccountRequest struct {
	Name        *string `json:"name,omitempty"        validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty"`
	ParentCode  *string `json:"parent_code,omitempty" validate:"omitempty,max=20"`
}

// Validate validates the request.
func (r *UpdateAccountRequest) Validate() error {
	return validate.Struct(r)
}

// ToUseCaseInput converts to use case input.
func (r *UpdateAccountRequest) ToUseCaseInput() usecase.UpdateAccountInput {
	return usecase.UpdateAccountInput{
		Name:        r.Name,
		Description: r.Description,
		ParentCode:  r.ParentCode,
	}
}

// EntryRequest represents one entry line of a transaction.
type EntryRequest struct {
	AccountCode string          `json:"account_code" validate:"required,max=20"`
	Type        string          `json:"type"         validate:"required,oneof=debit credit"`
	Amount      decimal.Decimal `json:"amount"       validate:"required"`
	Description string          `json:"description,omitempty"`
}

// CreateTransactionRequest represents a request to create a transaction.
type CreateTransactionRequest struct {
	Reference   string          `json:"reference"    validate:"required,max=50"`
	Date        time.Time       `json:"date"         validate:"required"`
	Description string          `json:"description,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount,omitempty"`
	Entries     []EntryRequest  `json:"entries,omitempty" validate:"dive"`
}

// Validate validates the request.
func (r *CreateTransactionRequest) Validate() error {
	return validate.Struct(r)
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput() usecase.CreateTransactionInput {
	return usecase.CreateTransactionInput{
		Reference:   r.Reference,
		Date:        r.Date,
		Description: r.Description,
		TotalAmount: r.TotalAmount,
		Entries:     entriesToUseCaseInput(r.Entries),
	}
}

// ReplaceEntriesRequest represents a request to replace the entry set of a
// transaction.
type ReplaceEntriesRequest struct {
	Entries []EntryRequest `json:"entries" validate:"required,dive"`
}

// Validate validates the request.
func (r *ReplaceEntriesRequest) Validate() error {
	return validate.Struct(r)
}

// ToUseCaseInput converts to use case input.
func (r *ReplaceEntriesRequest) ToUseCaseInput() []usecase.EntryInput {
	return entriesToUseCaseInput(r.Entries)
}

func entriesToUseCaseInput(entries []EntryRequest) []usecase.EntryInput {
	inputs := make([]usecase.EntryInput, len(entries))
	for i, e := range entries {
		inputs[i] = usecase.EntryInput{
			AccountCode: e.AccountCode,
			Type:        domain.EntryType(e.Type),
			Amount:      e.Amount,
			Description: e.Description,
		}
	}
	return inputs
}
