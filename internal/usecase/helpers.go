package usecase

import (
	"errors"

	"github.com/iho/bookkeeper/internal/domain"
)

// errorLabel buckets domain errors for metric labels.
func errorLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnbalanced):
		return "unbalanced"
	case errors.Is(err, domain.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, domain.ErrTransactionNotFound):
		return "not_found"
	default:
		return "other"
	}
}
