package service

import (
	"context"
	"errors"

	"github.com/Taqey/Foodo-sub000/internal/domain"
)

type Code string

const (
	CodeNotFound          Code = "not_found"
	CodeValidation        Code = "validation_failure"
	CodeInvalidTransition Code = "invalid_transition"
	CodeTransaction       Code = "transaction_failure"
)

// Result is what every order operation returns. Errors never cross the
// service boundary.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    Code   `json:"code,omitempty"`
	OrderID int64  `json:"order_id,omitempty"`
}

func ok(orderID int64, msg string) Result {
	return Result{Success: true, Message: msg, OrderID: orderID}
}

func codeOf(err error) Code {
	switch {
	case errors.Is(err, domain.ErrInvalidTransition):
		return CodeInvalidTransition
	case errors.Is(err, domain.ErrNotFound):
		return CodeNotFound
	case errors.Is(err, domain.ErrValidation):
		return CodeValidation
	default:
		return CodeTransaction
	}
}

func messageOf(code Code, err error) string {
	switch {
	case code != CodeTransaction:
		return err.Error()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "request cancelled, no changes were saved"
	default:
		return "could not complete the operation, no changes were saved"
	}
}
