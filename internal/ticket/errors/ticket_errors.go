package ticketerrors

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	ErrTicketNotFound = apperror.New(
		apperror.CodeNotFound,
		"ticket not found",
		http.StatusNotFound,
	)
	ErrInvalidTicketID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid ticket id",
		http.StatusBadRequest,
	)
	ErrInvalidPriority = apperror.New(
		apperror.CodeInvalidInput,
		"priority must be one of High, Moderate, Low",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status must be one of pending, resolved, cantResolve, closed",
		http.StatusBadRequest,
	)
	ErrInvalidRaiser = apperror.New(
		apperror.CodeUnauthorized,
		"missing or invalid session identity",
		http.StatusUnauthorized,
	)
	ErrRecipientNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"ticket recipient does not exist",
		http.StatusBadRequest,
	)
	ErrTicketClosed = apperror.New(
		apperror.CodeInvalidState,
		"a closed ticket cannot change state",
		http.StatusBadRequest,
	)
)
