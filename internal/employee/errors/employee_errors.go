package employeeerrors

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"employee with this email already exists",
		http.StatusConflict,
	)
	ErrEmployeeNumberAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"employee number already exists",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidManagerRef = apperror.New(
		apperror.CodeInvalidInput,
		"reporting manager does not exist",
		http.StatusBadRequest,
	)
	ErrOrphanLevel2Manager = apperror.New(
		apperror.CodeInvalidInput,
		"level2 reporting manager requires a level1 reporting manager",
		http.StatusBadRequest,
	)
	ErrInvalidDateOfJoining = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date_of_joining format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrUnsupportedFileFormat = apperror.New(
		apperror.CodeInvalidInput,
		"unsupported file format, upload CSV or XLSX files only",
		http.StatusBadRequest,
	)
	ErrEmptyImportFile = apperror.New(
		apperror.CodeInvalidInput,
		"import file contains no employee rows",
		http.StatusBadRequest,
	)
)
