package settingserrors

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	ErrAnnouncementNotFound = apperror.New(
		apperror.CodeNotFound,
		"announcement not found",
		http.StatusNotFound,
	)
	ErrHolidayNotFound = apperror.New(
		apperror.CodeNotFound,
		"holiday not found",
		http.StatusNotFound,
	)
	ErrInvalidWeekOffDay = apperror.New(
		apperror.CodeInvalidInput,
		"invalid week-off day name",
		http.StatusBadRequest,
	)
	ErrInvalidWorkHours = apperror.New(
		apperror.CodeInvalidInput,
		"work hours must be HH:MM and end after start",
		http.StatusBadRequest,
	)
	ErrInvalidCoordinates = apperror.New(
		apperror.CodeInvalidInput,
		"latitude must be in [-90,90] and longitude in [-180,180]",
		http.StatusBadRequest,
	)
	ErrInvalidLocationRange = apperror.New(
		apperror.CodeInvalidInput,
		"location range must be a positive number of meters",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
)
