package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"gemtrader/internal/domain"
	"gemtrader/pkg/logger"
)

// Response represents a standardized API response
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

// ErrorDetail is the machine-readable part of an error response
type ErrorDetail struct {
	Kind      domain.ErrorKind `json:"kind"`
	Entity    string           `json:"entity,omitempty"`
	Required  *int64           `json:"required,omitempty"`
	Available *int64           `json:"available,omitempty"`
}

// SuccessResponse sends a success response
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Status: "success",
		Data:   data,
	})
}

// SuccessMessageResponse sends a success response with a message
func SuccessMessageResponse(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// CreatedResponse sends a 201 Created response
func CreatedResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{
		Status: "success",
		Data:   data,
	})
}

// ErrorResponse sends an error response
func ErrorResponse(c echo.Context, statusCode int, message string, err interface{}) error {
	return c.JSON(statusCode, Response{
		Status:  "error",
		Message: message,
		Error:   err,
	})
}

// BadRequestResponse sends a 400 Bad Request response
func BadRequestResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusBadRequest, message, ErrorDetail{Kind: domain.KindValidation})
}

// InternalServerErrorResponse sends a 500 Internal Server Error response
func InternalServerErrorResponse(c echo.Context, message string, err error) error {
	logger.Error(c.Request().Context(), message, "error", err, "path", c.Path())
	return ErrorResponse(c, http.StatusInternalServerError, message, nil)
}

// DomainErrorResponse maps a service error onto its HTTP status
func DomainErrorResponse(c echo.Context, err error) error {
	var de *domain.Error
	if !errors.As(err, &de) {
		return InternalServerErrorResponse(c, "Internal server error", err)
	}

	detail := ErrorDetail{Kind: de.Kind, Entity: de.Entity}
	if de.Kind == domain.KindInsufficientFunds {
		detail.Required = &de.Required
		detail.Available = &de.Available
	}

	return ErrorResponse(c, statusForKind(de.Kind), de.Error(), detail)
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInsufficientFunds, domain.KindInsufficientAssetQuantity:
		return http.StatusUnprocessableEntity
	case domain.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
