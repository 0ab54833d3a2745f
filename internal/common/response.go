package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func SendSuccess(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, data)
}

func SendCreated(c echo.Context, data any) error {
	return c.JSON(http.StatusCreated, data)
}

func SendError(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, ErrorResponse{Error: message})
}

// SendKindError is SendError with a machine-readable failure kind.
func SendKindError(c echo.Context, statusCode int, kind, message string) error {
	return c.JSON(statusCode, ErrorResponse{Error: message, Kind: kind})
}

func SendBadRequest(c echo.Context, message string) error {
	return SendError(c, http.StatusBadRequest, message)
}

func SendUnauthorized(c echo.Context, message string) error {
	return SendError(c, http.StatusUnauthorized, message)
}

func SendForbidden(c echo.Context, message string) error {
	return SendError(c, http.StatusForbidden, message)
}

func SendInternalError(c echo.Context, message string) error {
	return SendError(c, http.StatusInternalServerError, message)
}
