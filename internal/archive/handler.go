package archive

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/szmslab/quickzip/internal/common"
	"github.com/szmslab/quickzip/internal/logging"
	"github.com/szmslab/quickzip/internal/validation"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Compress(c echo.Context) error {
	var req CompressRequest
	if err := c.Bind(&req); err != nil {
		return common.SendBadRequest(c, "Invalid request format")
	}

	if wantsStream(c) {
		writer := startEventStream(c)
		result, err := h.service.CreateArchive(c.Request().Context(), req, writer)
		return finishEventStream(c, writer, result, err)
	}

	result, err := h.service.CreateArchive(c.Request().Context(), req, nil)
	if err != nil {
		return sendArchiveError(c, err)
	}
	c.Set(logging.OperationIDContextKey, result.OperationID)
	return common.SendCreated(c, result)
}

func (h *Handler) Extract(c echo.Context) error {
	var req ExtractRequest
	if err := c.Bind(&req); err != nil {
		return common.SendBadRequest(c, "Invalid request format")
	}

	if wantsStream(c) {
		writer := startEventStream(c)
		result, err := h.service.ExtractArchive(c.Request().Context(), req, writer)
		return finishEventStream(c, writer, result, err)
	}

	result, err := h.service.ExtractArchive(c.Request().Context(), req, nil)
	if err != nil {
		return sendArchiveError(c, err)
	}
	c.Set(logging.OperationIDContextKey, result.OperationID)
	return common.SendSuccess(c, result)
}

func (h *Handler) List(c echo.Context) error {
	var req ListRequest
	if err := c.Bind(&req); err != nil {
		return common.SendBadRequest(c, "Invalid request format")
	}

	result, err := h.service.ListArchive(c.Request().Context(), req)
	if err != nil {
		return sendArchiveError(c, err)
	}
	c.Set(logging.OperationIDContextKey, result.OperationID)
	return common.SendSuccess(c, result)
}

func wantsStream(c echo.Context) bool {
	return c.QueryParam("stream") == "true"
}

func startEventStream(c echo.Context) *EventStreamWriter {
	c.Response().Header().Set("Content-Type", "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().Header().Del("Content-Length")

	c.Response().WriteHeader(http.StatusOK)
	c.Response().Flush()

	return NewEventStreamWriter(c.Response())
}

// finishEventStream ends a stream. Failures have already been sent as error
// events by the service, so the handler itself always succeeds.
func finishEventStream(c echo.Context, writer *EventStreamWriter, result *Result, err error) error {
	if err != nil {
		return nil
	}
	c.Set(logging.OperationIDContextKey, result.OperationID)
	if data, merr := json.Marshal(result); merr == nil {
		writer.WriteMessage(StreamTypeResult, string(data))
	}
	return nil
}

// StatusFor maps an archive service error to its HTTP status and failure kind.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, validation.ErrEmptyPath),
		errors.Is(err, validation.ErrInvalidCharacters):
		return http.StatusBadRequest, "validation"
	case errors.Is(err, validation.ErrPathTraversal):
		return http.StatusForbidden, "path"
	case errors.Is(err, ErrFormat):
		return http.StatusUnprocessableEntity, KindFormat.String()
	case errors.Is(err, ErrIO):
		return http.StatusInternalServerError, KindIO.String()
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func sendArchiveError(c echo.Context, err error) error {
	status, kind := StatusFor(err)
	return common.SendKindError(c, status, kind, err.Error())
}
