package health

import (
	"net/http"

	"github.com/szmslab/quickzip/internal/archive"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(NewHandler),
)

type Response struct {
	Status       string   `json:"status"`
	Compressions []string `json:"compressions"`
	Encryptions  []string `json:"encryptions"`
}

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Health reports liveness together with the settings the server accepts.
func (h *Handler) Health(c echo.Context) error {
	resp := Response{Status: "healthy"}
	for _, level := range archive.CompressionLevels() {
		resp.Compressions = append(resp.Compressions, level.String())
	}
	for _, method := range archive.EncryptionMethods() {
		resp.Encryptions = append(resp.Encryptions, method.String())
	}
	return c.JSON(http.StatusOK, resp)
}
