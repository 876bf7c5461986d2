// Package http provides HTTP handlers for saga inspection.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/blocodev/wallethub/internal/httputil"
	"github.com/blocodev/wallethub/internal/saga/usecase"
)

// SagaResponse represents the API response for a saga instance
type SagaResponse struct {
	CorrelationID string    `json:"correlation_id"`
	State         string    `json:"state"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SagaHandler handles saga inspection HTTP requests
type SagaHandler struct {
	machine *usecase.Machine
	logger  *slog.Logger
}

// NewSagaHandler creates a new SagaHandler
func NewSagaHandler(machine *usecase.Machine, logger *slog.Logger) *SagaHandler {
	return &SagaHandler{
		machine: machine,
		logger:  logger,
	}
}

// GetSaga handles retrieving a saga instance by correlation id
func (h *SagaHandler) GetSaga(c *gin.Context) {
	instance, err := h.machine.GetSaga(c.Request.Context(), c.Param("correlation_id"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, SagaResponse{
		CorrelationID: instance.CorrelationID,
		State:         string(instance.State),
		CreatedAt:     instance.CreatedAt,
		UpdatedAt:     instance.UpdatedAt,
	})
}
