package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/clusterlens/api/config"
	"github.com/clusterlens/api/domain"
	"github.com/clusterlens/api/pkg/logger"
)

// ErrorResponse represents error response structure
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// SuccessResponse represents the success response structure
type SuccessResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// DataResponse wraps an enriched record or record array.
type DataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type Params struct {
	Svc    domain.Console
	Config *config.ConsoleConfig
}

func NewHandler(params Params) (*Handler, error) {
	return &Handler{
		Svc:    params.Svc,
		Config: params.Config,
	}, nil
}

type Handler struct {
	Svc    domain.Console
	Config *config.ConsoleConfig
}

func (h *Handler) JSONResponse(ctx context.Context, w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		logger.Logger(ctx).Error().Err(err).Msg("Failed to encode JSON response")
		http.Error(w, "Failed to encode JSON response", http.StatusInternalServerError)
	}
}

func (h *Handler) JSONBind(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	return decoder.Decode(dst)
}

func (h *Handler) ErrorResponse(ctx context.Context, w http.ResponseWriter, status int, errMsg string) {
	resp := ErrorResponse{
		Success: false,
		Error:   errMsg,
	}
	h.JSONResponse(ctx, w, status, resp)
}

func (h *Handler) SuccessResponse(ctx context.Context, w http.ResponseWriter, message string) {
	resp := SuccessResponse{
		Success:   true,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	h.JSONResponse(ctx, w, http.StatusOK, resp)
}

func (h *Handler) Data(ctx context.Context, w http.ResponseWriter, data any) {
	h.JSONResponse(ctx, w, http.StatusOK, DataResponse{Success: true, Data: data})
}

// HandleError maps domain failures onto HTTP statuses. A missing resource
// stays distinguishable from an unreachable control plane.
func (h *Handler) HandleError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case domain.IsNotFound(err):
		h.ErrorResponse(ctx, w, http.StatusNotFound, err.Error())
	case domain.IsClusterUnreachable(err):
		h.ErrorResponse(ctx, w, http.StatusBadGateway, err.Error())
	default:
		h.ErrorResponse(ctx, w, http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "Cluster Console API",
	}
	h.JSONResponse(r.Context(), w, http.StatusOK, response)
}
