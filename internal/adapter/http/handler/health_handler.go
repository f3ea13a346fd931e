package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// AccessChecker проверка доступности удалённого сервиса
type AccessChecker interface {
	CheckAccess(ctx context.Context) error
}

// HealthHandler обработчик health check запросов
type HealthHandler struct {
	earthEngine AccessChecker
}

// NewHealthHandler создаёт новый HealthHandler.
// earthEngine может быть nil, тогда проверяется только сам сервис.
func NewHealthHandler(earthEngine AccessChecker) *HealthHandler {
	return &HealthHandler{earthEngine: earthEngine}
}

// HealthResponse ответ health check
type HealthResponse struct {
	Status      string `json:"status"`
	EarthEngine string `json:"earth_engine,omitempty"`
}

// Check проверяет состояние сервиса
// GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	code := http.StatusOK

	if h.earthEngine != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		resp.EarthEngine = "ok"
		if err := h.earthEngine.CheckAccess(ctx); err != nil {
			resp.Status = "degraded"
			resp.EarthEngine = err.Error()
			code = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(resp)
}
