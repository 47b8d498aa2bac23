package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/etarang/garba-desk/internal/config"
)

type HealthHandler struct {
	Cfg       *config.Config
	DB        *sql.DB
	RabbitMQ  *amqp091.Connection
	StartTime time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(cfg *config.Config, db *sql.DB, rabbitMQ *amqp091.Connection) *HealthHandler {
	return &HealthHandler{
		Cfg:       cfg,
		DB:        db,
		RabbitMQ:  rabbitMQ,
		StartTime: time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)

	switch {
	case h.Cfg.UseMock || h.Cfg.StoreBackend == "mock":
		deps["store"] = "mock dataset"
	case h.Cfg.StoreBackend == "xlsx":
		deps["store"] = "xlsx: " + h.Cfg.XLSXPath
	case h.Cfg.SheetsReady():
		deps["store"] = "configured"
	default:
		deps["store"] = "not configured"
	}

	if h.DB != nil {
		if err := h.DB.Ping(); err != nil {
			deps["mirror"] = fmt.Sprintf("unhealthy: %v", err)
		} else {
			deps["mirror"] = "healthy"
		}
	} else {
		deps["mirror"] = "not configured"
	}

	if h.RabbitMQ != nil {
		if h.RabbitMQ.IsClosed() {
			deps["rabbitmq"] = "unhealthy: connection closed"
		} else {
			deps["rabbitmq"] = "healthy"
		}
	} else {
		deps["rabbitmq"] = "not configured"
	}

	if h.Cfg.ValidateMail() == nil {
		deps["smtp"] = "configured"
	} else {
		deps["smtp"] = "not configured"
	}

	status := "healthy"
	for _, v := range deps {
		if strings.HasPrefix(v, "unhealthy") {
			status = "degraded"
			break
		}
	}

	response := HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	}

	if status == "degraded" {
		respondJSON(w, http.StatusServiceUnavailable, response)
		return
	}
	respondJSON(w, http.StatusOK, response)
}
