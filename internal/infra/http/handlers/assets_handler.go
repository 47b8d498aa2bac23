package handlers

import (
	"context"
	"net/http"

	"github.com/etarang/garba-desk/internal/entity"
	custommiddleware "github.com/etarang/garba-desk/internal/infra/http/middleware"
)

type AssetGenerator interface {
	GenerateQR(ctx context.Context) (*entity.GenerationResult, error)
	GenerateTickets(ctx context.Context) (*entity.GenerationResult, error)
}

type AssetsHandler struct {
	Generator AssetGenerator
}

func NewAssetsHandler(generator AssetGenerator) *AssetsHandler {
	return &AssetsHandler{Generator: generator}
}

// HandleGenerateQR serves GET /api/generate-qr.
func (h *AssetsHandler) HandleGenerateQR(w http.ResponseWriter, r *http.Request) {
	result, err := h.Generator.GenerateQR(r.Context())
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	custommiddleware.RecordAssets("qr", result.Generated, result.Skipped)
	respondJSON(w, http.StatusOK, result)
}

// HandleGenerateTicket serves GET /api/generate-ticket.
func (h *AssetsHandler) HandleGenerateTicket(w http.ResponseWriter, r *http.Request) {
	result, err := h.Generator.GenerateTickets(r.Context())
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	custommiddleware.RecordAssets("ticket", result.Generated, result.Skipped)
	respondJSON(w, http.StatusOK, result)
}
