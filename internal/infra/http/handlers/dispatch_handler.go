package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/etarang/garba-desk/internal/entity"
	custommiddleware "github.com/etarang/garba-desk/internal/infra/http/middleware"
)

type EmailDispatcher interface {
	Send(ctx context.Context, maxToSend int) (*entity.DispatchSummary, error)
}

type DispatchHandler struct {
	Dispatcher EmailDispatcher
}

func NewDispatchHandler(dispatcher EmailDispatcher) *DispatchHandler {
	return &DispatchHandler{Dispatcher: dispatcher}
}

type sendRequest struct {
	MaxEmails int `json:"maxEmails"`
}

// HandleSend serves POST /api/send-emails with body {"maxEmails": n}.
// An empty body sends to every pending entry.
func (h *DispatchHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	// A missing or empty body means "no cap"; malformed JSON is a client error.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	summary, err := h.Dispatcher.Send(r.Context(), req.MaxEmails)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	for i := 0; i < summary.Sent; i++ {
		custommiddleware.RecordEmail(entity.DispatchSuccess)
	}
	for i := 0; i < summary.Failed; i++ {
		custommiddleware.RecordEmail(entity.DispatchFailed)
	}

	respondJSON(w, http.StatusOK, summary)
}
