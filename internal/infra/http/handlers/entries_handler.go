package handlers

import (
	"context"
	"net/http"
	"strconv"

	custommiddleware "github.com/etarang/garba-desk/internal/infra/http/middleware"
	"github.com/etarang/garba-desk/internal/usecase"
)

type EntryLister interface {
	List(ctx context.Context, input usecase.ListEntriesInput) (*usecase.ListEntriesOutput, error)
	RefreshCache() string
}

type IDAssigner interface {
	AssignMissing(ctx context.Context) (int, error)
}

type EntriesHandler struct {
	Lister   EntryLister
	Assigner IDAssigner
}

func NewEntriesHandler(lister EntryLister, assigner IDAssigner) *EntriesHandler {
	return &EntriesHandler{Lister: lister, Assigner: assigner}
}

// HandleList serves GET /api/entries?page&pageSize&revalidate.
func (h *EntriesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))

	out, err := h.Lister.List(r.Context(), usecase.ListEntriesInput{
		Page:       page,
		PageSize:   pageSize,
		Revalidate: q.Get("revalidate") == "true",
	})
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	custommiddleware.RecordCacheLookup(out.Cache)
	respondJSON(w, http.StatusOK, out)
}

// HandleRefresh serves POST /api/entries/refresh.
func (h *EntriesHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	cleared := h.Lister.RefreshCache()

	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "cleared": cleared})
}

// HandleGenerateIDs serves POST /api/entries/generate-ids.
func (h *EntriesHandler) HandleGenerateIDs(w http.ResponseWriter, r *http.Request) {
	count, err := h.Assigner.AssignMissing(r.Context())
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	custommiddleware.RecordUniqueIDs(count)
	respondJSON(w, http.StatusOK, map[string]int{"updatedCount": count})
}
