package export

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/MrJamesThe3rd/ledgerql/internal/export"
	"github.com/MrJamesThe3rd/ledgerql/internal/method"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/transactions.csv", h.transactions)
}

// transactions writes the ledger as CSV, optionally narrowed by ?methodName=.
// The body is buffered so a lookup or store error can still set the status.
func (h *Handler) transactions(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer

	n, err := h.svc.WriteCSV(r.Context(), &buf, r.URL.Query().Get("methodName"))
	if err != nil {
		if errors.Is(err, method.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)

	if _, err := buf.WriteTo(w); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Int("rows", n).Msg("failed to write export")
	}
}
