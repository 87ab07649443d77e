package importcsv

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/MrJamesThe3rd/ledgerql/internal/importer"
	"github.com/MrJamesThe3rd/ledgerql/internal/transaction"
)

const maxUploadSize = 10 << 20

type Handler struct {
	parser *importer.Parser
	txSvc  *transaction.Service
}

func NewHandler(parser *importer.Parser, txSvc *transaction.Service) *Handler {
	return &Handler{
		parser: parser,
		txSvc:  txSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type importResponse struct {
	Profile      string                     `json:"profile"`
	Charset      string                     `json:"charset"`
	DryRun       bool                       `json:"dryRun"`
	Imported     int                        `json:"imported"`
	Parsed       []transaction.Input        `json:"parsed,omitempty"`
	Transactions []*transaction.Transaction `json:"transactions,omitempty"`
}

// importCSV accepts a multipart "file" field. With ?dryRun=true the rows are
// parsed and validated but not stored. Rows are created one by one, so a
// failure part way leaves the earlier rows in place.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	dryRun, _ := strconv.ParseBool(r.URL.Query().Get("dryRun"))

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	res, err := h.parser.Parse(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	for i, in := range res.Inputs {
		if err := in.Validate(); err != nil {
			http.Error(w, fmt.Sprintf("row %d: %s", res.Line(i), err), http.StatusBadRequest)
			return
		}
	}

	resp := importResponse{
		Profile: res.Profile,
		Charset: res.Charset,
		DryRun:  dryRun,
	}

	if dryRun {
		resp.Parsed = res.Inputs
		writeJSON(w, r, http.StatusOK, resp)

		return
	}

	for _, in := range res.Inputs {
		tx, err := h.txSvc.Create(r.Context(), in)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, transaction.ErrInvalidInput) {
				status = http.StatusBadRequest
			}

			http.Error(w, err.Error(), status)

			return
		}

		resp.Transactions = append(resp.Transactions, tx)
	}

	resp.Imported = len(resp.Transactions)

	writeJSON(w, r, http.StatusCreated, resp)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}
