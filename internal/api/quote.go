package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/google/uuid"

	"github.com/tutu-network/reimburse/internal/app/reimburse"
	"github.com/tutu-network/reimburse/internal/domain"
	"github.com/tutu-network/reimburse/internal/infra/observability"
)

// ─── Quote API ──────────────────────────────────────────────────────────────
// GET  /v1/rates                 the constant table
// GET  /v1/reimbursement         ?days=&miles=&receipts=
// POST /v1/reimbursement         single trip body
// POST /v1/reimbursement/batch   array of trip bodies
//
// Input values go through the same coercion as the CLI: anything that does
// not parse yields a zero quote, not an HTTP error.

// tripRequest accepts each field as a JSON number or a JSON string.
type tripRequest struct {
	Days     json.RawMessage `json:"trip_duration_days"`
	Miles    json.RawMessage `json:"miles_traveled"`
	Receipts json.RawMessage `json:"total_receipts_amount"`
}

// quoteResponse is the wire form of a domain.Quote. JSON has no infinity,
// so a non-finite amount is sent as null with Formatted carrying "inf".
type quoteResponse struct {
	ID                 string      `json:"id"`
	Amount             *float64    `json:"amount"`
	Formatted          string      `json:"formatted"`
	Path               domain.Path `json:"path"`
	MegaTripMultiplier bool        `json:"mega_trip_multiplier"`
	LuckyCents         bool        `json:"lucky_cents"`
}

// handleRates returns the constant table.
// GET /v1/rates
func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.calc.Rates())
}

// handleQuoteQuery prices a trip from query parameters.
// GET /v1/reimbursement?days=3&miles=100&receipts=50
func (s *Server) handleQuoteQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, s.quote(q.Get("days"), q.Get("miles"), q.Get("receipts")))
}

// handleQuoteBody prices a trip from a JSON body.
// POST /v1/reimbursement
func (s *Server) handleQuoteBody(w http.ResponseWriter, r *http.Request) {
	var req tripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.quoteRequest(req))
}

// handleQuoteBatch prices many trips in one call.
// POST /v1/reimbursement/batch
func (s *Server) handleQuoteBatch(w http.ResponseWriter, r *http.Request) {
	var reqs []tripRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if len(reqs) > s.maxBatch {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("batch of %d exceeds limit of %d", len(reqs), s.maxBatch))
		return
	}

	out := make([]quoteResponse, len(reqs))
	for i, req := range reqs {
		out[i] = s.quoteRequest(req)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"quotes": out,
		"count":  len(out),
	})
}

func (s *Server) quoteRequest(req tripRequest) quoteResponse {
	return s.quote(rawValue(req.Days), rawValue(req.Miles), rawValue(req.Receipts))
}

func (s *Server) quote(days, miles, receipts string) quoteResponse {
	q := s.calc.Quote(days, miles, receipts)
	observability.RecordQuote(q)

	var amount *float64
	if !math.IsInf(q.Amount, 0) && !math.IsNaN(q.Amount) {
		amount = &q.Amount
	}
	return quoteResponse{
		ID:                 uuid.NewString(),
		Amount:             amount,
		Formatted:          reimburse.FormatAmount(q.Amount),
		Path:               q.Path,
		MegaTripMultiplier: q.MegaMultiplier,
		LuckyCents:         q.LuckyCents,
	}
}

// rawValue turns a JSON string into its contents and any other JSON value
// into its literal text. A missing field becomes "", which fails coercion.
func rawValue(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
		return ""
	}
	return string(raw)
}
