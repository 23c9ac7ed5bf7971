package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"lottocheck/domain/entities"
	"lottocheck/domain/services"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

const (
	defaultSets     = 5
	maxRequestBytes = 4 << 10
)

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	if h.latest != nil {
		if id, ok := h.latest.Latest(); ok {
			resp.LatestDraw = id
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getOdds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toOddsResponse(services.ExactOdds()))
}

func (h *Handler) listCachedDraws(w http.ResponseWriter, r *http.Request) {
	ids := []int{}
	if h.cache != nil {
		ids = h.cache.DrawIDs()
	}
	writeJSON(w, http.StatusOK, map[string][]int{"cached": ids})
}

func (h *Handler) getLatestDraw(w http.ResponseWriter, r *http.Request) {
	h.writeDraw(w, r, entities.LatestDraw)
}

func (h *Handler) getDraw(w http.ResponseWriter, r *http.Request) {
	ref, err := entities.ParseDrawRef(chi.URLParam(r, "drawID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	h.writeDraw(w, r, ref)
}

func (h *Handler) writeDraw(w http.ResponseWriter, r *http.Request, ref entities.DrawRef) {
	draw, err := h.service.GetDraw(r.Context(), ref)
	if err != nil {
		writeDrawError(w, ref, err)
		return
	}
	writeJSON(w, http.StatusOK, newDrawResponse(draw))
}

func (h *Handler) checkTickets(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	sets := defaultSets
	if v := query.Get("sets"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("%w: sets must be an integer", entities.ErrInvalidTicketCount))
			return
		}
		sets = n
	}

	ref, err := entities.ParseDrawRef(query.Get("draw"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	report, err := h.service.CheckTickets(r.Context(), ref, sets)
	if err != nil {
		writeDrawError(w, ref, err)
		return
	}

	writeJSON(w, http.StatusOK, newCheckResponse(report))
}

func (h *Handler) classifyTicket(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := decodeJSON(io.LimitReader(r.Body, maxRequestBytes), &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	ticket, err := entities.NewTicket(req.Numbers)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ref, err := entities.ParseDrawRef(req.Draw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	draw, result, err := h.service.ClassifyTicket(r.Context(), ref, ticket)
	if err != nil {
		writeDrawError(w, ref, err)
		return
	}

	writeJSON(w, http.StatusOK, ClassifyResponse{
		Draw:   newDrawResponse(draw),
		Ticket: ticket.Numbers(),
		Result: newMatchResponse(result),
	})
}

// statusFor maps the error taxonomy onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, entities.ErrInvalidDrawID),
		errors.Is(err, entities.ErrInvalidTicket),
		errors.Is(err, entities.ErrInvalidTicketCount):
		return http.StatusBadRequest
	// An exhausted search wraps its last lookup failure and a timed-out
	// fetch also wraps ErrTransport, so both are matched first.
	case errors.Is(err, entities.ErrExhaustedSearch):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrTransport),
		errors.Is(err, entities.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeDrawError(w http.ResponseWriter, ref entities.DrawRef, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.WithError(err).WithField("draw", ref.String()).Error("Draw request failed")
	}
	writeError(w, status, err)
}

func decodeJSON(body io.Reader, dst any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON object")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{
		Error: err.Error(),
		Code:  strings.ReplaceAll(strings.ToLower(http.StatusText(status)), " ", "_"),
	})
}
