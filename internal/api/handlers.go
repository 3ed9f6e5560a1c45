package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"staybook/internal/availability"
	"staybook/internal/database"
	"staybook/internal/domain"
	"staybook/internal/models"
	"staybook/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const sessionHeader = "X-Session-ID"

// Handlers serves the property view endpoints.
type Handlers struct {
	properties   domain.PropertyProvider
	calc         *availability.Calculator
	bookings     domain.BookingService
	selections   domain.SelectionService
	calendarDays int
	readiness    func(ctx context.Context) error
	logger       *zerolog.Logger
}

type HandlersOption func(*Handlers)

// WithReadiness sets the probe behind /readyz.
func WithReadiness(check func(ctx context.Context) error) HandlersOption {
	return func(h *Handlers) { h.readiness = check }
}

func WithCalendarDays(days int) HandlersOption {
	return func(h *Handlers) {
		if days > 0 {
			h.calendarDays = days
		}
	}
}

func NewHandlers(
	properties domain.PropertyProvider,
	calc *availability.Calculator,
	bookings domain.BookingService,
	selections domain.SelectionService,
	logger *zerolog.Logger,
	opts ...HandlersOption,
) *Handlers {
	h := &Handlers{
		properties:   properties,
		calc:         calc,
		bookings:     bookings,
		selections:   selections,
		calendarDays: models.DefaultCalendarDays,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type selectionResponse struct {
	State  models.SelectionState `json:"state"`
	From   string                `json:"from,omitempty"`
	To     string                `json:"to,omitempty"`
	Nights int                   `json:"nights"`
}

func newSelectionResponse(sel models.DateRangeSelection) selectionResponse {
	resp := selectionResponse{State: sel.State(), Nights: availability.ComputeNights(sel)}
	if sel.From != nil {
		resp.From = sel.From.Format(models.DateLayout)
	}
	if sel.To != nil {
		resp.To = sel.To.Format(models.DateLayout)
	}
	return resp
}

type calendarDay struct {
	Date    string `json:"date"`
	Blocked bool   `json:"blocked"`
}

func (h *Handlers) ready(w http.ResponseWriter, r *http.Request) {
	if h.readiness != nil {
		if err := h.readiness(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Handlers) listProperties(w http.ResponseWriter, r *http.Request) {
	props, err := h.properties.ListProperties(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"properties": props})
}

func (h *Handlers) getProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyID(w, r)
	if !ok {
		return
	}
	p, err := h.properties.GetProperty(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) calendar(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyID(w, r)
	if !ok {
		return
	}

	from := h.calc.Today()
	if raw := strings.TrimSpace(r.URL.Query().Get("from")); raw != "" {
		d, err := models.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from; expected YYYY-MM-DD")
			return
		}
		from = d
	}

	days := h.calendarDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > models.MaxCalendarDays {
			writeError(w, http.StatusBadRequest, "days must be an integer between 1 and 366")
			return
		}
		days = n
	}

	p, err := h.properties.GetProperty(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	cells := h.calc.Calendar(from, days, p.Blackouts)
	out := make([]calendarDay, 0, len(cells))
	for _, c := range cells {
		out = append(out, calendarDay{Date: c.Date.Format(models.DateLayout), Blocked: c.Blocked})
	}
	writeJSON(w, http.StatusOK, map[string]any{"property_id": id, "days": out})
}

func (h *Handlers) quote(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyID(w, r)
	if !ok {
		return
	}
	sel, ok := selectionFromQuery(w, r)
	if !ok {
		return
	}

	price, err := h.bookings.Quote(r.Context(), id, sel)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"selection": newSelectionResponse(sel),
		"price":     price,
	})
}

// createBooking submits an explicit range. Only the submission checks run here:
// past days and blackouts are enforced when dates are picked, so interactive
// clients go through /selection and /selection/submit.
func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyID(w, r)
	if !ok {
		return
	}

	var body struct {
		CheckIn  string `json:"check_in"`
		CheckOut string `json:"check_out"`
		Guests   int    `json:"guests"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	var sel models.DateRangeSelection
	for _, f := range []struct {
		raw string
		dst **time.Time
	}{{body.CheckIn, &sel.From}, {body.CheckOut, &sel.To}} {
		if f.raw == "" {
			continue
		}
		d, err := models.ParseDate(f.raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
			return
		}
		*f.dst = &d
	}

	conf, err := h.bookings.SubmitBooking(r.Context(), id, sel, body.Guests)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, conf)
}

func (h *Handlers) getSelection(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyID(w, r)
	if !ok {
		return
	}
	sel, err := h.selections.GetSelection(r.Context(), sessionID(r), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSelectionResponse(sel))
}

func (h *Handlers) pickDate(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyID(w, r)
	if !ok {
		return
	}

	var body struct {
		Date string `json:"date"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	date, err := models.ParseDate(body.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	sel, err := h.selections.PickDate(r.Context(), sessionID(r), id, date)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSelectionResponse(sel))
}

func (h *Handlers) clearSelection(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyID(w, r)
	if !ok {
		return
	}
	if err := h.selections.ClearSelection(r.Context(), sessionID(r), id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) submitSelection(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyID(w, r)
	if !ok {
		return
	}

	var body struct {
		Guests int `json:"guests"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	conf, err := h.selections.SubmitSelection(r.Context(), sessionID(r), id, body.Guests)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, conf)
}

func (h *Handlers) writeServiceError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":  verr.Message,
			"reason": string(verr.Reason),
		})
	case errors.Is(err, database.ErrPropertyNotFound):
		writeError(w, http.StatusNotFound, "property not found")
	case errors.Is(err, service.ErrSubmissionPending):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrSessionRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "booking service timed out")
	default:
		h.logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func propertyID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "id must be a positive number")
		return 0, false
	}
	return id, true
}

func sessionID(r *http.Request) string {
	if s := strings.TrimSpace(r.Header.Get(sessionHeader)); s != "" {
		return s
	}
	return strings.TrimSpace(r.URL.Query().Get("session"))
}

// selectionFromQuery reads an optional from/to pair; either may be absent.
func selectionFromQuery(w http.ResponseWriter, r *http.Request) (models.DateRangeSelection, bool) {
	var sel models.DateRangeSelection
	q := r.URL.Query()
	if raw := strings.TrimSpace(q.Get("from")); raw != "" {
		d, err := models.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from; expected YYYY-MM-DD")
			return sel, false
		}
		sel.From = &d
	}
	if raw := strings.TrimSpace(q.Get("to")); raw != "" {
		d, err := models.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to; expected YYYY-MM-DD")
			return sel, false
		}
		sel.To = &d
	}
	return sel, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
