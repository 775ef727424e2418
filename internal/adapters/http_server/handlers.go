package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/UmairArshadShk/ExpediaIntegration/internal/app"
	"github.com/UmairArshadShk/ExpediaIntegration/internal/domain"
)

type Handlers struct{ Imports *app.ImportService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/imports/{type}", h.runImport)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func bookingType(s string) (domain.BookingType, bool) {
	switch domain.BookingType(s) {
	case domain.BookingTypeHotel:
		return domain.BookingTypeHotel, true
	case domain.BookingTypeCar:
		return domain.BookingTypeCar, true
	}
	return "", false
}

// runImport triggers one import run. With debug=true in the body this is the
// preview mode: records are constructed and returned but nothing persists.
func (h *Handlers) runImport(w http.ResponseWriter, r *http.Request) {
	kind, ok := bookingType(chi.URLParam(r, "type"))
	if !ok {
		writeProblem(w, http.StatusNotFound, "Unknown booking type", "supported types: hotel, car")
		return
	}

	var req app.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "body must be a JSON import request")
		return
	}
	req.BookingType = kind
	if req.TripID == "" {
		writeProblem(w, http.StatusBadRequest, "Missing tripID", "tripID is required")
		return
	}
	if req.ItineraryID == "" {
		writeProblem(w, http.StatusBadRequest, "Missing itineraryID", "itineraryID is required")
		return
	}

	res := h.Imports.Run(r.Context(), req)

	status := http.StatusOK
	if res.Generation == "" && len(res.Diagnostics) > 0 {
		// settings blocked the run before any fetch
		status = http.StatusUnprocessableEntity
	} else if len(res.Sectors) == 0 && len(res.Diagnostics) > 0 {
		status = http.StatusBadGateway
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.Error().Err(err).Msg("failed to write import response")
	}
}
