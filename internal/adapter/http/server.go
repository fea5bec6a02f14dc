// Package http is the thin wire layer over the lookup service: it translates
// the four service operations into JSON responses and status codes, and
// exposes the usual health, readiness, and metrics endpoints. No lookup
// logic lives here.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cascadiahydro/watershed-lookup/internal/service"
)

// LookupService is the full contract the front end relies on.
type LookupService interface {
	LookupWatershed(ctx context.Context, address string) (*service.LookupResult, error)
	LookupWatershedWithValidation(ctx context.Context, rawAddress string) *service.ValidationLookupResult
	ValidateAndSuggestAddress(ctx context.Context, address string) *service.ValidationResult
	ParseAddressInput(raw string) string
	CheckReadiness(ctx context.Context) error
	DatasetStatus() (loaded bool, polygons int)
}

// Server exposes the lookup API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	svc        LookupService
	logger     *slog.Logger
}

// NewServer creates the HTTP server.
func NewServer(addr string, svc LookupService, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 45 * time.Second, // lookups may wait on the geocoder chain
			IdleTimeout:  60 * time.Second,
		},
		svc:    svc,
		logger: logger,
	}

	// Method-restricted registrations; requireMethod mirrors the Go 1.22+
	// ServeMux "METHOD /path" pattern behavior on older toolchains.
	mux.Handle("/api/lookup", requireMethod(http.MethodPost, http.HandlerFunc(s.handleLookup)))
	mux.Handle("/api/lookup-with-validation", requireMethod(http.MethodPost, http.HandlerFunc(s.handleLookupWithValidation)))
	mux.Handle("/api/validate-address", requireMethod(http.MethodPost, http.HandlerFunc(s.handleValidateAddress)))
	mux.Handle("/api/health", requireMethod(http.MethodGet, http.HandlerFunc(s.handleHealth)))

	mux.Handle("/healthz", requireMethod(http.MethodGet, http.HandlerFunc(s.handleHealthz)))
	mux.Handle("/readyz", requireMethod(http.MethodGet, http.HandlerFunc(s.handleReadyz)))
	mux.Handle("/metrics", requireMethod(http.MethodGet, promhttp.Handler()))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type addressRequest struct {
	Address string `json:"address"`
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	address, ok := s.readAddress(w, r)
	if !ok {
		return
	}

	result, err := s.svc.LookupWatershed(r.Context(), s.svc.ParseAddressInput(address))
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "Watershed service unavailable",
			"message": "The watershed dataset is not loaded.",
		})
		return
	}
	if result == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error":   "Watershed not found",
			"message": "No watershed information found for this address. It may be outside the Cascadia bioregion or the address could not be geocoded.",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    result,
	})
}

func (s *Server) handleLookupWithValidation(w http.ResponseWriter, r *http.Request) {
	address, ok := s.readAddress(w, r)
	if !ok {
		return
	}

	result := s.svc.LookupWatershedWithValidation(r.Context(), address)
	switch result.State {
	case service.StateUnavailable:
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "Watershed service unavailable",
			"message": "The watershed dataset is not loaded.",
		})
	case service.StateSuggestionsFound:
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"success":          false,
			"validation_error": true,
			"data":             result,
			"message":          "Address could not be validated. Please try one of the suggested addresses.",
		})
	case service.StateNoMatch, service.StateOutOfCoverage:
		writeJSON(w, http.StatusNotFound, map[string]any{
			"success": false,
			"data":    result,
			"message": "Address could not be geocoded or is outside the Cascadia bioregion.",
		})
	default:
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    result,
		})
	}
}

func (s *Server) handleValidateAddress(w http.ResponseWriter, r *http.Request) {
	address, ok := s.readAddress(w, r)
	if !ok {
		return
	}

	parsed := s.svc.ParseAddressInput(address)
	result := s.svc.ValidateAndSuggestAddress(r.Context(), address)

	payload := map[string]any{
		"input_address":  address,
		"parsed_address": parsed,
		"validation":     result,
	}
	if result.IsValid {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": payload})
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"success": false,
		"data":    payload,
		"message": "Address validation failed. Check suggestions for alternatives.",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	loaded, polygons := s.svc.DatasetStatus()
	status := "unavailable"
	if loaded {
		status = "available"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "healthy",
		"service":  status,
		"polygons": polygons,
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.svc.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// readAddress decodes the request body and rejects missing or blank
// addresses with a 400.
func (s *Server) readAddress(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req addressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "Invalid request",
			"message": "Please provide an address in the request body",
		})
		return "", false
	}
	if isBlank(req.Address) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "Empty address",
			"message": "Please provide a valid street address",
		})
		return "", false
	}
	return req.Address, true
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

// requireMethod rejects requests whose method does not match, replicating the
// 405 (with Allow header) that the Go 1.22+ ServeMux method patterns produce.
func requireMethod(method string, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		h.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response body
}
