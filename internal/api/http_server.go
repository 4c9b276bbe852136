package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"recepce/internal/config"
	"recepce/internal/domain"
	"recepce/internal/metrics"

	"github.com/rs/zerolog"
)

// Exporter produces the xlsx booking report for the admin endpoint.
type Exporter interface {
	ExportToExcel(ctx context.Context, startDate, endDate time.Time) (string, error)
}

// HTTPServer exposes the voice-agent tool endpoints. Every tool answers
// 200 with a Czech sentence in `response`; the voice platform reads that
// sentence to the caller verbatim, so transport-level errors are reserved
// for malformed requests.
type HTTPServer struct {
	cfg      config.APIConfig
	engine   domain.Engine
	exporter Exporter
	limiter  *rateLimiter
	logger   zerolog.Logger
	server   *http.Server
}

func NewHTTPServer(cfg config.APIConfig, engine domain.Engine, exporter Exporter, logger zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{
		cfg:      cfg,
		engine:   engine,
		exporter: exporter,
		limiter:  newRateLimiter(cfg.RateLimit),
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/tools/check_availability", srv.handleCheckAvailability)
	mux.HandleFunc("/api/tools/book_appointment", srv.handleBookAppointment)
	mux.HandleFunc("/api/tools/cancel_booking", srv.handleCancelBooking)
	mux.HandleFunc("/api/tools/get_booking", srv.handleGetBooking)
	mux.HandleFunc("/api/admin/export", srv.handleExport)
	mux.HandleFunc("/healthz", srv.handleHealthz)

	handler := srv.loggingMiddleware(srv.rateLimitMiddleware(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the routed handler for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

type availabilityRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type bookingRequest struct {
	Date    string `json:"date"`
	Time    string `json:"time"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Service string `json:"service"`
}

type phoneRequest struct {
	Phone string `json:"phone"`
}

type exportRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (s *HTTPServer) handleCheckAvailability(w http.ResponseWriter, r *http.Request) {
	var body availabilityRequest
	if !decodeBody(w, r, &body) {
		return
	}

	metrics.IncTool("check_availability")
	response := s.engine.CheckAvailability(r.Context(), body.Date, body.Time)
	writeJSON(w, http.StatusOK, map[string]string{"response": response})
}

func (s *HTTPServer) handleBookAppointment(w http.ResponseWriter, r *http.Request) {
	var body bookingRequest
	if !decodeBody(w, r, &body) {
		return
	}

	metrics.IncTool("book_appointment")
	response := s.engine.BookAppointment(r.Context(), body.Date, body.Time, body.Name, body.Phone, body.Service)
	writeJSON(w, http.StatusOK, map[string]string{"response": response})
}

func (s *HTTPServer) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	var body phoneRequest
	if !decodeBody(w, r, &body) {
		return
	}

	metrics.IncTool("cancel_booking")
	response := s.engine.CancelBooking(r.Context(), body.Phone)
	writeJSON(w, http.StatusOK, map[string]string{"response": response})
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	var body phoneRequest
	if !decodeBody(w, r, &body) {
		return
	}

	metrics.IncTool("get_booking")
	booking, err := s.engine.GetBooking(r.Context(), body.Phone)
	if err != nil {
		writeError(w, http.StatusBadGateway, "booking lookup failed")
		return
	}
	if booking == nil {
		writeJSON(w, http.StatusOK, map[string]any{"found": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"found": true, "booking": booking})
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		writeError(w, http.StatusNotImplemented, "export is not configured")
		return
	}

	var body exportRequest
	if !decodeBody(w, r, &body) {
		return
	}

	from, err := time.Parse("2006-01-02", body.From)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from date; expected YYYY-MM-DD")
		return
	}
	to, err := time.Parse("2006-01-02", body.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to date; expected YYYY-MM-DD")
		return
	}

	path, err := s.exporter.ExportToExcel(r.Context(), from, to)
	if err != nil {
		s.logger.Error().Err(err).Msg("export failed")
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"path": path})
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (s *HTTPServer) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthz" && !s.limiter.allow(r) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
