// File: internal/infra/web/server.go
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"ftth-billing/internal/domain"
	"ftth-billing/internal/infra/metrics"
	"ftth-billing/internal/infra/sched"
	"ftth-billing/internal/usecase"
)

// Server hosts the operational surface: health, metrics, admin stats,
// manual job triggers, and the payment gateway webhook.
type Server struct {
	statsUC      usecase.StatsUseCase
	paymentUC    usecase.PaymentUseCase
	cron         *sched.BillingCron
	jobs         map[string]sched.JobFunc
	apiKey       string
	webhookToken string
	log          *zerolog.Logger
}

func NewServer(
	statsUC usecase.StatsUseCase,
	paymentUC usecase.PaymentUseCase,
	cron *sched.BillingCron,
	jobs map[string]sched.JobFunc,
	apiKey, webhookToken string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		statsUC:      statsUC,
		paymentUC:    paymentUC,
		cron:         cron,
		jobs:         jobs,
		apiKey:       apiKey,
		webhookToken: webhookToken,
		log:          logger,
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/webhook/gateway", s.webhookHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/stats", s.statsHandler)
		r.Post("/jobs/{name}/run", s.runJobHandler)
	})

	return Chain(r, TraceID(), RequestLog(s.log), Recover(s.log), Timeout(30*time.Second))
}

// authMiddleware provides simple Bearer token authentication for the admin API.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("Admin API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			http.Error(w, "Unauthorized: Malformed token", http.StatusUnauthorized)
			return
		}

		if tokenParts[1] != s.apiKey {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.statsUC.Snapshot(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("stats snapshot failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) runJobHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	fn, ok := s.jobs[name]
	if !ok {
		http.Error(w, "unknown job", http.StatusNotFound)
		return
	}
	s.cron.RunNow(name, fn)
	writeJSON(w, http.StatusAccepted, map[string]string{"job": name, "status": "triggered"})
}

// gatewayCallback is the webhook body the payment gateway posts on
// invoice settlement.
type gatewayCallback struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"external_id"`
	Status     string    `json:"status"`
	PaidAt     time.Time `json:"paid_at"`
}

func (s *Server) webhookHandler(w http.ResponseWriter, r *http.Request) {
	if s.webhookToken == "" || r.Header.Get("x-callback-token") != s.webhookToken {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var cb gatewayCallback
	if err := json.NewDecoder(r.Body).Decode(&cb); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	status := strings.ToUpper(cb.Status)
	if status != "PAID" && status != "SETTLED" {
		// Expiry and other notifications are acknowledged, not acted on.
		w.WriteHeader(http.StatusOK)
		return
	}
	paidAt := cb.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	if err := s.paymentUC.ProcessSuccessfulPayment(r.Context(), cb.ExternalID, paidAt); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "unknown invoice", http.StatusNotFound)
			return
		}
		s.log.Error().Err(err).Str("external_id", cb.ExternalID).Msg("webhook settlement failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	metrics.IncPayment("webhook")
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
