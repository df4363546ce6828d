// Package api serves a small REST view of the ledgers next to the Connect
// service.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/divider/internal/ledger"
	"github.com/mmynk/divider/internal/metrics"
	"github.com/mmynk/divider/internal/models"
	"github.com/mmynk/divider/internal/service"
	"github.com/mmynk/divider/internal/storage"
)

type Handler struct {
	svc *service.LedgerService
}

func NewHandler(svc *service.LedgerService) *Handler {
	return &Handler{svc: svc}
}

// Router registers the REST routes, the health check and the Prometheus
// endpoint.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.HandleFunc("/ledgers", h.ListLedgers).Methods("GET")
	r.HandleFunc("/ledgers/{name}", h.GetLedger).Methods("GET")
	r.HandleFunc("/ledgers/{name}/add-user", h.AddUser).Methods("POST")
	r.HandleFunc("/ledgers/{name}/balances", h.GetBalances).Methods("GET")
	return r
}

type addUserRequest struct {
	Name string `json:"name"`
}

func (h *Handler) ListLedgers(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.HTTPLatency.WithLabelValues("GET", "/ledgers"))
	defer timer.ObserveDuration()

	names, err := h.svc.Names(r.Context())
	if err != nil {
		h.respondError(w, err, "GET", "/ledgers")
		return
	}
	if names == nil {
		names = []string{}
	}
	h.respondJSON(w, http.StatusOK, map[string][]string{"ledgers": names}, "GET", "/ledgers")
}

// GetLedger returns the full snapshot of a ledger.
func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.HTTPLatency.WithLabelValues("GET", "/ledgers/{name}"))
	defer timer.ObserveDuration()

	var snapshot *ledger.Ledger
	err := h.svc.View(r.Context(), mux.Vars(r)["name"], func(l *ledger.Ledger) error {
		snapshot = l
		return nil
	})
	if err != nil {
		h.respondError(w, err, "GET", "/ledgers/{name}")
		return
	}
	h.respondJSON(w, http.StatusOK, snapshot, "GET", "/ledgers/{name}")
}

func (h *Handler) AddUser(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.HTTPLatency.WithLabelValues("POST", "/ledgers/{name}/add-user"))
	defer timer.ObserveDuration()

	var req addUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondMessage(w, http.StatusBadRequest, "Invalid JSON", "POST", "/ledgers/{name}/add-user")
		return
	}
	if req.Name == "" {
		h.respondMessage(w, http.StatusUnprocessableEntity, "User name is required", "POST", "/ledgers/{name}/add-user")
		return
	}

	var users []models.User
	err := h.svc.Update(r.Context(), mux.Vars(r)["name"], func(l *ledger.Ledger) error {
		l.AddUser(req.Name)
		users = l.Users()
		return nil
	})
	if err != nil {
		h.respondError(w, err, "POST", "/ledgers/{name}/add-user")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string][]models.User{"users": users}, "POST", "/ledgers/{name}/add-user")
}

func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.HTTPLatency.WithLabelValues("GET", "/ledgers/{name}/balances"))
	defer timer.ObserveDuration()

	var balances map[string]models.Amount
	err := h.svc.View(r.Context(), mux.Vars(r)["name"], func(l *ledger.Ledger) error {
		balances = l.Balances()
		return nil
	})
	if err != nil {
		h.respondError(w, err, "GET", "/ledgers/{name}/balances")
		return
	}
	h.respondJSON(w, http.StatusOK, balances, "GET", "/ledgers/{name}/balances")
}

// Helpers
func (h *Handler) respondJSON(w http.ResponseWriter, code int, payload any, method, endpoint string) {
	metrics.HTTPRequests.WithLabelValues(method, endpoint, strconv.Itoa(code)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func (h *Handler) respondMessage(w http.ResponseWriter, code int, msg, method, endpoint string) {
	h.respondJSON(w, code, map[string]string{"error": msg}, method, endpoint)
}

func (h *Handler) respondError(w http.ResponseWriter, err error, method, endpoint string) {
	code := statusCode(err)
	if code == http.StatusInternalServerError {
		slog.Error("Request failed", "method", method, "endpoint", endpoint, "error", err)
	}
	h.respondMessage(w, code, err.Error(), method, endpoint)
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, models.ErrUnknownTransactionID):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrInvalidName), errors.Is(err, service.ErrMissingLedger):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInsufficientBenefits),
		errors.Is(err, models.ErrExcessBenefits),
		errors.Is(err, models.ErrUnknownUser):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
