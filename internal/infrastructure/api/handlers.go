package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"shopsight-gateway/internal/application"
	"shopsight-gateway/internal/domain"
	"shopsight-gateway/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler bundles the HTTP handlers with the services they call.
type Handler struct {
	oauth    *application.OAuthService
	auth     *application.AuthService
	commerce *application.CommerceService
	insights *application.InsightsService
	stores   *application.StoreService
	audit    *application.AuditService

	insightsClient ports.InsightsClient
	checkDatabase  func(ctx context.Context) bool
	version        string
	logger         zerolog.Logger
}

// NewHandler creates the handler set
func NewHandler(
	oauth *application.OAuthService,
	auth *application.AuthService,
	commerce *application.CommerceService,
	insights *application.InsightsService,
	stores *application.StoreService,
	audit *application.AuditService,
	insightsClient ports.InsightsClient,
	checkDatabase func(ctx context.Context) bool,
	version string,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		oauth:          oauth,
		auth:           auth,
		commerce:       commerce,
		insights:       insights,
		stores:         stores,
		audit:          audit,
		insightsClient: insightsClient,
		checkDatabase:  checkDatabase,
		version:        version,
		logger:         logger,
	}
}

// AuthStart initiates the OAuth flow: GET /auth/start?shop=
func (h *Handler) AuthStart(w http.ResponseWriter, r *http.Request) {
	authURL, err := h.oauth.InitiateAuth(r.Context(), r.URL.Query().Get("shop"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	http.Redirect(w, r, authURL, http.StatusFound)
}

// AuthCallback completes the OAuth flow: GET /auth/callback?shop=&code=&state=
func (h *Handler) AuthCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.oauth.HandleCallback(r.Context(), q.Get("shop"), q.Get("code"), q.Get("state"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// AuthLogout disconnects a store: DELETE /auth/logout?shop=
func (h *Handler) AuthLogout(w http.ResponseWriter, r *http.Request) {
	message, err := h.oauth.Disconnect(r.Context(), r.URL.Query().Get("shop"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

type questionRequest struct {
	StoreID  string `json:"store_id"`
	Question string `json:"question"`
	Context  string `json:"context,omitempty"`
}

// AskQuestion is the main endpoint: POST /api/v1/questions
func (h *Handler) AskQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, domain.NewValidationError("Invalid request body"))
		return
	}
	if req.Question == "" {
		writeError(w, h.logger, domain.NewValidationError("Question is required"))
		return
	}

	storeID := req.StoreID
	if storeID == "" {
		if store := domain.StoreFromContext(r.Context()); store != nil {
			storeID = store.Domain
		}
	}

	store, err := h.auth.ResolveStore(r.Context(), storeID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.insights.Ask(r.Context(), store, req.Question, req.Context, r.RemoteAddr, r.UserAgent())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if !result.OK {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":       result.Error,
			"message":     result.Message,
			"suggestions": result.Suggestions,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"answer":      result.Answer,
		"confidence":  result.Confidence,
		"query_used":  result.QueryUsed,
		"data_source": result.DataSource,
		"raw_data":    result.RawData,
		"metadata": map[string]interface{}{
			"processing_time_ms": result.ProcessingTimeMs,
			"timestamp":          time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// SupportedQuestions lists example question types: GET /api/v1/questions/supported
func (h *Handler) SupportedQuestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"categories": h.insights.SupportedQuestions(),
	})
}

// ListOrders handles GET /api/v1/orders
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	store := domain.StoreFromContext(r.Context())

	opts := application.OrderListOptions{Status: r.URL.Query().Get("status")}
	var err error
	if opts.First, err = parseLimit(r); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if opts.CreatedAfter, err = parseDate(r, "created_after"); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if opts.CreatedBefore, err = parseDate(r, "created_before"); err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.respondQuery(w, r)(h.commerce.ListOrders(r.Context(), store, opts))
}

// GetOrder handles GET /api/v1/orders/{id}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	store := domain.StoreFromContext(r.Context())
	h.respondQuery(w, r)(h.commerce.GetOrder(r.Context(), store, chi.URLParam(r, "id")))
}

// ListProducts handles GET /api/v1/products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	store := domain.StoreFromContext(r.Context())
	first, err := parseLimit(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.respondQuery(w, r)(h.commerce.ListProducts(r.Context(), store, first, r.URL.Query().Get("status")))
}

// GetProduct handles GET /api/v1/products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	store := domain.StoreFromContext(r.Context())
	h.respondQuery(w, r)(h.commerce.GetProduct(r.Context(), store, chi.URLParam(r, "id")))
}

// ListCustomers handles GET /api/v1/customers
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	store := domain.StoreFromContext(r.Context())
	first, err := parseLimit(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.respondQuery(w, r)(h.commerce.ListCustomers(r.Context(), store, first))
}

// GetCustomer handles GET /api/v1/customers/{id}
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	store := domain.StoreFromContext(r.Context())
	h.respondQuery(w, r)(h.commerce.GetCustomer(r.Context(), store, chi.URLParam(r, "id")))
}

// Inventory handles GET /api/v1/inventory
func (h *Handler) Inventory(w http.ResponseWriter, r *http.Request) {
	store := domain.StoreFromContext(r.Context())
	first, err := parseLimit(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.respondQuery(w, r)(h.commerce.InventoryLevels(r.Context(), store, first))
}

type analyticsRequest struct {
	Query string `json:"query"`
}

// Analytics handles POST /api/v1/analytics
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	store := domain.StoreFromContext(r.Context())

	var req analyticsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, domain.NewValidationError("Invalid request body"))
		return
	}

	h.respondQuery(w, r)(h.commerce.RunAnalyticsQuery(r.Context(), store, req.Query))
}

// ListStores handles GET /api/v1/stores
func (h *Handler) ListStores(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.stores.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"stores": summaries})
}

// GetStore handles GET /api/v1/stores/{id}
func (h *Handler) GetStore(w http.ResponseWriter, r *http.Request) {
	summary, err := h.stores.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// StoreStatus handles GET /api/v1/stores/{id}/status
func (h *Handler) StoreStatus(w http.ResponseWriter, r *http.Request) {
	summary, err := h.stores.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"store_id":     summary.StoreID,
		"connected":    summary.Connected,
		"connected_at": summary.ConnectedAt,
		"scope":        summary.Scope,
	})
}

// RemoveStore handles DELETE /api/v1/stores/{id}
func (h *Handler) RemoveStore(w http.ResponseWriter, r *http.Request) {
	message, err := h.stores.Remove(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

// Logs handles GET /api/v1/logs
func (h *Handler) Logs(w http.ResponseWriter, r *http.Request) {
	store := domain.StoreFromContext(r.Context())

	limit := int64(50)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			writeError(w, h.logger, domain.NewValidationError("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	entries, err := h.audit.RecentLogs(r.Context(), store, limit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if entries == nil {
		entries = []*domain.RequestLog{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"logs": entries})
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbHealthy := h.checkDatabase(r.Context())
	aiHealthy := h.insightsClient.Healthy(r.Context())

	status := "ok"
	if !dbHealthy || !aiHealthy {
		status = "degraded"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   h.version,
		"services": map[string]bool{
			"database":   dbHealthy,
			"ai_backend": aiHealthy,
		},
	})
}

// respondQuery writes a commerce query outcome: domain errors map to their
// statuses, everything else is the executor's structured result.
func (h *Handler) respondQuery(w http.ResponseWriter, r *http.Request) func(*domain.QueryResult, error) {
	return func(result *domain.QueryResult, err error) {
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 50, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError("limit must be a positive integer")
	}
	return limit, nil
}

func parseDate(r *http.Request, key string) (time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, domain.NewValidationError(key + " must be an RFC3339 timestamp or YYYY-MM-DD date")
	}
	return t, nil
}
