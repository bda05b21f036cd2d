// Package dashboard is the HTTP presentation adapter: the form page, the JSON
// prediction API, the history table and the importance chart.
package dashboard

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"

	"bodyfat/internal/domain/bodyfat"
	"bodyfat/internal/domain/importance"
	"bodyfat/internal/ml/registry"
	"bodyfat/internal/services/history"
	"bodyfat/internal/services/prediction"
	"bodyfat/pkg/errors"
	"bodyfat/pkg/logger"
)

//go:embed assets/*.tmpl
var assets embed.FS

var pageTemplate = template.Must(template.New("index.html.tmpl").
	Funcs(template.FuncMap{"number": formatNumber}).
	ParseFS(assets, "assets/index.html.tmpl"))

// Predictor runs one prediction
type Predictor interface {
	Predict(ctx context.Context, userLabel string, m bodyfat.MeasurementSet, v bodyfat.Variant) (*bodyfat.Prediction, error)
}

// HistoryReader lists recent predictions
type HistoryReader interface {
	RecentRows(n int) []history.Row
}

// ImportanceSource returns importance items sorted ascending
type ImportanceSource interface {
	Ascending(key string) ([]importance.Item, error)
}

// Handler serves the dashboard and its JSON API
type Handler struct {
	predictor   Predictor
	history     HistoryReader
	importance  ImportanceSource
	recentLimit int
	log         *logger.Logger
}

// NewHandler creates the dashboard handler; recentLimit is the history table size
func NewHandler(predictor Predictor, hist HistoryReader, imp ImportanceSource, recentLimit int, log *logger.Logger) *Handler {
	if recentLimit <= 0 {
		recentLimit = 5
	}
	return &Handler{
		predictor:   predictor,
		history:     hist,
		importance:  imp,
		recentLimit: recentLimit,
		log:         log.With("component", "dashboard"),
	}
}

// Register mounts the dashboard routes on mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.HandleIndex)
	mux.HandleFunc("POST /{$}", h.HandleSubmit)
	mux.HandleFunc("POST /api/predict", h.HandlePredict)
	mux.HandleFunc("GET /api/history", h.HandleHistory)
	mux.HandleFunc("GET /api/importance/chart.png", h.HandleChart)
}

// HandleIndex renders the empty dashboard with default values
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, newPage(nil))
}

// HandleSubmit runs a prediction from the form and renders the result panel
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	sub, err := parseForm(r)
	page := newPage(&sub)
	if err != nil {
		page.Error = err.Error()
		h.render(w, http.StatusUnprocessableEntity, page)
		return
	}

	pred, err := h.predictor.Predict(r.Context(), sub.Name, sub.Measurements, sub.Variant)
	if err != nil {
		page.Error = err.Error()
		h.render(w, statusFor(err), page)
		return
	}

	status := newStatusView(pred)
	page.Status = &status
	page.Importance = pred.Importance
	page.ChartURL = chartURL(pred.Variant)
	page.History = h.history.RecentRows(h.recentLimit)
	h.render(w, http.StatusOK, page)
}

type predictResponse struct {
	Status     statusView        `json:"status"`
	Importance []importance.Item `json:"importance"`
	History    []history.Row     `json:"history"`
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// HandlePredict is the JSON variant of the form submit
func (h *Handler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	if err := dec.Decode(&req); err != nil {
		writeError(w, errors.NewValidationError("body", "malformed JSON", err.Error()))
		return
	}

	sub, err := req.submission()
	if err != nil {
		writeError(w, err)
		return
	}

	pred, err := h.predictor.Predict(r.Context(), sub.Name, sub.Measurements, sub.Variant)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, predictResponse{
		Status:     newStatusView(pred),
		Importance: pred.Importance,
		History:    h.history.RecentRows(h.recentLimit),
	})
}

// HandleHistory returns the most recent entries, newest first
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	limit := h.recentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, errors.NewValidationError("limit", "must be a non-negative integer", raw))
			return
		}
		limit = n
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"history": h.history.RecentRows(limit),
	})
}

// HandleChart renders the importance bar chart of an engine as PNG
func (h *Handler) HandleChart(w http.ResponseWriter, r *http.Request) {
	variant, err := parseEngine(r.URL.Query().Get("engine"))
	if err != nil {
		writeError(w, err)
		return
	}

	items, err := h.importance.Ascending(registry.ImportanceKey(variant))
	if err != nil {
		h.log.Errorw("Importance lookup failed", "engine", variant.Slug(), "error", err)
		writeError(w, err)
		return
	}

	img, err := RenderImportanceChart(items)
	if err != nil {
		h.log.Errorw("Chart rendering failed", "engine", variant.Slug(), "error", err)
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(img)
}

func (h *Handler) render(w http.ResponseWriter, code int, page pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		h.log.Errorw("Failed to render dashboard", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

// kindOf maps any error to the payload kind
func kindOf(err error) string {
	if kind := prediction.KindOf(err); kind != "" {
		return kind.String()
	}
	switch {
	case errors.Is(err, errors.ErrInvalidInput):
		return prediction.KindInput.String()
	case errors.Is(err, errors.ErrConfiguration):
		return prediction.KindConfiguration.String()
	case errors.Is(err, errors.ErrRateLimitExceeded):
		return "rate_limited"
	default:
		return "internal"
	}
}

func statusFor(err error) int {
	switch kindOf(err) {
	case prediction.KindInput.String():
		return http.StatusUnprocessableEntity
	case "rate_limited":
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: errorBody{Kind: kindOf(err), Message: err.Error()}})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
