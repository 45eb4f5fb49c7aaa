package analytics

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// TrackRequest is the metrics-ingestion payload, typically posted by an
// analytics webhook or a manual API call.
type TrackRequest struct {
	ContentID string  `json:"content_id"`
	Metrics   Metrics `json:"metrics"`
}

// RegisterRoutes mounts analytics endpoints on the given router.
func RegisterRoutes(r chi.Router, system *System) {
	r.Post("/api/metrics", handleTrack(system))
	r.Route("/api/analytics", func(r chi.Router) {
		r.Get("/top", handleTopPerformers(system))
		r.Get("/trends", handleTrends(system))
		r.Get("/report", handleReport(system))
		r.Get("/{contentID}", handleContentAnalytics(system))
	})
}

func handleTrack(system *System) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TrackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		if req.ContentID == "" {
			http.Error(w, "content_id is required", http.StatusBadRequest)
			return
		}

		result, err := system.TrackPerformance(r.Context(), req.ContentID, req.Metrics)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, result)
	}
}

func handleContentAnalytics(system *System) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contentID := chi.URLParam(r, "contentID")

		agg, err := system.ContentAnalytics(r.Context(), contentID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, agg)
	}
}

func handleTopPerformers(system *System) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		limit := 10
		if v := q.Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}

		performers, err := system.TopPerformers(r.Context(), q.Get("type"), limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, performers)
	}
}

func handleTrends(system *System) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := 30
		if v := r.URL.Query().Get("days"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				days = n
			}
		}

		trends, err := system.AnalyzeTrends(r.Context(), days)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, trends)
	}
}

func handleReport(system *System) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := system.ExportReport(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, report)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
