package retrieval

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/contentloop/contentloop/internal/vectordb"
)

// ContextRequest asks for the retrieved context of one agent invocation.
type ContextRequest struct {
	Agent string `json:"agent"`
	Query string `json:"query"`
}

// PromptRequest asks for a fully augmented prompt.
type PromptRequest struct {
	Agent  string `json:"agent"`
	Query  string `json:"query"`
	Prompt string `json:"prompt"`
}

// StoreRequest files an agent output into content history.
type StoreRequest struct {
	Agent    string            `json:"agent"`
	Text     string            `json:"text"`
	Source   string            `json:"source,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
	Campaign string            `json:"campaign,omitempty"`
}

// DuplicateRequest checks text against existing content history.
type DuplicateRequest struct {
	Text string `json:"text"`
}

// RegisterRoutes mounts retrieval endpoints on the given router.
func RegisterRoutes(r chi.Router, system *System) {
	r.Post("/api/context", handleContext(system))
	r.Post("/api/prompt", handlePrompt(system))
	r.Post("/api/content", handleStore(system))
	r.Post("/api/duplicate", handleDuplicate(system))
	r.Get("/api/knowledge", handleKnowledge(system))
}

func handleContext(system *System) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ContextRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		if req.Query == "" {
			http.Error(w, "query is required", http.StatusBadRequest)
			return
		}

		result, err := system.AgentContext(r.Context(), req.Agent, req.Query)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func handlePrompt(system *System) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PromptRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		if req.Query == "" {
			http.Error(w, "query is required", http.StatusBadRequest)
			return
		}
		if req.Prompt == "" {
			req.Prompt = req.Query
		}

		context, err := system.AgentContext(r.Context(), req.Agent, req.Query)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"prompt": BuildAugmentedPrompt(req.Prompt, context),
		})
	}
}

func handleStore(system *System) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		if req.Text == "" {
			http.Error(w, "text is required", http.StatusBadRequest)
			return
		}

		meta := vectordb.Metadata{Source: req.Source, Extra: req.Extra}
		if req.Campaign != "" {
			if meta.Extra == nil {
				meta.Extra = make(map[string]string)
			}
			meta.Extra["campaign"] = req.Campaign
		}

		id, err := system.StoreOutput(r.Context(), req.Agent, req.Text, meta)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]string{"id": id})
	}
}

func handleDuplicate(system *System) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DuplicateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		if req.Text == "" {
			http.Error(w, "text is required", http.StatusBadRequest)
			return
		}

		result, err := system.CheckDuplicate(r.Context(), req.Text)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func handleKnowledge(system *System) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		query := q.Get("q")
		if query == "" {
			http.Error(w, "q is required", http.StatusBadRequest)
			return
		}

		limit := 5
		if v := q.Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}

		items, err := system.SearchKnowledge(r.Context(), query, q.Get("category"), limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"query": query,
			"items": items,
			"count": len(items),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
