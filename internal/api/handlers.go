package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/vendor-spend/internal/classify"
	"github.com/sells-group/vendor-spend/internal/enrich"
	"github.com/sells-group/vendor-spend/internal/model"
	"github.com/sells-group/vendor-spend/internal/store"
)

type handler struct {
	deps     Dependencies
	maxNames int
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// classifyRequest accepts bare names, vendors with costs, or both.
type classifyRequest struct {
	Names   []string `json:"names"`
	Vendors []struct {
		Name string   `json:"name"`
		Cost *float64 `json:"cost"`
	} `json:"vendors"`
}

type classifyResult struct {
	Name           string               `json:"name"`
	Cost           *float64             `json:"cost,omitempty"`
	Department     model.Department     `json:"department"`
	Description    string               `json:"description"`
	Recommendation model.Recommendation `json:"recommendation"`
	Source         model.Source         `json:"source"`
	Rule           string               `json:"rule,omitempty"`
}

type classifyResponse struct {
	Results []classifyResult `json:"results"`
	Stats   model.Stats      `json:"stats"`
}

func (h *handler) classify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	records := make([]model.VendorRecord, 0, len(req.Names)+len(req.Vendors))
	for _, n := range req.Names {
		records = append(records, model.VendorRecord{Row: len(records), Name: n})
	}
	for _, v := range req.Vendors {
		records = append(records, model.VendorRecord{Row: len(records), Name: v.Name, Cost: v.Cost})
	}
	if len(records) == 0 {
		writeError(w, http.StatusBadRequest, "names or vendors is required")
		return
	}
	if len(records) > h.maxNames {
		writeError(w, http.StatusRequestEntityTooLarge, "too many vendors in one request, limit is "+strconv.Itoa(h.maxNames))
		return
	}

	res := enrich.New(h.deps.Classifier).Run(records)

	resp := classifyResponse{Results: make([]classifyResult, 0, len(res.Rows)), Stats: res.Stats}
	for _, row := range res.Rows {
		resp.Results = append(resp.Results, classifyResult{
			Name:           row.Record.Name,
			Cost:           row.Record.Cost,
			Department:     row.Match.Department,
			Description:    row.Match.Description,
			Recommendation: row.Match.Recommendation,
			Source:         row.Match.Source,
			Rule:           row.Match.Rule,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) departments(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"departments":     model.Departments(),
		"recommendations": model.Recommendations(),
	})
}

func (h *handler) rules(w http.ResponseWriter, _ *http.Request) {
	rules := h.deps.Rules
	if rules == nil {
		rules = []classify.Rule{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"rules": rules})
}

func (h *handler) listRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.RunFilter{
		Status: model.RunStatus(q.Get("status")),
		Input:  q.Get("input"),
	}
	for _, p := range []struct {
		key string
		dst *int
	}{{"limit", &filter.Limit}, {"offset", &filter.Offset}} {
		raw := q.Get(p.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid "+p.key)
			return
		}
		*p.dst = n
	}

	runs, err := h.deps.Runs.ListRuns(r.Context(), filter)
	if err != nil {
		zap.L().Error("api: list runs", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (h *handler) getRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "runID")
	run, err := h.deps.Runs.GetRun(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		zap.L().Error("api: get run", zap.String("run_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load run")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (h *handler) listVendors(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "runID")
	vendors, err := h.deps.Runs.ListVendors(r.Context(), id)
	if err != nil {
		zap.L().Error("api: list run vendors", zap.String("run_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list vendors")
		return
	}
	if vendors == nil {
		vendors = []model.RunVendor{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"vendors": vendors})
}

func isNotFound(err error) bool {
	return eris.Is(err, store.ErrNotFound)
}
