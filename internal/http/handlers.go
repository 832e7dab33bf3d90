package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/config"
	httpopenapi "github.com/fairyhunter13/warehouse-inventory-simulator/internal/http/openapi"
	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/history"
	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/model"
	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/obs"
	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/rag"
	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/store"
	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/xlsx"
)

// HistoryReader serves the interaction log endpoint. Nil disables it.
type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]history.Entry, error)
}

type App struct {
	Cfg     config.Config
	Store   *store.Store
	Svc     *rag.Service
	History HistoryReader

	started time.Time
	queries atomic.Uint64
	edits   atomic.Uint64
}

func NewApp(cfg config.Config, st *store.Store, svc *rag.Service, hist HistoryReader) *App {
	return &App{Cfg: cfg, Store: st, Svc: svc, History: hist, started: time.Now()}
}

type chatRequest struct {
	Messages string `json:"messages"`
}

type chatResponse struct {
	Result string `json:"result"`
}

func (a *App) decodeChat(w http.ResponseWriter, r *http.Request) (chatRequest, bool) {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return chatRequest{}, false
	}
	var req chatRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return chatRequest{}, false
	}
	if strings.TrimSpace(req.Messages) == "" {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "messages is required")
		return chatRequest{}, false
	}
	return req, true
}

// queryHandler answers natural-language inventory questions posted to the
// service root.
func (a *App) queryHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "POST a JSON body with a messages field")
		return
	}
	req, ok := a.decodeChat(w, r)
	if !ok {
		return
	}
	result, err := a.Svc.Query(r.Context(), req.Messages)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	a.queries.Add(1)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(chatResponse{Result: result})
	obs.Logger.Info("query_answered",
		"request_id", RequestIDFromContext(r.Context()),
		"chars", len(result),
	)
}

type editResponse struct {
	Result string       `json:"result"`
	Record model.Record `json:"record"`
}

// editHandler applies a natural-language update command.
func (a *App) editHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	req, ok := a.decodeChat(w, r)
	if !ok {
		return
	}
	rec, err := a.Svc.Edit(r.Context(), req.Messages)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	a.edits.Add(1)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(editResponse{
		Result: "updated product " + strconv.Itoa(rec.ProductID),
		Record: rec,
	})
	obs.Logger.Info("edit_applied",
		"request_id", RequestIDFromContext(r.Context()),
		"product_id", rec.ProductID,
	)
}

func (a *App) listRecordsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	records, err := a.Store.Load()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(records)
}

// recordHandler serves GET and PATCH on /records/{id}.
func (a *App) recordHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/records/"))
	if err != nil {
		WriteJSONError(w, http.StatusNotFound, "not_found", "product id must be an integer")
		return
	}
	switch r.Method {
	case http.MethodGet:
		records, err := a.Store.Load()
		if err != nil {
			writeStoreError(w, err)
			return
		}
		for _, rec := range records {
			if rec.ProductID == id {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(rec)
				return
			}
		}
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
	case http.MethodPatch:
		var upd model.Update
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&upd); err != nil {
			WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
			return
		}
		if upd.IsZero() {
			WriteJSONError(w, http.StatusBadRequest, "validation_error", "no fields to update")
			return
		}
		rec, err := a.Store.Upsert(id, upd)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		a.edits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rec)
	default:
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	}
}

// importHandler replaces the inventory with an uploaded Excel workbook.
func (a *App) importHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	records, err := xlsx.ReadRecords(r.Body)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_workbook", err.Error())
		return
	}
	if err := a.Store.Replace(records); err != nil {
		writeStoreError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "imported", "records": len(records)})
	obs.Logger.Info("inventory_imported",
		"request_id", RequestIDFromContext(r.Context()),
		"records", len(records),
	)
}

func (a *App) exportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	records, err := a.Store.Load()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="inventory.xlsx"`)
	if err := xlsx.WriteRecords(w, records); err != nil {
		obs.Logger.Error("export_failed", "error", err)
	}
}

func (a *App) historyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	if a.History == nil {
		WriteJSONError(w, http.StatusNotFound, "not_found", "history disabled")
		return
	}
	limit := a.Cfg.HistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			WriteJSONError(w, http.StatusBadRequest, "validation_error", "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	entries, err := a.History.Recent(r.Context(), limit)
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(entries)
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	m := map[string]any{
		"store_revision":   a.Store.Revision(),
		"queries_answered": a.queries.Load(),
		"edits_applied":    a.edits.Load(),
		"uptime_sec":       time.Since(a.started).Seconds(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(m)
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
