package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/config"
	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/generator"
	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/history"
	httpapi "github.com/fairyhunter13/warehouse-inventory-simulator/internal/http"
	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/model"
	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/obs"
	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/rag"
	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/store"
)

// echoLLM answers with the number of documents it was shown, which is
// enough to assert the retrieval pipeline end to end.
type echoLLM struct{}

func (echoLLM) Generate(_ context.Context, prompt string) (string, error) {
	return fmt.Sprintf("docs:%d", strings.Count(prompt, "Product Information:")), nil
}

func setup(t *testing.T) (config.Config, *store.Store, http.Handler) {
	t.Helper()
	obs.InitLogger()
	dir := t.TempDir()
	cfg := config.Config{
		CSVPath:          filepath.Join(dir, "inventory.csv"),
		HistoryDBPath:    filepath.Join(dir, "history.db"),
		HistoryLimit:     50,
		EventsPerTickMin: 2,
		EventsPerTickMax: 5,
		EventWeights:     []int{30, 25, 20, 15, 10},
		ExpiryWindowDays: 7,
		RandomSeed:       7,
		Sections:         []string{"SectionA", "SectionB", "SectionC", "SectionD", "BulkStorage", "ColdStorage"},
		Aisles:           []string{"Aisle1", "Aisle2", "Aisle3"},
		Shelves:          []string{"Shelf1", "Shelf2"},
		RetrievalK:       5,
	}

	st := store.New(cfg.CSVPath, cfg.Sections)
	gen := generator.New(cfg, st)
	if err := gen.Seed(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, err := gen.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}

	hist, err := history.Open(cfg.HistoryDBPath, cfg.HistoryLimit)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	t.Cleanup(func() { hist.Close() })

	svc := rag.NewService(st, echoLLM{}, hist, cfg.RetrievalK)
	app := httpapi.NewApp(cfg, st, svc, hist)
	return cfg, st, httpapi.NewRouter(app)
}

func TestIntegration_SeedTickQueryEdit(t *testing.T) {
	_, st, h := setup(t)

	// the generated file parses and holds the full catalog
	records, err := st.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 15 {
		t.Fatalf("expected 15 records, got %d", len(records))
	}

	// a query travels through retrieval to the model
	b := strings.NewReader(`{"messages":"which products are low on stock?"}`)
	r := httptest.NewRequest(http.MethodPost, "/", b)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("query: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Result != "docs:5" {
		t.Fatalf("expected 5 retrieved documents, got %q", resp.Result)
	}

	// an edit lands in the file
	id := records[0].ProductID
	b = strings.NewReader(fmt.Sprintf(`{"messages":"Update product %d stock to 77"}`, id))
	r = httptest.NewRequest(http.MethodPost, "/edit", b)
	r.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("edit: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	after, err := st.Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if after[0].CurrentStock != 77 {
		t.Fatalf("edit not persisted: %+v", after[0])
	}

	// both interactions are in the history log
	r = httptest.NewRequest(http.MethodGet, "/history", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("history: expected 200, got %d", w.Code)
	}
	var entries []history.Entry
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(entries) != 2 || entries[0].Kind != "query" || entries[1].Kind != "edit" {
		t.Fatalf("unexpected history: %+v", entries)
	}
}

func TestIntegration_GeneratorKeepsFileParseable(t *testing.T) {
	cfg, st, _ := setup(t)
	gen := generator.New(cfg, st)
	for i := 0; i < 50; i++ {
		if _, err := gen.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	records, err := st.Load()
	if err != nil {
		t.Fatalf("load after ticks: %v", err)
	}
	for _, rec := range records {
		if rec.CurrentStock < 0 {
			t.Fatalf("negative stock: %+v", rec)
		}
		if _, err := model.ParseDate(rec.ExpiryDate); err != nil {
			t.Fatalf("bad expiry date: %+v", rec)
		}
	}
}

func TestIntegration_EditValidationLeavesFileUntouched(t *testing.T) {
	_, st, h := setup(t)
	before, err := st.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	body := `{"current_stock":-1}`
	r := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/records/%d", before[0].ProductID), strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	after, err := st.Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if after[0].CurrentStock != before[0].CurrentStock {
		t.Fatalf("rejected edit mutated the file: %+v", after[0])
	}
}
