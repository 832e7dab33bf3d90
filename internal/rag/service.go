package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/edit"
	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/model"
	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/obs"
	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/store"
)

// History records answered interactions. Failures are logged, never
// surfaced, so a broken audit trail cannot take queries down.
type History interface {
	Record(ctx context.Context, kind, input, output string) error
}

const generateTimeout = 30 * time.Second

// Service orchestrates the query pipeline (retrieve, prompt, generate)
// and natural-language edits against the store.
type Service struct {
	st   *store.Store
	llm  LLM
	hist History
	k    int
}

// NewService wires the query and edit pipelines. hist may be nil.
func NewService(st *store.Store, llm LLM, hist History, retrievalK int) *Service {
	return &Service{st: st, llm: llm, hist: hist, k: retrievalK}
}

// Query answers a natural-language question grounded in the current
// inventory snapshot.
func (s *Service) Query(ctx context.Context, text string) (string, error) {
	records, err := s.st.Load()
	if err != nil {
		return "", err
	}
	now := time.Now()
	hits := Retrieve(records, text, s.k, now)
	docs := make([]string, 0, len(hits))
	for _, r := range hits {
		docs = append(docs, BuildDocument(r, now))
	}

	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()
	answer, err := s.llm.Generate(ctx, buildPrompt(docs, text))
	if err != nil {
		return "", fmt.Errorf("answer query: %w", err)
	}
	s.record(ctx, "query", text, answer)
	return answer, nil
}

// Edit parses a natural-language update command and applies it to the
// store. Products may be addressed by ID or by name.
func (s *Service) Edit(ctx context.Context, text string) (model.Record, error) {
	cmd, err := edit.Parse(text)
	if err != nil {
		return model.Record{}, err
	}

	id := cmd.ProductID
	if id == 0 {
		match, err := s.st.FindByName(cmd.ProductName)
		if err != nil {
			return model.Record{}, err
		}
		id = match.ProductID
	}

	rec, err := s.st.Upsert(id, cmd.Update)
	if err != nil {
		return model.Record{}, err
	}
	s.record(ctx, "edit", text, fmt.Sprintf("updated product %d (%s)", rec.ProductID, rec.ProductName))
	return rec, nil
}

func (s *Service) record(ctx context.Context, kind, input, output string) {
	if s.hist == nil {
		return
	}
	if err := s.hist.Record(ctx, kind, input, output); err != nil {
		obs.Logger.Warn("history_record_failed", "kind", kind, "error", err)
	}
}

func buildPrompt(docs []string, query string) string {
	context := "No inventory data found."
	if len(docs) > 0 {
		context = strings.Join(docs, "\n\n---\n\n")
	}
	return fmt.Sprintf(`You are a warehouse management AI assistant. Use the following real-time inventory data to answer the query.

CURRENT INVENTORY DATA:
%s

USER QUERY: %s

Provide a helpful response that:
1. Directly answers the question with specific details (product IDs, names, stock levels)
2. Highlights urgent issues (low stock, expiring items)
3. Provides actionable recommendations
4. Uses exact numbers and dates from the data

RESPONSE:`, context, query)
}
