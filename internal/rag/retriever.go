package rag

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/model"
)

// Retrieve scores every record document against the query tokens and
// returns the top k records, best first. With no scoring signal at all the
// first k records are returned so the model always has inventory context.
func Retrieve(records []model.Record, query string, k int, now time.Time) []model.Record {
	if k <= 0 || len(records) == 0 {
		return nil
	}
	tokens := queryTokens(query)

	type scored struct {
		rec   model.Record
		score int
		pos   int
	}
	all := make([]scored, 0, len(records))
	anyHit := false
	for i, r := range records {
		s := score(r, tokens, now)
		if s > 0 {
			anyHit = true
		}
		all = append(all, scored{rec: r, score: s, pos: i})
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return all[i].pos < all[j].pos
	})

	if k > len(all) {
		k = len(all)
	}
	out := make([]model.Record, 0, k)
	for _, s := range all[:k] {
		if anyHit && s.score == 0 && len(out) > 0 {
			break
		}
		out = append(out, s.rec)
	}
	return out
}

func score(r model.Record, tokens []string, now time.Time) int {
	doc := strings.ToLower(BuildDocument(r, now))
	name := strings.ToLower(r.ProductName)
	id := strconv.Itoa(r.ProductID)

	total := 0
	for _, t := range tokens {
		switch {
		case t == id:
			total += 8
		case strings.Contains(name, t):
			total += 4
		case strings.Contains(doc, t):
			total += 2
		}
	}
	return total
}

var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {}, "me": {}, "my": {},
	"of": {}, "in": {}, "on": {}, "to": {}, "all": {}, "show": {}, "list": {},
	"what": {}, "which": {}, "who": {}, "with": {}, "and": {}, "or": {},
	"product": {}, "products": {}, "item": {}, "items": {},
}

func queryTokens(q string) []string {
	q = strings.ToLower(q)
	fields := strings.FieldsFunc(q, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	var tokens []string
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, skip := stopwords[f]; skip {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
