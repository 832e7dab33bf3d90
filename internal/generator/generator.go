// Package generator simulates warehouse activity by mutating the inventory
// store on a fixed interval.
package generator

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/config"
	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/model"
	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/obs"
	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/store"
)

// Event kinds drawn per selected record, in config weight order.
const (
	eventSale = iota
	eventRestock
	eventReturn
	eventRelocate
	eventExpiry
	eventKinds
)

// Generator applies weighted random warehouse events to the store, one
// batch (and one file rewrite) per tick. A failed tick is logged and
// retried on the next interval; it never stops the loop.
type Generator struct {
	cfg config.Config
	st  *store.Store

	mu  sync.Mutex
	rng *rand.Rand

	ticks    atomic.Uint64
	applied  atomic.Uint64
	failures atomic.Uint64
}

// New constructs a Generator. A zero cfg.RandomSeed seeds from the clock.
func New(cfg config.Config, st *store.Store) *Generator {
	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{cfg: cfg, st: st, rng: rand.New(rand.NewSource(seed))}
}

// Run ticks until the context is canceled.
func (g *Generator) Run(ctx context.Context) {
	t := time.NewTicker(g.cfg.TickInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := g.Tick()
			if err != nil {
				obs.Logger.Warn("tick_failed", "error", err)
				continue
			}
			obs.Logger.Info("tick_applied", "events", n, "revision", g.st.Revision())
		}
	}
}

// Metrics returns tick, applied-event, and failure counters.
func (g *Generator) Metrics() (ticks, applied, failures uint64) {
	return g.ticks.Load(), g.applied.Load(), g.failures.Load()
}

// Tick loads the store, applies one batch of random events, and saves in a
// single rewrite. It returns the number of events applied.
func (g *Generator) Tick() (int, error) {
	g.ticks.Add(1)
	records, err := g.st.Load()
	if err != nil {
		g.failures.Add(1)
		return 0, fmt.Errorf("tick load: %w", err)
	}
	if len(records) == 0 {
		return 0, nil
	}

	g.mu.Lock()
	count := g.cfg.EventsPerTickMin
	if spread := g.cfg.EventsPerTickMax - g.cfg.EventsPerTickMin; spread > 0 {
		count += g.rng.Intn(spread + 1)
	}
	today := time.Now().Format(model.DateLayout)
	applied := 0
	for i := 0; i < count; i++ {
		idx := g.rng.Intn(len(records))
		if desc := g.applyRandomEvent(&records[idx], today); desc != "" {
			obs.Logger.Info("warehouse_event", "product_id", records[idx].ProductID, "event", desc)
			applied++
		}
	}
	g.mu.Unlock()

	if err := g.st.Save(records); err != nil {
		g.failures.Add(1)
		return 0, fmt.Errorf("tick save: %w", err)
	}
	g.applied.Add(uint64(applied))

	outOfStock, lowStock, expired, expiringSoon := summarize(records, today, g.cfg.ExpiryWindowDays)
	obs.Logger.Info("warehouse_status",
		"out_of_stock", outOfStock,
		"low_stock", lowStock,
		"expired", expired,
		"expiring_soon", expiringSoon,
	)
	return applied, nil
}

// applyRandomEvent mutates rec in place and returns a short description,
// or "" when the drawn event is a no-op (e.g. a sale with empty stock).
func (g *Generator) applyRandomEvent(rec *model.Record, today string) string {
	switch g.pickEvent() {
	case eventSale:
		if rec.CurrentStock == 0 {
			return ""
		}
		units := applySale(rec, 1+g.rng.Intn(10), today)
		return fmt.Sprintf("sale:%d", units)
	case eventRestock:
		units := 20 + g.rng.Intn(81)
		var newExpiry string
		// A new batch carries a fresh expiry about half the time.
		if g.rng.Intn(2) == 0 {
			newExpiry = time.Now().AddDate(0, 0, 60+g.rng.Intn(121)).Format(model.DateLayout)
		}
		applyRestock(rec, units, newExpiry)
		return fmt.Sprintf("restock:%d", units)
	case eventReturn:
		if rec.SalesLastMonth == 0 {
			return ""
		}
		units := applyReturn(rec, 1+g.rng.Intn(5))
		return fmt.Sprintf("return:%d", units)
	case eventRelocate:
		loc := g.randomLocation(rec.Location)
		if loc == "" {
			return ""
		}
		rec.Location = loc
		return "relocate:" + loc
	default: // eventExpiry
		// Quality checks flag an expiry issue on roughly 30% of draws.
		if g.rng.Intn(10) >= 3 {
			return ""
		}
		window := g.cfg.ExpiryWindowDays
		if window < 1 {
			window = 1
		}
		days := 1 + g.rng.Intn(window)
		rec.ExpiryDate = time.Now().AddDate(0, 0, days).Format(model.DateLayout)
		return "expiry_approach:" + rec.ExpiryDate
	}
}

func (g *Generator) pickEvent() int {
	total := 0
	for _, w := range g.cfg.EventWeights {
		total += w
	}
	if total <= 0 || len(g.cfg.EventWeights) != eventKinds {
		return g.rng.Intn(eventKinds)
	}
	n := g.rng.Intn(total)
	for kind, w := range g.cfg.EventWeights {
		if n < w {
			return kind
		}
		n -= w
	}
	return eventKinds - 1
}

// randomLocation composes a section-aisle-shelf code different from cur.
func (g *Generator) randomLocation(cur string) string {
	if len(g.cfg.Sections) == 0 || len(g.cfg.Aisles) == 0 || len(g.cfg.Shelves) == 0 {
		return ""
	}
	for attempt := 0; attempt < 10; attempt++ {
		loc := strings.Join([]string{
			g.cfg.Sections[g.rng.Intn(len(g.cfg.Sections))],
			g.cfg.Aisles[g.rng.Intn(len(g.cfg.Aisles))],
			g.cfg.Shelves[g.rng.Intn(len(g.cfg.Shelves))],
		}, "-")
		if loc != cur {
			return loc
		}
	}
	return ""
}

// applySale sells up to units, capped at the available stock so the level
// never goes negative. TotalSales and SalesLastMonth grow by the applied
// amount and the sale date is recorded. Returns the applied amount.
func applySale(rec *model.Record, units int, today string) int {
	if units > rec.CurrentStock {
		units = rec.CurrentStock
	}
	rec.CurrentStock -= units
	rec.SalesLastMonth += units
	rec.TotalSales += units
	rec.LastSoldDate = today
	return units
}

func applyRestock(rec *model.Record, units int, newExpiry string) {
	rec.CurrentStock += units
	if newExpiry != "" {
		rec.ExpiryDate = newExpiry
	}
}

// applyReturn moves up to units back into stock, capped at the month's
// sales. TotalSales is untouched: it only ever grows.
func applyReturn(rec *model.Record, units int) int {
	if units > rec.SalesLastMonth {
		units = rec.SalesLastMonth
	}
	rec.CurrentStock += units
	rec.SalesLastMonth -= units
	return units
}

func summarize(records []model.Record, today string, windowDays int) (outOfStock, lowStock, expired, expiringSoon int) {
	horizon := time.Now().AddDate(0, 0, windowDays).Format(model.DateLayout)
	for _, r := range records {
		switch {
		case r.CurrentStock == 0:
			outOfStock++
		case r.CurrentStock < 10:
			lowStock++
		}
		switch {
		case r.ExpiryDate < today:
			expired++
		case r.ExpiryDate <= horizon:
			expiringSoon++
		}
	}
	return outOfStock, lowStock, expired, expiringSoon
}
