package generator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/model"
	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/obs"
	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/store"
)

const seedBaseProductID = 11023

// seedCatalog is the initial product catalog used when no inventory file
// exists yet. Locations are drawn from the configured warehouse layout at
// seeding time so every record passes section validation.
var seedCatalog = []string{
	"Widget A - Heavy Duty",
	"Electronic Component B",
	"Packaging Material C",
	"Storage Box D",
	"Power Tool E",
	"Food Product F",
	"Medical Supply G",
	"Spare Part H",
	"Electronic Device I",
	"Office Supply J",
	"Raw Material K",
	"Consumer Good L",
	"Industrial Item M",
	"Seasonal Product N",
	"Fragile Item O",
}

// Seed creates the initial inventory file when it does not exist. An
// already-present file is left alone.
func (g *Generator) Seed() error {
	if _, err := g.st.Load(); err == nil {
		return nil
	} else {
		var nf *store.NotFoundError
		if !errors.As(err, &nf) {
			return fmt.Errorf("seed check: %w", err)
		}
	}

	g.mu.Lock()
	now := time.Now()
	records := make([]model.Record, 0, len(seedCatalog))
	for i, name := range seedCatalog {
		heavy := strings.Contains(name, "Heavy") || strings.Contains(name, "Industrial")
		perishable := strings.Contains(name, "Food") || strings.Contains(name, "Medical")

		location := g.randomLocation("")
		if location == "" {
			section := "SectionA"
			if len(g.cfg.Sections) > 0 {
				section = g.cfg.Sections[0]
			}
			location = section + "-Aisle1-Shelf1"
		}

		var stock, salesMonth int
		switch {
		case heavy:
			stock = 5 + g.rng.Intn(46)
			salesMonth = 10 + g.rng.Intn(31)
		case perishable:
			stock = 20 + g.rng.Intn(131)
			salesMonth = 50 + g.rng.Intn(71)
		default:
			stock = g.rng.Intn(201)
			salesMonth = g.rng.Intn(151)
		}
		id := seedBaseProductID + i
		// Every fifth product starts low or out of stock.
		if id%5 == 0 {
			stock = g.rng.Intn(9)
		}

		var expiryDays int
		if perishable {
			expiryDays = -5 + g.rng.Intn(66) // may already be expired
		} else {
			expiryDays = 30 + g.rng.Intn(336)
		}

		records = append(records, model.Record{
			ProductID:         id,
			ProductName:       name,
			Location:          location,
			CurrentStock:      stock,
			LastSoldDate:      now.AddDate(0, 0, -g.rng.Intn(31)).Format(model.DateLayout),
			ExpiryDate:        now.AddDate(0, 0, expiryDays).Format(model.DateLayout),
			SalesLastMonth:    salesMonth,
			TotalSales:        salesMonth * (6 + g.rng.Intn(19)),
			FactoryDistanceKM: float64(1 + g.rng.Intn(25)),
		})
	}
	g.mu.Unlock()

	if err := g.st.Replace(records); err != nil {
		return fmt.Errorf("seed save: %w", err)
	}
	obs.Logger.Info("inventory_seeded", "products", len(records), "path", g.st.Path())
	return nil
}
