// Package rag answers natural-language inventory questions by retrieving
// relevant record documents and asking a hosted LLM, and applies
// natural-language edit commands through the store.
package rag

import (
	"fmt"
	"strings"
	"time"

	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/model"
)

// BuildDocument renders one record as searchable document text with
// derived status labels, so the model can answer with exact figures.
func BuildDocument(r model.Record, now time.Time) string {
	stock := stockStatus(r.CurrentStock)
	expiry := expiryStatus(r.ExpiryDate, now)
	demand := demandStatus(r.SalesLastMonth)
	distance := distanceStatus(r.FactoryDistanceKM)

	priority := "NORMAL PRIORITY"
	if stock == "CRITICAL LOW STOCK" || stock == "OUT OF STOCK" || expiry == "EXPIRES SOON - URGENT" {
		priority = "HIGH PRIORITY"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Product Information:\n")
	fmt.Fprintf(&b, "Product ID: %d\n", r.ProductID)
	fmt.Fprintf(&b, "Product Name: %s\n", r.ProductName)
	fmt.Fprintf(&b, "Location: %s\n", r.Location)
	fmt.Fprintf(&b, "Current Stock: %d units (%s)\n", r.CurrentStock, stock)
	fmt.Fprintf(&b, "Last Sold Date: %s\n", r.LastSoldDate)
	fmt.Fprintf(&b, "Expiry Date: %s (%s)\n", r.ExpiryDate, expiry)
	fmt.Fprintf(&b, "Sales Last Month: %d units (%s)\n", r.SalesLastMonth, demand)
	fmt.Fprintf(&b, "Total Sales: %d units\n", r.TotalSales)
	fmt.Fprintf(&b, "Factory Distance: %g km (%s)\n", r.FactoryDistanceKM, distance)
	fmt.Fprintf(&b, "Status Summary: %s, %s, %s\n", stock, expiry, demand)
	fmt.Fprintf(&b, "Priority: %s", priority)
	return b.String()
}

func stockStatus(stock int) string {
	switch {
	case stock == 0:
		return "OUT OF STOCK"
	case stock < 10:
		return "CRITICAL LOW STOCK"
	case stock < 50:
		return "LOW STOCK"
	default:
		return "ADEQUATE STOCK"
	}
}

func expiryStatus(expiryDate string, now time.Time) string {
	expiry, err := model.ParseDate(expiryDate)
	if err != nil {
		return "UNKNOWN EXPIRY"
	}
	days := int(expiry.Sub(now.Truncate(24 * time.Hour)).Hours() / 24)
	switch {
	case days < 0:
		return "EXPIRED"
	case days <= 7:
		return "EXPIRES SOON - URGENT"
	case days <= 30:
		return "EXPIRES THIS MONTH"
	default:
		return "FRESH"
	}
}

func demandStatus(salesLastMonth int) string {
	switch {
	case salesLastMonth > 100:
		return "HIGH DEMAND"
	case salesLastMonth > 50:
		return "MEDIUM DEMAND"
	case salesLastMonth > 0:
		return "LOW DEMAND"
	default:
		return "NO RECENT SALES"
	}
}

func distanceStatus(km float64) string {
	switch {
	case km <= 5:
		return "CLOSE TO FACTORY"
	case km <= 15:
		return "MODERATE DISTANCE"
	default:
		return "FAR FROM FACTORY"
	}
}
