// Package model defines domain types used by the service.
package model

import "time"

// DateLayout is the wire format for all inventory dates.
const DateLayout = "2006-01-02"

// Header is the fixed CSV column order of the inventory file.
var Header = []string{
	"ProductID",
	"ProductName",
	"Location",
	"CurrentStock",
	"LastSoldDate",
	"ExpiryDate",
	"SalesLastMonth",
	"TotalSales",
	"FactoryDistanceKM",
}

// Record represents one product row of the inventory store.
type Record struct {
	ProductID         int     `json:"product_id"`
	ProductName       string  `json:"product_name"`
	Location          string  `json:"location"`
	CurrentStock      int     `json:"current_stock"`
	LastSoldDate      string  `json:"last_sold_date"`
	ExpiryDate        string  `json:"expiry_date"`
	SalesLastMonth    int     `json:"sales_last_month"`
	TotalSales        int     `json:"total_sales"`
	FactoryDistanceKM float64 `json:"factory_distance_km"`
}

// Update is a partial update of a Record. Nil fields are left untouched.
type Update struct {
	ProductName       *string  `json:"product_name,omitempty"`
	Location          *string  `json:"location,omitempty"`
	CurrentStock      *int     `json:"current_stock,omitempty"`
	LastSoldDate      *string  `json:"last_sold_date,omitempty"`
	ExpiryDate        *string  `json:"expiry_date,omitempty"`
	SalesLastMonth    *int     `json:"sales_last_month,omitempty"`
	TotalSales        *int     `json:"total_sales,omitempty"`
	FactoryDistanceKM *float64 `json:"factory_distance_km,omitempty"`
}

// IsZero reports whether the update names no fields at all.
func (u Update) IsZero() bool {
	return u.ProductName == nil && u.Location == nil && u.CurrentStock == nil &&
		u.LastSoldDate == nil && u.ExpiryDate == nil && u.SalesLastMonth == nil &&
		u.TotalSales == nil && u.FactoryDistanceKM == nil
}

// Apply returns a copy of r with the non-nil fields of u applied.
func (u Update) Apply(r Record) Record {
	if u.ProductName != nil {
		r.ProductName = *u.ProductName
	}
	if u.Location != nil {
		r.Location = *u.Location
	}
	if u.CurrentStock != nil {
		r.CurrentStock = *u.CurrentStock
	}
	if u.LastSoldDate != nil {
		r.LastSoldDate = *u.LastSoldDate
	}
	if u.ExpiryDate != nil {
		r.ExpiryDate = *u.ExpiryDate
	}
	if u.SalesLastMonth != nil {
		r.SalesLastMonth = *u.SalesLastMonth
	}
	if u.TotalSales != nil {
		r.TotalSales = *u.TotalSales
	}
	if u.FactoryDistanceKM != nil {
		r.FactoryDistanceKM = *u.FactoryDistanceKM
	}
	return r
}

// ParseDate parses an inventory date in the YYYY-MM-DD wire format.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
