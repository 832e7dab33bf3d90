// Package store persists inventory records in a CSV file with a fixed
// column order and atomic full-file rewrites.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/model"
)

// Store is a CSV-backed inventory store. Every mutation is a full
// read-modify-write ending in an atomic rename, so readers never observe a
// partially written file.
//
// Mutations within one process are serialized by the store mutex. Across
// processes (generator and edit service writing in the same instant) the
// file stays well-formed but the outcome is last-writer-wins; a concurrent
// update can be lost. This is a known, accepted race for this
// simulation-grade system.
type Store struct {
	mu       sync.Mutex
	path     string
	sections []string
	revision atomic.Uint64
}

// New creates a Store for the CSV file at path. sections lists the valid
// warehouse section codes used for Location validation; an empty list
// disables the section check.
func New(path string, sections []string) *Store {
	return &Store{path: path, sections: sections}
}

// Path returns the CSV file path backing the store.
func (s *Store) Path() string { return s.path }

// Revision returns the number of successful saves since process start.
func (s *Store) Revision() uint64 { return s.revision.Load() }

// Load parses the file into an ordered record slice.
func (s *Store) Load() ([]model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// Save rewrites the entire file atomically, preserving column order.
func (s *Store) Save(records []model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(records)
}

// Replace validates all records (including ProductID uniqueness) and saves
// them wholesale. Used by seeding and spreadsheet import.
func (s *Store) Replace(records []model.Record) error {
	seen := make(map[int]struct{}, len(records))
	for _, r := range records {
		if _, dup := seen[r.ProductID]; dup {
			return &ValidationError{ProductID: r.ProductID, Field: "ProductID", Msg: "duplicated"}
		}
		seen[r.ProductID] = struct{}{}
		if err := validate(r, nil); err != nil {
			return err
		}
		if err := s.checkSection(r); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(records)
}

// Upsert applies a partial update to the record with the given ProductID,
// validates the result, and saves. The file is untouched when the product
// is unknown or an invariant would break.
func (s *Store) Upsert(productID int, upd model.Update) (model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadLocked()
	if err != nil {
		return model.Record{}, err
	}
	idx := -1
	for i := range records {
		if records[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Record{}, &NotFoundError{ProductID: productID}
	}
	prev := records[idx]
	next := upd.Apply(prev)
	next.ProductID = prev.ProductID
	if err := validate(next, &prev); err != nil {
		return model.Record{}, err
	}
	if upd.Location != nil {
		if err := s.checkSection(next); err != nil {
			return model.Record{}, err
		}
	}
	records[idx] = next
	if err := s.saveLocked(records); err != nil {
		return model.Record{}, err
	}
	return next, nil
}

// FindByName returns the first record whose name contains the given text,
// case-insensitively. Used to resolve edit commands that address a product
// by name instead of ID.
func (s *Store) FindByName(name string) (model.Record, error) {
	records, err := s.Load()
	if err != nil {
		return model.Record{}, err
	}
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.ProductName), needle) {
			return r, nil
		}
	}
	return model.Record{}, &NotFoundError{ProductID: -1}
}

func (s *Store) loadLocked() ([]model.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: s.path}
		}
		return nil, fmt.Errorf("open inventory: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(model.Header)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, &SchemaError{Msg: err.Error()}
	}
	if len(rows) == 0 {
		return nil, &SchemaError{Msg: "empty file, header row required"}
	}
	for i, name := range model.Header {
		if rows[0][i] != name {
			return nil, &SchemaError{Msg: fmt.Sprintf("column %d: expected %q, got %q", i, name, rows[0][i])}
		}
	}

	records := make([]model.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseRow(row, i+2)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *Store) saveLocked(records []model.Record) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".inventory-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(model.Header); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write(formatRow(rec)); err != nil {
			tmp.Close()
			return fmt.Errorf("write record %d: %w", rec.ProductID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace inventory: %w", err)
	}
	s.revision.Add(1)
	return nil
}

func (s *Store) checkSection(r model.Record) error {
	if len(s.sections) == 0 {
		return nil
	}
	section, _, _ := strings.Cut(r.Location, "-")
	for _, valid := range s.sections {
		if section == valid {
			return nil
		}
	}
	return &ValidationError{ProductID: r.ProductID, Field: "Location", Msg: fmt.Sprintf("unknown section %q", section)}
}

func parseRow(row []string, line int) (model.Record, error) {
	var rec model.Record
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return rec, &SchemaError{Line: line, Msg: fmt.Sprintf("ProductID %q is not an integer", row[0])}
	}
	stock, err := strconv.Atoi(row[3])
	if err != nil {
		return rec, &SchemaError{Line: line, Msg: fmt.Sprintf("CurrentStock %q is not an integer", row[3])}
	}
	salesMonth, err := strconv.Atoi(row[6])
	if err != nil {
		return rec, &SchemaError{Line: line, Msg: fmt.Sprintf("SalesLastMonth %q is not an integer", row[6])}
	}
	totalSales, err := strconv.Atoi(row[7])
	if err != nil {
		return rec, &SchemaError{Line: line, Msg: fmt.Sprintf("TotalSales %q is not an integer", row[7])}
	}
	dist, err := strconv.ParseFloat(row[8], 64)
	if err != nil {
		return rec, &SchemaError{Line: line, Msg: fmt.Sprintf("FactoryDistanceKM %q is not a number", row[8])}
	}
	if _, err := model.ParseDate(row[4]); err != nil {
		return rec, &SchemaError{Line: line, Msg: fmt.Sprintf("LastSoldDate %q is not a date", row[4])}
	}
	if _, err := model.ParseDate(row[5]); err != nil {
		return rec, &SchemaError{Line: line, Msg: fmt.Sprintf("ExpiryDate %q is not a date", row[5])}
	}
	rec = model.Record{
		ProductID:         id,
		ProductName:       row[1],
		Location:          row[2],
		CurrentStock:      stock,
		LastSoldDate:      row[4],
		ExpiryDate:        row[5],
		SalesLastMonth:    salesMonth,
		TotalSales:        totalSales,
		FactoryDistanceKM: dist,
	}
	return rec, nil
}

func formatRow(r model.Record) []string {
	return []string{
		strconv.Itoa(r.ProductID),
		r.ProductName,
		r.Location,
		strconv.Itoa(r.CurrentStock),
		r.LastSoldDate,
		r.ExpiryDate,
		strconv.Itoa(r.SalesLastMonth),
		strconv.Itoa(r.TotalSales),
		strconv.FormatFloat(r.FactoryDistanceKM, 'f', -1, 64),
	}
}

// validate checks the record invariants. prev, when non-nil, is the stored
// version of the same record and enables the TotalSales monotonicity check.
func validate(r model.Record, prev *model.Record) error {
	if strings.TrimSpace(r.ProductName) == "" {
		return &ValidationError{ProductID: r.ProductID, Field: "ProductName", Msg: "must not be empty"}
	}
	if r.CurrentStock < 0 {
		return &ValidationError{ProductID: r.ProductID, Field: "CurrentStock", Msg: "must not be negative"}
	}
	if r.SalesLastMonth < 0 {
		return &ValidationError{ProductID: r.ProductID, Field: "SalesLastMonth", Msg: "must not be negative"}
	}
	if r.TotalSales < 0 {
		return &ValidationError{ProductID: r.ProductID, Field: "TotalSales", Msg: "must not be negative"}
	}
	if prev != nil && r.TotalSales < prev.TotalSales {
		return &ValidationError{ProductID: r.ProductID, Field: "TotalSales", Msg: fmt.Sprintf("must not decrease (%d < %d)", r.TotalSales, prev.TotalSales)}
	}
	if r.FactoryDistanceKM < 0 {
		return &ValidationError{ProductID: r.ProductID, Field: "FactoryDistanceKM", Msg: "must not be negative"}
	}
	if _, err := model.ParseDate(r.LastSoldDate); err != nil {
		return &ValidationError{ProductID: r.ProductID, Field: "LastSoldDate", Msg: "must be YYYY-MM-DD"}
	}
	if _, err := model.ParseDate(r.ExpiryDate); err != nil {
		return &ValidationError{ProductID: r.ProductID, Field: "ExpiryDate", Msg: "must be YYYY-MM-DD"}
	}
	// Dates in YYYY-MM-DD compare correctly as strings.
	if today := time.Now().Format(model.DateLayout); r.LastSoldDate > today {
		return &ValidationError{ProductID: r.ProductID, Field: "LastSoldDate", Msg: "must not be in the future"}
	}
	return nil
}
