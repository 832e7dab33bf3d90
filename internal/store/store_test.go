package store

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/model"
)

var testSections = []string{"SectionA", "SectionB", "SectionC", "ColdStorage"}

func dateFromNow(days int) string {
	return time.Now().AddDate(0, 0, days).Format(model.DateLayout)
}

func testRecords() []model.Record {
	return []model.Record{
		{ProductID: 11023, ProductName: "Organic Tomatoes", Location: "SectionC-Aisle3-Shelf4", CurrentStock: 10, LastSoldDate: dateFromNow(-4), ExpiryDate: dateFromNow(2), SalesLastMonth: 80, TotalSales: 420, FactoryDistanceKM: 15},
		{ProductID: 11024, ProductName: "Green Lettuce", Location: "SectionA-Aisle1-Shelf3", CurrentStock: 25, LastSoldDate: dateFromNow(-1), ExpiryDate: dateFromNow(9), SalesLastMonth: 95, TotalSales: 380, FactoryDistanceKM: 8},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inventory.csv")
	s := New(path, testSections)
	if err := s.Replace(testRecords()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, testRecords()) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, testRecords())
	}
}

func TestLoadMissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "absent.csv"), nil)
	_, err := s.Load()
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Path == "" {
		t.Fatalf("expected path in error: %+v", nf)
	}
}

func TestLoadBadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.csv")
	if err := os.WriteFile(path, []byte("ID,Name\n1,x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := New(path, nil).Load()
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
}

func TestLoadNonNumericStock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.csv")
	content := "ProductID,ProductName,Location,CurrentStock,LastSoldDate,ExpiryDate,SalesLastMonth,TotalSales,FactoryDistanceKM\n" +
		"11023,Organic Tomatoes,SectionC,lots,2025-09-18,2025-09-23,80,420,15\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := New(path, nil).Load()
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.Line != 2 {
		t.Fatalf("expected line 2, got %d", se.Line)
	}
}

func TestUpsertPartialUpdate(t *testing.T) {
	s := newTestStore(t)
	stock := 50
	got, err := s.Upsert(11023, model.Update{CurrentStock: &stock})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	want := testRecords()[0]
	want.CurrentStock = 50
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected record:\n got %+v\nwant %+v", got, want)
	}
	// the change must be durable
	records, err := s.Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if records[0].CurrentStock != 50 {
		t.Fatalf("expected persisted stock 50, got %d", records[0].CurrentStock)
	}
}

func TestUpsertUnknownProduct(t *testing.T) {
	s := newTestStore(t)
	stock := 5
	_, err := s.Upsert(99999, model.Update{CurrentStock: &stock})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	records, _ := s.Load()
	if !reflect.DeepEqual(records, testRecords()) {
		t.Fatalf("store changed on failed upsert")
	}
}

func TestUpsertNegativeStockRejected(t *testing.T) {
	s := newTestStore(t)
	stock := -1
	_, err := s.Upsert(11023, model.Update{CurrentStock: &stock})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	records, _ := s.Load()
	if !reflect.DeepEqual(records, testRecords()) {
		t.Fatalf("store changed on failed upsert")
	}
}

func TestUpsertTotalSalesMonotonic(t *testing.T) {
	s := newTestStore(t)
	total := 10 // stored value is 420
	_, err := s.Upsert(11023, model.Update{TotalSales: &total})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Field != "TotalSales" {
		t.Fatalf("unexpected field: %+v", ve)
	}
}

func TestUpsertUnknownSection(t *testing.T) {
	s := newTestStore(t)
	loc := "Basement-Aisle1-Shelf1"
	_, err := s.Upsert(11023, model.Update{Location: &loc})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestReplaceDuplicateID(t *testing.T) {
	s := newTestStore(t)
	records := testRecords()
	records[1].ProductID = records[0].ProductID
	err := s.Replace(records)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestFindByName(t *testing.T) {
	s := newTestStore(t)
	rec, err := s.FindByName("lettuce")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if rec.ProductID != 11024 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if _, err := s.FindByName("no such thing"); err == nil {
		t.Fatalf("expected error for unknown name")
	}
}

func TestRevisionIncrements(t *testing.T) {
	s := newTestStore(t)
	before := s.Revision()
	stock := 11
	if _, err := s.Upsert(11024, model.Update{CurrentStock: &stock}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if s.Revision() != before+1 {
		t.Fatalf("expected revision %d, got %d", before+1, s.Revision())
	}
}
