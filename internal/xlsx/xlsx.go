// Package xlsx imports and exports inventory snapshots as Excel
// workbooks, for warehouse staff who maintain stock lists in spreadsheets.
package xlsx

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/model"
)

const sheetName = "Inventory"

// ReadRecords parses the first sheet of an Excel workbook into inventory
// records. The header row must carry the canonical column names in any
// order.
func ReadRecords(r io.Reader) ([]model.Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("workbook is empty")
	}

	cols, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]model.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseRow(row, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// WriteRecords renders records as a single-sheet workbook.
func WriteRecords(w io.Writer, records []model.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	header := make([]any, len(model.Header))
	for i, name := range model.Header {
		header[i] = name
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, rec := range records {
		row := []any{
			rec.ProductID,
			rec.ProductName,
			rec.Location,
			rec.CurrentStock,
			rec.LastSoldDate,
			rec.ExpiryDate,
			rec.SalesLastMonth,
			rec.TotalSales,
			rec.FactoryDistanceKM,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write record %d: %w", rec.ProductID, err)
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func mapColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range model.Header {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return cols, nil
}

func parseRow(row []string, cols map[string]int) (model.Record, error) {
	cell := func(name string) string {
		i := cols[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var rec model.Record
	var err error
	if rec.ProductID, err = strconv.Atoi(cell("ProductID")); err != nil {
		return rec, fmt.Errorf("ProductID: %w", err)
	}
	rec.ProductName = cell("ProductName")
	rec.Location = cell("Location")
	if rec.CurrentStock, err = strconv.Atoi(cell("CurrentStock")); err != nil {
		return rec, fmt.Errorf("CurrentStock: %w", err)
	}
	rec.LastSoldDate = cell("LastSoldDate")
	rec.ExpiryDate = cell("ExpiryDate")
	if rec.SalesLastMonth, err = strconv.Atoi(cell("SalesLastMonth")); err != nil {
		return rec, fmt.Errorf("SalesLastMonth: %w", err)
	}
	if rec.TotalSales, err = strconv.Atoi(cell("TotalSales")); err != nil {
		return rec, fmt.Errorf("TotalSales: %w", err)
	}
	if rec.FactoryDistanceKM, err = strconv.ParseFloat(cell("FactoryDistanceKM"), 64); err != nil {
		return rec, fmt.Errorf("FactoryDistanceKM: %w", err)
	}
	return rec, nil
}
