// Package edit parses natural-language inventory update commands into
// typed partial updates, e.g. "Update product 11023 stock to 50".
package edit

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/model"
)

// Parse failures, distinguished so callers can explain them to the user.
var (
	ErrNoTarget = errors.New("could not identify which product to update, specify a product ID or name")
	ErrNoFields = errors.New("no recognizable field update in command")
)

// Command is a parsed edit request: the addressed product plus the fields
// to change.
type Command struct {
	ProductID   int    // 0 when the product is addressed by name
	ProductName string // lookup key when ProductID is 0
	Update      model.Update
}

var (
	reProductID  = regexp.MustCompile(`product\s*(?:id|number)?\s*#?(\d+)`)
	reRename     = regexp.MustCompile(`product\s*name\s*(\w+)\s*(?:as|to)\s*(\w+)`)
	reStock      = regexp.MustCompile(`(?:current\s*)?stock\s*(?:to|as)\s*(\d+)`)
	reLastSold   = regexp.MustCompile(`last\s*sold\s*date\s*(?:to|as)\s*(\d{4}-\d{2}-\d{2})`)
	reExpiry     = regexp.MustCompile(`expiry\s*date\s*(?:to|as)\s*(\d{4}-\d{2}-\d{2})`)
	reSalesMonth = regexp.MustCompile(`(?:sales\s*last\s*month|last\s*month\s*sales)\s*(?:to|as)\s*(\d+)`)
	reLocation   = regexp.MustCompile(`location\s*(?:to|as)\s*([\w-]+)`)
	reDistance   = regexp.MustCompile(`(?:factory\s*distance|distance\s*(?:to|from)\s*factory)\s*(?:to|as)\s*(\d+(?:\.\d+)?)`)
	reNameTarget = regexp.MustCompile(`^update\s+(.+?)\s+(?:current\s*stock|stock|location|expiry|last\s*sold|sales|factory)`)
)

// Parse extracts an edit command from free text. The match is
// case-insensitive and tolerant of field-name variations, in the spirit of
// the conversational dashboard it serves.
func Parse(text string) (Command, error) {
	q := strings.ToLower(strings.TrimSpace(text))
	var cmd Command

	if m := reProductID.FindStringSubmatch(q); m != nil {
		cmd.ProductID, _ = strconv.Atoi(m[1])
	}

	if m := reRename.FindStringSubmatch(q); m != nil {
		cmd.ProductName = m[1]
		newName := m[2]
		cmd.Update.ProductName = &newName
	}
	if m := reStock.FindStringSubmatch(q); m != nil {
		n, _ := strconv.Atoi(m[1])
		cmd.Update.CurrentStock = &n
	}
	if m := reLastSold.FindStringSubmatch(q); m != nil {
		d := m[1]
		cmd.Update.LastSoldDate = &d
	}
	if m := reExpiry.FindStringSubmatch(q); m != nil {
		d := m[1]
		cmd.Update.ExpiryDate = &d
	}
	if m := reSalesMonth.FindStringSubmatch(q); m != nil {
		n, _ := strconv.Atoi(m[1])
		cmd.Update.SalesLastMonth = &n
	}
	if m := reLocation.FindStringSubmatch(q); m != nil {
		// location values keep their original casing
		loc := originalCase(text, m[1])
		cmd.Update.Location = &loc
	}
	if m := reDistance.FindStringSubmatch(q); m != nil {
		f, _ := strconv.ParseFloat(m[1], 64)
		cmd.Update.FactoryDistanceKM = &f
	}

	if cmd.Update.IsZero() {
		return Command{}, ErrNoFields
	}
	if cmd.ProductID == 0 && cmd.ProductName == "" {
		if m := reNameTarget.FindStringSubmatch(q); m != nil && !strings.HasPrefix(m[1], "product") {
			cmd.ProductName = m[1]
		}
	}
	if cmd.ProductID == 0 && cmd.ProductName == "" {
		return Command{}, ErrNoTarget
	}
	return cmd, nil
}

// originalCase recovers the matched token with its casing from the raw
// input, since matching runs on the lowercased text.
func originalCase(raw, lowered string) string {
	idx := strings.Index(strings.ToLower(raw), lowered)
	if idx < 0 {
		return lowered
	}
	return raw[idx : idx+len(lowered)]
}
