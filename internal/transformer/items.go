// =============================================================================
// Fuel Supply Sync - Line Items
// =============================================================================
//
// Line items arrive either as a JSON array in the "Items JSON" column or as
// entries already structured by the reader. Each entry uses the keys:
//   - nome       : product name, used to look up the product id
//   - quantidade : quantity
//   - valorTotal : line total
//
// Numbers may be JSON numbers, numeric strings, "null" or JSON null. Anything
// that is not a number becomes 0; a bad number never fails the record. Only
// a payload that is not an array of objects does.
//
// =============================================================================

package transformer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ginjaninja78/fuel-supply-sync/internal/types"
)

// Item JSON keys.
const (
	keyName       = "nome"
	keyQuantity   = "quantidade"
	keyTotalValue = "valorTotal"
)

// ItemsError reports an items payload that could not be decoded.
type ItemsError struct {
	Err error
}

func (e *ItemsError) Error() string {
	return fmt.Sprintf("invalid items JSON: %v", e.Err)
}

func (e *ItemsError) Unwrap() error {
	return e.Err
}

// ProductLookup resolves a product name to its id, 0 when unknown.
type ProductLookup interface {
	ProductID(ctx context.Context, name string) int
}

// ParseItems decodes and coerces the line items of a record.
// Entries without a name are dropped.
//
// RETURNS:
//   - The line items in source order (empty, never nil).
//   - An *ItemsError when ItemsJSON is not a JSON array of objects.
func ParseItems(rec types.RawRecord) ([]types.LineItem, error) {
	entries := rec.ItemEntries
	if entries == nil {
		var err error
		entries, err = decodeEntries(rec.ItemsJSON)
		if err != nil {
			return nil, err
		}
	}

	items := make([]types.LineItem, 0, len(entries))
	for _, entry := range entries {
		name := entryName(entry[keyName])
		if name == "" {
			continue
		}
		items = append(items, types.LineItem{
			Name:       name,
			Quantity:   CoerceFloat(entry[keyQuantity]),
			TotalValue: CoerceFloat(entry[keyTotalValue]),
		})
	}
	return items, nil
}

// BuildItems parses the record's line items and resolves their product ids.
// A product the lookup cannot find is submitted with id 0.
func BuildItems(ctx context.Context, rec types.RawRecord, lookup ProductLookup) ([]types.PayloadItem, error) {
	lines, err := ParseItems(rec)
	if err != nil {
		return nil, err
	}

	items := make([]types.PayloadItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, types.PayloadItem{
			ProductID: lookup.ProductID(ctx, line.Name),
			Value:     line.TotalValue,
			Quantity:  line.Quantity,
		})
	}
	return items, nil
}

// decodeEntries decodes an items cell. A blank cell has no items.
func decodeEntries(text string) ([]map[string]any, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, &ItemsError{Err: err}
	}
	if dec.More() {
		return nil, &ItemsError{Err: errors.New("unexpected data after the items array")}
	}

	list, ok := raw.([]any)
	if !ok {
		return nil, &ItemsError{Err: fmt.Errorf("expected an array, got %s", jsonKind(raw))}
	}

	entries := make([]map[string]any, 0, len(list))
	for i, v := range list {
		entry, ok := v.(map[string]any)
		if !ok {
			return nil, &ItemsError{Err: fmt.Errorf("item %d: expected an object, got %s", i, jsonKind(v))}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func entryName(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(n)
	default:
		return strings.TrimSpace(fmt.Sprint(n))
	}
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
