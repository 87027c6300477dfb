// Package scaleapi defines the JSON payloads shared by the hub API and its
// clients, together with the field-name fallback rules for payloads coming
// from the scales themselves.
package scaleapi

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/scalehub/internal/common"
	"github.com/dmitrijs2005/scalehub/internal/expiry"
)

// Product is the canonical product record. Dates are masked DD-MM-YY
// strings, empty when not set.
type Product struct {
	PLU             int64   `json:"pluNumber"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	ShelfLifeDays   int     `json:"shelfLife"`
	ManufactureDate string  `json:"manufactureDate"`
	SellByDate      string  `json:"sellByDate"`
}

// ProductList is the inner envelope of a cached catalog.
type ProductList struct {
	Products []Product `json:"products"`
}

// CachedProducts is the response body of the cached-catalog endpoint. The
// double nesting is part of the wire contract.
type CachedProducts struct {
	Products ProductList `json:"products"`
}

// pluFields lists the field names a product's PLU may arrive under, in
// preference order. Scale firmwares disagree on the name; server-side
// renames are handled by editing this list and nothing else.
var pluFields = []string{"pluNumber", "plu", "product_key", "productKey", "code", "id"}

// shelfLifeFields lists the accepted names for the shelf life in days.
var shelfLifeFields = []string{"shelfLife", "shelfLifeInDays"}

// RawPLU extracts the PLU from a loosely typed product record, trying each
// known field name in order and taking the first usable numeric value.
func RawPLU(raw map[string]any) (int64, bool) {
	for _, f := range pluFields {
		if n, ok := toInt64(raw[f]); ok {
			return n, true
		}
	}
	return 0, false
}

// ProductFromRaw builds a canonical Product from a loosely typed record as
// decoded from a scale payload. It reports false when no usable PLU can be
// found; all other fields degrade to their zero values. Dates are run
// through the masking step so near-miss forms like "01/01/26" normalize
// instead of being dropped.
func ProductFromRaw(raw map[string]any) (Product, bool) {
	plu, ok := RawPLU(raw)
	if !ok {
		return Product{}, false
	}
	p := Product{PLU: plu}
	p.Name, _ = raw["name"].(string)
	p.Price, _ = toFloat(raw["price"])
	for _, f := range shelfLifeFields {
		if n, ok := toInt64(raw[f]); ok {
			p.ShelfLifeDays = int(n)
			break
		}
	}
	if s, ok := raw["manufactureDate"].(string); ok {
		p.ManufactureDate = expiry.MaskDate(s)
	}
	if s, ok := raw["sellByDate"].(string); ok {
		p.SellByDate = expiry.MaskDate(s)
	}
	return p, true
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case string:
		n = strings.TrimSpace(n)
		if n == "" {
			return 0, false
		}
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// PushResult reports how many products a push wrote to the scale.
type PushResult struct {
	Pushed int `json:"pushed"`
}

// ProductPatch is a partial product update. Nil fields are left untouched.
type ProductPatch struct {
	Name            *string  `json:"name,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	ShelfLifeDays   *int     `json:"shelfLife,omitempty"`
	ManufactureDate *string  `json:"manufactureDate,omitempty"`
	SellByDate      *string  `json:"sellByDate,omitempty"`
}

// Validate checks every supplied field; it never requires a field to be
// present. Dates are checked in their masked form, the same form Apply
// stores, so raw keypad digits like "311226" pass and "31-02-26" does not.
func (p ProductPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return fmt.Errorf("%w: name must not be blank", common.ErrorValidation)
	}
	if p.Price != nil {
		if math.IsNaN(*p.Price) || math.IsInf(*p.Price, 0) || *p.Price < 0 {
			return fmt.Errorf("%w: price must be a non-negative number", common.ErrorValidation)
		}
	}
	if p.ShelfLifeDays != nil && *p.ShelfLifeDays < 0 {
		return fmt.Errorf("%w: shelfLife must be zero or more days", common.ErrorValidation)
	}
	if p.ManufactureDate != nil {
		if err := expiry.ValidateDate(expiry.MaskDate(*p.ManufactureDate)); err != nil {
			return fmt.Errorf("%w: manufactureDate: %s", common.ErrorValidation, err)
		}
	}
	if p.SellByDate != nil {
		if err := expiry.ValidateDate(expiry.MaskDate(*p.SellByDate)); err != nil {
			return fmt.Errorf("%w: sellByDate: %s", common.ErrorValidation, err)
		}
	}
	return nil
}

// IsEmpty reports whether the patch changes nothing.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Price == nil && p.ShelfLifeDays == nil &&
		p.ManufactureDate == nil && p.SellByDate == nil
}

// Apply copies the supplied fields onto dst, masking dates on the way in.
func (p ProductPatch) Apply(dst *Product) {
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.Price != nil {
		dst.Price = *p.Price
	}
	if p.ShelfLifeDays != nil {
		dst.ShelfLifeDays = *p.ShelfLifeDays
	}
	if p.ManufactureDate != nil {
		dst.ManufactureDate = expiry.MaskDate(*p.ManufactureDate)
	}
	if p.SellByDate != nil {
		dst.SellByDate = expiry.MaskDate(*p.SellByDate)
	}
}
