package valueobject

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/shared"
)

// Unit codes understood by Convert.
const (
	UnitKilogram   = "kg"
	UnitGram       = "g"
	UnitMilligram  = "mg"
	UnitLiter      = "l"
	UnitMilliliter = "ml"
	UnitPiece      = "pcs"
)

type unitPair struct {
	from string
	to   string
}

// conversionFactors is a direct lookup table. It is not closed
// under composition: g->ml and g->mg exist, mg->l does not.
var conversionFactors = map[unitPair]decimal.Decimal{
	{UnitKilogram, UnitGram}:        decimal.NewFromInt(1000),
	{UnitGram, UnitKilogram}:        decimal.New(1, -3),
	{UnitGram, UnitMilligram}:       decimal.NewFromInt(1000),
	{UnitMilligram, UnitGram}:       decimal.New(1, -3),
	{UnitLiter, UnitMilliliter}:     decimal.NewFromInt(1000),
	{UnitMilliliter, UnitLiter}:     decimal.New(1, -3),
	{UnitGram, UnitMilliliter}:      decimal.NewFromInt(1),
	{UnitMilliliter, UnitGram}:      decimal.NewFromInt(1),
	{UnitKilogram, UnitLiter}:       decimal.NewFromInt(1),
	{UnitLiter, UnitKilogram}:       decimal.NewFromInt(1),
	{UnitKilogram, UnitMilligram}:   decimal.NewFromInt(1000000),
	{UnitMilliliter, UnitMilligram}: decimal.NewFromInt(1000),
}

// UnsupportedConversionError names a unit pair missing from the table.
type UnsupportedConversionError struct {
	From string
	To   string
}

func (e *UnsupportedConversionError) Error() string {
	return fmt.Sprintf("unsupported unit conversion from %q to %q", e.From, e.To)
}

// Is lets callers match with errors.Is(err, shared.ErrUnsupportedConversion).
func (e *UnsupportedConversionError) Is(target error) bool {
	return target == shared.ErrUnsupportedConversion
}

// NormalizeUnit trims and lower-cases a unit code.
func NormalizeUnit(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}

// Convert expresses value, given in from units, in to units. Converting a
// unit to itself returns value unchanged.
func Convert(value decimal.Decimal, from, to string) (decimal.Decimal, error) {
	from = NormalizeUnit(from)
	to = NormalizeUnit(to)
	if from == to {
		return value, nil
	}
	factor, ok := conversionFactors[unitPair{from, to}]
	if !ok {
		return decimal.Zero, &UnsupportedConversionError{From: from, To: to}
	}
	return value.Mul(factor), nil
}

// CanConvert reports whether Convert accepts the pair.
func CanConvert(from, to string) bool {
	from = NormalizeUnit(from)
	to = NormalizeUnit(to)
	if from == to {
		return true
	}
	_, ok := conversionFactors[unitPair{from, to}]
	return ok
}

// KnownUnits returns every unit code that appears in the table, sorted.
func KnownUnits() []string {
	seen := map[string]struct{}{UnitPiece: {}}
	for p := range conversionFactors {
		seen[p.from] = struct{}{}
		seen[p.to] = struct{}{}
	}
	units := make([]string, 0, len(seen))
	for u := range seen {
		units = append(units, u)
	}
	sort.Strings(units)
	return units
}
