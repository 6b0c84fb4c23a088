package enums

import "fmt"

// ProductUnit is the base selling unit a product is priced in.
type ProductUnit string

const (
	ProductUnitPiece ProductUnit = "piece"
	ProductUnitKg    ProductUnit = "kg"
	ProductUnitGram  ProductUnit = "g"
	ProductUnitLitre ProductUnit = "l"
	ProductUnitMl    ProductUnit = "ml"
)

var validProductUnits = []ProductUnit{
	ProductUnitPiece,
	ProductUnitKg,
	ProductUnitGram,
	ProductUnitLitre,
	ProductUnitMl,
}

// String implements fmt.Stringer.
func (p ProductUnit) String() string {
	return string(p)
}

// IsValid reports whether the unit is recognized.
func (p ProductUnit) IsValid() bool {
	for _, candidate := range validProductUnits {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductUnit converts raw input into a ProductUnit.
func ParseProductUnit(value string) (ProductUnit, error) {
	for _, candidate := range validProductUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product unit %q", value)
}
