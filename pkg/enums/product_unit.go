package enums

import "fmt"

// ProductUnit is the unit a listing is priced in.
type ProductUnit string

const (
	ProductUnitKg     ProductUnit = "kg"
	ProductUnitDozen  ProductUnit = "dozen"
	ProductUnitLitre  ProductUnit = "litre"
	ProductUnitBundle ProductUnit = "bundle"
)

var validProductUnits = []ProductUnit{
	ProductUnitKg,
	ProductUnitDozen,
	ProductUnitLitre,
	ProductUnitBundle,
}

func (u ProductUnit) String() string {
	return string(u)
}

func (u ProductUnit) IsValid() bool {
	for _, candidate := range validProductUnits {
		if candidate == u {
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
