package service

import (
	"fmt"
	"strings"
)

// kilograms per unit
var massUnits = map[string]float64{
	"kg":  1,
	"g":   0.001,
	"lb":  0.45359237,
	"lbs": 0.45359237,
}

// centimetres per unit
var lengthUnits = map[string]float64{
	"cm": 1,
	"m":  100,
	"in": 2.54,
	"ft": 30.48,
}

func ToKg(value float64, unit string) (float64, error) {
	factor, err := lookupUnit(massUnits, unit, "kg", "weight unit %q (use kg or lb)")
	if err != nil {
		return 0, err
	}
	return value * factor, nil
}

func WeightFromKg(weightKg float64, unit string) (float64, error) {
	factor, err := lookupUnit(massUnits, unit, "kg", "weight unit %q (use kg or lb)")
	if err != nil {
		return 0, err
	}
	return weightKg / factor, nil
}

func ToCm(value float64, unit string) (float64, error) {
	factor, err := lookupUnit(lengthUnits, unit, "cm", "height unit %q (use cm or in)")
	if err != nil {
		return 0, err
	}
	return value * factor, nil
}

func lookupUnit(table map[string]float64, unit, fallback, msg string) (float64, error) {
	u := strings.ToLower(strings.TrimSpace(unit))
	if u == "" {
		u = fallback
	}
	factor, ok := table[u]
	if !ok {
		return 0, fmt.Errorf("invalid "+msg, unit)
	}
	return factor, nil
}
