package scaling

import (
	"math"
	"strings"
)

// Unit is a measurement unit from the closed set below
type Unit string

const (
	Gram       Unit = "g"
	Kilogram   Unit = "kg"
	Milliliter Unit = "ml"
	Liter      Unit = "l"
	Piece      Unit = "piece"
)

// Family groups units that convert into one another by a fixed factor
type Family string

const (
	FamilyMass   Family = "mass"
	FamilyVolume Family = "volume"
	FamilyCount  Family = "count"
)

type unitDef struct {
	family     Family
	toBaseUnit float64
}

var unitTable = map[Unit]unitDef{
	// mass (base = g)
	Gram:     {family: FamilyMass, toBaseUnit: 1},
	Kilogram: {family: FamilyMass, toBaseUnit: 1000},

	// volume (base = ml)
	Milliliter: {family: FamilyVolume, toBaseUnit: 1},
	Liter:      {family: FamilyVolume, toBaseUnit: 1000},

	// count (base = piece)
	Piece: {family: FamilyCount, toBaseUnit: 1},
}

var baseUnits = map[Family]Unit{
	FamilyMass:   Gram,
	FamilyVolume: Milliliter,
	FamilyCount:  Piece,
}

var unitAliases = map[string]Unit{
	"g":           Gram,
	"gr":          Gram,
	"gram":        Gram,
	"grams":       Gram,
	"kg":          Kilogram,
	"kgs":         Kilogram,
	"kilo":        Kilogram,
	"kilogram":    Kilogram,
	"kilograms":   Kilogram,
	"ml":          Milliliter,
	"milliliter":  Milliliter,
	"milliliters": Milliliter,
	"millilitre":  Milliliter,
	"millilitres": Milliliter,
	"l":           Liter,
	"liter":       Liter,
	"liters":      Liter,
	"litre":       Liter,
	"litres":      Liter,
	"piece":       Piece,
	"pieces":      Piece,
	"pc":          Piece,
	"pcs":         Piece,
}

// Units returns the supported units in a stable order
func Units() []Unit {
	return []Unit{Gram, Kilogram, Milliliter, Liter, Piece}
}

// ParseUnit normalizes a unit name, accepting common spellings
func ParseUnit(s string) (Unit, bool) {
	u, ok := unitAliases[strings.ToLower(strings.TrimSpace(s))]
	return u, ok
}

// Valid reports whether u belongs to the supported set
func (u Unit) Valid() bool {
	_, ok := unitTable[u]
	return ok
}

// Family returns the unit family, or "" for an unknown unit
func (u Unit) Family() Family {
	return unitTable[u].family
}

// Factor returns the multiplier from u to its family's base unit
func (u Unit) Factor() float64 {
	return unitTable[u].toBaseUnit
}

// Base returns the base unit of u's family
func (u Unit) Base() Unit {
	return baseUnits[u.Family()]
}

// ToBase expresses quantity in the base unit of unit's family.
func ToBase(quantity float64, unit Unit) (float64, error) {
	if !positive(quantity) {
		return 0, newError(ErrInvalidQuantity, "", quantity, "quantity must be > 0, got %v", quantity)
	}
	def, ok := unitTable[unit]
	if !ok {
		return 0, newError(ErrInvalidParameter, "", quantity, "unsupported unit %q", unit)
	}
	base := quantity * def.toBaseUnit
	if !positive(base) {
		return 0, newError(ErrInvalidParameter, "", quantity, "%v %s is out of range", quantity, unit)
	}
	return base, nil
}

// Convert rescales quantity from one unit to another within the same family.
// There is no density model, so mass, volume and count never mix.
func Convert(quantity float64, from, to Unit) (float64, error) {
	if !positive(quantity) {
		return 0, newError(ErrInvalidQuantity, "", quantity, "quantity must be > 0, got %v", quantity)
	}
	fromDef, ok := unitTable[from]
	if !ok {
		return 0, newError(ErrInvalidParameter, "", quantity, "unsupported unit %q", from)
	}
	toDef, ok := unitTable[to]
	if !ok {
		return 0, newError(ErrInvalidParameter, "", quantity, "unsupported unit %q", to)
	}
	if fromDef.family != toDef.family {
		return 0, newError(ErrIncompatibleUnits, "", quantity,
			"cannot convert %s (%s) to %s (%s)", from, fromDef.family, to, toDef.family)
	}
	if from == to {
		return quantity, nil
	}
	converted := quantity * fromDef.toBaseUnit / toDef.toBaseUnit
	if !positive(converted) {
		return 0, newError(ErrInvalidParameter, "", quantity,
			"%v %s is out of range in %s", quantity, from, to)
	}
	return converted, nil
}

// positive rejects zero, negatives, NaN and infinities.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
