// internal/models/catalog.go
package models

import "strings"

// MineralCategory is the internal category code of a listing.
type MineralCategory string

const (
	CategoryGold         MineralCategory = "GOLD"
	CategorySilver       MineralCategory = "SILVER"
	CategoryCopper       MineralCategory = "COPPER"
	CategoryCobalt       MineralCategory = "COBALT"
	CategoryLithium      MineralCategory = "LITHIUM"
	CategoryColtan       MineralCategory = "COLTAN"
	CategoryTin          MineralCategory = "TIN"
	CategoryTungsten     MineralCategory = "TUNGSTEN"
	CategoryGemstone     MineralCategory = "GEMSTONE"
	CategoryOtherMineral MineralCategory = "OTHER_MINERAL"
)

// UnitOfMeasure is the internal unit code of a listing quantity.
type UnitOfMeasure string

const (
	UnitGrams     UnitOfMeasure = "GRAMS"
	UnitKilograms UnitOfMeasure = "KILOGRAMS"
	UnitTonnes    UnitOfMeasure = "TONNES"
	UnitCarats    UnitOfMeasure = "CARATS"
	UnitOunces    UnitOfMeasure = "OUNCES"
)

// Display-name lookup tables. Unknown labels fall back to OTHER_MINERAL and
// GRAMS; the fallback is a deliberate default, not silent miscategorization.
var categoryLabels = map[MineralCategory]string{
	CategoryGold:         "Gold",
	CategorySilver:       "Silver",
	CategoryCopper:       "Copper",
	CategoryCobalt:       "Cobalt",
	CategoryLithium:      "Lithium",
	CategoryColtan:       "Coltan",
	CategoryTin:          "Tin",
	CategoryTungsten:     "Tungsten",
	CategoryGemstone:     "Gemstone",
	CategoryOtherMineral: "Other Mineral",
}

var unitLabels = map[UnitOfMeasure]string{
	UnitGrams:     "grams",
	UnitKilograms: "kilograms",
	UnitTonnes:    "tonnes",
	UnitCarats:    "carats",
	UnitOunces:    "ounces",
}

var categoryByLabel = invertCategoryLabels()
var unitByLabel = invertUnitLabels()

func invertCategoryLabels() map[string]MineralCategory {
	m := make(map[string]MineralCategory, len(categoryLabels))
	for code, label := range categoryLabels {
		m[strings.ToLower(label)] = code
		m[strings.ToLower(string(code))] = code
	}
	return m
}

func invertUnitLabels() map[string]UnitOfMeasure {
	m := make(map[string]UnitOfMeasure, len(unitLabels))
	for code, label := range unitLabels {
		m[strings.ToLower(label)] = code
		m[strings.ToLower(string(code))] = code
	}
	return m
}

func (c MineralCategory) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return categoryLabels[CategoryOtherMineral]
}

func (u UnitOfMeasure) Label() string {
	if label, ok := unitLabels[u]; ok {
		return label
	}
	return unitLabels[UnitGrams]
}

// CategoryFromLabel resolves a display name or code to a category, falling
// back to OTHER_MINERAL for unknown input.
func CategoryFromLabel(label string) MineralCategory {
	if code, ok := categoryByLabel[strings.ToLower(strings.TrimSpace(label))]; ok {
		return code
	}
	return CategoryOtherMineral
}

// UnitFromLabel resolves a display name or code to a unit, falling back to
// GRAMS for unknown input.
func UnitFromLabel(label string) UnitOfMeasure {
	if code, ok := unitByLabel[strings.ToLower(strings.TrimSpace(label))]; ok {
		return code
	}
	return UnitGrams
}

// Categories returns all category codes with display names, for the public
// catalog endpoint.
func Categories() []map[string]string {
	out := make([]map[string]string, 0, len(categoryLabels))
	for code, label := range categoryLabels {
		out = append(out, map[string]string{"code": string(code), "name": label})
	}
	return out
}
