package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/foxxcyber/recipe-scaler/internal/models"
	"github.com/foxxcyber/recipe-scaler/internal/scaling"
)

// IngredientParser turns pasted ingredient lists ("250 g flour",
// "- 1 ½ l milk", "2 eggs") into recipe ingredients.
type IngredientParser struct {
	bulletPattern   *regexp.Regexp
	rangePattern    *regexp.Regexp
	mixedPattern    *regexp.Regexp
	fractionPattern *regexp.Regexp
	quantityPattern *regexp.Regexp
	unitPattern     *regexp.Regexp
	parenPattern    *regexp.Regexp
	spacePattern    *regexp.Regexp
}

// Unicode vulgar fractions
var unicodeFractions = map[rune]float64{
	'¼': 0.25,
	'½': 0.5,
	'¾': 0.75,
	'⅓': 1.0 / 3,
	'⅔': 2.0 / 3,
	'⅕': 0.2,
	'⅖': 0.4,
	'⅗': 0.6,
	'⅘': 0.8,
	'⅙': 1.0 / 6,
	'⅚': 5.0 / 6,
	'⅛': 0.125,
	'⅜': 0.375,
	'⅝': 0.625,
	'⅞': 0.875,
}

// NewIngredientParser creates a new parser instance
func NewIngredientParser() *IngredientParser {
	return &IngredientParser{
		// Markdown checkboxes, bullets and numbered lists: "- [ ] ", "* ", "3. "
		bulletPattern: regexp.MustCompile(`^\s*(?:[-*•]\s*(?:\[[ xX]?\]\s*)?|\d+[.)]\s+)`),

		// Quantity range: 2.5 - 3
		rangePattern: regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s*-\s*(\d+(?:[.,]\d+)?)\s*`),

		// Whole number and ASCII fraction: 1 1/2
		mixedPattern: regexp.MustCompile(`^(\d+)\s+(\d+)/(\d+)\s*`),

		// ASCII fraction: 1/2
		fractionPattern: regexp.MustCompile(`^(\d+)/(\d+)\s*`),

		// Decimal or whole number, comma decimals allowed: 1.5, 0,5
		quantityPattern: regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s*`),

		// Longer spellings first
		unitPattern: regexp.MustCompile(`(?i)^(millilit(?:er|re)s?|kilograms?|lit(?:er|re)s?|grams?|pieces?|kilos?|kgs?|pcs|pc|ml|gr|kg|l|g|tablespoons?|teaspoons?|cups?|tbsp|tsp|ounces?|oz|pounds?|lbs?|pinch(?:es)?|cloves?)\b\.?\s*`),

		parenPattern: regexp.MustCompile(`\(([^)]+)\)`),
		spacePattern: regexp.MustCompile(`\s+`),
	}
}

// Parse parses one ingredient per line. Blank lines and lines without a
// name are skipped.
func (p *IngredientParser) Parse(content string) []models.ParsedIngredient {
	var items []models.ParsedIngredient
	for i, line := range strings.Split(content, "\n") {
		raw := strings.TrimSpace(line)
		if raw == "" {
			continue
		}
		item := p.parseLine(raw, i+1)
		if item.Name == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

// ParseIngredients returns the lines that can be used as recipe
// ingredients as-is, and the ones that need editing.
func (p *IngredientParser) ParseIngredients(content string) (ok []models.Ingredient, rejected []models.ParsedIngredient) {
	ok = make([]models.Ingredient, 0)
	rejected = make([]models.ParsedIngredient, 0)
	for _, item := range p.Parse(content) {
		if !item.Supported {
			rejected = append(rejected, item)
			continue
		}
		ok = append(ok, models.Ingredient{Name: item.Name, Weight: item.Weight, Unit: item.Unit})
	}
	return ok, rejected
}

func (p *IngredientParser) parseLine(raw string, line int) models.ParsedIngredient {
	item := models.ParsedIngredient{RawText: raw, Line: line}

	remaining := p.bulletPattern.ReplaceAllString(raw, "")

	var hasQuantity bool
	remaining, item.Weight, hasQuantity = p.extractQuantity(remaining)

	var rawUnit string
	remaining, rawUnit = p.extractUnit(remaining)

	remaining, item.Notes = p.extractNotes(remaining)
	item.Name = p.cleanName(remaining)

	switch {
	case rawUnit != "":
		if unit, ok := scaling.ParseUnit(rawUnit); ok {
			item.Unit = string(unit)
		} else {
			item.Unit = strings.ToLower(rawUnit)
		}
	case hasQuantity:
		// "2 eggs"
		item.Unit = string(scaling.Piece)
	}

	item.Supported = hasQuantity && item.Weight > 0 && scaling.Unit(item.Unit).Valid()
	return item
}

// extractQuantity handles ranges, fractions and decimals at the start of s
func (p *IngredientParser) extractQuantity(s string) (string, float64, bool) {
	s = strings.TrimSpace(s)

	// Range: use the average
	if m := p.rangePattern.FindStringSubmatch(s); len(m) == 3 {
		low, _ := parseDecimal(m[1])
		high, _ := parseDecimal(m[2])
		return strings.TrimSpace(s[len(m[0]):]), (low + high) / 2, true
	}

	if m := p.mixedPattern.FindStringSubmatch(s); len(m) == 4 {
		whole, _ := strconv.ParseFloat(m[1], 64)
		num, _ := strconv.ParseFloat(m[2], 64)
		denom, _ := strconv.ParseFloat(m[3], 64)
		if denom != 0 {
			return strings.TrimSpace(s[len(m[0]):]), whole + num/denom, true
		}
	}

	if m := p.fractionPattern.FindStringSubmatch(s); len(m) == 3 {
		num, _ := strconv.ParseFloat(m[1], 64)
		denom, _ := strconv.ParseFloat(m[2], 64)
		if denom != 0 {
			return strings.TrimSpace(s[len(m[0]):]), num / denom, true
		}
	}

	// Optional whole number followed by a unicode fraction: "1 ½", "1½", "½"
	whole := 0.0
	rest := s
	if m := p.quantityPattern.FindStringSubmatch(s); len(m) == 2 {
		whole, _ = parseDecimal(m[1])
		rest = s[len(m[0]):]
	}
	if r := []rune(rest); len(r) > 0 {
		if frac, ok := unicodeFractions[r[0]]; ok {
			return strings.TrimSpace(string(r[1:])), whole + frac, true
		}
	}
	if rest != s {
		return strings.TrimSpace(rest), whole, true
	}

	return s, 0, false
}

// extractUnit returns the unit spelling found at the start of s
func (p *IngredientParser) extractUnit(s string) (string, string) {
	if m := p.unitPattern.FindStringSubmatch(s); len(m) >= 2 {
		return strings.TrimSpace(s[len(m[0]):]), m[1]
	}
	return s, ""
}

// extractNotes extracts content in parentheses or after a comma
func (p *IngredientParser) extractNotes(s string) (string, string) {
	var notes []string

	for _, m := range p.parenPattern.FindAllStringSubmatch(s, -1) {
		notes = append(notes, strings.TrimSpace(m[1]))
	}
	s = p.parenPattern.ReplaceAllString(s, "")

	if idx := strings.Index(s, ","); idx >= 0 {
		if after := strings.TrimSpace(s[idx+1:]); after != "" {
			notes = append(notes, after)
		}
		s = s[:idx]
	}

	return strings.TrimSpace(s), strings.Join(notes, "; ")
}

func (p *IngredientParser) cleanName(s string) string {
	s = strings.TrimSpace(s)
	// "100 g of flour"
	if len(s) > 3 && strings.EqualFold(s[:3], "of ") {
		s = s[3:]
	}
	s = strings.TrimRight(s, ".,;:-_ ")
	return strings.TrimSpace(p.spacePattern.ReplaceAllString(s, " "))
}

func parseDecimal(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
}
