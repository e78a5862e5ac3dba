package recipe

import "strings"

// ListDelimiter separates entries of the ingredients and instructions
// columns. Entries may contain commas, so a newline is used.
const ListDelimiter = "\n"

// DietDelimiter separates the active diet flags in the diet column.
const DietDelimiter = ","

// Diet flag names as stored and as exchanged with the recipe provider.
const (
	DietVegetarian = "vegetarian"
	DietVegan      = "vegan"
	DietGlutenFree = "glutenFree"
)

// Diet is the set of dietary flags a recipe satisfies.
type Diet struct {
	Vegetarian bool
	Vegan      bool
	GlutenFree bool
}

// Encode joins the active flags in canonical order, e.g. "vegetarian,glutenFree".
func (d Diet) Encode() string {
	flags := make([]string, 0, 3)
	if d.Vegetarian {
		flags = append(flags, DietVegetarian)
	}
	if d.Vegan {
		flags = append(flags, DietVegan)
	}
	if d.GlutenFree {
		flags = append(flags, DietGlutenFree)
	}
	return strings.Join(flags, DietDelimiter)
}

// DecodeDiet parses a diet column. Matching is case-insensitive, surrounding
// spaces are ignored and unknown flags are dropped.
func DecodeDiet(s string) Diet {
	var d Diet
	for _, flag := range strings.Split(s, DietDelimiter) {
		switch strings.ToLower(strings.TrimSpace(flag)) {
		case strings.ToLower(DietVegetarian):
			d.Vegetarian = true
		case strings.ToLower(DietVegan):
			d.Vegan = true
		case strings.ToLower(DietGlutenFree), "gluten free", "gluten_free":
			d.GlutenFree = true
		}
	}
	return d
}

// EncodeList joins entries with ListDelimiter. Entries must already have
// passed ValidateEntries.
func EncodeList(entries []string) string {
	return strings.Join(entries, ListDelimiter)
}

// DecodeList splits a stored list back into its entries, dropping blank
// lines. An empty column decodes to an empty, non-nil slice.
func DecodeList(s string) []string {
	out := []string{}
	for _, entry := range strings.Split(strings.ReplaceAll(s, "\r\n", ListDelimiter), ListDelimiter) {
		if entry = strings.TrimSpace(entry); entry != "" {
			out = append(out, entry)
		}
	}
	return out
}

// ValidateEntries trims every entry in place and rejects blank or multi-line ones.
func ValidateEntries(entries []string) error {
	for i, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			return ErrBlankEntry
		}
		if strings.ContainsAny(entry, "\r\n") {
			return ErrDelimiterInEntry
		}
		entries[i] = entry
	}
	return nil
}
