// Package flavor holds the read-only flavor catalog that cup selections
// reference by id.
package flavor

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Category groups related flavors on the wheel.
type Category string

const (
	CategoryFruity          Category = "FRUITY"
	CategoryCitrus          Category = "CITRUS"
	CategoryFloral          Category = "FLORAL"
	CategorySweet           Category = "SWEET"
	CategoryNuttyCocoa      Category = "NUTTY_COCOA"
	CategorySpices          Category = "SPICES"
	CategoryRoasted         Category = "ROASTED"
	CategoryGreenVegetative Category = "GREEN_VEGETATIVE"
	CategorySourFermented   Category = "SOUR_FERMENTED"
	CategoryOther           Category = "OTHER"
)

// Categories lists every category in wheel order.
var Categories = []Category{
	CategoryFruity, CategoryCitrus, CategoryFloral, CategorySweet, CategoryNuttyCocoa,
	CategorySpices, CategoryRoasted, CategoryGreenVegetative, CategorySourFermented, CategoryOther,
}

// FallbackColor is used for a category without a configured color.
const FallbackColor = "#9E9E9E"

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// Flavor is one catalog entry.
type Flavor struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	Color       string   `json:"color"`
	Related     []int    `json:"related"`
}

// CategorySummary is a category with its color and member count.
type CategorySummary struct {
	Category Category `json:"category"`
	Color    string   `json:"color"`
	Count    int      `json:"count"`
}

// Dataset is the raw material a Catalog is built from.
type Dataset struct {
	Names           map[int]string
	Descriptions    map[int]string
	CategoryColors  map[Category]string
	CategoryMembers map[Category][]int
	Related         map[int][]int
}

// Catalog is an immutable, indexed view of a Dataset. It is safe for
// concurrent use.
type Catalog struct {
	flavors    []Flavor // sorted by id
	byID       map[int]int
	byCategory map[Category][]int
	colors     map[Category]string

	// case-folded name and description, parallel to flavors
	foldedNames []string
	foldedDescs []string
}

// New builds a catalog. A flavor whose id appears in no known category's
// member list lands in OTHER.
func New(ds Dataset) *Catalog {
	categoryOf := make(map[int]Category)
	for cat, ids := range ds.CategoryMembers {
		if !cat.Valid() {
			continue
		}
		for _, id := range ids {
			categoryOf[id] = cat
		}
	}

	c := &Catalog{
		byID:       make(map[int]int, len(ds.Names)),
		byCategory: make(map[Category][]int, len(Categories)),
		colors:     make(map[Category]string, len(Categories)),
	}
	for _, cat := range Categories {
		color := ds.CategoryColors[cat]
		if color == "" {
			color = FallbackColor
		}
		c.colors[cat] = color
	}

	for id, name := range ds.Names {
		cat, ok := categoryOf[id]
		if !ok {
			cat = CategoryOther
		}
		c.flavors = append(c.flavors, Flavor{
			ID:          id,
			Name:        name,
			Category:    cat,
			Description: ds.Descriptions[id],
			Color:       c.colors[cat],
			Related:     slices.Clone(ds.Related[id]),
		})
	}
	slices.SortFunc(c.flavors, func(a, b Flavor) int { return cmp.Compare(a.ID, b.ID) })

	folder := cases.Fold()
	for i, f := range c.flavors {
		c.byID[f.ID] = i
		c.byCategory[f.Category] = append(c.byCategory[f.Category], i)
		c.foldedNames = append(c.foldedNames, fold(folder, f.Name))
		c.foldedDescs = append(c.foldedDescs, fold(folder, f.Description))
	}
	return c
}

func fold(folder cases.Caser, s string) string {
	return folder.String(norm.NFC.String(s))
}

// ByID returns the flavor with the given id.
func (c *Catalog) ByID(id int) (Flavor, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Flavor{}, false
	}
	return c.flavor(i), true
}

// CategoryOf returns the category name of a flavor id; unknown ids are OTHER.
func (c *Catalog) CategoryOf(id int) string {
	if i, ok := c.byID[id]; ok {
		return string(c.flavors[i].Category)
	}
	return string(CategoryOther)
}

// ByCategory returns the category's flavors in id order.
func (c *Catalog) ByCategory(cat Category) []Flavor {
	idx := c.byCategory[cat]
	out := make([]Flavor, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.flavor(i))
	}
	return out
}

// Search matches query case-insensitively as a substring of the name or the
// description. Name matches come first; each group is in id order. A blank
// query matches nothing.
func (c *Catalog) Search(query string) []Flavor {
	q := strings.TrimSpace(query)
	if q == "" {
		return []Flavor{}
	}
	q = fold(cases.Fold(), q)

	var byName, byDesc []Flavor
	for i := range c.flavors {
		switch {
		case strings.Contains(c.foldedNames[i], q):
			byName = append(byName, c.flavor(i))
		case strings.Contains(c.foldedDescs[i], q):
			byDesc = append(byDesc, c.flavor(i))
		}
	}
	return append(append(make([]Flavor, 0, len(byName)+len(byDesc)), byName...), byDesc...)
}

// Related returns the flavors listed as related to id. Relations are not
// necessarily symmetric. Ids missing from the catalog are skipped.
func (c *Catalog) Related(id int) []Flavor {
	i, ok := c.byID[id]
	if !ok {
		return []Flavor{}
	}
	out := make([]Flavor, 0, len(c.flavors[i].Related))
	for _, rid := range c.flavors[i].Related {
		if f, ok := c.ByID(rid); ok {
			out = append(out, f)
		}
	}
	return out
}

// Categories lists all categories in wheel order with their member counts.
func (c *Catalog) Categories() []CategorySummary {
	out := make([]CategorySummary, 0, len(Categories))
	for _, cat := range Categories {
		out = append(out, CategorySummary{
			Category: cat,
			Color:    c.colors[cat],
			Count:    len(c.byCategory[cat]),
		})
	}
	return out
}

// All returns every flavor in id order.
func (c *Catalog) All() []Flavor {
	out := make([]Flavor, 0, len(c.flavors))
	for i := range c.flavors {
		out = append(out, c.flavor(i))
	}
	return out
}

// Len is the number of flavors in the catalog.
func (c *Catalog) Len() int {
	return len(c.flavors)
}

// flavor returns a copy callers cannot use to mutate the catalog.
func (c *Catalog) flavor(i int) Flavor {
	f := c.flavors[i]
	f.Related = slices.Clone(f.Related)
	if f.Related == nil {
		f.Related = []int{}
	}
	return f
}
