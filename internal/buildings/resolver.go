// Package buildings is the static building roster and the resolver that maps
// free-text or short-code building names onto it.
package buildings

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/propmaint/backend/internal/models"
)

type Building struct {
	Name       string   `json:"nombre"`
	Apartments []string `json:"apartamentos"`
}

// CategoryBuildings is the ordered building list of one category.
type CategoryBuildings struct {
	Category  models.Category
	Buildings []Building
}

// Alias maps a short code to a canonical building.
type Alias struct {
	Name     string
	Category models.Category
}

// Roster is an ordered building table plus its alias codes.
type Roster struct {
	categories []CategoryBuildings
	aliases    map[string]Alias
}

func NewRoster(categories []CategoryBuildings, aliases map[string]Alias) *Roster {
	return &Roster{categories: categories, aliases: aliases}
}

// Default is the roster of the managed portfolio.
var Default = NewRoster(roster, aliases)

func Resolve(name string) (Entry, bool) { return Default.Resolve(name) }

func Lookup(cat models.Category, name string) (Building, bool) { return Default.Lookup(cat, name) }

func Categories() []models.Category { return Default.Categories() }

func Buildings(cat models.Category) []Building { return Default.Buildings(cat) }

func Aliases() map[string]Entry { return Default.Aliases() }

// Entry is a resolved building. Apartments is empty when the building is
// known only through an alias.
type Entry struct {
	Name       string          `json:"nombre"`
	Category   models.Category `json:"categoria"`
	Apartments []string        `json:"apartamentos"`
}

const shortCodeSeparator = " - "

// Normalize lowercases s, strips diacritics and trims surrounding space.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.TrimSpace(cases.Lower(language.Und).String(stripped))
}

func shortCode(normalized string) string {
	if i := strings.Index(normalized, shortCodeSeparator); i >= 0 {
		return normalized[:i]
	}
	return normalized
}

// Resolve maps a building name to its roster entry. The passes run in order
// and the first hit wins: the alias table on the raw input, an exact
// normalized name, the short code before " - ", and finally substring
// containment in either direction. Iteration follows the declared roster
// order and ambiguous inputs are not reported.
func (r *Roster) Resolve(name string) (Entry, bool) {
	if name == "" {
		return Entry{}, false
	}
	if a, ok := r.aliases[name]; ok {
		e := Entry{Name: a.Name, Category: a.Category, Apartments: []string{}}
		if b, ok := r.Lookup(a.Category, a.Name); ok {
			e.Apartments = b.Apartments
		}
		return e, true
	}

	search := Normalize(name)
	if search == "" {
		return Entry{}, false
	}
	searchCode := shortCode(search)

	passes := []func(candidate string) bool{
		func(c string) bool { return c == search },
		func(c string) bool { return shortCode(c) == searchCode },
		func(c string) bool { return strings.Contains(c, search) || strings.Contains(search, c) },
	}
	for _, match := range passes {
		for _, cb := range r.categories {
			for _, b := range cb.Buildings {
				if match(Normalize(b.Name)) {
					return entryOf(cb.Category, b), true
				}
			}
		}
	}
	return Entry{}, false
}

// Lookup finds a building by exact name within a category.
func (r *Roster) Lookup(cat models.Category, name string) (Building, bool) {
	for _, cb := range r.categories {
		if cb.Category != cat {
			continue
		}
		for _, b := range cb.Buildings {
			if b.Name == name {
				return copyBuilding(b), true
			}
		}
	}
	return Building{}, false
}

// Categories returns the categories in roster order.
func (r *Roster) Categories() []models.Category {
	out := make([]models.Category, 0, len(r.categories))
	for _, cb := range r.categories {
		out = append(out, cb.Category)
	}
	return out
}

// Buildings returns the buildings of a category in roster order.
func (r *Roster) Buildings(cat models.Category) []Building {
	for _, cb := range r.categories {
		if cb.Category == cat {
			out := make([]Building, 0, len(cb.Buildings))
			for _, b := range cb.Buildings {
				out = append(out, copyBuilding(b))
			}
			return out
		}
	}
	return []Building{}
}

// Aliases returns the short codes with their canonical names.
func (r *Roster) Aliases() map[string]Entry {
	out := make(map[string]Entry, len(r.aliases))
	for code, a := range r.aliases {
		out[code] = Entry{Name: a.Name, Category: a.Category}
	}
	return out
}

func entryOf(cat models.Category, b Building) Entry {
	c := copyBuilding(b)
	return Entry{Name: c.Name, Category: cat, Apartments: c.Apartments}
}

func copyBuilding(b Building) Building {
	apts := make([]string, len(b.Apartments))
	copy(apts, b.Apartments)
	return Building{Name: b.Name, Apartments: apts}
}
