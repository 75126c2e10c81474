package records

import (
	"strings"

	"github.com/propmaint/backend/internal/models"
)

// Collections names the store collections incidents and tasks live in.
type Collections struct {
	Incidents   map[models.Category]string
	Maintenance string
}

// IncidentCollection returns the collection for a category, falling back to
// the tourist collection like the report form always did.
func (c Collections) IncidentCollection(cat models.Category) (string, bool) {
	if id := c.Incidents[cat]; id != "" {
		return id, true
	}
	id := c.Incidents[models.CategoryTourist]
	return id, id != ""
}

// CategoryFor reverse-maps a collection id to its category. Ids compare with
// dashes removed since the store reports them in either form. Unknown ids map
// to the tourist category.
func (c Collections) CategoryFor(collectionID string) models.Category {
	want := normalizeID(collectionID)
	if want != "" {
		for _, cat := range models.Categories {
			if id := c.Incidents[cat]; id != "" && normalizeID(id) == want {
				return cat
			}
		}
	}
	return models.CategoryTourist
}

// IncidentCollections lists the configured incident collections in category
// order.
func (c Collections) IncidentCollections() []string {
	out := make([]string, 0, len(c.Incidents))
	for _, cat := range models.Categories {
		if id := c.Incidents[cat]; id != "" {
			out = append(out, id)
		}
	}
	return out
}

func normalizeID(id string) string {
	return strings.ToLower(strings.ReplaceAll(id, "-", ""))
}
