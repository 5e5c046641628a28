package list

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pantrylabs/trolley/internal/model"
)

// CategoryAll is the sentinel filter value matching every category.
const CategoryAll = "All"

// Sort keys accepted by Apply. An empty or unknown key keeps collection order.
const (
	SortNameAsc  = "name-asc"
	SortNameDesc = "name-desc"
	SortCategory = "category"
	SortDateAsc  = "date-asc"
	SortDateDesc = "date-desc"
)

// Query selects and orders the rendered view of the collection.
type Query struct {
	Search   string
	Category string
	Sort     string
}

// Apply computes the derived view: a case-insensitive substring filter over
// name and notes, an exact category filter (empty or "All" matches all), and
// a stable sort. The input slice is never mutated; ties keep collection order.
func Apply(items []model.Item, q Query) []model.Item {
	search := strings.ToLower(q.Search)

	out := make([]model.Item, 0, len(items))
	for _, item := range items {
		if search != "" &&
			!strings.Contains(strings.ToLower(item.Name), search) &&
			!strings.Contains(strings.ToLower(item.Notes), search) {
			continue
		}
		if q.Category != "" && q.Category != CategoryAll && string(item.Category) != q.Category {
			continue
		}
		out = append(out, item)
	}

	switch q.Sort {
	case SortNameAsc:
		c := collate.New(language.Und)
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[i].Name, out[j].Name) < 0
		})
	case SortNameDesc:
		c := collate.New(language.Und)
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[j].Name, out[i].Name) < 0
		})
	case SortCategory:
		c := collate.New(language.Und)
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(string(out[i].Category), string(out[j].Category)) < 0
		})
	case SortDateAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt < out[j].CreatedAt
		})
	case SortDateDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[j].CreatedAt < out[i].CreatedAt
		})
	}

	return out
}
