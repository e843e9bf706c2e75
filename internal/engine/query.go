package engine

import (
	"gamestats/internal/models"
	"sort"
	"strings"
)

// Rankings sorts the filtered rows by metric, descending, and returns one
// page of them. Rows with a null metric are dropped; ties keep dataset order.
// total counts the whole filtered set, not the page.
func (cs *ColumnStore) Rankings(metric models.Metric, f models.Filters, limit, offset int) (int, []models.Game) {
	col := cs.Metric(metric)
	if col == nil {
		return 0, []models.Game{}
	}

	rows := withMetric(cs.Apply(f), col)
	sort.SliceStable(rows, func(a, b int) bool {
		return col.Value(rows[a]) > col.Value(rows[b])
	})

	total := len(rows)
	page := paginate(rows, limit, offset)

	items := make([]models.Game, 0, len(page))
	for _, i := range page {
		items = append(items, cs.Game(i))
	}
	return total, items
}

func paginate(rows []int, limit, offset int) []int {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || offset >= len(rows) {
		return nil
	}
	end := min(offset+limit, len(rows))
	return rows[offset:end]
}

// BestMatch resolves a free-text name to one record: an exact
// case-insensitive match wins (first in dataset order), otherwise the
// substring match with the highest global sales (nulls lowest).
func (cs *ColumnStore) BestMatch(name string) (models.Game, bool) {
	needle := strings.TrimSpace(foldName(name))
	if needle == "" {
		return models.Game{}, false
	}

	for i, lower := range cs.NamesLower {
		if lower == needle {
			return cs.Game(i), true
		}
	}

	best := -1
	for i, lower := range cs.NamesLower {
		if !strings.Contains(lower, needle) {
			continue
		}
		if best < 0 || cs.outsells(i, best) {
			best = i
		}
	}
	if best < 0 {
		return models.Game{}, false
	}
	return cs.Game(best), true
}

// outsells reports whether row i has strictly higher global sales than row j.
func (cs *ColumnStore) outsells(i, j int) bool {
	gs := cs.GlobalSales
	switch {
	case gs.IsNull(i):
		return false
	case gs.IsNull(j):
		return true
	default:
		return gs.Value(i) > gs.Value(j)
	}
}

// Platforms returns the distinct platform labels, sorted.
func (cs *ColumnStore) Platforms() []string {
	return sortedCopy(cs.PlatformDict)
}

// Genres returns the distinct genre labels, sorted.
func (cs *ColumnStore) Genres() []string {
	return sortedCopy(cs.GenreDict)
}

// ReleaseYears returns the distinct release years, sorted.
func (cs *ColumnStore) ReleaseYears() []int {
	seen := make(map[int64]struct{})
	years := make([]int, 0)
	for i := 0; i < cs.Len(); i++ {
		if cs.Years.IsNull(i) {
			continue
		}
		y := cs.Years.Value(i)
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		years = append(years, int(y))
	}
	sort.Ints(years)
	return years
}

func sortedCopy(dict []string) []string {
	out := make([]string, len(dict))
	copy(out, dict)
	sort.Strings(out)
	return out
}
