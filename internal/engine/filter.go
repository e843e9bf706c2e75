package engine

import (
	"gamestats/internal/models"
	"strings"

	"github.com/apache/arrow/go/v18/arrow/array"
)

type rowPredicate func(i int) bool

// Apply returns the indices of all rows satisfying f, in dataset order.
func (cs *ColumnStore) Apply(f models.Filters) []int {
	return cs.filter(cs.allRows(), f)
}

// filter keeps the rows that satisfy every constraint present in f.
// A set marked Invalid matches nothing.
func (cs *ColumnStore) filter(rows []int, f models.Filters) []int {
	if f.Invalid {
		return []int{}
	}
	preds := cs.predicates(f)
	if len(preds) == 0 {
		return rows
	}

	out := make([]int, 0, len(rows))
rowLoop:
	for _, i := range rows {
		for _, p := range preds {
			if !p(i) {
				continue rowLoop
			}
		}
		out = append(out, i)
	}
	return out
}

func (cs *ColumnStore) predicates(f models.Filters) []rowPredicate {
	var preds []rowPredicate

	// Years are rounded to integers at load time.
	if f.Year != nil {
		y := int64(*f.Year)
		preds = append(preds, yearPredicate(cs.Years, func(v int64) bool { return v == y }))
	}
	if f.YearFrom != nil {
		from := int64(*f.YearFrom)
		preds = append(preds, yearPredicate(cs.Years, func(v int64) bool { return v >= from }))
	}
	if f.YearTo != nil {
		to := int64(*f.YearTo)
		preds = append(preds, yearPredicate(cs.Years, func(v int64) bool { return v <= to }))
	}

	if p := dictPredicate(cs.PlatformIDs, cs.PlatformDict, f.Platform); p != nil {
		preds = append(preds, p)
	}
	if p := dictPredicate(cs.GenreIDs, cs.GenreDict, f.Genre); p != nil {
		preds = append(preds, p)
	}
	if p := dictPredicate(cs.PublisherIDs, cs.PublisherDict, f.Publisher); p != nil {
		preds = append(preds, p)
	}
	if p := dictPredicate(cs.RatingIDs, cs.RatingDict, f.Rating); p != nil {
		preds = append(preds, p)
	}
	return preds
}

func yearPredicate(years *array.Int64, ok func(int64) bool) rowPredicate {
	return func(i int) bool {
		return years.IsValid(i) && ok(years.Value(i))
	}
}

// dictPredicate resolves a case-insensitive exact match once against the
// dictionary, so the row loop only compares IDs. Empty values constrain nothing.
func dictPredicate(ids []int32, dict []string, want *string) rowPredicate {
	if want == nil || *want == "" {
		return nil
	}
	hit := make([]bool, len(dict))
	for id, v := range dict {
		hit[id] = strings.EqualFold(v, *want)
	}
	return func(i int) bool {
		id := ids[i]
		return id >= 0 && hit[id]
	}
}

// withNameContaining keeps rows whose lowercase name contains needle.
func (cs *ColumnStore) withNameContaining(rows []int, needle string) []int {
	out := make([]int, 0, len(rows))
	for _, i := range rows {
		if strings.Contains(cs.NamesLower[i], needle) {
			out = append(out, i)
		}
	}
	return out
}

// withMetric drops rows whose value in col is null.
func withMetric(rows []int, col *array.Float64) []int {
	out := make([]int, 0, len(rows))
	for _, i := range rows {
		if col.IsValid(i) {
			out = append(out, i)
		}
	}
	return out
}
