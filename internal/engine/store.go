package engine

import (
	"gamestats/internal/models"

	"github.com/apache/arrow/go/v18/arrow/array"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ColumnStore holds the game table in Struct-of-Arrays format.
// It is built once by a loader and is read-only afterwards, so any number of
// queries may run against it concurrently.
type ColumnStore struct {
	// Nullable columns (Arrow arrays carry the validity bitmap)
	Names        *array.String
	Developers   *array.String
	Years        *array.Int64
	NASales      *array.Float64
	EUSales      *array.Float64
	JPSales      *array.Float64
	OtherSales   *array.Float64
	GlobalSales  *array.Float64
	CriticScores *array.Float64
	UserScores   *array.Float64

	// Derived at load time, used for every case-insensitive name lookup
	NamesLower []string

	// Dictionary Encoded IDs (0..N, -1 = null)
	PlatformIDs  []int32
	GenreIDs     []int32
	PublisherIDs []int32
	RatingIDs    []int32

	// Dictionaries (ID -> String)
	PlatformDict  []string
	GenreDict     []string
	PublisherDict []string
	RatingDict    []string

	suggester *Suggester
}

// Len returns the number of rows.
func (cs *ColumnStore) Len() int {
	return len(cs.NamesLower)
}

// Metric returns the column backing m, or nil for an unknown selector.
func (cs *ColumnStore) Metric(m models.Metric) *array.Float64 {
	switch m {
	case models.GlobalSales:
		return cs.GlobalSales
	case models.NASales:
		return cs.NASales
	case models.EUSales:
		return cs.EUSales
	case models.JPSales:
		return cs.JPSales
	case models.CriticScore:
		return cs.CriticScores
	case models.UserScore:
		return cs.UserScores
	}
	return nil
}

// Game materializes row i.
func (cs *ColumnStore) Game(i int) models.Game {
	return models.Game{
		Name:        cs.Names.Value(i),
		Platform:    dictAt(cs.PlatformIDs, cs.PlatformDict, i),
		Genre:       dictAt(cs.GenreIDs, cs.GenreDict, i),
		Year:        intAt(cs.Years, i),
		Publisher:   dictAt(cs.PublisherIDs, cs.PublisherDict, i),
		Developer:   stringAt(cs.Developers, i),
		Rating:      dictAt(cs.RatingIDs, cs.RatingDict, i),
		GlobalSales: floatAt(cs.GlobalSales, i),
		NASales:     floatAt(cs.NASales, i),
		EUSales:     floatAt(cs.EUSales, i),
		JPSales:     floatAt(cs.JPSales, i),
		OtherSales:  floatAt(cs.OtherSales, i),
		CriticScore: floatAt(cs.CriticScores, i),
		UserScore:   floatAt(cs.UserScores, i),
	}
}

// Release frees the Arrow buffers. The store must not be used afterwards.
func (cs *ColumnStore) Release() {
	for _, a := range []interface{ Release() }{
		cs.Names, cs.Developers, cs.Years,
		cs.NASales, cs.EUSales, cs.JPSales, cs.OtherSales, cs.GlobalSales,
		cs.CriticScores, cs.UserScores,
	} {
		a.Release()
	}
}

// allRows returns every row index in dataset order.
func (cs *ColumnStore) allRows() []int {
	rows := make([]int, cs.Len())
	for i := range rows {
		rows[i] = i
	}
	return rows
}

// foldName lowercases s the same way the NamesLower column was derived.
func foldName(s string) string {
	return cases.Lower(language.Und).String(s)
}

func dictAt(ids []int32, dict []string, i int) *string {
	id := ids[i]
	if id < 0 {
		return nil
	}
	s := dict[id]
	return &s
}

func stringAt(a *array.String, i int) *string {
	if a.IsNull(i) {
		return nil
	}
	s := a.Value(i)
	return &s
}

func floatAt(a *array.Float64, i int) *float64 {
	if a.IsNull(i) {
		return nil
	}
	v := a.Value(i)
	return &v
}

func intAt(a *array.Int64, i int) *int {
	if a.IsNull(i) {
		return nil
	}
	v := int(a.Value(i))
	return &v
}
