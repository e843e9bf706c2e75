package engine

import (
	"encoding/csv"
	"errors"
	"fmt"
	"gamestats/internal/logger"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Source column names. Columns missing from a file load as all-null.
const (
	colName        = "Name"
	colPlatform    = "Platform"
	colYear        = "Year_of_Release"
	colGenre       = "Genre"
	colPublisher   = "Publisher"
	colNASales     = "NA_Sales"
	colEUSales     = "EU_Sales"
	colJPSales     = "JP_Sales"
	colOtherSales  = "Other_Sales"
	colGlobalSales = "Global_Sales"
	colCritic      = "Critic_Score"
	colUser        = "User_Score"
	colDeveloper   = "Developer"
	colRating      = "Rating"
)

var expectedColumns = []string{
	colName, colPlatform, colYear, colGenre, colPublisher,
	colNASales, colEUSales, colJPSales, colOtherSales, colGlobalSales,
	colCritic, "Critic_Count", colUser, "User_Count", colDeveloper, colRating,
}

// Cell values read as null, on top of the empty string.
var nullTokens = map[string]bool{
	"N/A": true, "NA": true, "n/a": true, "NaN": true, "nan": true,
	"NULL": true, "null": true, "None": true, "#N/A": true,
}

// --- 1. LENIENT CELL PARSERS ---

// parseString returns the raw cell, or false when it is a null marker.
func parseString(s string) (string, bool) {
	if strings.TrimSpace(s) == "" || nullTokens[s] {
		return "", false
	}
	return s, true
}

// parseFloat coerces "12.5" -> 12.5. Anything non-numeric ("tbd") is null.
func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseYear coerces "2006" or "2006.0" -> 2006.
func parseYear(s string) (int64, bool) {
	f, ok := parseFloat(s)
	if !ok {
		return 0, false
	}
	return int64(math.Round(f)), true
}

// --- 2. STORE BUILDER ---

type dictEncoder struct {
	index map[string]int32
	dict  []string
	ids   []int32
}

func newDictEncoder() *dictEncoder {
	return &dictEncoder{index: make(map[string]int32)}
}

func (d *dictEncoder) add(s string, ok bool) {
	if !ok {
		d.ids = append(d.ids, -1)
		return
	}
	id, found := d.index[s]
	if !found {
		id = int32(len(d.dict))
		d.dict = append(d.dict, s)
		d.index[s] = id
	}
	d.ids = append(d.ids, id)
}

// storeBuilder accumulates rows and produces an immutable ColumnStore.
type storeBuilder struct {
	lower cases.Caser

	names, developers *array.StringBuilder
	years             *array.Int64Builder
	sales             map[string]*array.Float64Builder
	namesLower        []string

	platforms, genres, publishers, ratings *dictEncoder

	skipped int
}

func newStoreBuilder() *storeBuilder {
	mem := memory.NewGoAllocator()
	b := &storeBuilder{
		lower:      cases.Lower(language.Und),
		names:      array.NewStringBuilder(mem),
		developers: array.NewStringBuilder(mem),
		years:      array.NewInt64Builder(mem),
		sales:      make(map[string]*array.Float64Builder),
		platforms:  newDictEncoder(),
		genres:     newDictEncoder(),
		publishers: newDictEncoder(),
		ratings:    newDictEncoder(),
	}
	for _, col := range []string{colNASales, colEUSales, colJPSales, colOtherSales, colGlobalSales, colCritic, colUser} {
		b.sales[col] = array.NewFloat64Builder(mem)
	}
	return b
}

// add appends one row. cell returns the raw text for a source column.
// Rows without a name are skipped.
func (b *storeBuilder) add(cell func(col string) string) {
	name, ok := parseString(cell(colName))
	if !ok {
		b.skipped++
		return
	}
	b.names.Append(name)
	b.namesLower = append(b.namesLower, b.lower.String(name))

	if dev, ok := parseString(cell(colDeveloper)); ok {
		b.developers.Append(dev)
	} else {
		b.developers.AppendNull()
	}

	if y, ok := parseYear(cell(colYear)); ok {
		b.years.Append(y)
	} else {
		b.years.AppendNull()
	}

	for col, fb := range b.sales {
		if v, ok := parseFloat(cell(col)); ok {
			fb.Append(v)
		} else {
			fb.AppendNull()
		}
	}

	b.platforms.add(parseString(cell(colPlatform)))
	b.genres.add(parseString(cell(colGenre)))
	b.publishers.add(parseString(cell(colPublisher)))
	b.ratings.add(parseString(cell(colRating)))
}

func (b *storeBuilder) finish() *ColumnStore {
	cs := &ColumnStore{
		Names:        b.names.NewStringArray(),
		Developers:   b.developers.NewStringArray(),
		Years:        b.years.NewInt64Array(),
		NASales:      b.sales[colNASales].NewFloat64Array(),
		EUSales:      b.sales[colEUSales].NewFloat64Array(),
		JPSales:      b.sales[colJPSales].NewFloat64Array(),
		OtherSales:   b.sales[colOtherSales].NewFloat64Array(),
		GlobalSales:  b.sales[colGlobalSales].NewFloat64Array(),
		CriticScores: b.sales[colCritic].NewFloat64Array(),
		UserScores:   b.sales[colUser].NewFloat64Array(),
		NamesLower:   b.namesLower,

		PlatformIDs:   b.platforms.ids,
		GenreIDs:      b.genres.ids,
		PublisherIDs:  b.publishers.ids,
		RatingIDs:     b.ratings.ids,
		PlatformDict:  b.platforms.dict,
		GenreDict:     b.genres.dict,
		PublisherDict: b.publishers.dict,
		RatingDict:    b.ratings.dict,
	}

	b.names.Release()
	b.developers.Release()
	b.years.Release()
	for _, fb := range b.sales {
		fb.Release()
	}

	cs.suggester = newSuggester(cs)
	return cs
}

// --- 3. MAIN LOADERS ---

// Load reads the dataset at path, picking the format from the extension.
func Load(path string) (*ColumnStore, error) {
	start := time.Now()
	log := logger.New("loader")
	log.Info("Loading dataset", "path", path)

	var (
		cs  *ColumnStore
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		cs, err = LoadParquet(path)
	default:
		cs, err = LoadCSV(path)
	}
	if err != nil {
		return nil, err
	}

	log.Info("Load complete", "rows", cs.Len(), "platforms", len(cs.PlatformDict), "genres", len(cs.GenreDict), "elapsed", time.Since(start))
	return cs, nil
}

// LoadCSV reads a CSV file with a header row.
func LoadCSV(path string) (*ColumnStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV builds a store from CSV text. Header names are matched after
// trimming surrounding whitespace.
func ReadCSV(r io.Reader) (*ColumnStore, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("read csv: missing header row")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}

	b := newStoreBuilder()
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		b.add(func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		})
	}

	if b.skipped > 0 {
		logger.New("loader").Warn("Skipped rows without a name", "count", b.skipped)
	}
	return b.finish(), nil
}
