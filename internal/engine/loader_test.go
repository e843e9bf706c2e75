package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.csv")
	if err := os.WriteFile(path, []byte(fixtureCSV), 0o600); err != nil {
		t.Fatal(err)
	}

	store, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer store.Release()

	if store.Len() != 9 {
		t.Fatalf("Expected 9 rows, got %d", store.Len())
	}
	if store.GlobalSales.Value(0) != 82.53 {
		t.Errorf("Row 0 Global: Expected 82.53, got %f", store.GlobalSales.Value(0))
	}
	if store.Years.Value(3) != 2006 {
		t.Errorf("Row 3 Year: Expected 2006 from \"2006.0\", got %d", store.Years.Value(3))
	}
	if !store.Years.IsNull(8) {
		t.Error("Row 8 Year: Expected null for N/A")
	}
	if !store.UserScores.IsNull(6) {
		t.Error("Row 6 User Score: Expected null for tbd")
	}
	if store.NamesLower[4] != "the legend of zelda: twilight princess" {
		t.Errorf("Row 4 lowercase name: got %q", store.NamesLower[4])
	}

	// Dictionary Checks
	if len(store.PlatformDict) != 5 {
		t.Errorf("Expected 5 unique platforms, got %d", len(store.PlatformDict))
	}
	if len(store.PublisherDict) != 2 {
		t.Errorf("Expected 2 unique publishers, got %d", len(store.PublisherDict))
	}
	if store.RatingIDs[1] != -1 {
		t.Errorf("Row 1 Rating: Expected null id, got %d", store.RatingIDs[1])
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadCSVMissingColumns(t *testing.T) {
	store, err := ReadCSV(strings.NewReader(" Name ,Global_Sales\nHalo,6.43\n,1.0\nFable,\n"))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	defer store.Release()

	if store.Len() != 2 {
		t.Fatalf("Expected 2 rows (nameless row skipped), got %d", store.Len())
	}
	if store.GlobalSales.Value(0) != 6.43 {
		t.Errorf("Row 0 Global: got %f", store.GlobalSales.Value(0))
	}
	if !store.GlobalSales.IsNull(1) {
		t.Error("Row 1 Global: Expected null")
	}
	if !store.CriticScores.IsNull(0) || !store.Years.IsNull(0) || store.PlatformIDs[0] != -1 {
		t.Error("Absent columns should load as null")
	}
}

func TestReadCSVEmpty(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("")); err == nil {
		t.Fatal("expected error for input without header")
	}
}

func TestParseHelpers(t *testing.T) {
	if f, ok := parseFloat(" 123.45 "); !ok || f != 123.45 {
		t.Errorf("parseFloat failed: %v %v", f, ok)
	}
	for _, s := range []string{"", "tbd", "NaN", "Inf", "1,5"} {
		if _, ok := parseFloat(s); ok {
			t.Errorf("parseFloat(%q) should be null", s)
		}
	}

	if y, ok := parseYear("2006.6"); !ok || y != 2007 {
		t.Errorf("parseYear failed: %v %v", y, ok)
	}
	if _, ok := parseYear("N/A"); ok {
		t.Error("parseYear(N/A) should be null")
	}

	if _, ok := parseString("  "); ok {
		t.Error("parseString(blank) should be null")
	}
	if s, ok := parseString("E10+"); !ok || s != "E10+" {
		t.Errorf("parseString failed: %q %v", s, ok)
	}
}

func TestCellText(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{nil, ""},
		{"Wii", "Wii"},
		{[]byte("DS"), "DS"},
		{float64(82.53), "82.53"},
		{float32(8.5), "8.5"},
		{int64(2006), "2006"},
		{int32(1985), "1985"},
		{true, "true"},
	}
	for _, tt := range tests {
		if got := cellText(tt.in); got != tt.want {
			t.Errorf("cellText(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
