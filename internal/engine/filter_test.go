package engine

import (
	"gamestats/internal/models"
	"reflect"
	"testing"
)

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }

func TestApply(t *testing.T) {
	cs := newFixtureStore(t)

	tests := []struct {
		name    string
		filters models.Filters
		want    []int
	}{
		{"no constraints", models.Filters{}, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}},
		{"exact year", models.Filters{Year: intPtr(2006)}, []int{0, 3, 4}},
		{"year range inclusive", models.Filters{YearFrom: intPtr(1986), YearTo: intPtr(1987)}, []int{5, 6}},
		{"year from only", models.Filters{YearFrom: intPtr(2006)}, []int{0, 2, 3, 4}},
		{"platform case-insensitive", models.Filters{Platform: strPtr("wii")}, []int{0, 2, 4}},
		{"platform is exact, not substring", models.Filters{Platform: strPtr("Wi")}, []int{}},
		{"genre and platform", models.Filters{Genre: strPtr("ACTION"), Platform: strPtr("NES")}, []int{5, 6}},
		{"publisher with comma", models.Filters{Publisher: strPtr("acme, inc.")}, []int{8}},
		{"rating", models.Filters{Rating: strPtr("e")}, []int{0, 2, 3}},
		{"empty string constrains nothing", models.Filters{Platform: strPtr("")}, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}},
		{"unknown platform", models.Filters{Platform: strPtr("Dreamcast")}, []int{}},
		{"invalid fails closed", models.Filters{Platform: strPtr("Wii"), Invalid: true}, []int{}},
		{"exact and range together", models.Filters{Year: intPtr(2006), YearFrom: intPtr(2000), YearTo: intPtr(2010), Platform: strPtr("DS")}, []int{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cs.Apply(tt.filters)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Apply() = %v (%v), want %v", got, names(cs, got), tt.want)
			}
		})
	}
}

func TestApplyIsOrderIndependent(t *testing.T) {
	cs := newFixtureStore(t)

	a := cs.filter(cs.filter(cs.allRows(), models.Filters{Platform: strPtr("Wii")}), models.Filters{Year: intPtr(2006)})
	b := cs.filter(cs.filter(cs.allRows(), models.Filters{Year: intPtr(2006)}), models.Filters{Platform: strPtr("Wii")})
	both := cs.Apply(models.Filters{Platform: strPtr("Wii"), Year: intPtr(2006)})

	if !reflect.DeepEqual(a, b) || !reflect.DeepEqual(a, both) {
		t.Errorf("filters not commutative: %v %v %v", a, b, both)
	}
}

func TestNullsExcludedOnlyWhenFiltered(t *testing.T) {
	cs := newFixtureStore(t)

	for _, i := range cs.Apply(models.Filters{YearTo: intPtr(2100)}) {
		if i == 8 {
			t.Fatal("row with null year matched a year range")
		}
	}
	found := false
	for _, i := range cs.Apply(models.Filters{Genre: strPtr("Action")}) {
		found = found || i == 8
	}
	if !found {
		t.Error("row with null year dropped although no year filter was set")
	}
}
