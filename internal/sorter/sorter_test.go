package sorter

import (
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/erazemk/shramba/internal/model"
)

func names(items []model.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func ids(items []model.Item) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

// randomItems builds n items with many repeated keys so ties are common.
func randomItems(r *rand.Rand, n int) []model.Item {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	words := []string{"apple", "Apple", "bean", "corn", "", "Date", "date"}
	items := make([]model.Item, n)
	for i := range items {
		items[i] = model.Item{
			ID:       int64(i + 1),
			Name:     words[r.Intn(len(words))],
			Quantity: r.Intn(5),
		}
		if r.Intn(4) != 0 {
			items[i].CreatedAt = base.Add(time.Duration(r.Intn(3)) * time.Hour)
		}
	}
	return items
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		input   string
		want    Key
		wantErr bool
	}{
		{"name", ByName, false},
		{"NAME", ByName, false},
		{"", ByName, false},
		{"quantity", ByQuantity, false},
		{"qty", ByQuantity, false},
		{"date", ByDateAdded, false},
		{"date-added", ByDateAdded, false},
		{"price", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseKey(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseKey(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseKey(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKey(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseDirection(t *testing.T) {
	for input, want := range map[string]Direction{
		"asc": Ascending, "ascending": Ascending, "": Ascending,
		"desc": Descending, "DESCENDING": Descending,
	} {
		got, err := ParseDirection(input)
		if err != nil {
			t.Errorf("ParseDirection(%q) unexpected error: %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("ParseDirection(%q) = %v, want %v", input, got, want)
		}
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Error("expected error for unknown direction")
	}
}

func TestMergeSortMatchesStableSort(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, key := range []Key{ByName, ByQuantity, ByDateAdded} {
		for _, dir := range []Direction{Ascending, Descending} {
			for n := 0; n < 40; n++ {
				items := randomItems(r, n)
				cmp := Comparator(key, dir)

				want := slices.Clone(items)
				slices.SortStableFunc(want, cmp)

				got := Items(items, key, dir)
				if !slices.Equal(ids(got), ids(want)) {
					t.Fatalf("%v %v n=%d: got %v, want %v", key, dir, n, ids(got), ids(want))
				}
			}
		}
	}
}

func TestSortIsStableInBothDirections(t *testing.T) {
	items := []model.Item{
		{ID: 1, Name: "Rice", Quantity: 10},
		{ID: 2, Name: "Beans", Quantity: 4},
		{ID: 3, Name: "Oats", Quantity: 10},
		{ID: 4, Name: "Salt", Quantity: 4},
	}

	asc := Items(items, ByQuantity, Ascending)
	if got := ids(asc); !slices.Equal(got, []int64{2, 4, 1, 3}) {
		t.Errorf("ascending: expected [2 4 1 3], got %v", got)
	}

	desc := Items(items, ByQuantity, Descending)
	if got := ids(desc); !slices.Equal(got, []int64{1, 3, 2, 4}) {
		t.Errorf("descending: expected [1 3 2 4], got %v", got)
	}
}

func TestSortIsIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	items := randomItems(r, 50)
	for _, key := range []Key{ByName, ByQuantity, ByDateAdded} {
		once := Items(items, key, Descending)
		twice := Items(once, key, Descending)
		if !slices.Equal(ids(once), ids(twice)) {
			t.Errorf("%v: sorting a sorted list changed it", key)
		}
	}
}

func TestSortDoesNotModifyInput(t *testing.T) {
	items := []model.Item{{ID: 1, Name: "b"}, {ID: 2, Name: "a"}}
	_ = Items(items, ByName, Ascending)
	if items[0].ID != 1 || items[1].ID != 2 {
		t.Errorf("input was reordered: %v", ids(items))
	}
}

func TestSortByNameIgnoresCaseAndPutsEmptyLast(t *testing.T) {
	items := []model.Item{
		{ID: 1, Name: ""},
		{ID: 2, Name: "rice"},
		{ID: 3, Name: "Beans"},
		{ID: 4, Name: "Rice"},
		{ID: 5, Name: "apples"},
	}

	got := names(Items(items, ByName, Ascending))
	want := []string{"apples", "Beans", "rice", "Rice", ""}
	if !slices.Equal(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}

	// Descending inverts the whole ordering, including where empty names land.
	got = names(Items(items, ByName, Descending))
	want = []string{"", "rice", "Rice", "Beans", "apples"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSortByDatePutsMissingLast(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	items := []model.Item{
		{ID: 1},
		{ID: 2, CreatedAt: base.Add(2 * time.Hour)},
		{ID: 3, CreatedAt: base},
	}

	if got := ids(Items(items, ByDateAdded, Ascending)); !slices.Equal(got, []int64{3, 2, 1}) {
		t.Errorf("ascending: expected [3 2 1], got %v", got)
	}
	if got := ids(Items(items, ByDateAdded, Descending)); !slices.Equal(got, []int64{1, 2, 3}) {
		t.Errorf("descending: expected [1 2 3], got %v", got)
	}
}

func TestMergeSortEmptyAndSingle(t *testing.T) {
	intCmp := func(a, b int) int { return a - b }

	if got := MergeSort(nil, intCmp); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
	if got := MergeSort([]int{9}, intCmp); !slices.Equal(got, []int{9}) {
		t.Errorf("expected [9], got %v", got)
	}
	if got := MergeSort([]int{3, 1, 2, 1}, intCmp); !slices.Equal(got, []int{1, 1, 2, 3}) {
		t.Errorf("expected [1 1 2 3], got %v", got)
	}
}
