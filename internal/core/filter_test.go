package core

import "testing"

func chargeIDs(charges []Charge) []string {
	ids := make([]string, len(charges))
	for i, c := range charges {
		ids[i] = c.ID
	}
	return ids
}

func sameIDs(a []string, b ...string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterByPeriod(t *testing.T) {
	fixture := []Charge{
		{ID: "a", Kind: Plain, SlipDate: "2024-03-01"},
		{ID: "b", Kind: Vouchered, SlipDate: "2024-02-28", VoucherDate: "2024-03-15"},
		{ID: "c", Kind: Plain, SlipDate: "2024-04-01"},
		{ID: "d", Kind: Plain, SlipDate: "2024-03-31"},
		{ID: "e", Kind: Plain, SlipDate: "2023-03-10"},
	}

	got := FilterByPeriod(fixture, 2024, 3)
	if !sameIDs(chargeIDs(got), "a", "b", "d") {
		t.Fatalf("year+month filter returned %v", chargeIDs(got))
	}

	got = FilterByPeriod(fixture, 2024, 0)
	if !sameIDs(chargeIDs(got), "a", "b", "c", "d") {
		t.Fatalf("year filter returned %v", chargeIDs(got))
	}

	got = FilterByPeriod(fixture, 0, 3)
	if !sameIDs(chargeIDs(got), "a", "b", "d", "e") {
		t.Fatalf("month filter returned %v", chargeIDs(got))
	}
}

func TestFilterByPeriodUnresolvableDates(t *testing.T) {
	fixture := []Charge{
		{ID: "dated", Kind: Plain, SlipDate: "2024-03-01"},
		{ID: "dateless", Kind: Plain}, // no slip date, no recorded instant
	}

	got := FilterByPeriod(fixture, 2024, 3)
	if !sameIDs(chargeIDs(got), "dated") {
		t.Fatalf("active filter should drop dateless charges, got %v", chargeIDs(got))
	}

	// With no filter active nothing is dropped.
	got = FilterByPeriod(fixture, 0, 0)
	if !sameIDs(chargeIDs(got), "dated", "dateless") {
		t.Fatalf("no filter should keep everything, got %v", chargeIDs(got))
	}
}

func TestFilterByUserAndRange(t *testing.T) {
	fixture := []Charge{
		{ID: "a", UserID: "u1", Kind: Plain, SlipDate: "2024-01-10"},
		{ID: "b", UserID: "u1", Kind: Plain, SlipDate: "2024-02-20"},
		{ID: "c", UserID: "u2", Kind: Vouchered, SlipDate: "2024-01-05", VoucherDate: "2024-02-01"},
		{ID: "d", UserID: "u2", Kind: Plain},
	}

	cases := []struct {
		name   string
		userID string
		from   string
		to     string
		want   []string
	}{
		{"no filters keeps all", "", "", "", []string{"a", "b", "c", "d"}},
		{"user only", "u1", "", "", []string{"a", "b"}},
		{"range drops dateless", "", "2024-01-01", "2024-12-31", []string{"a", "b", "c"}},
		{"range is inclusive", "", "2024-01-10", "2024-02-01", []string{"a", "c"}},
		{"user and range", "u2", "2024-02-01", "", []string{"c"}},
		{"localized bounds normalized", "", "10/01/2024", "01/02/2024", []string{"a", "c"}},
	}
	for _, tc := range cases {
		got := FilterByUserAndRange(fixture, tc.userID, tc.from, tc.to)
		if !sameIDs(chargeIDs(got), tc.want...) {
			t.Fatalf("%s: got %v want %v", tc.name, chargeIDs(got), tc.want)
		}
	}
}

func TestFilterReturnsFreshSlice(t *testing.T) {
	fixture := []Charge{{ID: "a", Kind: Plain, SlipDate: "2024-03-01"}}
	got := FilterByPeriod(fixture, 0, 0)
	got[0].ID = "mutated"
	if fixture[0].ID != "a" {
		t.Fatal("filter result shares backing data with input")
	}
}
