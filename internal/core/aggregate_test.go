package core

import "testing"

func TestSummarizeByUser(t *testing.T) {
	fixture := []Charge{
		{ID: "1", UserID: "u1", UserName: "Juan", Kind: Plain, Amount: 100, SlipNumber: "P-1"},
		{ID: "2", UserID: "u2", UserName: "María", Kind: Vouchered, Amount: 300, SlipNumber: "P-2", VoucherNumber: "C-1"},
		{ID: "3", UserID: "u1", UserName: "Juan", Kind: Plain, Amount: 50, SlipNumber: "P-1"},
		{ID: "4", UserID: "u2", UserName: "María", Kind: Vouchered, Amount: 25, SlipNumber: "P-3", VoucherNumber: "C-1"},
	}

	got := SummarizeByUser(fixture)
	if len(got) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(got))
	}
	// Sorted by total descending: María 325, Juan 150.
	if got[0].UserID != "u2" || got[0].Total != 325 || got[0].Count != 2 {
		t.Fatalf("first summary wrong: %+v", got[0])
	}
	if got[1].UserID != "u1" || got[1].Total != 150 || got[1].Count != 2 {
		t.Fatalf("second summary wrong: %+v", got[1])
	}
	// Document sets are distinct references, not charge counts.
	if len(got[0].SlipNumbers) != 2 || len(got[0].VoucherNumbers) != 1 {
		t.Fatalf("document sets wrong: %+v", got[0])
	}
	if len(got[1].SlipNumbers) != 1 || len(got[1].VoucherNumbers) != 0 {
		t.Fatalf("document sets wrong: %+v", got[1])
	}
}

func TestSummarizeByMonth(t *testing.T) {
	fixture := []Charge{
		{UserID: "a", Kind: Plain, Amount: 100, SlipDate: "2024-02-15"},
		{UserID: "a", Kind: Plain, Amount: 50, SlipDate: "2024-03-01"},
		{UserID: "a", Kind: Plain, Amount: 999, SlipDate: "2023-02-15"}, // other year
		{UserID: "b", Kind: Vouchered, Amount: 7, SlipDate: "2024-02-01", VoucherDate: "2024-12-31"},
	}
	got := SummarizeByMonth(fixture, 2024)
	want := [12]float64{0, 100, 50, 0, 0, 0, 0, 0, 0, 0, 0, 7}
	if got != want {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestSummarizeByMonthEndToEnd(t *testing.T) {
	// Two charges for one plain user, slip-dated in January and
	// February; every other bucket stays zero.
	charges := []Charge{
		{UserID: "a", Kind: Plain, Amount: 100, SlipDate: "2024-01-15"},
		{UserID: "a", Kind: Plain, Amount: 50, SlipDate: "2024-02-01"},
	}
	got := SummarizeByMonth(charges, 2024)
	want := [12]float64{100, 50, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	if got != want {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestGroupByMonthThenUser(t *testing.T) {
	fixture := []Charge{
		{ID: "1", UserID: "u1", UserName: "Juan", Kind: Plain, Amount: 10, SlipDate: "2024-01-05"},
		{ID: "2", UserID: "u2", UserName: "María", Kind: Plain, Amount: 30, SlipDate: "2024-01-20"},
		{ID: "3", UserID: "u1", UserName: "Juan", Kind: Plain, Amount: 40, SlipDate: "2024-02-01"},
		{ID: "4", UserID: "u2", UserName: "María", Kind: Plain, Amount: 5, SlipDate: "2024-02-28"},
		{ID: "5", UserID: "u1", UserName: "Juan", Kind: Plain, Amount: 1, SlipDate: "2024-01-10"},
	}

	groups := GroupByMonthThenUser(fixture)
	if len(groups) != 2 {
		t.Fatalf("expected 2 month groups, got %d", len(groups))
	}
	// Months most recent first.
	if groups[0].Month != "2024-02" || groups[1].Month != "2024-01" {
		t.Fatalf("month order wrong: %s, %s", groups[0].Month, groups[1].Month)
	}
	if groups[0].TotalCount != 2 || groups[1].TotalCount != 3 {
		t.Fatalf("counts wrong: %d, %d", groups[0].TotalCount, groups[1].TotalCount)
	}
	for _, g := range groups {
		if len(g.Users) != 2 {
			t.Fatalf("month %s expected 2 user groups, got %d", g.Month, len(g.Users))
		}
	}
	// Users by total descending inside each month.
	if groups[0].Users[0].UserID != "u1" { // Feb: Juan 40 > María 5
		t.Fatalf("feb user order wrong: %+v", groups[0].Users)
	}
	if groups[1].Users[0].UserID != "u2" { // Jan: María 30 > Juan 11
		t.Fatalf("jan user order wrong: %+v", groups[1].Users)
	}
	// Charges inside a user group by effective date descending.
	janJuan := groups[1].Users[1]
	if janJuan.Charges[0].ID != "5" || janJuan.Charges[1].ID != "1" {
		t.Fatalf("charge order wrong: %+v", janJuan.Charges)
	}
	// Every input charge lands in exactly one group.
	total := 0
	for _, g := range groups {
		for _, u := range g.Users {
			total += len(u.Charges)
		}
	}
	if total != len(fixture) {
		t.Fatalf("expected %d grouped charges, got %d", len(fixture), total)
	}
}

func TestYearlyStats(t *testing.T) {
	fixture := []Charge{
		{UserID: "u1", Kind: Plain, Amount: 10, SlipDate: "2023-05-01"},
		{UserID: "u2", Kind: Plain, Amount: 20, SlipDate: "2023-06-01"},
		{UserID: "u1", Kind: Plain, Amount: 40, SlipDate: "2024-01-01"},
	}
	got := YearlyStats(fixture)
	if len(got) != 2 {
		t.Fatalf("expected 2 years, got %d", len(got))
	}
	if got[0].Year != 2024 || got[0].Total != 40 || got[0].Count != 1 || got[0].ActiveUsers != 1 {
		t.Fatalf("2024 stats wrong: %+v", got[0])
	}
	if got[1].Year != 2023 || got[1].Total != 30 || got[1].Count != 2 || got[1].ActiveUsers != 2 {
		t.Fatalf("2023 stats wrong: %+v", got[1])
	}
}

func TestSummarize(t *testing.T) {
	fixture := []Charge{
		{UserID: "u1", Amount: 100},
		{UserID: "u1", Amount: 51},
		{UserID: "u2", Amount: 30},
	}
	got := Summarize(fixture)
	if got.Total != 181 || got.Count != 3 || got.ActiveUsers != 2 {
		t.Fatalf("overview wrong: %+v", got)
	}
	if got.Average != 60 { // 181/3 rounded
		t.Fatalf("average wrong: %v", got.Average)
	}
	if empty := Summarize(nil); empty.Average != 0 {
		t.Fatalf("empty set average should be 0, got %v", empty.Average)
	}
}

func TestAnalyzeUsers(t *testing.T) {
	fixture := []Charge{
		{UserID: "u1", UserName: "Juan", Kind: Plain, Amount: 10, SlipDate: "2023-03-01"},
		{UserID: "u1", UserName: "Juan", Kind: Plain, Amount: 20, SlipDate: "2024-03-01"},
		{UserID: "u2", UserName: "María", Kind: Plain, Amount: 100, SlipDate: "2024-07-15"},
	}
	got := AnalyzeUsers(fixture)
	if len(got) != 2 {
		t.Fatalf("expected 2 analyses, got %d", len(got))
	}
	if got[0].UserID != "u2" || got[0].Total != 100 {
		t.Fatalf("order wrong: %+v", got[0])
	}
	juan := got[1]
	if len(juan.Years) != 2 || juan.Years[0].Year != 2024 || juan.Years[1].Year != 2023 {
		t.Fatalf("years wrong: %+v", juan.Years)
	}
	if juan.Years[0].Months[2] != 20 || juan.Years[1].Months[2] != 10 {
		t.Fatalf("month buckets wrong: %+v", juan.Years)
	}
}
