package core

import (
	"fmt"
	"math"
	"sort"
)

type (
	// UserSummary is the per-user rollup shown on the dashboard. Slip
	// and voucher numbers are distinct non-empty document references, so
	// their lengths count documents, not charges.
	UserSummary struct {
		UserID         string   `json:"usuarioId"`
		Name           string   `json:"nombre"`
		Kind           Kind     `json:"tipo"`
		Total          float64  `json:"total"`
		Count          int      `json:"transacciones"`
		SlipNumbers    []string `json:"planillas"`
		VoucherNumbers []string `json:"comprobantes"`
	}

	// GroupedCharge is a charge annotated with its resolved effective
	// date, kept so report rendering can sort and display without
	// re-resolving.
	GroupedCharge struct {
		Charge
		EffectiveDate string `json:"fechaEfectiva"`
	}

	// UserGroup collects one user's charges inside a month group.
	UserGroup struct {
		UserID  string          `json:"usuarioId"`
		Name    string          `json:"nombre"`
		Kind    Kind            `json:"tipo"`
		Total   float64         `json:"total"`
		Charges []GroupedCharge `json:"cobros"`
	}

	// MonthGroup is one YYYY-MM bucket of the month-then-user report.
	MonthGroup struct {
		Month      string      `json:"mes"`
		Total      float64     `json:"total"`
		TotalCount int         `json:"totalCobros"`
		Users      []UserGroup `json:"usuarios"`
	}

	// YearStats is the whole-collection rollup for a single year.
	YearStats struct {
		Year        int     `json:"anio"`
		Total       float64 `json:"total"`
		Count       int     `json:"cobros"`
		ActiveUsers int     `json:"usuarios"`
	}

	// Overview carries the four headline dashboard figures for a
	// filtered charge set.
	Overview struct {
		Total       float64 `json:"total"`
		Count       int     `json:"transacciones"`
		ActiveUsers int     `json:"usuariosActivos"`
		Average     float64 `json:"promedio"`
	}

	// YearDetail is one year of a single user's history with 12 month
	// buckets, January at index 0.
	YearDetail struct {
		Year   int         `json:"anio"`
		Total  float64     `json:"total"`
		Count  int         `json:"cobros"`
		Months [12]float64 `json:"meses"`
	}

	// UserAnalysis is a user's complete per-year breakdown.
	UserAnalysis struct {
		UserID string       `json:"usuarioId"`
		Name   string       `json:"nombre"`
		Total  float64      `json:"totalGeneral"`
		Years  []YearDetail `json:"anios"`
	}
)

// SummarizeByUser rolls charges up per user, sorted by total descending.
// Ties keep first-appearance order.
func SummarizeByUser(charges []Charge) []UserSummary {
	index := make(map[string]int)
	summaries := make([]UserSummary, 0)
	for _, c := range charges {
		i, ok := index[c.UserID]
		if !ok {
			i = len(summaries)
			index[c.UserID] = i
			summaries = append(summaries, UserSummary{
				UserID:         c.UserID,
				Name:           c.UserName,
				Kind:           c.Kind,
				SlipNumbers:    []string{},
				VoucherNumbers: []string{},
			})
		}
		s := &summaries[i]
		s.Total += c.Amount
		s.Count++
		s.SlipNumbers = appendDistinct(s.SlipNumbers, c.SlipNumber)
		s.VoucherNumbers = appendDistinct(s.VoucherNumbers, c.VoucherNumber)
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Total > summaries[j].Total
	})
	return summaries
}

func appendDistinct(set []string, v string) []string {
	if v == "" {
		return set
	}
	for _, s := range set {
		if s == v {
			return set
		}
	}
	return append(set, v)
}

// SummarizeByMonth buckets amounts by effective-date month for charges
// whose effective year matches, January at index 0. Months without
// charges report 0.
func SummarizeByMonth(charges []Charge, year int) [12]float64 {
	var totals [12]float64
	for _, c := range charges {
		t, ok := EffectiveTime(c)
		if !ok || t.Year() != year {
			continue
		}
		totals[int(t.Month())-1] += c.Amount
	}
	return totals
}

// GroupByMonthThenUser buckets charges by effective-date year-month and
// then by user. Month groups come most recent first, users within a
// month by total descending, charges within a user by effective date
// descending; every tie keeps input order. Charges with no resolvable
// effective date are left out, as in the period filter.
func GroupByMonthThenUser(charges []Charge) []MonthGroup {
	monthIdx := make(map[string]int)
	userIdx := make(map[string]int)
	groups := make([]MonthGroup, 0)
	for _, c := range charges {
		t, ok := EffectiveTime(c)
		if !ok {
			continue
		}
		key := fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
		mi, ok := monthIdx[key]
		if !ok {
			mi = len(groups)
			monthIdx[key] = mi
			groups = append(groups, MonthGroup{Month: key})
		}
		g := &groups[mi]

		userKey := key + "|" + c.UserID
		ui, ok := userIdx[userKey]
		if !ok {
			ui = len(g.Users)
			userIdx[userKey] = ui
			g.Users = append(g.Users, UserGroup{
				UserID: c.UserID,
				Name:   c.UserName,
				Kind:   c.Kind,
			})
		}
		u := &g.Users[ui]
		eff, _ := EffectiveDate(c)
		u.Charges = append(u.Charges, GroupedCharge{Charge: c, EffectiveDate: eff})
		u.Total += c.Amount
		g.Total += c.Amount
		g.TotalCount++
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Month > groups[j].Month
	})
	for gi := range groups {
		g := &groups[gi]
		sort.SliceStable(g.Users, func(i, j int) bool {
			return g.Users[i].Total > g.Users[j].Total
		})
		for ui := range g.Users {
			list := g.Users[ui].Charges
			sort.SliceStable(list, func(i, j int) bool {
				return list[i].EffectiveDate > list[j].EffectiveDate
			})
		}
	}
	return groups
}

// YearlyStats rolls the whole collection up per effective-date year,
// most recent year first.
func YearlyStats(charges []Charge) []YearStats {
	index := make(map[int]int)
	users := make(map[int]map[string]struct{})
	stats := make([]YearStats, 0)
	for _, c := range charges {
		t, ok := EffectiveTime(c)
		if !ok {
			continue
		}
		y := t.Year()
		i, ok := index[y]
		if !ok {
			i = len(stats)
			index[y] = i
			stats = append(stats, YearStats{Year: y})
			users[y] = make(map[string]struct{})
		}
		stats[i].Total += c.Amount
		stats[i].Count++
		users[y][c.UserID] = struct{}{}
	}
	for i := range stats {
		stats[i].ActiveUsers = len(users[stats[i].Year])
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Year > stats[j].Year
	})
	return stats
}

// Summarize computes the headline dashboard figures for a charge set.
// The average is rounded to the nearest unit, matching the dashboard
// display.
func Summarize(charges []Charge) Overview {
	var o Overview
	seen := make(map[string]struct{})
	for _, c := range charges {
		o.Total += c.Amount
		o.Count++
		seen[c.UserID] = struct{}{}
	}
	o.ActiveUsers = len(seen)
	if o.Count > 0 {
		o.Average = math.Round(o.Total / float64(o.Count))
	}
	return o
}

// AnalyzeUsers builds the per-user, per-year breakdown behind the user
// detail view, sorted by overall total descending. Years within a user
// come most recent first.
func AnalyzeUsers(charges []Charge) []UserAnalysis {
	index := make(map[string]int)
	res := make([]UserAnalysis, 0)
	for _, c := range charges {
		t, ok := EffectiveTime(c)
		if !ok {
			continue
		}
		i, ok := index[c.UserID]
		if !ok {
			i = len(res)
			index[c.UserID] = i
			res = append(res, UserAnalysis{UserID: c.UserID, Name: c.UserName})
		}
		a := &res[i]
		a.Total += c.Amount

		yi := -1
		for j := range a.Years {
			if a.Years[j].Year == t.Year() {
				yi = j
				break
			}
		}
		if yi == -1 {
			a.Years = append(a.Years, YearDetail{Year: t.Year()})
			yi = len(a.Years) - 1
		}
		y := &a.Years[yi]
		y.Total += c.Amount
		y.Count++
		y.Months[int(t.Month())-1] += c.Amount
	}
	for i := range res {
		sort.SliceStable(res[i].Years, func(a, b int) bool {
			return res[i].Years[a].Year > res[i].Years[b].Year
		})
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Total > res[j].Total
	})
	return res
}
