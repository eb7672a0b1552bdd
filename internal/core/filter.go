package core

// FilterByPeriod keeps charges whose effective-date year and month match
// the given values. Zero means no constraint for either; month is
// 1-indexed. While any constraint is active, charges with no resolvable
// effective date are dropped; with no constraints the input is returned
// as a fresh copy, nothing silently excluded.
func FilterByPeriod(charges []Charge, year, month int) []Charge {
	res := make([]Charge, 0, len(charges))
	if year == 0 && month == 0 {
		return append(res, charges...)
	}
	for _, c := range charges {
		t, ok := EffectiveTime(c)
		if !ok {
			continue
		}
		if year != 0 && t.Year() != year {
			continue
		}
		if month != 0 && int(t.Month()) != month {
			continue
		}
		res = append(res, c)
	}
	return res
}

// FilterByUserAndRange keeps charges matching the user and the inclusive
// [from, to] effective-date range. Empty strings disable each
// constraint. Range bounds and effective dates are compared
// lexicographically as ISO YYYY-MM-DD strings; the stored data uses that
// encoding, and string order is day order for it. Charges without a
// resolvable effective date are dropped only while a range bound is set.
func FilterByUserAndRange(charges []Charge, userID, from, to string) []Charge {
	if iso, ok := NormalizeDay(from); ok {
		from = iso
	}
	if iso, ok := NormalizeDay(to); ok {
		to = iso
	}
	res := make([]Charge, 0, len(charges))
	for _, c := range charges {
		if userID != "" && c.UserID != userID {
			continue
		}
		if from != "" || to != "" {
			eff, ok := EffectiveDate(c)
			if !ok {
				continue
			}
			if from != "" && eff < from {
				continue
			}
			if to != "" && eff > to {
				continue
			}
		}
		res = append(res, c)
	}
	return res
}
