package eureka

// A Record is a pair of per-phase statistics: how many times the
// phase was invoked, and how many of those invocations returned true.
// Attempts >= Successes always holds. The two counters are never
// collapsed: "100% relevant, 0% successful" and "rarely relevant" are
// different, equally legitimate states.
type Record struct {
	Successes int
	Attempts  int
}

// Ratio is the Laplace-smoothed success rate (successes+1)/(attempts+2),
// which keeps low-sample heuristics from being starved.
func (r Record) Ratio() float64 {
	return float64(r.Successes+1) / float64(r.Attempts+2)
}

// recordSlot names the slot holding the (successes, attempts) pair
// for a phase.
func recordSlot(p Phase) string {
	return string(p) + "_record"
}

// decodeRecord reads a record slot value ([]int{successes, attempts}).
func decodeRecord(v any) Record {
	l := asList(v)
	if len(l) != 2 {
		return Record{}
	}
	s, _ := toInt(l[0])
	a, _ := toInt(l[1])
	return Record{Successes: s, Attempts: a}
}
