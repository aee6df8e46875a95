package services

import (
	"sort"
	"time"

	"fleetplus/internal/core"
)

// DefaultHorizonDays is the default "expiring soon" window.
const DefaultHorizonDays = 30

// Classify derives the state of one obligation from its due date and an
// injected "today". The stored status text is advisory only; the computed
// state is what reports show.
//
//	expired  iff due < today
//	expiring iff today <= due < today + horizon
//	current  otherwise
//	unknown  when the due date is missing or unparseable
func Classify(o core.Obligation, today time.Time, horizonDays int) core.ObligationState {
	due, err := core.ParseDate(o.DueDate)
	if err != nil {
		return core.StateUnknown
	}
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	day := truncateToDay(today)
	due = truncateToDay(due)

	switch {
	case due.Before(day):
		return core.StateExpired
	case due.Before(day.AddDate(0, 0, horizonDays)):
		return core.StateExpiring
	default:
		return core.StateCurrent
	}
}

// ClassifyAll annotates every obligation and orders the rows by ascending due
// date. Rows with unknown due dates sort last, keeping their insertion order
// among themselves.
func ClassifyAll(obligations []core.Obligation, today time.Time, horizonDays int) []core.ObligationRow {
	rows := make([]core.ObligationRow, len(obligations))
	for i, o := range obligations {
		rows[i] = core.ObligationRow{
			Obligation: o,
			State:      Classify(o, today, horizonDays),
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		di, erri := core.ParseDate(rows[i].Obligation.DueDate)
		dj, errj := core.ParseDate(rows[j].Obligation.DueDate)
		if erri != nil {
			return false
		}
		if errj != nil {
			return true
		}
		return di.Before(dj)
	})

	return rows
}
