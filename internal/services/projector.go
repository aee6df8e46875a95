// Package services implements the maintenance lifecycle engine: catalog
// resolution, due-point projection, obligation tracking, cost aggregation and
// report assembly, plus the mutation service wrapping repository writes.
package services

import (
	"time"

	"fleetplus/internal/core"
)

// daysPerMonth is the contractual 30-day month approximation for time-based
// due dates. Replacing it with calendar month arithmetic would silently shift
// every projected date, so it stays a fixed constant.
const daysPerMonth = 30

// Project computes the due point for one service event given its resolved
// product lifespan. Pure function: no clock, no storage.
//
// The distance bound is odometer-at-service plus the distance life; the time
// bound is the service date plus timeMonths*30 days. Either bound is absent
// when its lifespan field is absent or zero, and the time bound is also absent
// when the service date does not parse in any accepted layout.
func Project(event core.ServiceEvent, ls core.Lifespan) core.Projection {
	var p core.Projection

	if ls.DistanceKm != nil && *ls.DistanceKm > 0 {
		due := event.OdometerKm + *ls.DistanceKm
		p.NextDueKm = &due
	}

	if ls.TimeMonths != nil && *ls.TimeMonths > 0 {
		if serviced, err := core.ParseDate(event.ServiceDate); err == nil {
			due := serviced.AddDate(0, 0, int(*ls.TimeMonths)*daysPerMonth)
			p.NextDueDate = &due
		}
	}

	return p
}

// truncateToDay strips the time-of-day component so that date comparisons work
// at calendar-day granularity regardless of how "today" was produced.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
