package services

import (
	"testing"
	"time"

	"fleetplus/internal/core"
)

func i64(v int64) *int64 { return &v }

func TestProject(t *testing.T) {
	cases := []struct {
		name     string
		event    core.ServiceEvent
		lifespan core.Lifespan
		wantKm   *int64
		wantDate string
	}{
		{
			name:     "distance bound only",
			event:    core.ServiceEvent{OdometerKm: 50000, ServiceDate: "2024-01-15"},
			lifespan: core.Lifespan{DistanceKm: i64(10000)},
			wantKm:   i64(60000),
		},
		{
			name:     "time bound uses 30-day months",
			event:    core.ServiceEvent{OdometerKm: 50000, ServiceDate: "2024-01-15"},
			lifespan: core.Lifespan{TimeMonths: i64(6)},
			wantDate: "2024-07-13",
		},
		{
			name:     "both bounds",
			event:    core.ServiceEvent{OdometerKm: 50000, ServiceDate: "2024-01-15"},
			lifespan: core.Lifespan{DistanceKm: i64(10000), TimeMonths: i64(6)},
			wantKm:   i64(60000),
			wantDate: "2024-07-13",
		},
		{
			name:     "zero lifespans give no bounds",
			event:    core.ServiceEvent{OdometerKm: 50000, ServiceDate: "2024-01-15"},
			lifespan: core.Lifespan{DistanceKm: i64(0), TimeMonths: i64(0)},
		},
		{
			name:     "absent lifespans give no bounds",
			event:    core.ServiceEvent{OdometerKm: 50000, ServiceDate: "2024-01-15"},
			lifespan: core.Lifespan{},
		},
		{
			name:     "unparseable service date drops the time bound only",
			event:    core.ServiceEvent{OdometerKm: 50000, ServiceDate: "around christmas"},
			lifespan: core.Lifespan{DistanceKm: i64(10000), TimeMonths: i64(6)},
			wantKm:   i64(60000),
		},
		{
			name:     "day-first layout accepted",
			event:    core.ServiceEvent{OdometerKm: 1000, ServiceDate: "15/01/2024"},
			lifespan: core.Lifespan{TimeMonths: i64(1)},
			wantDate: "2024-02-14",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Project(tc.event, tc.lifespan)

			if (got.NextDueKm == nil) != (tc.wantKm == nil) {
				t.Fatalf("NextDueKm presence: got %v want %v", got.NextDueKm, tc.wantKm)
			}
			if tc.wantKm != nil && *got.NextDueKm != *tc.wantKm {
				t.Fatalf("NextDueKm: got %d want %d", *got.NextDueKm, *tc.wantKm)
			}

			if (got.NextDueDate == nil) != (tc.wantDate == "") {
				t.Fatalf("NextDueDate presence: got %v want %q", got.NextDueDate, tc.wantDate)
			}
			if tc.wantDate != "" && core.FormatDate(*got.NextDueDate) != tc.wantDate {
				t.Fatalf("NextDueDate: got %s want %s", core.FormatDate(*got.NextDueDate), tc.wantDate)
			}
		})
	}
}

func TestProjectIsPure(t *testing.T) {
	event := core.ServiceEvent{OdometerKm: 50000, ServiceDate: "2024-01-15"}
	lifespan := core.Lifespan{DistanceKm: i64(10000), TimeMonths: i64(6)}

	first := Project(event, lifespan)
	second := Project(event, lifespan)

	if *first.NextDueKm != *second.NextDueKm {
		t.Fatalf("distance bound differs across calls")
	}
	if !first.NextDueDate.Equal(*second.NextDueDate) {
		t.Fatalf("time bound differs across calls")
	}
}

func TestTruncateToDay(t *testing.T) {
	in := time.Date(2024, 6, 1, 23, 59, 58, 0, time.Local)
	got := truncateToDay(in)
	want := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}
