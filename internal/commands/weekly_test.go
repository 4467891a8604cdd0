package commands

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hev/clockodo/internal/api"
	"github.com/hev/clockodo/internal/format"
)

func TestGetWeekRange(t *testing.T) {
	tests := []struct {
		name      string
		input     time.Time
		wantStart string
		wantEnd   string
	}{
		{
			name:      "Wednesday",
			input:     time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC),
			wantStart: "2026-02-09",
			wantEnd:   "2026-02-13",
		},
		{
			name:      "Monday",
			input:     time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC),
			wantStart: "2026-02-09",
			wantEnd:   "2026-02-13",
		},
		{
			name:      "Friday",
			input:     time.Date(2026, 2, 13, 23, 59, 59, 0, time.UTC),
			wantStart: "2026-02-09",
			wantEnd:   "2026-02-13",
		},
		{
			name:      "Sunday goes to previous week",
			input:     time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC),
			wantStart: "2026-02-09",
			wantEnd:   "2026-02-13",
		},
		{
			name:      "Saturday",
			input:     time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC),
			wantStart: "2026-02-09",
			wantEnd:   "2026-02-13",
		},
		{
			name:      "month boundary",
			input:     time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
			wantStart: "2026-03-02",
			wantEnd:   "2026-03-06",
		},
		{
			name:      "year boundary",
			input:     time.Date(2025, 12, 31, 12, 0, 0, 0, time.UTC),
			wantStart: "2025-12-29",
			wantEnd:   "2026-01-02",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := getWeekRange(tt.input)
			if start != tt.wantStart {
				t.Errorf("weekStart = %q, want %q", start, tt.wantStart)
			}
			if end != tt.wantEnd {
				t.Errorf("weekEnd = %q, want %q", end, tt.wantEnd)
			}
		})
	}
}

func findCustomer(customers []format.CustomerSummary, name string) *format.CustomerSummary {
	for i := range customers {
		if customers[i].Name == name {
			return &customers[i]
		}
	}
	return nil
}

// clocked builds a stopped clock entry starting at since.
func clocked(id, customerID int, since string, seconds int) api.Entry {
	start, err := api.ParseTimestamp(since)
	if err != nil {
		panic(err)
	}
	e := &api.ClockEntry{
		Duration:  api.Some(seconds),
		TimeUntil: api.Some(start.Add(time.Duration(seconds) * time.Second)),
	}
	e.ID = id
	e.CustomerID = customerID
	e.ServiceID = 2
	e.TimeSince = api.Some(start)
	return e
}

func TestBuildSummary(t *testing.T) {
	names := map[int]string{
		1: "Acme Corp",
		2: "Globex Inc",
	}
	now := time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC)

	t.Run("groups entries by customer", func(t *testing.T) {
		entries := []api.Entry{
			clocked(1, 1, "2026-02-09T12:00:00Z", 7200),
			clocked(2, 1, "2026-02-10T12:00:00Z", 3600),
			clocked(3, 2, "2026-02-09T12:00:00Z", 5400),
		}

		summary := buildSummary(entries, names, "2026-02-09", now)

		if len(summary.Customers) != 2 {
			t.Fatalf("expected 2 customers, got %d", len(summary.Customers))
		}

		acme := findCustomer(summary.Customers, "Acme Corp")
		globex := findCustomer(summary.Customers, "Globex Inc")
		if acme == nil || globex == nil {
			t.Fatal("missing expected customer")
		}
		if acme.Daily[0] != 2 {
			t.Errorf("Acme Mon = %v, want 2", acme.Daily[0])
		}
		if acme.Daily[1] != 1 {
			t.Errorf("Acme Tue = %v, want 1", acme.Daily[1])
		}
		if acme.Total != 3 {
			t.Errorf("Acme total = %v, want 3", acme.Total)
		}
		if globex.Daily[0] != 1.5 {
			t.Errorf("Globex Mon = %v, want 1.5", globex.Daily[0])
		}
		if globex.Total != 1.5 {
			t.Errorf("Globex total = %v, want 1.5", globex.Total)
		}
	})

	t.Run("zero-entry week", func(t *testing.T) {
		summary := buildSummary(nil, names, "2026-02-09", now)
		if len(summary.Customers) != 0 {
			t.Errorf("expected 0 customers, got %d", len(summary.Customers))
		}
		if summary.GrandTotal != 0 {
			t.Errorf("grandTotal = %v, want 0", summary.GrandTotal)
		}
		if summary.WeekStart != "2026-02-09" {
			t.Errorf("weekStart = %q, want %q", summary.WeekStart, "2026-02-09")
		}
		if summary.WeekEnd != "2026-02-13" {
			t.Errorf("weekEnd = %q, want %q", summary.WeekEnd, "2026-02-13")
		}
	})

	t.Run("converts duration seconds to hours", func(t *testing.T) {
		entries := []api.Entry{
			clocked(1, 1, "2026-02-09T12:00:00Z", 5400),
			clocked(2, 1, "2026-02-10T12:00:00Z", 900),
		}
		summary := buildSummary(entries, names, "2026-02-09", now)
		acme := summary.Customers[0]
		if acme.Daily[0] != 1.5 {
			t.Errorf("Mon = %v, want 1.5", acme.Daily[0])
		}
		if acme.Daily[1] != 0.25 {
			t.Errorf("Tue = %v, want 0.25", acme.Daily[1])
		}
		if acme.Total != 1.75 {
			t.Errorf("total = %v, want 1.75", acme.Total)
		}
	})

	t.Run("unknown customer id", func(t *testing.T) {
		entries := []api.Entry{
			clocked(1, 999, "2026-02-09T12:00:00Z", 3600),
		}
		summary := buildSummary(entries, names, "2026-02-09", now)
		if summary.Customers[0].Name != "Customer #999" {
			t.Errorf("name = %q, want %q", summary.Customers[0].Name, "Customer #999")
		}
	})

	t.Run("sums multiple entries same customer same day", func(t *testing.T) {
		entries := []api.Entry{
			clocked(1, 1, "2026-02-09T12:00:00Z", 3600),
			clocked(2, 1, "2026-02-09T12:00:00Z", 3600),
		}
		summary := buildSummary(entries, names, "2026-02-09", now)
		acme := summary.Customers[0]
		if acme.Daily[0] != 2 {
			t.Errorf("Mon = %v, want 2", acme.Daily[0])
		}
		if acme.Total != 2 {
			t.Errorf("total = %v, want 2", acme.Total)
		}
	})

	t.Run("skips weekend entries", func(t *testing.T) {
		entries := []api.Entry{
			clocked(1, 1, "2026-02-14T12:00:00Z", 3600), // Saturday
			clocked(2, 1, "2026-02-15T12:00:00Z", 3600), // Sunday
		}
		summary := buildSummary(entries, names, "2026-02-09", now)
		if len(summary.Customers) != 0 {
			t.Errorf("expected 0 customers (weekends skipped), got %d", len(summary.Customers))
		}
		if summary.GrandTotal != 0 {
			t.Errorf("grandTotal = %v, want 0", summary.GrandTotal)
		}
	})

	t.Run("sorts customers alphabetically", func(t *testing.T) {
		entries := []api.Entry{
			clocked(1, 2, "2026-02-09T12:00:00Z", 3600),
			clocked(2, 1, "2026-02-09T12:00:00Z", 3600),
		}
		summary := buildSummary(entries, names, "2026-02-09", now)
		if summary.Customers[0].Name != "Acme Corp" {
			t.Errorf("first customer = %q, want %q", summary.Customers[0].Name, "Acme Corp")
		}
		if summary.Customers[1].Name != "Globex Inc" {
			t.Errorf("second customer = %q, want %q", summary.Customers[1].Name, "Globex Inc")
		}
	})

	t.Run("calculates grandTotal across customers", func(t *testing.T) {
		entries := []api.Entry{
			clocked(1, 1, "2026-02-09T12:00:00Z", 7200),
			clocked(2, 2, "2026-02-10T12:00:00Z", 5400),
		}
		summary := buildSummary(entries, names, "2026-02-09", now)
		if summary.GrandTotal != 3.5 {
			t.Errorf("grandTotal = %v, want 3.5", summary.GrandTotal)
		}
	})
}

func TestBuildSummaryEntryKinds(t *testing.T) {
	names := map[int]string{1: "Acme Corp"}
	since := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)

	running := &api.ClockEntry{}
	running.ID = 1
	running.CustomerID = 1
	running.TimeSince = api.Some(since)

	lumpSum := api.NewLumpSumEntry(1, 2, since, decimal.NewFromInt(100), "Licence")

	now := since.Add(90 * time.Minute)
	summary := buildSummary([]api.Entry{running, lumpSum}, names, "2026-02-09", now)
	if len(summary.Customers) != 1 {
		t.Fatalf("expected 1 customer, got %d", len(summary.Customers))
	}
	if got := summary.Customers[0].Daily[0]; got != 1.5 {
		t.Errorf("Mon = %v, want 1.5 (running clock up to now, lump sum ignored)", got)
	}
}

type fakeResolver struct {
	customers map[int]*api.Customer
	projects  map[int]*api.Project
	services  map[int]*api.Service
	calls     int
}

func (f *fakeResolver) ResolveCustomer(id int) (*api.Customer, error) {
	f.calls++
	if c, ok := f.customers[id]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("customer %d not found", id)
}

func (f *fakeResolver) ResolveProject(id int) (*api.Project, error) {
	if p, ok := f.projects[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("project %d not found", id)
}

func (f *fakeResolver) ResolveService(id int) (*api.Service, error) {
	if s, ok := f.services[id]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("service %d not found", id)
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		customers: map[int]*api.Customer{1: {ID: 1, Name: "Acme Corp", Active: true}, 2: {ID: 2, Name: "Globex Inc", Active: true}},
		projects:  map[int]*api.Project{3: {ID: 3, Name: "Website", CustomerID: 1, Active: true}},
		services:  map[int]*api.Service{2: {ID: 2, Name: "Development", Active: true}},
	}
}

func TestCustomerNames(t *testing.T) {
	r := newFakeResolver()
	entries := []api.Entry{
		clocked(1, 1, "2026-02-09T12:00:00Z", 3600),
		clocked(2, 1, "2026-02-10T12:00:00Z", 3600),
		clocked(3, 2, "2026-02-10T12:00:00Z", 3600),
	}

	names, err := customerNames(r, entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if names[1] != "Acme Corp" || names[2] != "Globex Inc" {
		t.Errorf("names = %v", names)
	}
	if r.calls != 2 {
		t.Errorf("resolved %d times, want once per customer", r.calls)
	}

	if _, err := customerNames(r, []api.Entry{clocked(4, 99, "2026-02-10T12:00:00Z", 60)}); err == nil {
		t.Error("expected error for unknown customer")
	}
}
