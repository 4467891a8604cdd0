package api

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestEntryEditParams(t *testing.T) {
	tests := []struct {
		name string
		edit EntryEdit
		want Params
	}{
		{
			name: "empty",
			edit: EntryEdit{},
			want: Params{},
		},
		{
			name: "text only",
			edit: EntryEdit{Text: Some("Fix logout")},
			want: Params{"text": "Fix logout"},
		},
		{
			name: "refs flattened",
			edit: EntryEdit{Customer: Some(ByID(7)), Project: Some(ByID(3)), Service: Some(ByID(2)), User: Some(ByID(11))},
			want: Params{"customers_id": 7, "projects_id": 3, "services_id": 2, "users_id": 11},
		},
		{
			name: "null project",
			edit: EntryEdit{Project: Some[*Ref](nil)},
			want: Params{"projects_id": nil},
		},
		{
			name: "times and money",
			edit: EntryEdit{
				TimeSince:  Some(time.Date(2022, 1, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))),
				HourlyRate: Some(decimal.RequireFromString("85.50")),
				Billable:   Some(Billed),
			},
			want: Params{"time_since": "2022-01-01T09:00:00Z", "hourly_rate": "85.5", "billable": 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.edit.Params()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Errorf("params = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				gv, ok := got[k]
				if !ok || gv != v {
					t.Errorf("param %s = %v (present %v), want %v", k, gv, ok, v)
				}
			}
		})
	}
}

func TestEntryEditErrors(t *testing.T) {
	tests := []struct {
		name string
		edit EntryEdit
	}{
		{"unresolved name", EntryEdit{Customer: Some(ByName("Acme"))}},
		{"invalid billable", EntryEdit{Billable: Some(Billable(5))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.edit.Params(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEntryEditIsEmpty(t *testing.T) {
	if !(EntryEdit{}).IsEmpty() {
		t.Error("zero edit should be empty")
	}
	if (EntryEdit{Project: Some[*Ref](nil)}).IsEmpty() {
		t.Error("clearing the project is a change")
	}
}

func TestFilterParams(t *testing.T) {
	p, err := ProjectFilter{Active: Some(false), Customer: Some(ByID(7))}.Params(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Params{"filter[active]": "0", "filter[customers_id]": 7, "page": 3}
	for k, v := range want {
		if p[k] != v {
			t.Errorf("param %s = %v, want %v", k, p[k], v)
		}
	}

	p, err = CustomerFilter{}.Params(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p) != 0 {
		t.Errorf("empty filter params = %v", p)
	}
}

func TestEntryQueryParams(t *testing.T) {
	q := EntryQuery{
		Since:                 time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		Until:                 time.Date(2022, 2, 1, 0, 0, 0, 0, time.UTC),
		Filter:                EntryFilter{Project: Some(ByID(3)), Text: Some("login")},
		RevenuesForHardBudget: true,
	}
	p, err := q.Params(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Params{
		"time_since":           "2022-01-01T00:00:00Z",
		"time_until":           "2022-02-01T00:00:00Z",
		"filters[projects_id]": 3,
		"filters[text]":        "login",
		"page":                 2,
		"calc_also_revenues_for_projects_with_hard_budget": "1",
	}
	for k, v := range want {
		if p[k] != v {
			t.Errorf("param %s = %v, want %v", k, p[k], v)
		}
	}

	if _, err := (EntryQuery{Since: q.Since}).Params(0); err == nil {
		t.Error("expected error without time_until")
	}
}

func TestParamsValues(t *testing.T) {
	v := Params{"customers_id": 7, "projects_id": nil, "text": "a&b"}.Values()
	enc := v.Encode()
	for _, part := range []string{"customers_id=7", "projects_id=", "text=a%26b"} {
		if !strings.Contains(enc, part) {
			t.Errorf("encoded %q lacks %q", enc, part)
		}
	}
}

func TestRefString(t *testing.T) {
	tests := []struct {
		ref  *Ref
		want string
	}{
		{ByID(7), "7"},
		{ByName("Acme"), `"Acme"`},
		{nil, "(none)"},
	}
	for _, tt := range tests {
		if got := tt.ref.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
