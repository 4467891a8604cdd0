package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hev/clockodo/internal/api"
	"github.com/hev/clockodo/internal/format"
)

// EntriesCmd returns the entries command.
func EntriesCmd() *cobra.Command {
	var (
		since      string
		until      string
		r          refs
		billable   string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "entries",
		Short: "List entries in a date range (default: today)",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := buildEntryQuery(since, until, r, billable, time.Now())
			if err != nil {
				return err
			}
			return runEntries(q, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&since, "since", "", "First day (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&until, "until", "", "Last day, inclusive (YYYY-MM-DD, default --since)")
	cmd.Flags().StringVar(&r.customer, "customer", "", "Only entries of this customer (name or ID)")
	cmd.Flags().StringVar(&r.project, "project", "", "Only entries of this project (name or ID)")
	cmd.Flags().StringVar(&r.service, "service", "", "Only entries of this service (name or ID)")
	cmd.Flags().StringVar(&billable, "billable", "", "Only entries with this billable state (0, 1 or 2)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func buildEntryQuery(since, until string, r refs, billable string, now time.Time) (api.EntryQuery, error) {
	var q api.EntryQuery

	from := startOfDay(now)
	if since != "" {
		t, err := parseDay(since)
		if err != nil {
			return q, err
		}
		from = t
	}
	to := from
	if until != "" {
		t, err := parseDay(until)
		if err != nil {
			return q, err
		}
		to = t
	}
	if to.Before(from) {
		return q, fmt.Errorf("--until %s is before --since %s", to.Format("2006-01-02"), from.Format("2006-01-02"))
	}

	b, err := parseBillable(billable)
	if err != nil {
		return q, err
	}

	q.Since = from
	q.Until = to.AddDate(0, 0, 1)
	q.Filter = api.EntryFilter{
		Customer: optRef(r.customer),
		Project:  optRef(r.project),
		Service:  optRef(r.service),
		Billable: b,
	}
	return q, nil
}

func runEntries(q api.EntryQuery, jsonOutput bool) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	now := time.Now()
	var rows []format.EntryRow
	for e, err := range client.IterEntries(q) {
		if err != nil {
			return err
		}
		row, err := entryRow(client, e, now)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	if jsonOutput {
		fmt.Println(format.JSON(rows))
	} else {
		fmt.Println(format.Entries(rows))
	}
	return nil
}

// entryRow renders one entry, resolving ids to names through r.
func entryRow(r api.Resolver, e api.Entry, now time.Time) (format.EntryRow, error) {
	base := e.Base()
	row := format.EntryRow{ID: base.ID, Billable: base.Billable.String()}

	customer, err := base.Customer(r)
	if err != nil {
		return row, err
	}
	row.Customer = customer.Name
	project, err := base.Project(r)
	if err != nil {
		return row, err
	}
	if project != nil {
		row.Project = project.Name
	}
	service, err := base.Service(r)
	if err != nil {
		return row, err
	}
	row.Service = service.Name

	since, _ := base.TimeSince.Get()
	row.Date = since.Local().Format("2006-01-02")

	switch v := e.(type) {
	case *api.ClockEntry:
		row.Text = v.Text.Or("")
		until := "…"
		if t, ok := v.TimeUntil.Get(); ok {
			until = t.Local().Format("15:04")
		}
		row.Span = since.Local().Format("15:04") + "-" + until
		row.Duration = format.Elapsed(v.Elapsed(now))
	case *api.LumpSumEntry:
		row.Text = v.Text.Or("")
		row.Duration = v.LumpSum.StringFixed(2)
	case *api.LumpSumServiceEntry:
		row.Text = v.Text.Or("")
		if amount, ok := v.LumpSumAmount.Get(); ok {
			row.Duration = "x" + amount.String()
		}
	}
	return row, nil
}
