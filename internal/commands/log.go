package commands

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/hev/clockodo/internal/api"
	"github.com/hev/clockodo/internal/format"
)

// LogCmd returns the log command.
func LogCmd() *cobra.Command {
	var (
		message   string
		duration  string
		r         refs
		billable  string
		afterLast bool
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log finished work as a clock entry",
		Long: `Log finished work as a clock entry. The entry ends now, or with
--after-last starts where today's last stopped entry ended.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(message, duration, r, billable, afterLast)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Description of the work (required)")
	cmd.Flags().StringVarP(&duration, "duration", "d", "", "Duration (e.g. 2h, 30m, 1h30m)")
	cmd.Flags().StringVar(&r.customer, "customer", "", "Customer name or ID (overrides .clockodo.json)")
	cmd.Flags().StringVar(&r.project, "project", "", "Project name or ID (overrides .clockodo.json)")
	cmd.Flags().StringVar(&r.service, "service", "", "Service name or ID (overrides .clockodo.json)")
	cmd.Flags().StringVar(&billable, "billable", "1", "0 not billable, 1 billable")
	cmd.Flags().BoolVar(&afterLast, "after-last", false, "Start at today's last clock-out instead of ending now")
	cmd.MarkFlagRequired("message")
	cmd.MarkFlagRequired("duration")

	return cmd
}

func runLog(message, duration string, r refs, billable string, afterLast bool) error {
	r = r.withProjectDefaults()
	if err := r.require(); err != nil {
		return err
	}

	seconds, err := parseDuration(duration)
	if err != nil {
		return err
	}
	b, err := parseBillable(billable)
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	// Names are resolved up front since a new entry carries ids only.
	ids, err := resolveIDs(client, r)
	if err != nil {
		return err
	}

	now := time.Now()
	var since time.Time
	if afterLast {
		last, ok, err := client.LastClockOut(startOfDay(now), now)
		if err != nil {
			return fmt.Errorf("failed to find last clock-out: %w", err)
		}
		if !ok {
			return fmt.Errorf("no stopped entry today to continue from")
		}
		since = last
	} else {
		since = now.Add(-time.Duration(seconds) * time.Second)
	}

	e, err := newLogEntry(ids, message, b, since, seconds)
	if err != nil {
		return err
	}
	created, err := client.CreateEntry(e)
	if err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}

	fmt.Printf("Logged %s: %s (entry #%d)\n", format.Elapsed(time.Duration(seconds)*time.Second), message, created.EntryID())
	return nil
}

type entryIDs struct {
	customer int
	project  int
	service  int
}

func resolveIDs(client *api.Client, r refs) (entryIDs, error) {
	var ids entryIDs
	customer, err := client.ResolveRef("customer", parseRef(r.customer), 0)
	if err != nil {
		return ids, err
	}
	ids.customer = customer.ID
	if r.project != "" {
		project, err := client.ResolveRef("project", parseRef(r.project), ids.customer)
		if err != nil {
			return ids, err
		}
		ids.project = project.ID
	}
	service, err := client.ResolveRef("service", parseRef(r.service), 0)
	if err != nil {
		return ids, err
	}
	ids.service = service.ID
	return ids, nil
}

func newLogEntry(ids entryIDs, message string, billable api.Opt[api.Billable], since time.Time, seconds int) (*api.ClockEntry, error) {
	e, err := api.NewClockEntry(ids.customer, ids.service, api.Some(message), api.None[int]())
	if err != nil {
		return nil, err
	}
	if ids.project != 0 {
		e.ProjectID = api.Some(ids.project)
	}
	e.Billable = billable.Or(api.BillableUnbilled)
	e.TimeSince = api.Some(since)
	e.TimeUntil = api.Some(since.Add(time.Duration(seconds) * time.Second))
	return e, nil
}

var durationRe = regexp.MustCompile(`^(?:(\d+)h)?(?:(\d+)m)?$`)

// parseDuration parses a human-friendly duration string like "2h", "30m", "1h30m".
func parseDuration(s string) (int, error) {
	matches := durationRe.FindStringSubmatch(s)
	if matches == nil || (matches[1] == "" && matches[2] == "") {
		return 0, fmt.Errorf("invalid duration %q (expected format: 2h, 30m, 1h30m)", s)
	}

	var seconds int
	if matches[1] != "" {
		h, _ := strconv.Atoi(matches[1])
		seconds += h * 3600
	}
	if matches[2] != "" {
		m, _ := strconv.Atoi(matches[2])
		seconds += m * 60
	}
	if seconds == 0 {
		return 0, fmt.Errorf("duration %q is zero", s)
	}
	return seconds, nil
}
