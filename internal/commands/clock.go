package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hev/clockodo/internal/api"
	"github.com/hev/clockodo/internal/format"
)

// ClockCmd returns the clock command and its subcommands. Without a
// subcommand it shows the running clock.
func ClockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clock",
		Short: "Show, start, stop or edit the running clock",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClockStatus()
		},
	}

	cmd.AddCommand(clockStatusCmd())
	cmd.AddCommand(clockStartCmd())
	cmd.AddCommand(clockStopCmd())
	cmd.AddCommand(clockEditCmd())

	return cmd
}

func clockStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the running clock",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClockStatus()
		},
	}
}

func clockStartCmd() *cobra.Command {
	var (
		message  string
		textID   int
		r        refs
		billable string
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a clock",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClockStart(message, textID, r, billable)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Description of the work")
	cmd.Flags().IntVar(&textID, "text-id", 0, "ID of a stored description (instead of --message)")
	cmd.Flags().StringVar(&r.customer, "customer", "", "Customer name or ID (overrides .clockodo.json)")
	cmd.Flags().StringVar(&r.project, "project", "", "Project name or ID (overrides .clockodo.json)")
	cmd.Flags().StringVar(&r.service, "service", "", "Service name or ID (overrides .clockodo.json)")
	cmd.Flags().StringVar(&billable, "billable", "", "0 not billable, 1 billable (default: server decides)")

	return cmd
}

func clockStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running clock",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClockStop()
		},
	}
}

func clockEditCmd() *cobra.Command {
	var (
		message   string
		r         refs
		since     string
		billable  string
		noProject bool
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Change the running clock",
		RunE: func(cmd *cobra.Command, args []string) error {
			edit, err := buildClockEdit(message, r, since, billable, noProject, time.Now())
			if err != nil {
				return err
			}
			return runClockEdit(edit)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "New description")
	cmd.Flags().StringVar(&r.customer, "customer", "", "New customer name or ID")
	cmd.Flags().StringVar(&r.project, "project", "", "New project name or ID")
	cmd.Flags().StringVar(&r.service, "service", "", "New service name or ID")
	cmd.Flags().StringVar(&since, "since", "", "New start time (HH:MM today, or a full timestamp)")
	cmd.Flags().StringVar(&billable, "billable", "", "0 not billable, 1 billable")
	cmd.Flags().BoolVar(&noProject, "no-project", false, "Remove the project")

	return cmd
}

func runClockStatus() error {
	client, err := newClient()
	if err != nil {
		return err
	}
	running, err := client.CurrentClock()
	if err != nil {
		return err
	}
	if running == nil {
		fmt.Println("No clock running.")
		return nil
	}

	status, err := clockStatus(client, running, time.Now())
	if err != nil {
		return err
	}
	fmt.Println(status)
	return nil
}

// clockStatus describes a running clock with its customer, project and
// service names.
func clockStatus(r api.Resolver, ce *api.ClockEntry, now time.Time) (string, error) {
	customer, err := ce.Customer(r)
	if err != nil {
		return "", err
	}
	project, err := ce.Project(r)
	if err != nil {
		return "", err
	}
	service, err := ce.Service(r)
	if err != nil {
		return "", err
	}

	var lines []string
	since, _ := ce.TimeSince.Get()
	lines = append(lines, fmt.Sprintf("Clock running: %s (since %s)", format.Elapsed(ce.Elapsed(now)), since.Local().Format("15:04")))
	if text, ok := ce.Text.Get(); ok && text != "" {
		lines = append(lines, fmt.Sprintf("Text:     %s", text))
	} else if id, ok := ce.TextID.Get(); ok {
		lines = append(lines, fmt.Sprintf("Text:     #%d", id))
	}
	lines = append(lines, fmt.Sprintf("Customer: %s", customer.Name))
	if project != nil {
		lines = append(lines, fmt.Sprintf("Project:  %s", project.Name))
	}
	lines = append(lines, fmt.Sprintf("Service:  %s", service.Name))
	lines = append(lines, fmt.Sprintf("Billable: %s", ce.Billable))
	return strings.Join(lines, "\n"), nil
}

func buildClockStart(message string, textID int, r refs, billable string) (api.ClockStart, error) {
	start := api.ClockStart{
		Customer: optRef(r.customer),
		Project:  optRef(r.project),
		Service:  optRef(r.service),
	}
	if textID != 0 {
		start.TextID = api.Some(textID)
	}
	if message != "" {
		start.Text = api.Some(message)
	}
	b, err := parseBillable(billable)
	if err != nil {
		return start, err
	}
	start.Billable = b
	return start, nil
}

func runClockStart(message string, textID int, r refs, billable string) error {
	r = r.withProjectDefaults()
	if err := r.require(); err != nil {
		return err
	}
	if message == "" && textID == 0 {
		return fmt.Errorf("no description given. Use --message or --text-id")
	}
	start, err := buildClockStart(message, textID, r, billable)
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	running, err := client.StartClock(start)
	if err != nil {
		return fmt.Errorf("failed to start clock: %w", err)
	}

	fmt.Printf("Clock started")
	if text, ok := running.Text.Get(); ok && text != "" {
		fmt.Printf(": %s", text)
	}
	fmt.Printf(" (entry #%d)\n", running.ID)
	return nil
}

func runClockStop() error {
	client, err := newClient()
	if err != nil {
		return err
	}
	stopped, err := client.StopClock()
	if err != nil {
		return fmt.Errorf("failed to stop clock: %w", err)
	}

	fmt.Printf("Stopped after %s", format.Elapsed(stopped.Elapsed(time.Now())))
	if text, ok := stopped.Text.Get(); ok && text != "" {
		fmt.Printf(": %s", text)
	}
	fmt.Printf(" (entry #%d)\n", stopped.ID)
	return nil
}

func buildClockEdit(message string, r refs, since, billable string, noProject bool, now time.Time) (api.EntryEdit, error) {
	edit := api.EntryEdit{
		Customer: optRef(r.customer),
		Project:  optRef(r.project),
		Service:  optRef(r.service),
	}
	if noProject {
		if edit.Project.IsSet() {
			return edit, fmt.Errorf("--project and --no-project are mutually exclusive")
		}
		edit.Project = api.Some[*api.Ref](nil)
	}
	if message != "" {
		edit.Text = api.Some(message)
	}
	if since != "" {
		t, err := parseClockTime(since, now)
		if err != nil {
			return edit, err
		}
		edit.TimeSince = api.Some(t)
	}
	b, err := parseBillable(billable)
	if err != nil {
		return edit, err
	}
	edit.Billable = b

	if edit.IsEmpty() {
		return edit, fmt.Errorf("nothing to change")
	}
	return edit, nil
}

// parseClockTime accepts HH:MM on the day of now, or a full timestamp.
func parseClockTime(s string, now time.Time) (time.Time, error) {
	if t, err := time.ParseInLocation("15:04", s, now.Location()); err == nil {
		y, m, d := now.Date()
		return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, now.Location()), nil
	}
	t, err := api.ParseTimestamp(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (expected HH:MM or 2006-01-02T15:04:05Z)", s)
	}
	return t, nil
}

func runClockEdit(edit api.EntryEdit) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	running, err := client.EditClock(edit)
	if err != nil {
		return fmt.Errorf("failed to edit clock: %w", err)
	}

	status, err := clockStatus(client, running, time.Now())
	if err != nil {
		return err
	}
	fmt.Println(status)
	return nil
}
