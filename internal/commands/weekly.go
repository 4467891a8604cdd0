package commands

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hev/clockodo/internal/api"
	"github.com/hev/clockodo/internal/format"
)

// WeeklyCmd returns the weekly command.
func WeeklyCmd() *cobra.Command {
	var weekOf string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Show weekly time summary grouped by customer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWeekly(weekOf, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&weekOf, "week-of", "", "Show week containing this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func getWeekRange(ref time.Time) (weekStart, weekEnd string) {
	day := ref.Weekday()
	diffToMonday := int(time.Monday - day)
	if day == time.Sunday {
		diffToMonday = -6
	}
	monday := ref.AddDate(0, 0, diffToMonday)
	friday := monday.AddDate(0, 0, 4)

	return monday.Format("2006-01-02"), friday.Format("2006-01-02")
}

// entrySeconds is the clocked time of an entry; lump sums carry none.
func entrySeconds(e api.Entry, now time.Time) int {
	ce, ok := e.(*api.ClockEntry)
	if !ok {
		return 0
	}
	if d, ok := ce.Duration.Get(); ok && ce.State() == api.ClockStopped {
		return d
	}
	return int(math.Round(ce.Elapsed(now).Seconds()))
}

func buildSummary(entries []api.Entry, customerNames map[int]string, weekStart string, now time.Time) *format.WeeklySummary {
	monday, _ := time.Parse("2006-01-02", weekStart)
	friday := monday.AddDate(0, 0, 4)
	weekEnd := friday.Format("2006-01-02")

	// Group by customer
	byCustomer := make(map[int][]int) // customer_id -> [5]seconds

	for _, entry := range entries {
		seconds := entrySeconds(entry, now)
		if seconds == 0 {
			continue
		}
		since, ok := entry.Base().TimeSince.Get()
		if !ok {
			continue
		}
		dayOfWeek := since.Local().Weekday()
		var dayIndex int
		if dayOfWeek == time.Sunday {
			dayIndex = 6
		} else {
			dayIndex = int(dayOfWeek) - 1 // 0=Mon...6=Sun
		}
		if dayIndex < 0 || dayIndex > 4 {
			continue // skip weekends
		}

		customerID := entry.Base().CustomerID
		if _, ok := byCustomer[customerID]; !ok {
			byCustomer[customerID] = make([]int, 5)
		}
		byCustomer[customerID][dayIndex] += seconds
	}

	// Build customer summaries
	var customers []format.CustomerSummary
	var grandTotal float64

	for customerID, dailySeconds := range byCustomer {
		dailyHours := make([]float64, 5)
		var total float64
		for i, s := range dailySeconds {
			h := math.Round(float64(s)/3600*100) / 100
			dailyHours[i] = h
			total += h
		}
		total = math.Round(total*100) / 100
		grandTotal += total

		name := customerNames[customerID]
		if name == "" {
			name = fmt.Sprintf("Customer #%d", customerID)
		}
		customers = append(customers, format.CustomerSummary{
			Name:  name,
			Daily: dailyHours,
			Total: total,
		})
	}

	sort.Slice(customers, func(i, j int) bool {
		return strings.ToLower(customers[i].Name) < strings.ToLower(customers[j].Name)
	})
	grandTotal = math.Round(grandTotal*100) / 100

	return &format.WeeklySummary{
		WeekStart:  weekStart,
		WeekEnd:    weekEnd,
		Customers:  customers,
		GrandTotal: grandTotal,
	}
}

// customerNames resolves every customer the entries mention. Each customer
// is fetched at most once thanks to the client's lookup cache.
func customerNames(r api.Resolver, entries []api.Entry) (map[int]string, error) {
	names := make(map[int]string)
	for _, e := range entries {
		id := e.Base().CustomerID
		if _, ok := names[id]; ok {
			continue
		}
		c, err := r.ResolveCustomer(id)
		if err != nil {
			return nil, err
		}
		names[id] = c.Name
	}
	return names, nil
}

func runWeekly(weekOf string, jsonOutput bool) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	ref := time.Now()
	if weekOf != "" {
		ref, err = parseDay(weekOf)
		if err != nil {
			return err
		}
	}
	weekStart, _ := getWeekRange(ref)
	monday, err := parseDay(weekStart)
	if err != nil {
		return err
	}

	var entries []api.Entry
	q := api.EntryQuery{Since: monday, Until: monday.AddDate(0, 0, 5)}
	for e, err := range client.IterEntries(q) {
		if err != nil {
			return err
		}
		entries = append(entries, e)
	}

	names, err := customerNames(client, entries)
	if err != nil {
		return err
	}

	summary := buildSummary(entries, names, weekStart, time.Now())

	if jsonOutput {
		fmt.Println(format.JSON(summary))
	} else {
		fmt.Println(format.Table(summary))
	}
	return nil
}
