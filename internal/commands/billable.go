package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/hev/clockodo/internal/api"
	"github.com/hev/clockodo/internal/format"
)

// BillableCmd returns the billable command.
func BillableCmd() *cobra.Command {
	var (
		since      string
		until      string
		rate       string
		markBilled bool
		pdfPath    string
	)

	cmd := &cobra.Command{
		Use:   "billable <customer>",
		Short: "Sum up unbilled billable time of a customer, optionally marking it billed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var fallback api.Opt[decimal.Decimal]
			if rate != "" {
				d, err := decimal.NewFromString(rate)
				if err != nil {
					return fmt.Errorf("invalid rate %q: %w", rate, err)
				}
				fallback = api.Some(d)
			}
			q, err := buildEntryQuery(since, until, refs{customer: args[0]}, "1", time.Now())
			if err != nil {
				return err
			}
			return runBillable(args[0], q, fallback, markBilled, pdfPath)
		},
	}

	cmd.Flags().StringVar(&since, "since", "", "First day (YYYY-MM-DD, default first of this month)")
	cmd.Flags().StringVar(&until, "until", "", "Last day, inclusive (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&rate, "rate", "", "Hourly rate for entries without one")
	cmd.Flags().BoolVar(&markBilled, "mark-billed", false, "Mark the listed entries as billed")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "Also write the line items to this PDF file")
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		if since == "" {
			since = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
		}
		if until == "" {
			until = now.Format("2006-01-02")
		}
		return nil
	}

	return cmd
}

// billingLine is one billable clock entry with its amount.
type billingLine struct {
	ID     int
	Date   string
	Text   string
	Hours  decimal.Decimal
	Rate   api.Opt[decimal.Decimal]
	Amount decimal.Decimal
}

func buildBillingLines(entries []api.Entry, fallback api.Opt[decimal.Decimal], now time.Time) []billingLine {
	lines := make([]billingLine, 0, len(entries))
	for _, e := range entries {
		ce, ok := e.(*api.ClockEntry)
		if !ok || ce.State() != api.ClockStopped {
			continue
		}
		text := ce.Text.Or("")
		if text == "" {
			text = "(no description)"
		}
		since, _ := ce.TimeSince.Get()

		hours := decimal.NewFromInt(int64(entrySeconds(ce, now))).Div(decimal.NewFromInt(3600)).Round(2)
		rate := ce.HourlyRate
		if !rate.IsSet() {
			rate = fallback
		}
		amount := decimal.Zero
		if r, ok := rate.Get(); ok {
			amount = hours.Mul(r).Round(2)
		}
		lines = append(lines, billingLine{
			ID:     ce.ID,
			Date:   since.Local().Format("2006-01-02"),
			Text:   text,
			Hours:  hours,
			Rate:   rate,
			Amount: amount,
		})
	}
	return lines
}

// billingReport prepares lines for PDF output.
func billingReport(customer string, q api.EntryQuery, lines []billingLine) *format.BillingReport {
	report := &format.BillingReport{
		Customer: customer,
		Since:    q.Since.Format("2006-01-02"),
		Until:    q.Until.AddDate(0, 0, -1).Format("2006-01-02"),
	}
	totalHours, total := decimal.Zero, decimal.Zero
	for _, line := range lines {
		rate := ""
		if r, ok := line.Rate.Get(); ok {
			rate = r.StringFixed(2)
		}
		report.Lines = append(report.Lines, format.BillingRow{
			Date:   line.Date,
			Text:   line.Text,
			Hours:  line.Hours.StringFixed(2),
			Rate:   rate,
			Amount: line.Amount.StringFixed(2),
		})
		totalHours = totalHours.Add(line.Hours)
		total = total.Add(line.Amount)
	}
	report.TotalHours = totalHours.StringFixed(2)
	report.Total = total.StringFixed(2)
	return report
}

func runBillable(customer string, q api.EntryQuery, fallback api.Opt[decimal.Decimal], markBilled bool, pdfPath string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	var entries []api.Entry
	for e, err := range client.IterEntries(q) {
		if err != nil {
			return err
		}
		entries = append(entries, e)
	}

	lines := buildBillingLines(entries, fallback, time.Now())
	if len(lines) == 0 {
		fmt.Println("No unbilled time entries found for this customer.")
		return nil
	}

	totalHours, totalAmount := decimal.Zero, decimal.Zero
	unrated := 0
	fmt.Println("Line items:")
	for _, line := range lines {
		rate := "no rate"
		if r, ok := line.Rate.Get(); ok {
			rate = r.StringFixed(2) + "/h"
		} else {
			unrated++
		}
		fmt.Printf("  %s  %6sh  %10s  %10s  %s\n", line.Date, line.Hours.StringFixed(2), rate, line.Amount.StringFixed(2), line.Text)
		totalHours = totalHours.Add(line.Hours)
		totalAmount = totalAmount.Add(line.Amount)
	}
	fmt.Println()
	fmt.Printf("Entries: %d\n", len(lines))
	fmt.Printf("Hours:   %s\n", totalHours.StringFixed(2))
	fmt.Printf("Total:   %s\n", totalAmount.StringFixed(2))
	if unrated > 0 {
		fmt.Printf("Warning: %d entries have no hourly rate. Use --rate to price them.\n", unrated)
	}

	if pdfPath != "" {
		name := customer
		if ref, err := client.ResolveRef("customer", parseRef(customer), 0); err == nil {
			if c, err := client.ResolveCustomer(ref.ID); err == nil {
				name = c.Name
			}
		}
		if err := format.BillingPDF(pdfPath, billingReport(name, q, lines)); err != nil {
			return fmt.Errorf("failed to write %s: %w", pdfPath, err)
		}
		fmt.Printf("Wrote %s\n", pdfPath)
	}

	if !markBilled {
		return nil
	}
	marked := 0
	for _, line := range lines {
		if _, err := client.EditEntry(line.ID, api.EntryEdit{Billable: api.Some(api.Billed)}); err != nil {
			fmt.Printf("Warning: failed to mark entry #%d as billed: %s\n", line.ID, api.ErrorMessage(err))
			continue
		}
		marked++
	}
	fmt.Printf("Billed:  %d entries marked as billed\n", marked)
	return nil
}
