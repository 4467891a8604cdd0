package format

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// WeeklySummary holds the weekly time data.
type WeeklySummary struct {
	WeekStart  string            `json:"weekStart"`
	WeekEnd    string            `json:"weekEnd"`
	Customers  []CustomerSummary `json:"customers"`
	GrandTotal float64           `json:"grandTotal"`
}

// CustomerSummary holds per-customer daily hours.
type CustomerSummary struct {
	Name  string    `json:"name"`
	Daily []float64 `json:"daily"` // Mon–Fri (5 elements)
	Total float64   `json:"total"`
}

// EntryRow is one line of an entry listing.
type EntryRow struct {
	ID       int    `json:"id"`
	Date     string `json:"date"`
	Span     string `json:"span"`
	Duration string `json:"duration"`
	Customer string `json:"customer"`
	Project  string `json:"project,omitempty"`
	Service  string `json:"service"`
	Text     string `json:"text,omitempty"`
	Billable string `json:"billable"`
}

var dayHeaders = []string{"Mon", "Tue", "Wed", "Thu", "Fri"}

func formatHours(h float64) string {
	if h == 0 {
		return "—"
	}
	return fmt.Sprintf("%.1f", h)
}

func formatDateRange(start, end string) string {
	months := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	s, _ := time.Parse("2006-01-02", start)
	e, _ := time.Parse("2006-01-02", end)
	return fmt.Sprintf("%s %d – %s %d, %d", months[s.Month()-1], s.Day(), months[e.Month()-1], e.Day(), e.Year())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}

// Elapsed renders a duration as "1h05m", or "12m" below an hour.
func Elapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// Table renders a WeeklySummary as a formatted text table.
func Table(summary *WeeklySummary) string {
	const colWidth = 6
	const nameWidth = 20

	var lines []string

	lines = append(lines, fmt.Sprintf("Week of %s", formatDateRange(summary.WeekStart, summary.WeekEnd)))
	lines = append(lines, "")

	// Header
	header := fmt.Sprintf("%-*s", nameWidth, "Customer")
	for _, d := range dayHeaders {
		header += fmt.Sprintf("%*s", colWidth, d)
	}
	header += "  Total"
	lines = append(lines, header)

	separator := strings.Repeat("─", len(header))
	lines = append(lines, separator)

	for _, customer := range summary.Customers {
		row := fmt.Sprintf("%-*s", nameWidth, truncate(customer.Name, nameWidth))
		for _, h := range customer.Daily {
			row += fmt.Sprintf("%*s", colWidth, formatHours(h))
		}
		row += fmt.Sprintf("%*s", colWidth+1, formatHours(customer.Total))
		row += "h"
		lines = append(lines, row)
	}

	lines = append(lines, separator)

	// Totals row
	dailyTotals := make([]float64, 5)
	for _, customer := range summary.Customers {
		for i := 0; i < 5; i++ {
			dailyTotals[i] += customer.Daily[i]
		}
	}
	totals := fmt.Sprintf("%-*s", nameWidth, "Total")
	for _, h := range dailyTotals {
		totals += fmt.Sprintf("%*s", colWidth, formatHours(h))
	}
	totals += fmt.Sprintf("%*s", colWidth+1, formatHours(summary.GrandTotal))
	totals += "h"
	lines = append(lines, totals)

	return strings.Join(lines, "\n")
}

// Entries renders an entry listing as a text table.
func Entries(rows []EntryRow) string {
	if len(rows) == 0 {
		return "No entries found."
	}

	const nameWidth = 16
	var lines []string
	header := fmt.Sprintf("%-8s %-10s %-11s %7s  %-*s %-*s %s", "ID", "Date", "Time", "Dur", nameWidth, "Customer", nameWidth, "Service", "Text")
	lines = append(lines, header)
	lines = append(lines, strings.Repeat("─", len(header)))
	for _, r := range rows {
		customer := r.Customer
		if r.Project != "" {
			customer += "/" + r.Project
		}
		text := r.Text
		if r.Billable != "" {
			text = strings.TrimSpace(text + " [" + r.Billable + "]")
		}
		lines = append(lines, fmt.Sprintf("%-8d %-10s %-11s %7s  %-*s %-*s %s",
			r.ID, r.Date, r.Span, r.Duration,
			nameWidth, truncate(customer, nameWidth),
			nameWidth, truncate(r.Service, nameWidth), text))
	}
	return strings.Join(lines, "\n")
}

// JSON renders a value as indented JSON.
func JSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data)
}
