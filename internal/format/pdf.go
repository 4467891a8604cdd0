package format

import (
	"fmt"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"
)

// BillingReport holds the billable time of one customer in a date range.
// Amounts are preformatted.
type BillingReport struct {
	Customer   string
	Since      string
	Until      string
	Lines      []BillingRow
	TotalHours string
	Total      string
}

// BillingRow is one priced entry of a BillingReport.
type BillingRow struct {
	Date   string
	Text   string
	Hours  string
	Rate   string
	Amount string
}

var billingGrid = []uint{2, 5, 1, 2, 2}

// BillingPDF writes report as an A4 PDF to path.
func BillingPDF(path string, report *BillingReport) error {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 10, 20)

	m.RegisterHeader(func() {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(report.Customer, props.Text{
					Top:   3,
					Style: consts.Bold,
					Align: consts.Center,
					Size:  16,
				})
			})
		})
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(fmt.Sprintf("%s - %s", report.Since, report.Until), props.Text{
					Top:   3,
					Align: consts.Center,
					Size:  12,
				})
			})
		})
	})

	rows := make([][]string, 0, len(report.Lines))
	for _, l := range report.Lines {
		rows = append(rows, []string{l.Date, l.Text, l.Hours, l.Rate, l.Amount})
	}
	m.TableList([]string{"Date", "Description", "Hours", "Rate", "Amount"}, rows, props.TableList{
		HeaderProp: props.TableListContent{
			Size:      10,
			GridSizes: billingGrid,
		},
		ContentProp: props.TableListContent{
			Size:      9,
			GridSizes: billingGrid,
		},
		Align:                consts.Left,
		AlternatedBackground: &color.Color{Red: 240, Green: 240, Blue: 240},
		HeaderContentSpace:   1,
	})

	m.Row(20, func() {
		m.Col(12, func() {
			m.Text(fmt.Sprintf("%s h    Total: %s", report.TotalHours, report.Total), props.Text{
				Top:   10,
				Style: consts.Bold,
				Align: consts.Right,
				Size:  12,
			})
		})
	})

	return m.OutputFileAndClose(path)
}
