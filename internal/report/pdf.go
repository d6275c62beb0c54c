// Package report renders weekly strategy reports into portable formats.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"seomaster/internal/models"
)

const (
	pageMargin = 15.0
	lineHeight = 6.0
)

// WeeklyPDF renders a weekly strategy report as an A4 PDF and writes it to
// w.
func WeeklyPDF(w io.Writer, report *models.WeeklyReport, generatedAt time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Weekly Strategy Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 6, fmt.Sprintf("Niche: %s  |  Generated: %s",
		report.Niche, generatedAt.Format("2006-01-02")), "", 1, "L", false, 0, "")
	pdf.Ln(4)
	pdf.SetTextColor(0, 0, 0)

	sectionHeader(pdf, "Rising Trends")
	if len(report.Trends) == 0 {
		bodyText(pdf, "No trends detected this week.")
	}
	for _, trend := range report.Trends {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.MultiCell(0, lineHeight, fmt.Sprintf("%s (%s, volume %s)",
			trend.Title, trend.Velocity, trend.Volume), "", "L", false)
		bodyText(pdf, trend.Why)
		pdf.Ln(2)
	}

	sectionHeader(pdf, "Content Gaps")
	if len(report.ContentGaps) == 0 {
		bodyText(pdf, "No content gaps identified.")
	}
	for _, gap := range report.ContentGaps {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.MultiCell(0, lineHeight, gap.Topic, "", "L", false)
		for _, angle := range gap.MissingAngles {
			bodyText(pdf, "- "+angle)
		}
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, lineHeight, "Suggested: "+gap.SuggestedTitle, "", "L", false)
		pdf.Ln(2)
	}

	sectionHeader(pdf, "Recurring Audience Questions")
	if len(report.RecurringQuestions) == 0 {
		bodyText(pdf, "No recurring questions detected.")
	}
	for _, question := range report.RecurringQuestions {
		bodyText(pdf, "- "+question)
	}
	pdf.Ln(2)

	sectionHeader(pdf, "Strategic Advice")
	bodyText(pdf, report.StrategicAdvice)

	return pdf.Output(w)
}

func sectionHeader(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(0, 8, title, "", 1, "L", true, 0, "")
	pdf.Ln(2)
}

func bodyText(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, lineHeight, text, "", "L", false)
}
