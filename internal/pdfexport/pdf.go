// Package pdfexport renders a listing set into the downloadable PDF the bot
// attaches to messages and emails.
package pdfexport

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"

	"github.com/JAZoidberg/SageTeamY/internal/compose"
	"github.com/JAZoidberg/SageTeamY/internal/jobsearch"
)

const (
	pageMargin = 40.0
	bodySize   = 13.0
	labelSize  = 15.0
	titleSize  = 30.0
)

// Export renders the listings to PDF bytes. charts maps a listing index to a
// PNG salary histogram; missing entries just skip the chart.
func Export(results []jobsearch.Result, city string, charts map[int][]byte) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	usable := pageW - 2*pageMargin

	drawTitleBar(pdf, usable)

	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.SetTextColor(114, 53, 9)
	pdf.CellFormat(usable, titleSize+10, "List of Jobs PDF", "", 1, "L", false, 0, "")
	pdf.Ln(10)

	for i, job := range results {
		pdf.SetFont("Helvetica", "B", bodySize+7)
		pdf.SetTextColor(241, 113, 34)
		pdf.MultiCell(usable, bodySize+12, fmt.Sprintf("%d. %s", i+1, job.Title), "", "L", false)
		pdf.Ln(4)

		location := job.Location
		if job.Distance >= 0 {
			location = fmt.Sprintf("%s, %.2f miles from %s", job.Location, job.Distance, titleCase(city))
		}
		points := []struct {
			label string
			value string
		}{
			{"Location", location},
			{"Salary", compose.FormatSalary(job)},
			{"Apply Here", job.Link},
		}
		for _, point := range points {
			pdf.SetFont("Helvetica", "B", labelSize)
			pdf.SetTextColor(94, 74, 74)
			pdf.SetX(pageMargin + 20)
			pdf.MultiCell(usable-20, labelSize+5, "- "+point.label, "", "L", false)

			if point.label == "Salary" {
				if png, ok := charts[i]; ok {
					embedChart(pdf, png, i, usable)
				}
			}

			pdf.SetFont("Helvetica", "", bodySize)
			pdf.SetTextColor(13, 158, 198)
			pdf.SetX(pageMargin + 50)
			pdf.MultiCell(usable-50, bodySize+4, point.value, "", "L", false)
			pdf.Ln(6)
		}
		pdf.Ln(20)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "unable to render job listing pdf")
	}
	return buf.Bytes(), nil
}

// drawTitleBar paints the three-segment header bar.
func drawTitleBar(pdf *fpdf.Fpdf, usable float64) {
	segment := usable / 3
	y := pdf.GetY()
	pdf.SetFillColor(135, 59, 29)
	pdf.Rect(pageMargin, y, segment, 10, "F")
	pdf.SetFillColor(237, 118, 71)
	pdf.Rect(pageMargin+segment, y, segment, 10, "F")
	pdf.SetFillColor(13, 158, 198)
	pdf.Rect(pageMargin+2*segment, y, segment, 10, "F")
	pdf.SetY(y + 30)
}

func embedChart(pdf *fpdf.Fpdf, png []byte, index int, usable float64) {
	name := fmt.Sprintf("histogram-%d", index)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	w := usable * 0.6
	h := w * 0.75 // chart renders at a 4:3 ratio
	pageW, _ := pdf.GetPageSize()
	pdf.ImageOptions(name, pageW/2-w/2, pdf.GetY()+5, w, h, true, opts, 0, "")
	pdf.Ln(10)
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(strings.NewReplacer("(", "", ")", "").Replace(s)))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
