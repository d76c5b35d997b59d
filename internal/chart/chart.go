// Package chart renders the salary-histogram PNG embedded in PDF exports.
package chart

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/aclements/go-moremath/stats"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	chartWidth  = 800
	chartHeight = 600
	margin      = 70.0
)

// Bucket is one salary band and how many listings fall into it.
type Bucket struct {
	Salary    int
	Frequency int
}

// SortBuckets turns the upstream frequency map into buckets ordered by
// salary band.
func SortBuckets(histogram map[string]int) []Bucket {
	buckets := make([]Bucket, 0, len(histogram))
	for k, v := range histogram {
		salary, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		buckets = append(buckets, Bucket{Salary: salary, Frequency: v})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Salary < buckets[j].Salary })
	return buckets
}

// HasData reports whether any bucket has a non-zero frequency.
func HasData(buckets []Bucket) bool {
	for _, b := range buckets {
		if b.Frequency > 0 {
			return true
		}
	}
	return false
}

// Render draws the salary distribution for a job title as a PNG area chart.
func Render(buckets []Bucket, jobTitle string) ([]byte, error) {
	if len(buckets) == 0 {
		return nil, fmt.Errorf("no histogram buckets for %q", jobTitle)
	}

	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse chart font")
	}
	labelFace := truetype.NewFace(font, &truetype.Options{Size: 14})
	titleFace := truetype.NewFace(font, &truetype.Options{Size: 20})

	freqs := make([]float64, len(buckets))
	for i, b := range buckets {
		freqs[i] = float64(b.Frequency)
	}
	sample := stats.Sample{Xs: freqs}
	yMax := sample.Quantile(1)
	if yMax == 0 {
		yMax = 1
	}

	dc := gg.NewContext(chartWidth, chartHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	plotW := float64(chartWidth) - 2*margin
	plotH := float64(chartHeight) - 2*margin
	xAt := func(i int) float64 {
		if len(buckets) == 1 {
			return margin + plotW/2
		}
		return margin + plotW*float64(i)/float64(len(buckets)-1)
	}
	yAt := func(freq float64) float64 {
		return float64(chartHeight) - margin - plotH*(freq/yMax)
	}

	// filled area under the line
	dc.SetRGBA(0, 0.59, 1, 0.35)
	dc.MoveTo(xAt(0), yAt(0))
	for i, b := range buckets {
		dc.LineTo(xAt(i), yAt(float64(b.Frequency)))
	}
	dc.LineTo(xAt(len(buckets)-1), float64(chartHeight)-margin)
	dc.LineTo(xAt(0), float64(chartHeight)-margin)
	dc.ClosePath()
	dc.Fill()

	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(2)
	for i := 1; i < len(buckets); i++ {
		dc.DrawLine(xAt(i-1), yAt(float64(buckets[i-1].Frequency)), xAt(i), yAt(float64(buckets[i].Frequency)))
	}
	dc.Stroke()

	// axes
	dc.SetLineWidth(1.5)
	dc.DrawLine(margin, margin, margin, float64(chartHeight)-margin)
	dc.DrawLine(margin, float64(chartHeight)-margin, float64(chartWidth)-margin, float64(chartHeight)-margin)
	dc.Stroke()

	dc.SetFontFace(labelFace)
	for i, b := range buckets {
		dc.DrawStringAnchored(shortSalary(b.Salary), xAt(i), float64(chartHeight)-margin+18, 0.5, 0.5)
	}
	steps := 4
	for i := 0; i <= steps; i++ {
		v := yMax * float64(i) / float64(steps)
		dc.DrawStringAnchored(strconv.Itoa(int(v)), margin-25, yAt(v), 0.5, 0.5)
	}
	dc.DrawStringAnchored("Annual Salary (USD)", float64(chartWidth)/2, float64(chartHeight)-margin+45, 0.5, 0.5)

	dc.SetFontFace(titleFace)
	dc.DrawStringAnchored(fmt.Sprintf("Salary Range of %s", jobTitle), float64(chartWidth)/2, margin/2, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(err, "unable to encode chart png")
	}
	return buf.Bytes(), nil
}

func shortSalary(v int) string {
	if v >= 1000 {
		return fmt.Sprintf("%dk", v/1000)
	}
	return strconv.Itoa(v)
}
