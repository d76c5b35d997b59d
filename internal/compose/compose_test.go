package compose

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JAZoidberg/SageTeamY/internal/jobsearch"
)

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$90,000.00", FormatCurrency(90000))
	assert.Equal(t, "$1,234.50", FormatCurrency(1234.5))
}

func TestFormatSalary(t *testing.T) {
	both := jobsearch.Result{SalaryMin: "80000", SalaryMax: "100000"}
	assert.Equal(t, "Avg: $90,000.00, Min: $80,000.00, Max: $100,000.00", FormatSalary(both))

	onlyMin := jobsearch.Result{SalaryMin: "80000", SalaryMax: jobsearch.NotListed}
	assert.Equal(t, "Avg: $80,000.00", FormatSalary(onlyMin))

	neither := jobsearch.Result{SalaryMin: jobsearch.NotListed, SalaryMax: jobsearch.NotListed}
	assert.Equal(t, "N/A", FormatSalary(neither))
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "8.70 miles", FormatDistance(8.7))
	assert.Equal(t, "N/A", FormatDistance(jobsearch.NoDistance))
}

func TestJobMessageMentionsOwnerAndInterests(t *testing.T) {
	msg := JobMessage("123", []string{"software engineering", "data science"}, []jobsearch.Result{
		{Title: "Engineer", Link: "https://example.com/1", Distance: jobsearch.NoDistance},
	})
	assert.Contains(t, msg, "<@123>")
	assert.Contains(t, msg, "**software engineering** and **data science**")
	assert.Contains(t, msg, "1. **Engineer**")
	assert.Contains(t, msg, "Disclaimer")
}

func TestJobMessageNoInterests(t *testing.T) {
	msg := JobMessage("123", nil, []jobsearch.Result{{Title: "Engineer"}})
	assert.Contains(t, msg, "interests in **anything**")
}

func TestJobMessageNoListings(t *testing.T) {
	msg := JobMessage("123", []string{"devops"}, nil)
	assert.Contains(t, msg, "no jobs found based on your interests")
}

func TestHeaderFilterSuffix(t *testing.T) {
	assert.True(t, strings.HasSuffix(Header("123", "default"), "recommendations:"))
	assert.True(t, strings.HasSuffix(Header("123", ""), "recommendations:"))
	assert.True(t, strings.HasSuffix(Header("123", "salary"), "(filtered based on salary):"))
	assert.True(t, strings.HasSuffix(Header("123", "date"), "(filtered based on date posted):"))
}

func TestStripMarkdown(t *testing.T) {
	msg := JobMessage("123", []string{"devops"}, []jobsearch.Result{
		{Title: "Engineer", Link: "https://example.com/1", Distance: jobsearch.NoDistance},
	})
	plain := StripMarkdown(msg)
	assert.NotContains(t, plain, "**")
	assert.NotContains(t, plain, "##")
	assert.NotContains(t, plain, "-#")
	assert.NotContains(t, plain, "<@123>")
	assert.NotContains(t, plain, "[read more about the job and apply here]")
	assert.Contains(t, plain, "https://example.com/1")
}

func TestAttachmentBodyDropsDisclaimer(t *testing.T) {
	msg := JobMessage("123", []string{"devops"}, []jobsearch.Result{{Title: "Engineer"}})
	body := AttachmentBody(msg)
	assert.NotContains(t, body, "Disclaimer")
	assert.Contains(t, body, "Engineer")
}
