package pdfexport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JAZoidberg/SageTeamY/internal/jobsearch"
)

func TestExportProducesPDF(t *testing.T) {
	results := []jobsearch.Result{
		{
			Title:     "Software Engineer",
			Location:  "Newark, NJ (US, New Jersey, Newark)",
			SalaryMin: "90000",
			SalaryMax: "120000",
			Link:      "https://example.com/job/1",
			Distance:  3.4,
		},
		{
			Title:     "Intern",
			Location:  "Not Provided ()",
			SalaryMin: jobsearch.NotListed,
			SalaryMax: jobsearch.NotListed,
			Link:      "No link available",
			Distance:  jobsearch.NoDistance,
		},
	}

	pdf, err := Export(results, "newark", nil)
	require.NoError(t, err)
	require.True(t, len(pdf) > 4)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestExportEmptyResults(t *testing.T) {
	pdf, err := Export(nil, "newark", nil)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "New York", titleCase("new york"))
	assert.Equal(t, "Newark", titleCase("NEWARK"))
	assert.Equal(t, "San Jose", titleCase("san (jose)"))
}
