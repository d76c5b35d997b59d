// Package compose turns normalized job listings into the text, card and
// attachment shapes the bot delivers.
package compose

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/JAZoidberg/SageTeamY/internal/jobsearch"
)

// MessageLimit is the platform message-size ceiling. Anything longer is
// degraded to a file attachment with markdown stripped.
const MessageLimit = 2000

const disclaimer = `### **Disclaimer:**
-# Please be aware that the job listings displayed are retrieved from a third-party API. ` +
	`While we strive to provide accurate information, we cannot guarantee the legitimacy or security ` +
	`of all postings. Exercise caution when sharing personal information, submitting resumes, or registering ` +
	`on external sites. Always verify the authenticity of job applications before proceeding.`

const noListings = "### Unfortunately, there were no jobs found based on your interests :(. " +
	"Consider updating your interests or waiting until something is found."

// FormatCurrency renders a value as US-locale currency.
func FormatCurrency(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// FormatSalary renders a listing's salary line: Avg/Min/Max when both sides
// parse, the average alone when only one does, "N/A" when neither does.
func FormatSalary(r jobsearch.Result) string {
	min, okMin := jobsearch.Salary(r.SalaryMin)
	max, okMax := jobsearch.Salary(r.SalaryMax)
	switch {
	case okMin && okMax:
		return fmt.Sprintf("Avg: %s, Min: %s, Max: %s",
			FormatCurrency((min+max)/2), FormatCurrency(min), FormatCurrency(max))
	case okMin:
		return fmt.Sprintf("Avg: %s", FormatCurrency(min))
	case okMax:
		return fmt.Sprintf("Avg: %s", FormatCurrency(max))
	default:
		return "N/A"
	}
}

// FormatDistance renders a distance in miles; the sentinel renders as "N/A".
func FormatDistance(d float64) string {
	if d == jobsearch.NoDistance {
		return "N/A"
	}
	return fmt.Sprintf("%.2f miles", d)
}

// ListJobs renders the numbered long-form markdown listing.
func ListJobs(results []jobsearch.Result) string {
	if len(results) == 0 {
		return noListings
	}
	var b strings.Builder
	for i, r := range results {
		posted := r.Created
		if t := r.CreatedTime(); !t.IsZero() {
			posted = t.Format("Mon Jan 2 2006 at 3:04 PM")
		}
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, r.Title)
		fmt.Fprintf(&b, "\t* **Salary:** %s\n", FormatSalary(r))
		fmt.Fprintf(&b, "\t* **Location:** %s\n", r.Location)
		fmt.Fprintf(&b, "\t* **Date Posted:** %s\n", posted)
		fmt.Fprintf(&b, "\t* **Apply here:** [read more about the job and apply here](%s)\n", r.Link)
		fmt.Fprintf(&b, "\t* **Distance:** %s\n", FormatDistance(r.Distance))
		if i != len(results)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// JobMessage composes the full long-form message delivered for a job alert.
func JobMessage(owner string, interests []string, results []jobsearch.Result) string {
	return fmt.Sprintf(`## Hey <@%s>!
## Here's your list of job/internship recommendations:
Based on your interests in %s, I've found these jobs you may find interesting.
Here's your personalized list:

%s
---
%s`, owner, boldJoin(interests), ListJobs(results), disclaimer)
}

// Header composes the short message that accompanies a file attachment when
// the full listing is too long to send inline.
func Header(owner, filterBy string) string {
	suffix := ":"
	if filterBy != "" && filterBy != "default" {
		name := filterBy
		if name == "date" {
			name = "date posted"
		}
		suffix = fmt.Sprintf(" (filtered based on %s):", name)
	}
	return fmt.Sprintf(`## Hey <@%s>!
%s
## Here's your list of job/internship recommendations%s`, owner, disclaimer, suffix)
}

func boldJoin(interests []string) string {
	terms := make([]string, 0, len(interests))
	for _, s := range interests {
		if strings.TrimSpace(s) == "" {
			continue
		}
		terms = append(terms, "**"+s+"**")
	}
	switch len(terms) {
	case 0:
		return "**anything**"
	case 1:
		return terms[0]
	default:
		return strings.Join(terms[:len(terms)-1], ", ") + " and " + terms[len(terms)-1]
	}
}

var (
	linkLabelRe = regexp.MustCompile(`\[read more about the job and apply here\]`)
	linkWrapRe  = regexp.MustCompile(`\((https?://[^\s)]+)\)`)
	boldRe      = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	headerRe    = regexp.MustCompile(`(?m)^#{1,3}\s*`)
	smallRe     = regexp.MustCompile(`(?m)^-#\s*`)
	mentionRe   = regexp.MustCompile(`<@\d+>,?\s*`)
)

// StripMarkdown flattens a listing message for file delivery: headers, bold
// markers, small-text markers and mention tags go away, link labels are
// dropped and wrapped URLs become bare.
func StripMarkdown(message string) string {
	out := linkLabelRe.ReplaceAllString(message, "")
	out = linkWrapRe.ReplaceAllString(out, "$1")
	out = boldRe.ReplaceAllString(out, "$1")
	out = headerRe.ReplaceAllString(out, "")
	out = smallRe.ReplaceAllString(out, "")
	out = mentionRe.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

// AttachmentBody is the markdown-stripped file content for an oversized
// message, cut at the disclaimer separator like the inline version.
func AttachmentBody(message string) string {
	return StripMarkdown(strings.SplitN(message, "---", 2)[0])
}
