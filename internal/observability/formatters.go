// Package observability provides formatted summaries for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/internship-checker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		runes := []rune(line)
		if len(runes) > boxWidth-4 {
			line = string(runes[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRunSummary outputs the outcome counts of a requirement pass.
func (p *Printer) PrintRunSummary(s *types.RunSummary) {
	if s == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:             %s\n", s.RunID))
	sb.WriteString(fmt.Sprintf("Postings:        %d\n", s.Total))
	sb.WriteString(fmt.Sprintf("Already stored:  %d\n", s.Skipped))
	sb.WriteString(fmt.Sprintf("Persisted:       %d\n", s.Persisted))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("No file:         %d\n", s.NoFile))
	sb.WriteString(fmt.Sprintf("Download failed: %d\n", s.DownloadFailed))
	sb.WriteString(fmt.Sprintf("Extract failed:  %d\n", s.ExtractFailed))
	sb.WriteString(fmt.Sprintf("Check failed:    %d\n", s.CheckFailed))
	sb.WriteString(fmt.Sprintf("Persist failed:  %d", s.PersistFailed))

	p.printBox("REQUIREMENT RUN SUMMARY", sb.String())
}

// PrintAcceptance outputs the directory-wide ratios and the open companies.
func (p *Printer) PrintAcceptance(report *types.AvailabilityReport) {
	if report == nil {
		return
	}

	st := report.AcceptanceStats
	var sb strings.Builder
	if st.Error != "" {
		sb.WriteString(st.Error)
		p.printBox("ACCEPTANCE STATISTICS", sb.String())
		return
	}

	sb.WriteString(fmt.Sprintf("Companies:   %d (%d with slot data)\n", st.TotalCompanies, st.ValidCompanyCount))
	sb.WriteString(fmt.Sprintf("Accepted:    %d/%d (%s)\n", st.TotalStudentAccepted, st.TotalMaxAcceptedStudent, st.AcceptancePercentage))
	sb.WriteString(fmt.Sprintf("Registered:  %d/%d (%s)\n", st.TotalStudentRegister, st.TotalMaxRegister, st.RegisterPercentage))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Open companies: %d\n", len(report.AvailableCompanies)))

	count := min(len(report.AvailableCompanies), maxItemsToShow)
	for i := 0; i < count; i++ {
		c := report.AvailableCompanies[i]
		sb.WriteString(fmt.Sprintf("  • %s  %s\n", c.ShortName, c.AcceptanceInfo))
	}
	if len(report.AvailableCompanies) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(report.AvailableCompanies)-maxItemsToShow))
	}

	p.printBox("ACCEPTANCE STATISTICS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRequirement outputs one classified posting.
func (p *Printer) PrintRequirement(rec *types.RequirementRecord) {
	if rec == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:     %s\n", rec.PostingName))
	sb.WriteString(fmt.Sprintf("CV:          %s\n", yesNo(rec.IsCV)))
	sb.WriteString(fmt.Sprintf("Transcript:  %s\n", yesNo(rec.IsTranscript)))
	sb.WriteString(fmt.Sprintf("Min GPA:     %s", gpaLabel(rec.GPA)))

	p.printBox(fmt.Sprintf("REQUIREMENTS: %s", rec.ShortName), sb.String())
}

func yesNo(b bool) string {
	if b {
		return "required"
	}
	return "not required"
}

func gpaLabel(gpa string) string {
	if gpa == "" || gpa == types.NoGPA {
		return "none"
	}
	return gpa
}
