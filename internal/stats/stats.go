// Package stats computes slot availability and acceptance ratios over the directory.
package stats

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/internship-checker/internal/types"
)

// DefaultConcurrency bounds parallel detail requests.
const DefaultConcurrency = 8

// NoCompanyData is reported when the listing is empty.
const NoCompanyData = "no company data"

// Source is the erroring side of the directory client.
type Source interface {
	FetchPostings(ctx context.Context) ([]types.Posting, error)
	FetchDetail(ctx context.Context, id string) (*types.PostingDetail, error)
}

// Collect fetches the listing and every detail, then builds the report.
// Details are fetched concurrently but kept in listing order. Any failed
// request fails the whole report.
func Collect(ctx context.Context, src Source, concurrency int) (*types.AvailabilityReport, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	postings, err := src.FetchPostings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}

	details := make([]*types.PostingDetail, len(postings))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, p := range postings {
		g.Go(func() error {
			d, err := src.FetchDetail(gctx, p.ID)
			if err != nil {
				return fmt.Errorf("failed to fetch company %s: %w", p.ID, err)
			}
			details[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return BuildReport(len(postings), details, time.Now().UTC()), nil
}

// BuildReport assembles the availability report from fetched details.
// Nil details are skipped.
func BuildReport(totalCompanies int, details []*types.PostingDetail, now time.Time) *types.AvailabilityReport {
	report := &types.AvailabilityReport{
		Success:             true,
		AvailableCompanies:  []types.CompanyAvailability{},
		AllCompaniesDetails: []types.CompanyAvailability{},
		AcceptanceStats:     Aggregate(totalCompanies, details),
		LastUpdated:         now,
	}
	for _, d := range details {
		if d == nil {
			continue
		}
		a := Availability(d)
		report.AllCompaniesDetails = append(report.AllCompaniesDetails, a)
		if a.IsAvailable {
			report.AvailableCompanies = append(report.AvailableCompanies, a)
		}
	}
	return report
}

// Availability summarises one company's slots. A company is available only
// when both acceptance counters are known and accepted < max accepted.
func Availability(d *types.PostingDetail) types.CompanyAvailability {
	return types.CompanyAvailability{
		FullName:       d.FullName,
		ShortName:      d.ShortName,
		RegisterInfo:   formatCount(d.StudentRegister) + "/" + formatCount(d.MaxRegister),
		AcceptanceInfo: formatCount(d.StudentAccepted) + "/" + formatCount(d.MaxAcceptedStudent),
		IsAvailable: d.StudentAccepted != nil && d.MaxAcceptedStudent != nil &&
			*d.StudentAccepted < *d.MaxAcceptedStudent,
	}
}

// Aggregate totals the counters of details carrying both acceptance fields.
func Aggregate(totalCompanies int, details []*types.PostingDetail) types.AcceptanceStats {
	if totalCompanies == 0 {
		return types.AcceptanceStats{Error: NoCompanyData}
	}

	s := types.AcceptanceStats{TotalCompanies: totalCompanies}
	for _, d := range details {
		if d == nil || d.StudentAccepted == nil || d.MaxAcceptedStudent == nil {
			continue
		}
		s.TotalStudentAccepted += *d.StudentAccepted
		s.TotalMaxAcceptedStudent += *d.MaxAcceptedStudent
		s.TotalStudentRegister += valueOrZero(d.StudentRegister)
		s.TotalMaxRegister += valueOrZero(d.MaxRegister)
		s.ValidCompanyCount++
	}

	acceptance := ratio(s.TotalStudentAccepted, s.TotalMaxAcceptedStudent)
	register := ratio(s.TotalStudentRegister, s.TotalMaxRegister)

	s.AcceptanceRatio = strconv.FormatFloat(acceptance, 'f', 4, 64)
	s.RegisterRatio = strconv.FormatFloat(register, 'f', 4, 64)
	s.AcceptancePercentage = percentage(acceptance)
	s.RegisterPercentage = percentage(register)
	s.Summary = fmt.Sprintf("Total companies: %d | Acceptance rate: %s | Registration rate: %s",
		totalCompanies, s.AcceptancePercentage, s.RegisterPercentage)
	return s
}

func ratio(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func percentage(r float64) string {
	return strconv.FormatFloat(r*100, 'f', 2, 64) + "%"
}

func formatCount(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func valueOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
