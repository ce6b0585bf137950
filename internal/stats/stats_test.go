package stats

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/internship-checker/internal/types"
)

func intPtr(v int) *int { return &v }

type fakeSource struct {
	postings  []types.Posting
	details   map[string]*types.PostingDetail
	listErr   error
	detailErr map[string]error
	calls     atomic.Int32
}

func (f *fakeSource) FetchPostings(context.Context) ([]types.Posting, error) {
	return f.postings, f.listErr
}

func (f *fakeSource) FetchDetail(_ context.Context, id string) (*types.PostingDetail, error) {
	f.calls.Add(1)
	if err := f.detailErr[id]; err != nil {
		return nil, err
	}
	return f.details[id], nil
}

func TestAvailability(t *testing.T) {
	tests := []struct {
		name       string
		detail     types.PostingDetail
		wantAccept string
		wantReg    string
		available  bool
	}{
		{
			name: "open slots",
			detail: types.PostingDetail{
				StudentRegister: intPtr(10), MaxRegister: intPtr(20),
				StudentAccepted: intPtr(2), MaxAcceptedStudent: intPtr(5),
			},
			wantAccept: "2/5", wantReg: "10/20", available: true,
		},
		{
			name:       "full",
			detail:     types.PostingDetail{StudentAccepted: intPtr(5), MaxAcceptedStudent: intPtr(5)},
			wantAccept: "5/5", wantReg: "-/-", available: false,
		},
		{
			name:       "unknown counters",
			detail:     types.PostingDetail{},
			wantAccept: "-/-", wantReg: "-/-", available: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Availability(&tt.detail)
			assert.Equal(t, tt.wantAccept, a.AcceptanceInfo)
			assert.Equal(t, tt.wantReg, a.RegisterInfo)
			assert.Equal(t, tt.available, a.IsAvailable)
		})
	}
}

func TestAggregate(t *testing.T) {
	details := []*types.PostingDetail{
		{StudentAccepted: intPtr(1), MaxAcceptedStudent: intPtr(4), StudentRegister: intPtr(3), MaxRegister: intPtr(8)},
		{StudentAccepted: intPtr(2), MaxAcceptedStudent: intPtr(4)},
		{StudentRegister: intPtr(100), MaxRegister: intPtr(100)}, // no acceptance counters
		nil,
	}

	s := Aggregate(4, details)
	assert.Equal(t, 4, s.TotalCompanies)
	assert.Equal(t, 2, s.ValidCompanyCount)
	assert.Equal(t, 3, s.TotalStudentAccepted)
	assert.Equal(t, 8, s.TotalMaxAcceptedStudent)
	assert.Equal(t, 3, s.TotalStudentRegister)
	assert.Equal(t, 8, s.TotalMaxRegister)
	assert.Equal(t, "0.3750", s.AcceptanceRatio)
	assert.Equal(t, "0.3750", s.RegisterRatio)
	assert.Equal(t, "37.50%", s.AcceptancePercentage)
	assert.Equal(t, "Total companies: 4 | Acceptance rate: 37.50% | Registration rate: 37.50%", s.Summary)
	assert.Empty(t, s.Error)
}

func TestAggregate_ZeroDenominators(t *testing.T) {
	s := Aggregate(1, []*types.PostingDetail{{StudentAccepted: intPtr(0), MaxAcceptedStudent: intPtr(0)}})
	assert.Equal(t, "0.0000", s.AcceptanceRatio)
	assert.Equal(t, "0.00%", s.RegisterPercentage)
}

func TestAggregate_Empty(t *testing.T) {
	s := Aggregate(0, nil)
	assert.Equal(t, NoCompanyData, s.Error)
	assert.Empty(t, s.Summary)
}

func TestCollect(t *testing.T) {
	src := &fakeSource{
		postings: []types.Posting{{ID: "A"}, {ID: "B"}, {ID: "C"}},
		details: map[string]*types.PostingDetail{
			"A": {ShortName: "A", StudentAccepted: intPtr(1), MaxAcceptedStudent: intPtr(2)},
			"B": {ShortName: "B", StudentAccepted: intPtr(2), MaxAcceptedStudent: intPtr(2)},
		},
	}

	report, err := Collect(context.Background(), src, 2)
	require.NoError(t, err)
	assert.True(t, report.Success)
	assert.Equal(t, int32(3), src.calls.Load())

	require.Len(t, report.AllCompaniesDetails, 2, "nil detail for C is skipped")
	assert.Equal(t, "A", report.AllCompaniesDetails[0].ShortName)
	assert.Equal(t, "B", report.AllCompaniesDetails[1].ShortName)
	require.Len(t, report.AvailableCompanies, 1)
	assert.Equal(t, "A", report.AvailableCompanies[0].ShortName)
	assert.Equal(t, 3, report.AcceptanceStats.TotalCompanies)
	assert.WithinDuration(t, time.Now(), report.LastUpdated, time.Minute)
}

func TestCollect_Errors(t *testing.T) {
	_, err := Collect(context.Background(), &fakeSource{listErr: errors.New("down")}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list companies")

	src := &fakeSource{
		postings:  []types.Posting{{ID: "A"}},
		detailErr: map[string]error{"A": errors.New("boom")},
	}
	_, err = Collect(context.Background(), src, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch company A")
}

func TestCollect_EmptyListing(t *testing.T) {
	report, err := Collect(context.Background(), &fakeSource{}, 4)
	require.NoError(t, err)
	assert.Equal(t, NoCompanyData, report.AcceptanceStats.Error)
	assert.Empty(t, report.AllCompaniesDetails)
}
