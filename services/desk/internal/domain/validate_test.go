package domain_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diagnosis/libdesk/services/desk/internal/domain"
)

var today = domain.NewDate(2026, time.October, 19)

func issueRequest(name string, issue, ret domain.Date) domain.BookIssueRequest {
	return domain.BookIssueRequest{BookName: name, IssueDate: issue, ReturnDate: ret}
}

func assertKind(t *testing.T, err error, want domain.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	kind, ok := domain.KindOf(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	assert.Equal(t, want, kind)
}

func Test_ValidateIssue_ScenarioA_FullWindowIsValid(t *testing.T) {
	// arrange
	req := issueRequest("Dune", today, today.AddDays(15))

	// act
	err := domain.ValidateIssue(req, today)

	// assert
	assert.NoError(t, err)
}

func Test_ValidateIssue_ScenarioB_SixteenDaysIsOutOfRange(t *testing.T) {
	err := domain.ValidateIssue(issueRequest("Dune", today, today.AddDays(16)), today)

	assertKind(t, err, domain.ReturnDateOutOfRange)
}

func Test_ValidateIssue_ScenarioC_YesterdayIsPast(t *testing.T) {
	err := domain.ValidateIssue(issueRequest("Dune", today.AddDays(-1), today.AddDays(5)), today)

	assertKind(t, err, domain.PastIssueDate)
}

func Test_ValidateIssue_ScenarioD_EmptyBookNameIsMissing(t *testing.T) {
	err := domain.ValidateIssue(issueRequest("", today, today.AddDays(3)), today)

	assertKind(t, err, domain.MissingFields)
}

func Test_ValidateIssue_PastIssueDateWinsOverRange(t *testing.T) {
	for offset := 1; offset <= 30; offset++ {
		issue := today.AddDays(-offset)
		for _, ret := range []domain.Date{issue.AddDays(-1), issue, issue.AddDays(40)} {
			err := domain.ValidateIssue(issueRequest("Dune", issue, ret), today)
			assertKind(t, err, domain.PastIssueDate)
		}
	}
}

func Test_ValidateIssue_ReturnBeforeIssueIsOutOfRange(t *testing.T) {
	for offset := 0; offset < 20; offset++ {
		issue := today.AddDays(offset)
		err := domain.ValidateIssue(issueRequest("Dune", issue, issue.AddDays(-1)), today)
		assertKind(t, err, domain.ReturnDateOutOfRange)
	}
}

func Test_ValidateIssue_ReturnAfterWindowIsOutOfRange(t *testing.T) {
	for offset := 0; offset < 20; offset++ {
		issue := today.AddDays(offset)
		for extra := 16; extra < 40; extra += 7 {
			err := domain.ValidateIssue(issueRequest("Dune", issue, issue.AddDays(extra)), today)
			assertKind(t, err, domain.ReturnDateOutOfRange)
		}
	}
}

func Test_ValidateIssue_WindowIsInclusive(t *testing.T) {
	issue := today.AddDays(3)
	for days := 0; days <= domain.LoanWindowDays; days++ {
		t.Run(fmt.Sprintf("return after %d days", days), func(t *testing.T) {
			assert.NoError(t, domain.ValidateIssue(issueRequest("Dune", issue, issue.AddDays(days)), today))
		})
	}
}

func Test_ValidateIssue_MissingFieldsCheckedFirst(t *testing.T) {
	tests := []struct {
		name string
		req  domain.BookIssueRequest
	}{
		{"blank book name with past date", issueRequest("   ", today.AddDays(-3), today.AddDays(40))},
		{"no issue date", issueRequest("Dune", domain.Date{}, today)},
		{"no return date", issueRequest("Dune", today, domain.Date{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertKind(t, domain.ValidateIssue(tt.req, today), domain.MissingFields)
		})
	}
}

func Test_ValidateReturn_PresenceOnly(t *testing.T) {
	valid := domain.BookReturnRequest{
		BookName:   "Dune",
		SerialNo:   "SN-1",
		IssueDate:  today.AddDays(-40),
		ReturnDate: today.AddDays(-60),
	}
	assert.NoError(t, domain.ValidateReturn(valid), "no date rules on returns")

	missingSerial := valid
	missingSerial.SerialNo = ""
	assertKind(t, domain.ValidateReturn(missingSerial), domain.MissingFields)

	missingDate := valid
	missingDate.ReturnDate = domain.Date{}
	assertKind(t, domain.ValidateReturn(missingDate), domain.MissingFields)
}

func Test_ValidateMembership_PresenceOnly(t *testing.T) {
	valid := domain.MembershipRequest{Name: "Ada", Email: "not-an-email", Phone: "x", DurationTier: domain.Tier1Year}
	assert.NoError(t, domain.ValidateMembership(valid), "no format rules on memberships")

	for _, blank := range []func(*domain.MembershipRequest){
		func(r *domain.MembershipRequest) { r.Name = "" },
		func(r *domain.MembershipRequest) { r.Email = " " },
		func(r *domain.MembershipRequest) { r.Phone = "" },
	} {
		req := valid
		blank(&req)
		assertKind(t, domain.ValidateMembership(req), domain.MissingFields)
	}
}

func Test_ErrorKind_CodesAndMessages(t *testing.T) {
	assert.Equal(t, "MISSING_FIELDS", domain.MissingFields.Code())
	assert.Equal(t, "PAST_ISSUE_DATE", domain.PastIssueDate.Code())
	assert.Equal(t, "RETURN_DATE_OUT_OF_RANGE", domain.ReturnDateOutOfRange.Code())
	assert.Equal(t, "Issue date cannot be in the past.", domain.PastIssueDate.Message())

	_, ok := domain.KindOf(errors.New("other"))
	assert.False(t, ok)

	wrapped := fmt.Errorf("submit: %w", &domain.ValidationError{Kind: domain.PastIssueDate})
	kind, ok := domain.KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, domain.PastIssueDate, kind)
}

func Test_DefaultIssueDates(t *testing.T) {
	issue, ret := domain.DefaultIssueDates(today)

	assert.True(t, issue.Equal(today))
	assert.Equal(t, "2026-11-03", ret.String())
	assert.NoError(t, domain.ValidateIssue(issueRequest("Dune", issue, ret), today))
}

func Test_Date_DayGranularity(t *testing.T) {
	loc := time.FixedZone("EDT", -4*60*60)

	lateEvening := time.Date(2026, time.October, 19, 23, 30, 0, 0, loc)
	assert.Equal(t, "2026-10-19", domain.DateOf(lateEvening).String())
	assert.Equal(t, "2026-10-20", domain.DateOf(lateEvening.UTC()).String())

	// time of day never leaks into comparisons
	morning := domain.DateOf(time.Date(2026, time.October, 19, 6, 0, 0, 0, time.UTC))
	assert.True(t, morning.Equal(domain.DateOf(lateEvening)))

	start := domain.NewDate(2026, time.October, 25)
	assert.Equal(t, "2026-11-09", start.AddDays(15).String())
}

func Test_Date_ParseAndJSON(t *testing.T) {
	d, err := domain.ParseDate("2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, "October 19th, 2026", d.Long())

	empty, err := domain.ParseDate("")
	require.NoError(t, err)
	assert.True(t, empty.IsZero())

	_, err = domain.ParseDate("19/10/2026")
	assert.Error(t, err)

	var req domain.BookIssueRequest
	require.NoError(t, json.Unmarshal([]byte(`{"book_name":"Dune","issue_date":"2026-10-19","return_date":null}`), &req))
	assert.Equal(t, "2026-10-19", req.IssueDate.String())
	assert.True(t, req.ReturnDate.IsZero())

	out, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"book_name":"Dune","author_name":"","issue_date":"2026-10-19","return_date":null,"remarks":""}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"issue_date":20261019}`), &req))
}

func Test_ParseDurationTier(t *testing.T) {
	for _, tier := range domain.DurationTiers {
		got, ok := domain.ParseDurationTier(string(tier))
		assert.True(t, ok)
		assert.Equal(t, tier, got)
	}
	_, ok := domain.ParseDurationTier("3years")
	assert.False(t, ok)
	assert.Equal(t, "1 Year", domain.Tier1Year.Label())
}

func Test_ValidateIssue_YearOneIsPastNotMissing(t *testing.T) {
	first, err := domain.ParseDate("0001-01-01")
	require.NoError(t, err)
	assert.False(t, first.IsZero())
	assert.Equal(t, "0001-01-01", first.String())

	err = domain.ValidateIssue(issueRequest("Dune", first, first.AddDays(3)), today)

	assertKind(t, err, domain.PastIssueDate)
}
