package domain

import (
	"errors"

	"github.com/diagnosis/libdesk/internal/utils"
)

// LoanWindowDays is the longest loan a book can be issued for.
const LoanWindowDays = 15

type ErrorKind int

const (
	MissingFields ErrorKind = iota + 1
	PastIssueDate
	ReturnDateOutOfRange
)

func (k ErrorKind) String() string {
	switch k {
	case MissingFields:
		return "MissingFields"
	case PastIssueDate:
		return "PastIssueDate"
	case ReturnDateOutOfRange:
		return "ReturnDateOutOfRange"
	default:
		return "Unknown"
	}
}

// Code is the stable identifier returned by the API.
func (k ErrorKind) Code() string {
	switch k {
	case MissingFields:
		return "MISSING_FIELDS"
	case PastIssueDate:
		return "PAST_ISSUE_DATE"
	case ReturnDateOutOfRange:
		return "RETURN_DATE_OUT_OF_RANGE"
	default:
		return "INVALID_INPUT"
	}
}

// Message is the inline text shown under the form.
func (k ErrorKind) Message() string {
	switch k {
	case MissingFields:
		return "Please fill in all required fields."
	case PastIssueDate:
		return "Issue date cannot be in the past."
	case ReturnDateOutOfRange:
		return "Return date must be between issue date and 15 days after issue date."
	default:
		return "Invalid input."
	}
}

type ValidationError struct {
	Kind ErrorKind
}

func (e *ValidationError) Error() string {
	return e.Kind.Message()
}

func newValidationError(kind ErrorKind) error {
	return &ValidationError{Kind: kind}
}

// KindOf extracts the ErrorKind of a validation failure.
func KindOf(err error) (ErrorKind, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind, true
	}
	return 0, false
}

// DefaultIssueDates returns the dates a fresh issue form starts with.
func DefaultIssueDates(today Date) (issue, ret Date) {
	return today, today.AddDays(LoanWindowDays)
}

// ValidateIssue checks an issue request against today. Only the first failing check is reported:
// missing fields, then an issue date in the past, then a return date outside
// [IssueDate, IssueDate+LoanWindowDays].
func ValidateIssue(req BookIssueRequest, today Date) error {
	if utils.IsBlank(req.BookName) || req.IssueDate.IsZero() || req.ReturnDate.IsZero() {
		return newValidationError(MissingFields)
	}
	if req.IssueDate.Before(today) {
		return newValidationError(PastIssueDate)
	}
	if req.ReturnDate.Before(req.IssueDate) || req.ReturnDate.After(req.IssueDate.AddDays(LoanWindowDays)) {
		return newValidationError(ReturnDateOutOfRange)
	}
	return nil
}

func ValidateReturn(req BookReturnRequest) error {
	if utils.IsBlank(req.BookName, req.SerialNo) || req.IssueDate.IsZero() || req.ReturnDate.IsZero() {
		return newValidationError(MissingFields)
	}
	return nil
}

func ValidateMembership(req MembershipRequest) error {
	if utils.IsBlank(req.Name, req.Email, req.Phone) {
		return newValidationError(MissingFields)
	}
	return nil
}
