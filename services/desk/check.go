package desk

import (
	"time"

	"github.com/diagnosis/libdesk/services/desk/internal/domain"
)

// IssueCheck is an offline run of the book issue rules. Empty dates take the form defaults.
type IssueCheck struct {
	BookName   string
	IssueDate  string
	ReturnDate string
	Now        time.Time
	Location   *time.Location
}

type Verdict struct {
	Valid      bool   `json:"valid"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message,omitempty"`
	Today      string `json:"today"`
	IssueDate  string `json:"issue_date"`
	ReturnDate string `json:"return_date"`
}

func CheckIssue(c IssueCheck) (Verdict, error) {
	if c.Location == nil {
		c.Location = time.UTC
	}
	today := domain.DateOf(c.Now.In(c.Location))
	issue, ret := domain.DefaultIssueDates(today)

	if c.IssueDate != "" {
		d, err := domain.ParseDate(c.IssueDate)
		if err != nil {
			return Verdict{}, err
		}
		issue = d
	}
	if c.ReturnDate != "" {
		d, err := domain.ParseDate(c.ReturnDate)
		if err != nil {
			return Verdict{}, err
		}
		ret = d
	}

	v := Verdict{Valid: true, Today: today.String(), IssueDate: issue.String(), ReturnDate: ret.String()}
	err := domain.ValidateIssue(domain.BookIssueRequest{BookName: c.BookName, IssueDate: issue, ReturnDate: ret}, today)
	if kind, ok := domain.KindOf(err); ok {
		v.Valid = false
		v.Code = kind.Code()
		v.Message = kind.Message()
	}
	return v, nil
}
