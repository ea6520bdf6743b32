package forms

import (
	"github.com/diagnosis/libdesk/internal/utils"
	"github.com/diagnosis/libdesk/services/desk/internal/domain"
)

// Each form keeps its field state across submissions. A successful Submit
// only clears Error; fields stay as the user left them.

type BookIssueForm struct {
	Fields domain.BookIssueRequest `json:"fields"`
	Error  string                  `json:"error,omitempty"`
}

func NewBookIssueForm(today domain.Date) *BookIssueForm {
	issue, ret := domain.DefaultIssueDates(today)
	return &BookIssueForm{
		Fields: domain.BookIssueRequest{IssueDate: issue, ReturnDate: ret},
	}
}

// Apply copies the editable fields of in. AuthorName is read-only.
func (f *BookIssueForm) Apply(in domain.BookIssueRequest) {
	f.Fields.BookName = in.BookName
	f.Fields.IssueDate = in.IssueDate
	f.Fields.ReturnDate = in.ReturnDate
	f.Fields.Remarks = in.Remarks
}

func (f *BookIssueForm) Submit(today domain.Date) (domain.BookIssueRequest, error) {
	rec := f.Fields
	rec.BookName = utils.NormalizeString(rec.BookName)
	rec.Remarks = utils.NormalizeString(rec.Remarks)
	if err := domain.ValidateIssue(rec, today); err != nil {
		f.Error = err.Error()
		return domain.BookIssueRequest{}, err
	}
	f.Error = ""
	return rec, nil
}

type ReturnBookForm struct {
	Fields domain.BookReturnRequest `json:"fields"`
	Error  string                   `json:"error,omitempty"`
}

func NewReturnBookForm(today domain.Date) *ReturnBookForm {
	return &ReturnBookForm{
		Fields: domain.BookReturnRequest{IssueDate: today, ReturnDate: today},
	}
}

// Apply copies the editable fields of in. AuthorName and IssueDate are read-only.
func (f *ReturnBookForm) Apply(in domain.BookReturnRequest) {
	f.Fields.BookName = in.BookName
	f.Fields.SerialNo = in.SerialNo
	f.Fields.ReturnDate = in.ReturnDate
}

// Submit returns the finalized return record and the fine-pay hand-off that follows it.
func (f *ReturnBookForm) Submit() (domain.BookReturnRequest, domain.FinePayRequest, error) {
	rec := f.Fields
	rec.BookName = utils.NormalizeString(rec.BookName)
	rec.AuthorName = utils.NormalizeString(rec.AuthorName)
	rec.SerialNo = utils.NormalizeString(rec.SerialNo)
	if err := domain.ValidateReturn(rec); err != nil {
		f.Error = err.Error()
		return domain.BookReturnRequest{}, domain.FinePayRequest{}, err
	}
	f.Error = ""
	fine := domain.FinePayRequest{
		BookName:   rec.BookName,
		SerialNo:   rec.SerialNo,
		ReturnDate: rec.ReturnDate,
	}
	return rec, fine, nil
}

type MembershipForm struct {
	Fields domain.MembershipRequest `json:"fields"`
	Error  string                   `json:"error,omitempty"`
}

func NewMembershipForm() *MembershipForm {
	return &MembershipForm{
		Fields: domain.MembershipRequest{DurationTier: domain.Tier6Months},
	}
}

// Apply copies in. An empty tier keeps the current selection.
func (f *MembershipForm) Apply(in domain.MembershipRequest) {
	f.Fields.Name = in.Name
	f.Fields.Email = in.Email
	f.Fields.Phone = in.Phone
	if in.DurationTier != "" {
		f.Fields.DurationTier = in.DurationTier
	}
}

func (f *MembershipForm) Submit() (domain.MembershipRequest, error) {
	rec := f.Fields
	rec.Name = utils.NormalizeString(rec.Name)
	rec.Email = utils.NormalizeEmail(rec.Email)
	rec.Phone = utils.NormalizeString(rec.Phone)
	if err := domain.ValidateMembership(rec); err != nil {
		f.Error = err.Error()
		return domain.MembershipRequest{}, err
	}
	f.Error = ""
	return rec, nil
}
