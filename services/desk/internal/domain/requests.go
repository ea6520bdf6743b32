package domain

// DurationTier is a fixed membership length. It carries no pricing or renewal rules.
type DurationTier string

const (
	Tier6Months DurationTier = "6months"
	Tier1Year   DurationTier = "1year"
	Tier2Years  DurationTier = "2years"
)

var DurationTiers = []DurationTier{Tier6Months, Tier1Year, Tier2Years}

func ParseDurationTier(s string) (DurationTier, bool) {
	switch DurationTier(s) {
	case Tier6Months, Tier1Year, Tier2Years:
		return DurationTier(s), true
	default:
		return "", false
	}
}

func (t DurationTier) Label() string {
	switch t {
	case Tier6Months:
		return "6 Months"
	case Tier1Year:
		return "1 Year"
	case Tier2Years:
		return "2 Years"
	default:
		return string(t)
	}
}

type BookIssueRequest struct {
	BookName   string `json:"book_name"`
	AuthorName string `json:"author_name"`
	IssueDate  Date   `json:"issue_date"`
	ReturnDate Date   `json:"return_date"`
	Remarks    string `json:"remarks"`
}

type BookReturnRequest struct {
	BookName   string `json:"book_name"`
	AuthorName string `json:"author_name"`
	SerialNo   string `json:"serial_no"`
	IssueDate  Date   `json:"issue_date"`
	ReturnDate Date   `json:"return_date"`
}

type MembershipRequest struct {
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone"`
	DurationTier DurationTier `json:"duration_tier"`
}

// FinePayRequest marks the hand-off to fine payment after a return. No fine is computed.
type FinePayRequest struct {
	BookName   string `json:"book_name"`
	SerialNo   string `json:"serial_no"`
	ReturnDate Date   `json:"return_date"`
}
