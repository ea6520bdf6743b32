package nav

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownTab = errors.New("unknown tab")
	ErrTabHidden  = errors.New("tab not available for this session")
)

type OuterTab string

const (
	Transactions OuterTab = "transactions"
	Reports      OuterTab = "reports"
	Maintenance  OuterTab = "maintenance"
)

var outerTabs = []OuterTab{Transactions, Reports, Maintenance}

func (t OuterTab) Label() string {
	switch t {
	case Transactions:
		return "Transactions"
	case Reports:
		return "Reports"
	case Maintenance:
		return "Maintenance"
	default:
		return string(t)
	}
}

type InnerTab string

const (
	BookIssue     InnerTab = "book-issue"
	ReturnBook    InnerTab = "return-book"
	AddMembership InnerTab = "add-membership"
)

var InnerTabs = []InnerTab{BookIssue, ReturnBook, AddMembership}

func (t InnerTab) Label() string {
	switch t {
	case BookIssue:
		return "Book Issue"
	case ReturnBook:
		return "Return Book"
	case AddMembership:
		return "Add Membership"
	default:
		return string(t)
	}
}

func ParseOuter(s string) (OuterTab, error) {
	for _, t := range outerTabs {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTab, s)
}

func ParseInner(s string) (InnerTab, error) {
	for _, t := range InnerTabs {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTab, s)
}

// Navigator tracks the active outer and inner tab of one session.
// The two selections are independent of each other.
type Navigator struct {
	outer OuterTab
	inner InnerTab
}

func New() *Navigator {
	return &Navigator{outer: Transactions, inner: BookIssue}
}

func (n *Navigator) Outer() OuterTab { return n.outer }

func (n *Navigator) Inner() InnerTab { return n.inner }

// VisibleOuter lists the outer tabs a session may see. Maintenance needs admin.
func VisibleOuter(isAdmin bool) []OuterTab {
	visible := make([]OuterTab, 0, len(outerTabs))
	for _, t := range outerTabs {
		if t == Maintenance && !isAdmin {
			continue
		}
		visible = append(visible, t)
	}
	return visible
}

func (n *Navigator) SelectOuter(tab string, isAdmin bool) error {
	t, err := ParseOuter(tab)
	if err != nil {
		return err
	}
	if t == Maintenance && !isAdmin {
		return ErrTabHidden
	}
	n.outer = t
	return nil
}

func (n *Navigator) SelectInner(tab string) error {
	t, err := ParseInner(tab)
	if err != nil {
		return err
	}
	n.inner = t
	return nil
}
