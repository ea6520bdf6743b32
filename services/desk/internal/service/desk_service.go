package service

import (
	"context"

	"github.com/diagnosis/libdesk/pkg/events"
	"github.com/diagnosis/libdesk/pkg/logger"
	"github.com/diagnosis/libdesk/services/desk/internal/domain"
	"github.com/diagnosis/libdesk/services/desk/internal/session"
)

// ReturnResult is a finalized return and the fine-pay step that follows it.
type ReturnResult struct {
	Record  domain.BookReturnRequest `json:"record"`
	FinePay domain.FinePayRequest    `json:"fine_pay"`
}

// DeskService submits a workspace's forms and emits the resulting records.
// Callers must hold the workspace lock.
type DeskService interface {
	IssueBook(ctx context.Context, ws *session.Workspace, in domain.BookIssueRequest) (domain.BookIssueRequest, error)
	ReturnBook(ctx context.Context, ws *session.Workspace, in domain.BookReturnRequest) (*ReturnResult, error)
	AddMembership(ctx context.Context, ws *session.Workspace, in domain.MembershipRequest) (domain.MembershipRequest, error)
}

type deskService struct {
	publisher events.Publisher
	today     func() domain.Date
}

func NewDeskService(publisher events.Publisher, today func() domain.Date) DeskService {
	return &deskService{
		publisher: publisher,
		today:     today,
	}
}

func (s *deskService) IssueBook(ctx context.Context, ws *session.Workspace, in domain.BookIssueRequest) (domain.BookIssueRequest, error) {
	ws.Issue.Apply(in)
	rec, err := ws.Issue.Submit(s.today())
	if err != nil {
		logger.DebugContext(ctx, "Book issue rejected", "reason", err.Error())
		return rec, err
	}

	logger.InfoContext(ctx, "Book issued",
		"book_name", rec.BookName,
		"issue_date", rec.IssueDate.String(),
		"return_date", rec.ReturnDate.String(),
	)
	s.publish(ctx, events.BookIssued, rec)
	return rec, nil
}

func (s *deskService) ReturnBook(ctx context.Context, ws *session.Workspace, in domain.BookReturnRequest) (*ReturnResult, error) {
	ws.Return.Apply(in)
	rec, fine, err := ws.Return.Submit()
	if err != nil {
		logger.DebugContext(ctx, "Book return rejected", "reason", err.Error())
		return nil, err
	}

	logger.InfoContext(ctx, "Book returned",
		"book_name", rec.BookName,
		"serial_no", rec.SerialNo,
		"return_date", rec.ReturnDate.String(),
	)
	s.publish(ctx, events.BookReturned, rec)

	// no fine is computed; the hand-off is only recorded
	logger.InfoContext(ctx, "Navigating to fine payment", "serial_no", fine.SerialNo)
	s.publish(ctx, events.FinePayRequested, fine)

	return &ReturnResult{Record: rec, FinePay: fine}, nil
}

func (s *deskService) AddMembership(ctx context.Context, ws *session.Workspace, in domain.MembershipRequest) (domain.MembershipRequest, error) {
	ws.Membership.Apply(in)
	rec, err := ws.Membership.Submit()
	if err != nil {
		logger.DebugContext(ctx, "Membership rejected", "reason", err.Error())
		return rec, err
	}

	logger.InfoContext(ctx, "Membership added",
		"name", rec.Name,
		"duration_tier", string(rec.DurationTier),
	)
	s.publish(ctx, events.MembershipAdded, rec)
	return rec, nil
}

func (s *deskService) publish(ctx context.Context, subject string, rec interface{}) {
	if err := s.publisher.Publish(ctx, subject, rec); err != nil {
		logger.ErrorContext(ctx, "Failed to publish record", "error", err, "subject", subject)
	}
}
