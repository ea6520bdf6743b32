package session

import (
	"sync"
	"time"

	"github.com/diagnosis/libdesk/services/desk/internal/domain"
	"github.com/diagnosis/libdesk/services/desk/internal/forms"
	"github.com/diagnosis/libdesk/services/desk/internal/nav"
)

type Session struct {
	ID        string    `json:"id,omitempty"`
	Username  string    `json:"username,omitempty"`
	Role      string    `json:"role,omitempty"`
	LoggedIn  bool      `json:"logged_in"`
	IsAdmin   bool      `json:"is_admin"`
	IssuedAt  time.Time `json:"issued_at,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Anonymous is the state of a caller that has not logged in.
func Anonymous() Session {
	return Session{}
}

// Workspace holds everything one logged-in session edits. Callers hold the
// lock for the whole request so a session's events are handled one at a time.
type Workspace struct {
	sync.Mutex

	Session    Session
	Nav        *nav.Navigator
	Issue      *forms.BookIssueForm
	Return     *forms.ReturnBookForm
	Membership *forms.MembershipForm
}

func NewWorkspace(s Session, today domain.Date) *Workspace {
	return &Workspace{
		Session:    s,
		Nav:        nav.New(),
		Issue:      forms.NewBookIssueForm(today),
		Return:     forms.NewReturnBookForm(today),
		Membership: forms.NewMembershipForm(),
	}
}

type Store struct {
	mu         sync.RWMutex
	workspaces map[string]*Workspace
	now        func() time.Time
}

func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		workspaces: make(map[string]*Workspace),
		now:        now,
	}
}

// Put stores ws and drops every workspace whose session has expired.
func (s *Store) Put(ws *Workspace) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.workspaces[ws.Session.ID] = ws
}

// Sweep drops expired workspaces and reports how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked()
}

func (s *Store) sweepLocked() int {
	now := s.now()
	removed := 0
	for id, ws := range s.workspaces {
		if !now.Before(ws.Session.ExpiresAt) {
			delete(s.workspaces, id)
			removed++
		}
	}
	return removed
}

// Get returns the live workspace for id. Expired workspaces are dropped on lookup.
func (s *Store) Get(id string) (*Workspace, bool) {
	s.mu.RLock()
	ws, ok := s.workspaces[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !s.now().Before(ws.Session.ExpiresAt) {
		s.mu.Lock()
		delete(s.workspaces, id)
		s.mu.Unlock()
		return nil, false
	}
	return ws, true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.workspaces)
}
