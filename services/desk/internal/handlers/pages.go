package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/libdesk/pkg/logger"
	"github.com/diagnosis/libdesk/services/desk/internal/domain"
	"github.com/diagnosis/libdesk/services/desk/internal/forms"
	"github.com/diagnosis/libdesk/services/desk/internal/nav"
	"github.com/diagnosis/libdesk/services/desk/internal/session"
)

type pageData struct {
	Session    session.Session
	Tabs       []nav.OuterTab
	Outer      nav.OuterTab
	InnerTabs  []nav.InnerTab
	Inner      nav.InnerTab
	Issue      *forms.BookIssueForm
	Return     *forms.ReturnBookForm
	Membership *forms.MembershipForm
	Tiers      []domain.DurationTier
	Notice     string
	LoginError string
}

func shellData(ws *session.Workspace) pageData {
	return pageData{
		Session:    ws.Session,
		Tabs:       nav.VisibleOuter(ws.Session.IsAdmin),
		Outer:      ws.Nav.Outer(),
		InnerTabs:  nav.InnerTabs,
		Inner:      ws.Nav.Inner(),
		Issue:      ws.Issue,
		Return:     ws.Return,
		Membership: ws.Membership,
		Tiers:      domain.DurationTiers,
	}
}

// Home shows the login form to anonymous callers and the shell otherwise.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	ws, err := h.gate.Resolve(sessionToken(r))
	if err != nil {
		h.render(w, r, http.StatusOK, pageData{Session: session.Anonymous()})
		return
	}

	ws.Lock()
	defer ws.Unlock()
	h.render(w, r, http.StatusOK, shellData(ws))
}

func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	_, token, err := h.gate.Login(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			h.render(w, r, http.StatusUnauthorized, pageData{LoginError: "Invalid username or password."})
			return
		}
		logger.ErrorContext(r.Context(), "Login failed", "error", err)
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.gate.TTL().Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) SelectTabPage(w http.ResponseWriter, r *http.Request) {
	ws := getWorkspace(r)
	if err := ws.Nav.SelectOuter(chi.URLParam(r, "tab"), ws.Session.IsAdmin); err != nil {
		writeTabPageError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) SelectTransactionPage(w http.ResponseWriter, r *http.Request) {
	ws := getWorkspace(r)
	if err := ws.Nav.SelectInner(chi.URLParam(r, "tab")); err != nil {
		writeTabPageError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) IssueBookPage(w http.ResponseWriter, r *http.Request) {
	ws := getWorkspace(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	issueDate, err1 := domain.ParseDate(r.PostForm.Get("issue_date"))
	returnDate, err2 := domain.ParseDate(r.PostForm.Get("return_date"))
	if err := errors.Join(err1, err2); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	_ = ws.Nav.SelectInner(string(nav.BookIssue))
	_, err := h.desk.IssueBook(r.Context(), ws, domain.BookIssueRequest{
		BookName:   r.PostForm.Get("book_name"),
		IssueDate:  issueDate,
		ReturnDate: returnDate,
		Remarks:    r.PostForm.Get("remarks"),
	})
	h.renderSubmission(w, r, ws, err, "Book issued.")
}

func (h *Handlers) ReturnBookPage(w http.ResponseWriter, r *http.Request) {
	ws := getWorkspace(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	returnDate, err := domain.ParseDate(r.PostForm.Get("return_date"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	_ = ws.Nav.SelectInner(string(nav.ReturnBook))
	_, err = h.desk.ReturnBook(r.Context(), ws, domain.BookReturnRequest{
		BookName:   r.PostForm.Get("book_name"),
		SerialNo:   r.PostForm.Get("serial_no"),
		ReturnDate: returnDate,
	})
	h.renderSubmission(w, r, ws, err, "Book returned. Proceed to fine payment.")
}

func (h *Handlers) AddMembershipPage(w http.ResponseWriter, r *http.Request) {
	ws := getWorkspace(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	tier := domain.DurationTier(r.PostForm.Get("duration_tier"))
	if tier != "" {
		if _, ok := domain.ParseDurationTier(string(tier)); !ok {
			http.Error(w, "Unknown membership duration", http.StatusBadRequest)
			return
		}
	}

	_ = ws.Nav.SelectInner(string(nav.AddMembership))
	_, err := h.desk.AddMembership(r.Context(), ws, domain.MembershipRequest{
		Name:         r.PostForm.Get("name"),
		Email:        r.PostForm.Get("email"),
		Phone:        r.PostForm.Get("phone"),
		DurationTier: tier,
	})
	h.renderSubmission(w, r, ws, err, "Membership added.")
}

// renderSubmission redraws the shell after a form post. The form itself carries the inline error.
func (h *Handlers) renderSubmission(w http.ResponseWriter, r *http.Request, ws *session.Workspace, err error, notice string) {
	data := shellData(ws)
	status := http.StatusOK
	if err != nil {
		if _, ok := domain.KindOf(err); !ok {
			logger.ErrorContext(r.Context(), "Submission failed", "error", err)
			http.Error(w, "Submission failed", http.StatusInternalServerError)
			return
		}
		status = http.StatusUnprocessableEntity
	} else {
		data.Notice = notice
	}
	h.render(w, r, status, data)
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	var buf bytes.Buffer
	if err := h.pages.ExecuteTemplate(&buf, "layout", data); err != nil {
		logger.ErrorContext(r.Context(), "Failed to render page", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func writeTabPageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, nav.ErrTabHidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		http.Error(w, err.Error(), http.StatusNotFound)
	}
}
