package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diagnosis/libdesk/internal/http/response"
	"github.com/diagnosis/libdesk/pkg/logger"
	"github.com/diagnosis/libdesk/services/desk/internal/domain"
	"github.com/diagnosis/libdesk/services/desk/internal/nav"
	"github.com/diagnosis/libdesk/services/desk/internal/session"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	SessionToken string          `json:"session_token"`
	ExpiresIn    int64           `json:"expires_in"`
	Session      session.Session `json:"session"`
}

type tabsState struct {
	Outer        nav.OuterTab   `json:"outer"`
	Inner        nav.InnerTab   `json:"inner"`
	VisibleOuter []nav.OuterTab `json:"visible_outer"`
	InnerTabs    []nav.InnerTab `json:"inner_tabs"`
}

type tabsUpdate struct {
	Outer *string `json:"outer"`
	Inner *string `json:"inner"`
}

// Login handles API authentication
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	ws, token, err := h.gate.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			response.WriteError(w, http.StatusUnauthorized, err.Error(), response.CodeLoginFailed)
			return
		}
		logger.ErrorContext(r.Context(), "Login failed", "error", err)
		response.InternalError(w, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		SessionToken: token,
		ExpiresIn:    int64(h.gate.TTL().Seconds()),
		Session:      ws.Session,
	})
}

func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, getWorkspace(r).Session)
}

func (h *Handlers) GetTabs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentTabs(getWorkspace(r)))
}

// UpdateTabs selects the outer and/or inner tab. Nothing changes if either selection is rejected.
func (h *Handlers) UpdateTabs(w http.ResponseWriter, r *http.Request) {
	ws := getWorkspace(r)

	var req tabsUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	if req.Inner != nil {
		if _, err := nav.ParseInner(*req.Inner); err != nil {
			writeTabError(w, err)
			return
		}
	}
	if req.Outer != nil {
		if err := ws.Nav.SelectOuter(*req.Outer, ws.Session.IsAdmin); err != nil {
			writeTabError(w, err)
			return
		}
	}
	if req.Inner != nil {
		_ = ws.Nav.SelectInner(*req.Inner)
	}

	writeJSON(w, http.StatusOK, currentTabs(ws))
}

func (h *Handlers) GetIssueForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, getWorkspace(r).Issue)
}

func (h *Handlers) IssueBook(w http.ResponseWriter, r *http.Request) {
	ws := getWorkspace(r)

	// fields missing from the body keep their current value
	in := ws.Issue.Fields
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "Invalid request: "+err.Error())
		return
	}

	rec, err := h.desk.IssueBook(r.Context(), ws, in)
	if err != nil {
		writeSubmitError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"record": rec})
}

func (h *Handlers) GetReturnForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, getWorkspace(r).Return)
}

func (h *Handlers) ReturnBook(w http.ResponseWriter, r *http.Request) {
	ws := getWorkspace(r)

	in := ws.Return.Fields
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "Invalid request: "+err.Error())
		return
	}

	res, err := h.desk.ReturnBook(r.Context(), ws, in)
	if err != nil {
		writeSubmitError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) GetMembershipForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, getWorkspace(r).Membership)
}

func (h *Handlers) AddMembership(w http.ResponseWriter, r *http.Request) {
	ws := getWorkspace(r)

	in := ws.Membership.Fields
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "Invalid request: "+err.Error())
		return
	}
	if in.DurationTier != "" {
		if _, ok := domain.ParseDurationTier(string(in.DurationTier)); !ok {
			response.BadRequest(w, "Unknown membership duration: "+string(in.DurationTier))
			return
		}
	}

	rec, err := h.desk.AddMembership(r.Context(), ws, in)
	if err != nil {
		writeSubmitError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"record": rec})
}

func (h *Handlers) Reports(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Reports functionality to be implemented"})
}

func (h *Handlers) Maintenance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Maintenance functionality to be implemented"})
}

func currentTabs(ws *session.Workspace) tabsState {
	return tabsState{
		Outer:        ws.Nav.Outer(),
		Inner:        ws.Nav.Inner(),
		VisibleOuter: nav.VisibleOuter(ws.Session.IsAdmin),
		InnerTabs:    nav.InnerTabs,
	}
}

func writeTabError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, nav.ErrTabHidden):
		response.Forbidden(w, err.Error())
	default:
		response.BadRequest(w, err.Error())
	}
}

func writeSubmitError(w http.ResponseWriter, r *http.Request, err error) {
	if kind, ok := domain.KindOf(err); ok {
		response.WriteError(w, http.StatusUnprocessableEntity, kind.Message(), kind.Code())
		return
	}
	logger.ErrorContext(r.Context(), "Submission failed", "error", err)
	response.InternalError(w, "Submission failed")
}
