package handlers

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	httpmw "github.com/diagnosis/libdesk/internal/http/middleware"
	"github.com/diagnosis/libdesk/internal/http/response"
	"github.com/diagnosis/libdesk/pkg/logger"
	"github.com/diagnosis/libdesk/services/desk/internal/service"
	"github.com/diagnosis/libdesk/services/desk/internal/session"
)

const SessionCookie = "desk_session"

//go:embed templates/*.html
var templateFS embed.FS

type contextKey string

const workspaceKey contextKey = "workspace"

type Handlers struct {
	gate       *session.Gate
	desk       service.DeskService
	loginLimit func(http.Handler) http.Handler
	pages      *template.Template
}

// New builds the desk handlers. loginLimit wraps both login endpoints and may be nil.
func New(gate *session.Gate, desk service.DeskService, loginLimit func(http.Handler) http.Handler) *Handlers {
	if loginLimit == nil {
		loginLimit = func(next http.Handler) http.Handler { return next }
	}
	return &Handlers{
		gate:       gate,
		desk:       desk,
		loginLimit: loginLimit,
		pages:      template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

func (h *Handlers) Routes(r chi.Router) {
	// HTML pages
	r.Get("/", h.Home)
	r.With(h.loginLimit).Post("/login", h.LoginPage)
	r.Group(func(r chi.Router) {
		r.Use(h.RequireSession(false))
		r.Get("/tabs/{tab}", h.SelectTabPage)
		r.Get("/transactions/{tab}", h.SelectTransactionPage)
		r.Post("/transactions/book-issue", h.IssueBookPage)
		r.Post("/transactions/return-book", h.ReturnBookPage)
		r.Post("/transactions/add-membership", h.AddMembershipPage)
	})

	// JSON API
	r.Route("/api/v1", func(r chi.Router) {
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			response.NotFound(w, "Not found")
		})
		r.With(h.loginLimit).Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireSession(true))
			r.Get("/session", h.GetSession)
			r.Get("/tabs", h.GetTabs)
			r.Put("/tabs", h.UpdateTabs)
			r.Get("/transactions/book-issue", h.GetIssueForm)
			r.Post("/transactions/book-issue", h.IssueBook)
			r.Get("/transactions/return-book", h.GetReturnForm)
			r.Post("/transactions/return-book", h.ReturnBook)
			r.Get("/transactions/add-membership", h.GetMembershipForm)
			r.Post("/transactions/add-membership", h.AddMembership)
			r.Get("/reports", h.Reports)
			r.With(h.RequireAdmin).Get("/maintenance", h.Maintenance)
		})
	})
}

// RequireSession resolves the caller's workspace and holds its lock for the rest of the request.
// API callers without a session get a 401; page callers are sent back to the login page.
func (h *Handlers) RequireSession(api bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ws, err := h.gate.Resolve(sessionToken(r))
			if err != nil {
				logger.DebugContext(r.Context(), "Session not resolved", "error", err)
				if api {
					response.Unauthorized(w, "Login required")
				} else {
					http.Redirect(w, r, "/", http.StatusSeeOther)
				}
				return
			}

			ws.Lock()
			defer ws.Unlock()

			ctx := context.WithValue(r.Context(), workspaceKey, ws)
			ctx = context.WithValue(ctx, logger.SessionIDKey, ws.Session.ID)
			ctx = context.WithValue(ctx, logger.UserIDKey, ws.Session.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (h *Handlers) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws := getWorkspace(r)
		if ws == nil || !ws.Session.IsAdmin {
			response.Forbidden(w, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Helper functions
func getWorkspace(r *http.Request) *session.Workspace {
	if ws, ok := r.Context().Value(workspaceKey).(*session.Workspace); ok {
		return ws
	}
	return nil
}

func sessionToken(r *http.Request) string {
	return httpmw.SessionToken(r, SessionCookie)
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
