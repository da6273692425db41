package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rs/xid"

	"github.com/nkazarin/noteboard/internal/apperror"
	"github.com/nkazarin/noteboard/internal/auth"
	"github.com/nkazarin/noteboard/internal/metrics"
	"github.com/nkazarin/noteboard/internal/service"
	"github.com/nkazarin/noteboard/internal/view"
)

// stateCookie carries the OAuth CSRF state between the redirect to GitHub
// and the callback.
const stateCookie = "oauth_state"

// AuthHandler serves signup, login, logout and the GitHub OAuth flow.
type AuthHandler struct {
	base
	auth   *service.AuthService
	tokens *auth.TokenService
	github *auth.GitHubProvider
}

// NewAuthHandler creates an AuthHandler. github may be nil when OAuth is not
// configured; the routes then respond 404.
func NewAuthHandler(
	views *view.Renderer,
	authSvc *service.AuthService,
	tokens *auth.TokenService,
	github *auth.GitHubProvider,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		base:   base{views: views, users: authSvc, logger: logger},
		auth:   authSvc,
		tokens: tokens,
		github: github,
	}
}

// HandleSignupPage renders the signup form.
//
// HTTP: GET /auth/signup
func (h *AuthHandler) HandleSignupPage(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, "signup.html", h.data(r))
}

// HandleSignup registers a local account and logs it in.
//
// HTTP: POST /auth/signup
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	form := signupForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}

	data := h.data(r)
	data.Form = formValues(r, "username")

	if err := validate.Struct(form); err != nil {
		data.Errors = formErrors(err)
		h.views.Render(w, http.StatusOK, "signup.html", data)
		return
	}

	res, err := h.auth.Signup(r.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			metrics.IncSignup(metrics.OutcomeRejected)
			data.Errors = view.FieldError(apperror.FieldOf(err), apperror.MessageOf(err))
			h.views.Render(w, http.StatusOK, "signup.html", data)
			return
		}
		metrics.IncSignup(metrics.OutcomeError)
		h.renderError(w, r, err)
		return
	}

	metrics.IncSignup(metrics.OutcomeOK)
	auth.SetSessionCookie(w, h.tokens, res.Token)
	http.Redirect(w, r, "/notes", http.StatusFound)
}

// HandleLoginPage renders the login form, keeping the ?next= target in a
// hidden field so the POST can send the user back where they started.
//
// HTTP: GET /auth/login
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	data := h.data(r)
	data.Form = map[string]string{"next": safeNext(r.URL.Query().Get("next"))}
	h.views.Render(w, http.StatusOK, "login.html", data)
}

// HandleLogin checks credentials and starts a session.
//
// HTTP: POST /auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	form := loginForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
		Next:     safeNext(r.PostFormValue("next")),
	}

	data := h.data(r)
	data.Form = formValues(r, "username", "next")

	if err := validate.Struct(form); err != nil {
		data.Errors = formErrors(err)
		h.views.Render(w, http.StatusOK, "login.html", data)
		return
	}

	res, err := h.auth.Login(r.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, apperror.ErrUnauthorized) {
			metrics.IncLogin(metrics.OutcomeRejected)
			data.Errors = map[string]string{"": apperror.MessageOf(err)}
			h.views.Render(w, http.StatusOK, "login.html", data)
			return
		}
		metrics.IncLogin(metrics.OutcomeError)
		h.renderError(w, r, err)
		return
	}

	metrics.IncLogin(metrics.OutcomeOK)
	auth.SetSessionCookie(w, h.tokens, res.Token)

	target := form.Next
	if target == "" {
		target = "/notes"
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// HandleLogoutPage renders the logout confirmation for a logged-in user, or
// the "logged out" page for everyone else.
//
// HTTP: GET /auth/logout
func (h *AuthHandler) HandleLogoutPage(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, "logout.html", h.data(r))
}

// HandleLogout clears the session. The response is a 200 page, not a
// redirect, so the post-logout state is visible immediately.
//
// HTTP: POST /auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w)
	// Render as anonymous regardless of the (still valid) request context.
	h.views.Render(w, http.StatusOK, "logout.html", view.Data{})
}

// HandleGitHubLogin redirects to GitHub's consent page with a fresh state.
//
// HTTP: GET /auth/github/login
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	if h.github == nil {
		h.renderNotFound(w, r)
		return
	}

	state := xid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.github.AuthURL(state), http.StatusFound)
}

// HandleGitHubCallback completes the OAuth dance: verify state, exchange the
// code, log in or register, start a session.
//
// HTTP: GET /auth/github/callback
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	if h.github == nil {
		h.renderNotFound(w, r)
		return
	}

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		h.logger.Warn("oauth state mismatch")
		http.Redirect(w, r, auth.LoginPath, http.StatusFound)
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.logger.Warn("github exchange failed", slog.String("error", err.Error()))
		metrics.IncLogin(metrics.OutcomeRejected)
		http.Redirect(w, r, auth.LoginPath, http.StatusFound)
		return
	}

	res, err := h.auth.LoginOrRegisterGitHub(r.Context(), ghUser)
	if err != nil {
		metrics.IncLogin(metrics.OutcomeError)
		h.renderError(w, r, err)
		return
	}

	metrics.IncLogin(metrics.OutcomeOK)
	auth.SetSessionCookie(w, h.tokens, res.Token)
	http.Redirect(w, r, "/", http.StatusFound)
}

// safeNext allows only local paths as post-login targets, so the login page
// cannot be used as an open redirect.
func safeNext(next string) string {
	if next == "" || next[0] != '/' || strings.HasPrefix(next, "//") {
		return ""
	}
	return next
}
