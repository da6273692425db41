// Package handler contains the HTTP handlers. Handlers parse forms, call
// services and render templates; they never touch the database and never
// decide authorization — that lives in the service layer.
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/nkazarin/noteboard/internal/apperror"
	"github.com/nkazarin/noteboard/internal/auth"
	"github.com/nkazarin/noteboard/internal/model"
	"github.com/nkazarin/noteboard/internal/service"
	"github.com/nkazarin/noteboard/internal/view"
)

// base carries what every handler needs: the template renderer, a way to
// resolve the logged-in user for the navigation bar, and a logger.
type base struct {
	views  *view.Renderer
	users  *service.AuthService
	logger *slog.Logger
}

// currentUser resolves the request's user from the session context. A stale
// token pointing at a deleted user degrades to anonymous rather than erroring.
func (b *base) currentUser(r *http.Request) *model.User {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return nil
	}
	user, err := b.users.GetUser(r.Context(), userID)
	if err != nil {
		return nil
	}
	return user
}

// data builds the common template envelope for the request.
func (b *base) data(r *http.Request) view.Data {
	return view.Data{User: b.currentUser(r)}
}

// renderNotFound serves the 404 page. Missing records and records the caller
// may not touch both land here, through the same template.
func (b *base) renderNotFound(w http.ResponseWriter, r *http.Request) {
	b.views.Render(w, http.StatusNotFound, "not_found.html", b.data(r))
}

// NotFound is the router's catch-all for unknown paths; promoted from base so
// any handler can serve as the NotFound target.
func (b *base) NotFound(w http.ResponseWriter, r *http.Request) {
	b.renderNotFound(w, r)
}

// renderError maps a service error onto an HTTP response: NotFound becomes
// the 404 page, anything else a generic 500. Validation errors never reach
// here — handlers re-render their form instead.
func (b *base) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, apperror.ErrNotFound) {
		b.renderNotFound(w, r)
		return
	}
	b.logger.Error("request failed",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	http.Error(w, "something went wrong", http.StatusInternalServerError)
}
