package auth

import (
	"context"
	"net/http"
	"net/url"
)

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the userID value.
type contextKey string

const userIDKey contextKey = "userID"

// LoginPath is where unauthenticated browsers are sent. The original URL is
// preserved in the "next" query parameter so login can bounce the user back.
const LoginPath = "/auth/login"

// RequireLogin guards routes that need an authenticated user.
//
// This is a browser application, not a JSON API: an anonymous request is not
// an error, it's a user who hasn't logged in yet. So instead of a 401, the
// middleware answers with a redirect to the login page carrying the original
// URL:
//
//	GET /notes/add  →  302 /auth/login?next=/notes/add
//
// After a successful login the handler redirects back to "next", and the user
// lands where they were going. An invalid or expired token is treated exactly
// like no token — back through the login page.
func RequireLogin(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				http.Redirect(w, r, LoginRedirectURL(r.URL.RequestURI()), http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the user identity when a valid session is present but
// never blocks the request. Public pages (news list/detail) use it so
// templates can show "logged in as ..." and the comment form.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, err := extractUserID(r, tokens); err == nil && userID != "" {
				r = r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoginRedirectURL builds the login URL with the original destination in the
// "next" parameter.
func LoginRedirectURL(next string) string {
	return LoginPath + "?next=" + url.QueryEscape(next)
}

// UserIDFromContext returns the authenticated user's ID, or ("", false) for
// an anonymous request.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// WithUserID returns a context carrying the user identity. Handler tests use
// it to simulate what RequireLogin does.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// SetSessionCookie writes the session token as an HttpOnly cookie.
// HttpOnly keeps it away from JavaScript (XSS); SameSite=Lax keeps it off
// cross-site POSTs (CSRF) while still sending it on normal navigation.
func SetSessionCookie(w http.ResponseWriter, tokens *TokenService, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(tokens.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie immediately.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		// http.ErrNoCookie — anonymous request.
		return "", err
	}
	return tokens.Validate(cookie.Value)
}
