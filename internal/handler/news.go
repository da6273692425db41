package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nkazarin/noteboard/internal/apperror"
	"github.com/nkazarin/noteboard/internal/auth"
	"github.com/nkazarin/noteboard/internal/metrics"
	"github.com/nkazarin/noteboard/internal/service"
	"github.com/nkazarin/noteboard/internal/view"
)

// NewsHandler serves the public news feed and the comment form that hangs
// off each article.
type NewsHandler struct {
	base
	news     *service.NewsService
	comments *service.CommentService
}

// NewNewsHandler creates a NewsHandler.
func NewNewsHandler(
	views *view.Renderer,
	users *service.AuthService,
	news *service.NewsService,
	comments *service.CommentService,
	logger *slog.Logger,
) *NewsHandler {
	return &NewsHandler{
		base:     base{views: views, users: users, logger: logger},
		news:     news,
		comments: comments,
	}
}

// HandleHome lists the latest articles. Open to everyone.
//
// HTTP: GET /
func (h *NewsHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	items, err := h.news.List(r.Context(), 0, 0)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	data := h.data(r)
	data.Content = items
	h.views.Render(w, http.StatusOK, "home.html", data)
}

// HandleDetail shows one article with its full discussion. Open to everyone;
// the comment form only renders for logged-in readers.
//
// HTTP: GET /news/{newsID}
func (h *NewsHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	page, err := h.news.GetWithComments(r.Context(), chi.URLParam(r, "newsID"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	data := h.data(r)
	data.Content = page
	h.views.Render(w, http.StatusOK, "news_detail.html", data)
}

// HandleCommentCreate submits a comment under an article. Login is enforced
// by the route middleware; a banned word re-renders the article page with
// the warning next to the form and stores nothing.
//
// HTTP: POST /news/{newsID}
func (h *NewsHandler) HandleCommentCreate(w http.ResponseWriter, r *http.Request) {
	newsID := chi.URLParam(r, "newsID")
	user := h.currentUser(r)
	if user == nil {
		// Valid token but the user is gone: treat as logged out.
		http.Redirect(w, r, auth.LoginRedirectURL(r.URL.RequestURI()), http.StatusFound)
		return
	}

	form := commentForm{Text: r.PostFormValue("text")}
	if err := validate.Struct(form); err != nil {
		h.rerenderDetail(w, r, newsID, formErrors(err))
		return
	}

	comment, err := h.comments.Create(r.Context(), newsID, user.ID, form.Text)
	if err != nil {
		switch {
		case errors.Is(err, apperror.ErrValidation):
			metrics.IncComment(metrics.OutcomeRejected)
			h.rerenderDetail(w, r, newsID, view.FieldError(apperror.FieldOf(err), apperror.MessageOf(err)))
		case errors.Is(err, apperror.ErrNotFound):
			h.renderNotFound(w, r)
		default:
			metrics.IncComment(metrics.OutcomeError)
			h.renderError(w, r, err)
		}
		return
	}

	metrics.IncComment(metrics.OutcomeOK)
	http.Redirect(w, r, "/news/"+comment.NewsID+"/#comments", http.StatusFound)
}

// rerenderDetail shows the article page again with the failed comment form:
// errors in place, submitted text preserved, status still 200.
func (h *NewsHandler) rerenderDetail(w http.ResponseWriter, r *http.Request, newsID string, errs map[string]string) {
	page, err := h.news.GetWithComments(r.Context(), newsID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	data := h.data(r)
	data.Content = page
	data.Errors = errs
	data.Form = formValues(r, "text")
	h.views.Render(w, http.StatusOK, "news_detail.html", data)
}
