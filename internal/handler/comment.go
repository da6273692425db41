package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nkazarin/noteboard/internal/apperror"
	"github.com/nkazarin/noteboard/internal/auth"
	"github.com/nkazarin/noteboard/internal/service"
	"github.com/nkazarin/noteboard/internal/view"
)

// CommentHandler serves the edit and delete pages for a reader's own
// comments. Every route here runs behind RequireLogin, and the service
// answers NotFound for anything the caller does not own.
type CommentHandler struct {
	base
	comments *service.CommentService
}

// NewCommentHandler creates a CommentHandler.
func NewCommentHandler(
	views *view.Renderer,
	users *service.AuthService,
	comments *service.CommentService,
	logger *slog.Logger,
) *CommentHandler {
	return &CommentHandler{
		base:     base{views: views, users: users, logger: logger},
		comments: comments,
	}
}

// HandleEditPage renders the edit form, pre-filled with the current text.
//
// HTTP: GET /news/{newsID}/edit_comment/{commentID}
func (h *CommentHandler) HandleEditPage(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	comment, err := h.comments.GetForUser(r.Context(), chi.URLParam(r, "commentID"), userID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	data := h.data(r)
	data.Content = comment
	data.Form = map[string]string{"text": comment.Text}
	h.views.Render(w, http.StatusOK, "comment_form.html", data)
}

// HandleEdit saves the new text. The replacement runs through the same
// moderation as a fresh comment.
//
// HTTP: POST /news/{newsID}/edit_comment/{commentID}
func (h *CommentHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	commentID := chi.URLParam(r, "commentID")

	form := commentForm{Text: r.PostFormValue("text")}
	if err := validate.Struct(form); err != nil {
		h.rerenderEdit(w, r, commentID, userID, formErrors(err))
		return
	}

	comment, err := h.comments.UpdateText(r.Context(), commentID, userID, form.Text)
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			h.rerenderEdit(w, r, commentID, userID,
				view.FieldError(apperror.FieldOf(err), apperror.MessageOf(err)))
			return
		}
		h.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, "/news/"+comment.NewsID+"/#comments", http.StatusFound)
}

// HandleDeletePage renders the delete confirmation.
//
// HTTP: GET /news/{newsID}/delete_comment/{commentID}
func (h *CommentHandler) HandleDeletePage(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	comment, err := h.comments.GetForUser(r.Context(), chi.URLParam(r, "commentID"), userID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	data := h.data(r)
	data.Content = comment
	h.views.Render(w, http.StatusOK, "comment_delete.html", data)
}

// HandleDelete removes the comment and returns to the discussion.
//
// HTTP: POST /news/{newsID}/delete_comment/{commentID}
func (h *CommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	newsID := chi.URLParam(r, "newsID")

	if err := h.comments.Delete(r.Context(), chi.URLParam(r, "commentID"), userID); err != nil {
		h.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, "/news/"+newsID+"/#comments", http.StatusFound)
}

func (h *CommentHandler) rerenderEdit(w http.ResponseWriter, r *http.Request, commentID, userID string, errs map[string]string) {
	comment, err := h.comments.GetForUser(r.Context(), commentID, userID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	data := h.data(r)
	data.Content = comment
	data.Errors = errs
	data.Form = formValues(r, "text")
	h.views.Render(w, http.StatusOK, "comment_form.html", data)
}
