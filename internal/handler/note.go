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

// donePath is where every successful note mutation lands.
const donePath = "/notes/done"

// noteFormPage tells the shared form template whether the slug field should
// render; the slug is only settable on create.
type noteFormPage struct {
	Editing bool
}

// NoteHandler serves the personal notes area. All routes run behind
// RequireLogin; per-note access control happens in the service, which hides
// other users' notes behind NotFound.
type NoteHandler struct {
	base
	notes *service.NoteService
}

// NewNoteHandler creates a NoteHandler.
func NewNoteHandler(
	views *view.Renderer,
	users *service.AuthService,
	notes *service.NoteService,
	logger *slog.Logger,
) *NoteHandler {
	return &NoteHandler{
		base:  base{views: views, users: users, logger: logger},
		notes: notes,
	}
}

// HandleList shows the caller's own notes and nothing else.
//
// HTTP: GET /notes
func (h *NoteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	notes, err := h.notes.ListForUser(r.Context(), userID, 0, 0)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	data := h.data(r)
	data.Content = notes
	h.views.Render(w, http.StatusOK, "note_list.html", data)
}

// HandleAddPage renders the empty note form.
//
// HTTP: GET /notes/add
func (h *NoteHandler) HandleAddPage(w http.ResponseWriter, r *http.Request) {
	data := h.data(r)
	data.Content = noteFormPage{}
	data.Form = map[string]string{}
	h.views.Render(w, http.StatusOK, "note_form.html", data)
}

// HandleAdd creates a note. A validation failure — including a taken slug —
// re-renders the form with the message next to the field and creates
// nothing, so resubmitting the same form twice yields exactly one note.
//
// HTTP: POST /notes/add
func (h *NoteHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	form := noteForm{
		Title: r.PostFormValue("title"),
		Text:  r.PostFormValue("text"),
		Slug:  r.PostFormValue("slug"),
	}

	data := h.data(r)
	data.Content = noteFormPage{}
	data.Form = formValues(r, "title", "text", "slug")

	if err := validate.Struct(form); err != nil {
		data.Errors = formErrors(err)
		h.views.Render(w, http.StatusOK, "note_form.html", data)
		return
	}

	_, err := h.notes.Create(r.Context(), userID, form.Title, form.Text, form.Slug)
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			metrics.IncNote(metrics.OutcomeRejected)
			data.Errors = view.FieldError(apperror.FieldOf(err), apperror.MessageOf(err))
			h.views.Render(w, http.StatusOK, "note_form.html", data)
			return
		}
		metrics.IncNote(metrics.OutcomeError)
		h.renderError(w, r, err)
		return
	}

	metrics.IncNote(metrics.OutcomeOK)
	http.Redirect(w, r, donePath, http.StatusFound)
}

// HandleDone is the landing page after add, edit or delete.
//
// HTTP: GET /notes/done
func (h *NoteHandler) HandleDone(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, "note_done.html", h.data(r))
}

// HandleDetail shows one of the caller's notes.
//
// HTTP: GET /notes/note/{slug}
func (h *NoteHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	note, err := h.notes.GetForUser(r.Context(), chi.URLParam(r, "slug"), userID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	data := h.data(r)
	data.Content = note
	h.views.Render(w, http.StatusOK, "note_detail.html", data)
}

// HandleEditPage renders the form pre-filled with the note.
//
// HTTP: GET /notes/edit/{slug}
func (h *NoteHandler) HandleEditPage(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	note, err := h.notes.GetForUser(r.Context(), chi.URLParam(r, "slug"), userID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	data := h.data(r)
	data.Content = noteFormPage{Editing: true}
	data.Form = map[string]string{"title": note.Title, "text": note.Text}
	h.views.Render(w, http.StatusOK, "note_form.html", data)
}

// HandleEdit updates title and text; the slug never changes.
//
// HTTP: POST /notes/edit/{slug}
func (h *NoteHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	slug := chi.URLParam(r, "slug")

	form := noteForm{
		Title: r.PostFormValue("title"),
		Text:  r.PostFormValue("text"),
	}

	data := h.data(r)
	data.Content = noteFormPage{Editing: true}
	data.Form = formValues(r, "title", "text")

	if err := validate.Struct(form); err != nil {
		data.Errors = formErrors(err)
		h.views.Render(w, http.StatusOK, "note_form.html", data)
		return
	}

	if _, err := h.notes.Update(r.Context(), slug, userID, form.Title, form.Text); err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			data.Errors = view.FieldError(apperror.FieldOf(err), apperror.MessageOf(err))
			h.views.Render(w, http.StatusOK, "note_form.html", data)
			return
		}
		h.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, donePath, http.StatusFound)
}

// HandleDeletePage renders the delete confirmation.
//
// HTTP: GET /notes/delete/{slug}
func (h *NoteHandler) HandleDeletePage(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	note, err := h.notes.GetForUser(r.Context(), chi.URLParam(r, "slug"), userID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	data := h.data(r)
	data.Content = note
	h.views.Render(w, http.StatusOK, "note_delete.html", data)
}

// HandleDelete removes the note.
//
// HTTP: POST /notes/delete/{slug}
func (h *NoteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.notes.Delete(r.Context(), chi.URLParam(r, "slug"), userID); err != nil {
		h.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, donePath, http.StatusFound)
}
