package book

import (
	"context"
	"errors"
	"io"
	"net/http"

	"booklog/internal/auth"
	"booklog/internal/httpx"
	"booklog/internal/platform/openlibrary"
	"booklog/internal/platform/quotes"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Page names understood by the Renderer.
const (
	pageIndex = "index"
	pageNew   = "new"
	pageEdit  = "edit"
)

// QuoteSource supplies the decorative quote. It must not fail.
type QuoteSource interface {
	Random(ctx context.Context) quotes.Quote
}

type Renderer interface {
	Render(w io.Writer, page string, data any) error
}

// ListPage is the data behind the index view. CoverImages[i] belongs to Books[i].
type ListPage struct {
	Books              []Book
	CoverImages        []string
	QuoteData          quotes.Quote
	Sort               Sort
	DeleteRequiresAuth bool
}

// FormPage is the data behind the add and edit views.
type FormPage struct {
	Book               *Book
	DeleteRequiresAuth bool
}

type HTTPHandler struct {
	service *Service
	quotes  QuoteSource
	views   Renderer
}

func NewHTTPHandler(service *Service, quotes QuoteSource, views Renderer) *HTTPHandler {
	return &HTTPHandler{service: service, quotes: quotes, views: views}
}

// Routes registers the book pages on r.
func (h *HTTPHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/sort/{criteria}", h.Sort)
	r.Get("/new", h.NewForm)
	r.Post("/new", h.Create)
	r.Get("/edit/{id}", h.EditForm)
	r.Post("/edit/{id}", h.Update)
	r.Get("/delete/{id}", h.Delete)
	r.Post("/delete/{id}", h.Delete)
}

// List handles GET /
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("list books")
		http.Error(w, "Error loading page", http.StatusInternalServerError)
		return
	}
	h.renderList(w, r, books, SortNone)
}

// Sort handles GET /sort/{criteria}
func (h *HTTPHandler) Sort(w http.ResponseWriter, r *http.Request) {
	criterion := chi.URLParam(r, "criteria")
	books, err := h.service.Sorted(r.Context(), criterion)
	if err != nil {
		if !errors.Is(err, ErrInvalidSort) {
			zerolog.Ctx(r.Context()).Error().Err(err).Str("criteria", criterion).Msg("sort books")
		}
		http.Redirect(w, r, httpx.ListPath, http.StatusFound)
		return
	}
	sort, _ := ParseSort(criterion)
	h.renderList(w, r, books, sort)
}

func (h *HTTPHandler) renderList(w http.ResponseWriter, r *http.Request, books []Book, sort Sort) {
	isbns := make([]string, len(books))
	for i, b := range books {
		isbns[i] = b.ISBN
	}
	page := ListPage{
		Books:              books,
		CoverImages:        openlibrary.CoverURLs(isbns),
		QuoteData:          h.quotes.Random(r.Context()),
		Sort:               sort,
		DeleteRequiresAuth: h.service.DeleteRequiresAuth(),
	}
	h.render(w, r, pageIndex, page)
}

// NewForm handles GET /new
func (h *HTTPHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, pageNew, FormPage{})
}

// Create handles POST /new
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := ParseForm(r)
	if err != nil {
		acknowledgeInvalid(w, r, err)
		return
	}

	err = h.service.Create(r.Context(), form.Credentials(), form.Book())
	switch {
	case err == nil:
		zerolog.Ctx(r.Context()).Info().Str("isbn", form.ISBN).Str("username", form.Username).Msg("book added")
		httpx.Acknowledge(w, r, http.StatusOK, "Book added successfully!")
	case errors.Is(err, auth.ErrInvalidCredentials):
		zerolog.Ctx(r.Context()).Warn().Str("username", form.Username).Msg("add book: invalid credentials")
		httpx.Acknowledge(w, r, http.StatusUnauthorized, "Invalid username or password!")
	case errors.Is(err, ErrDuplicateISBN):
		httpx.Acknowledge(w, r, http.StatusConflict, "A book with this ISBN is already in the library.")
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("isbn", form.ISBN).Msg("add book")
		httpx.Acknowledge(w, r, http.StatusInternalServerError, "Error adding book. Please try again later.")
	}
}

// EditForm handles GET /edit/{id}
func (h *HTTPHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	isbn := chi.URLParam(r, "id")
	b, err := h.service.Get(r.Context(), isbn)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			zerolog.Ctx(r.Context()).Info().Str("isbn", isbn).Msg("edit: book not found")
		} else {
			zerolog.Ctx(r.Context()).Error().Err(err).Str("isbn", isbn).Msg("edit: load book")
		}
		http.Redirect(w, r, httpx.ListPath, http.StatusFound)
		return
	}
	h.render(w, r, pageEdit, FormPage{Book: &b, DeleteRequiresAuth: h.service.DeleteRequiresAuth()})
}

// Update handles POST /edit/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	isbn := chi.URLParam(r, "id")
	form, err := ParseForm(r)
	if err != nil {
		acknowledgeInvalid(w, r, err)
		return
	}

	err = h.service.Update(r.Context(), form.Credentials(), isbn, form.Book())
	switch {
	case err == nil:
		zerolog.Ctx(r.Context()).Info().Str("isbn", isbn).Str("new_isbn", form.ISBN).Msg("book updated")
		httpx.Acknowledge(w, r, http.StatusOK, "Book updated successfully!")
	case errors.Is(err, auth.ErrInvalidCredentials):
		zerolog.Ctx(r.Context()).Warn().Str("username", form.Username).Msg("update book: invalid credentials")
		httpx.Acknowledge(w, r, http.StatusUnauthorized, "Invalid username or password!")
	case errors.Is(err, ErrNotFound):
		httpx.Acknowledge(w, r, http.StatusNotFound, "Book not found or no changes made!")
	case errors.Is(err, ErrDuplicateISBN):
		httpx.Acknowledge(w, r, http.StatusConflict, "A book with this ISBN is already in the library.")
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("isbn", isbn).Msg("update book")
		httpx.Acknowledge(w, r, http.StatusInternalServerError, "Error updating book data. Please try again later.")
	}
}

// Delete handles GET and POST /delete/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	isbn := chi.URLParam(r, "id")
	creds := auth.Credentials{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}

	err := h.service.Delete(r.Context(), creds, isbn)
	switch {
	case err == nil:
		zerolog.Ctx(r.Context()).Info().Str("isbn", isbn).Msg("book deleted")
		httpx.Acknowledge(w, r, http.StatusOK, "Book deleted successfully!")
	case errors.Is(err, auth.ErrInvalidCredentials):
		httpx.Acknowledge(w, r, http.StatusUnauthorized, "Invalid username or password!")
	case errors.Is(err, ErrNotFound):
		zerolog.Ctx(r.Context()).Info().Str("isbn", isbn).Msg("delete: book not found")
		httpx.Acknowledge(w, r, http.StatusNotFound, "Book not found.")
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("isbn", isbn).Msg("delete book")
		httpx.Acknowledge(w, r, http.StatusInternalServerError, "Error deleting book. Please try again later.")
	}
}

func (h *HTTPHandler) render(w http.ResponseWriter, r *http.Request, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.views.Render(w, page, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("page", page).Msg("render")
		http.Error(w, "Error loading page", http.StatusInternalServerError)
	}
}

func acknowledgeInvalid(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		httpx.Acknowledge(w, r, http.StatusRequestEntityTooLarge, "The submitted form is too large.")
		return
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		httpx.Acknowledge(w, r, http.StatusBadRequest, "The form could not be read.")
		return
	}
	details := make([]httpx.ErrorDetail, len(verr.Fields))
	for i, f := range verr.Fields {
		details[i] = httpx.ErrorDetail{Field: f.Field, Message: f.Message}
	}
	httpx.Acknowledge(w, r, http.StatusUnprocessableEntity, "Invalid book details.", details...)
}
