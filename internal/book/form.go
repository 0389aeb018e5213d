package book

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"booklog/internal/auth"

	"github.com/go-playground/validator/v10"
)

const (
	minRating = 0
	maxRating = 10
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("form"); name != "" {
			return name
		}
		return f.Name
	})
	validate.RegisterValidation("rating", validateRating)
}

func validateRating(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	return v >= minRating && v <= maxRating
}

// Form is the body accepted by POST /new and POST /edit/{id}.
type Form struct {
	ISBN     string `form:"isbn" validate:"required,max=20,excludesall=/?#%"`
	Title    string `form:"title" validate:"required,max=255"`
	Author   string `form:"author" validate:"max=255"`
	Rating   string `form:"rating" validate:"rating"`
	DateRead string `form:"dateRead" validate:"omitempty,datetime=2006-01-02"`
	Notes    string `form:"notes" validate:"max=10000"`
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return "invalid book details: " + strings.Join(msgs, "; ")
}

// ParseForm reads and validates a book form from r. A body cut off by
// http.MaxBytesReader is returned as a wrapped *http.MaxBytesError.
func ParseForm(r *http.Request) (Form, error) {
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return Form{}, fmt.Errorf("read form: %w", err)
		}
		return Form{}, &ValidationError{Fields: []FieldError{{Field: "body", Message: "request body could not be read"}}}
	}
	f := Form{
		ISBN:     strings.TrimSpace(r.PostFormValue("isbn")),
		Title:    strings.TrimSpace(r.PostFormValue("title")),
		Author:   strings.TrimSpace(r.PostFormValue("author")),
		Rating:   strings.TrimSpace(r.PostFormValue("rating")),
		DateRead: strings.TrimSpace(r.PostFormValue("dateRead")),
		Notes:    r.PostFormValue("notes"),
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	if err := f.Validate(); err != nil {
		return Form{}, err
	}
	return f, nil
}

func (f Form) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		field := fe.Field()
		var msg string
		switch fe.Tag() {
		case "required":
			msg = fmt.Sprintf("%s is required", field)
		case "max":
			msg = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		case "excludesall":
			msg = fmt.Sprintf("%s must not contain any of %s", field, fe.Param())
		case "rating":
			msg = fmt.Sprintf("%s must be a number between %d and %d", field, minRating, maxRating)
		case "datetime":
			msg = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
		default:
			msg = fmt.Sprintf("%s is invalid", field)
		}
		out.Fields = append(out.Fields, FieldError{Field: field, Message: msg})
	}
	return out
}

// Book converts a validated form. Username is left to the service.
func (f Form) Book() Book {
	b := Book{
		ISBN:   f.ISBN,
		Title:  f.Title,
		Author: f.Author,
		Notes:  f.Notes,
	}
	if f.Rating != "" {
		if v, err := strconv.ParseFloat(f.Rating, 64); err == nil {
			b.Rating = &v
		}
	}
	if f.DateRead != "" {
		if t, err := time.Parse(dateLayout, f.DateRead); err == nil {
			b.DateRead = &t
		}
	}
	return b
}

func (f Form) Credentials() auth.Credentials {
	return auth.Credentials{Username: f.Username, Password: f.Password}
}
