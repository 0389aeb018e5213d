package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"math"
	"net/http"
	"strconv"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed styles/*.css
var stylesFS embed.FS

// StylesPath is the URL prefix the layout loads stylesheets from.
const StylesPath = "/styles/"

// Page names accepted by Render.
const (
	PageIndex = "index"
	PageNew   = "new"
	PageEdit  = "edit"
)

var funcs = template.FuncMap{
	"rating": formatRating,
	"stars":  stars,
}

// Renderer renders the embedded page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page together with the shared layout.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{PageIndex, PageNew, PageEdit} {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes page into a buffer and copies it to w only on success,
// so a template failure never leaves a half-written page.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Styles serves the embedded stylesheets. Mount it under StylesPath.
func Styles() http.Handler {
	sub, err := fs.Sub(stylesFS, "styles")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix(StylesPath, http.FileServerFS(sub))
}

// formatRating prints a rating without trailing zeros; empty when unrated.
func formatRating(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func stars(v *float64) string {
	if v == nil {
		return ""
	}
	n := int(math.Round(*v / 2))
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	out := make([]rune, 0, 5)
	for i := 0; i < 5; i++ {
		if i < n {
			out = append(out, '★')
		} else {
			out = append(out, '☆')
		}
	}
	return string(out)
}
