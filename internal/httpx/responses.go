package httpx

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strings"
)

// ListPath is where every acknowledgment navigates afterwards.
const ListPath = "/"

// Acknowledgment reports the outcome of a mutating request. The client is
// expected to show Message and then navigate to Redirect.
type Acknowledgment struct {
	Success   bool          `json:"success"`
	Message   string        `json:"message"`
	Redirect  string        `json:"redirect"`
	Details   []ErrorDetail `json:"details,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
}

type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var noticeTemplate = template.Must(template.New("notice").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="2;url={{.Redirect}}">
<title>{{if .Success}}Done{{else}}Something went wrong{{end}}</title>
</head>
<body>
<div class="notice {{if .Success}}notice-success{{else}}notice-error{{end}}" role="alert">
<p>{{.Message}}</p>
{{- range .Details}}
<p class="notice-detail">{{.Message}}</p>
{{- end}}
<p><a href="{{.Redirect}}">Back to the library</a></p>
</div>
</body>
</html>
`))

// Acknowledge writes an acknowledgment with the given status. Clients that
// accept JSON get the structured body; browsers get a notice page that
// redirects to the list.
func Acknowledge(w http.ResponseWriter, r *http.Request, status int, message string, details ...ErrorDetail) {
	ack := Acknowledgment{
		Success:   status < http.StatusBadRequest,
		Message:   message,
		Redirect:  ListPath,
		Details:   details,
		RequestID: RequestIDFrom(r),
	}

	w.Header().Set("Cache-Control", "no-store")
	if WantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(ack)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = noticeTemplate.Execute(w, ack)
}

// WantsJSON reports whether the client prefers a JSON body.
func WantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
