package httpshell

import (
	"net/http"
)

const contentTypeProblem = "application/problem+json"

// Problem is an RFC 7807 problem document.
type Problem struct {
	Type     string              `json:"type,omitempty"`
	Title    string              `json:"title,omitempty"`
	Status   int                 `json:"status,omitempty"`
	Detail   string              `json:"detail,omitempty"`
	Instance string              `json:"instance,omitempty"`
	Errors   map[string][]string `json:"errors,omitempty"`
}

// WriteProblem writes a problem document with the given status.
func WriteProblem(w http.ResponseWriter, status int, title, detail string, errs map[string][]string) {
	w.Header().Set("Content-Type", contentTypeProblem)
	w.WriteHeader(status)
	_ = jsonAPI.NewEncoder(w).Encode(Problem{
		Title:  title,
		Status: status,
		Detail: detail,
		Errors: errs,
	})
}
