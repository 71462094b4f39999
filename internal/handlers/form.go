package handlers

import (
	"mime"
	"net/http"
	"strings"

	"github.com/csemotors/dealer/internal/validation"
)

const maxFormMemory = 10 << 20

// decodeForm parses the request body and decodes it into dst. Multipart
// and urlencoded bodies are both accepted.
func decodeForm(r *http.Request, dst any) error {
	if err := parseForm(r); err != nil {
		return err
	}
	return validation.Decode(r.PostForm, dst)
}

// echo returns the submitted values as typed, leaving out the named
// secret fields.
func echo(r *http.Request, secret ...string) map[string]string {
	skip := make(map[string]bool, len(secret))
	for _, name := range secret {
		skip[name] = true
	}

	values := make(map[string]string, len(r.PostForm))
	for name, submitted := range r.PostForm {
		if skip[name] || len(submitted) == 0 {
			continue
		}
		values[name] = strings.TrimSpace(submitted[0])
	}
	return values
}

func parseForm(r *http.Request) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(maxFormMemory)
	}
	return r.ParseForm()
}
