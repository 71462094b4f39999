// Package views renders the server-side HTML pages.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/csemotors/dealer/internal/auth"
	"github.com/csemotors/dealer/internal/validation"
	"github.com/csemotors/dealer/types"
)

//go:embed templates
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Page names.
const (
	Home                  = "home"
	Login                 = "account/login"
	Register              = "account/register"
	AccountManagement     = "account/management"
	AccountUpdate         = "account/update"
	InventoryManagement   = "inventory/management"
	AddClassification     = "inventory/add-classification"
	AddInventory          = "inventory/add-inventory"
	ClassificationListing = "inventory/classification"
	VehicleDetail         = "inventory/detail"
	Error                 = "errors/error"
)

// Page is the data every template receives.
type Page struct {
	Title    string
	Nav      []types.Classification
	Notices  []string
	Errors   validation.Errors
	Identity *auth.Identity
	// Form holds submitted values echoed back into inputs.
	Form map[string]string
	// Data carries page specific content.
	Data any
}

// LoggedIn reports whether the page is rendered for an authenticated caller.
func (p Page) LoggedIn() bool {
	return p.Identity != nil
}

// Value returns the echoed form value for name.
func (p Page) Value(name string) string {
	return p.Form[name]
}

// Renderer executes pre-parsed page templates inside the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	pages := make(map[string]*template.Template)
	err := fs.WalkDir(templateFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path == layoutFile || !strings.HasSuffix(path, ".html") {
			return nil
		}
		name := strings.TrimSuffix(strings.TrimPrefix(path, "templates/"), ".html")
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, layoutFile, path)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		pages[name] = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Renderer{pages: pages}, nil
}

// Render writes the named page with the given status. Nothing is written
// when the template fails, so callers can still send an error page.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
