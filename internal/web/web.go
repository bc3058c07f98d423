package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"courseportal/internal/session"

	"github.com/golang/glog"
)

//go:embed templates
var templateFS embed.FS

var funcs = template.FuncMap{
	"join": strings.Join,
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02 Jan 2006")
	},
}

// Renderer renders pages inside the shared layout. Each page template is parsed together with the layout once, at
// startup.
type Renderer struct {
	pages map[string]*template.Template
}

// Page is the value every template is executed with.
type Page struct {
	Title     string
	Session   *session.Session
	Flashes   []session.Flash
	CSRFField string
	CSRFToken string
	Data      interface{}
}

func NewRenderer() (*Renderer, error) {
	paths, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(paths))
	for _, p := range paths {
		name := strings.TrimSuffix(path.Base(p), ".html")
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", p)
		if err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{pages: pages}, nil
}

// Has reports whether a page with the given name exists.
func (rd *Renderer) Has(name string) bool {
	_, ok := rd.pages[name]
	return ok
}

// Render writes the named page with the given status. Pending flashes are consumed from the request's session and
// shown on this page.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name, title string, data interface{}) {
	tmpl, ok := rd.pages[name]
	if !ok {
		glog.Errorf("unknown page %q\n", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	page := &Page{
		Title:     title,
		CSRFField: session.CSRFFieldName,
		Data:      data,
	}
	if s := session.FromRequest(r); s != nil {
		page.Session = s
		page.CSRFToken = s.CSRFToken
		page.Flashes = s.Flashes()
		if len(page.Flashes) > 0 {
			if err := s.Save(w, r); err != nil {
				glog.Errorf("failed to save session: %v\n", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		glog.Errorf("failed to render page %q: %v\n", name, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		glog.Warningf("failed to write response: %v\n", err)
	}
}
