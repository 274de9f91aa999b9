package handler

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/tennis-web/internal/domain"
)

//go:embed templates
var templateFS embed.FS

// Templates renders pages inside the shared layout
type Templates struct {
	fs   fs.FS
	base *template.Template
}

// NewTemplates parses the layout and partials once; pages are added per render
func NewTemplates(files fs.FS) (*Templates, error) {
	base, err := template.New("").Funcs(templateFuncs).ParseFS(files, "templates/layout.html", "templates/partials/*.html")
	if err != nil {
		return nil, err
	}
	return &Templates{fs: files, base: base}, nil
}

// Render executes page inside the layout. Output is buffered so a
// template error still produces a clean 500.
func (t *Templates) Render(w http.ResponseWriter, status int, name string, data any) error {
	tmpl, err := t.base.Clone()
	if err != nil {
		return err
	}
	if _, err := tmpl.ParseFS(t.fs, "templates/"+name); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

var templateFuncs = template.FuncMap{
	"date": func(d domain.Date) string {
		return d.String()
	},
	"datePtr": func(d *domain.Date) string {
		if d == nil {
			return ""
		}
		return d.String()
	},
	"datetime": func(t domain.Timestamp) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02 15:04")
	},
	"intPtr": func(n *int) string {
		if n == nil {
			return "-"
		}
		return strconv.Itoa(*n)
	},
	"roles": domain.Roles,
	"id": func(n int64) string {
		return strconv.FormatInt(n, 10)
	},
}
