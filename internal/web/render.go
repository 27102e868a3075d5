package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin/render"
)

//go:embed templates/*.html
var templatesFS embed.FS

const layout = "templates/base.html"

// Renderer 每個頁面各自與 base layout 組合，實作 gin 的 render.HTMLRender
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	files, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, file := range files {
		if file == layout {
			continue
		}
		name := strings.TrimSuffix(path.Base(file), ".html")
		t, err := template.New(name).Funcs(funcs).ParseFS(templatesFS, layout, file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func MustRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Renderer) Instance(name string, data any) render.Render {
	t, ok := r.pages[name]
	if !ok {
		// 開發期錯誤，直接用 error 頁呈現
		t = r.pages["error"]
		data = map[string]any{
			"Site":    map[string]string{},
			"Status":  500,
			"Message": "missing template " + name,
		}
	}
	return render.HTML{Template: t, Name: "base", Data: data}
}

var funcs = template.FuncMap{
	"money": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 2, 64)
	},
	"datetime": func(t time.Time) string {
		return t.Format("Jan 2, 2006 15:04")
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"fieldError": func(errs map[string]string, field string) string {
		return errs[field]
	},
	// imageSrc 相對路徑視為 static 下的檔案
	"imageSrc": func(s *string) string {
		if s == nil || *s == "" {
			return ""
		}
		if strings.HasPrefix(*s, "http://") || strings.HasPrefix(*s, "https://") || strings.HasPrefix(*s, "/") {
			return *s
		}
		return "/static/" + *s
	},
	"truncate": func(s string, n int) string {
		r := []rune(s)
		if len(r) <= n {
			return s
		}
		return string(r[:n]) + "…"
	},
}
