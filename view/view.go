package view

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/kewgardenflowers/kgf-orders/i18n"
	"github.com/kewgardenflowers/kgf-orders/internal/models"
	"github.com/kewgardenflowers/kgf-orders/templates"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	layoutName  = "layout.html"
	partialGlob = "partials/*.html"
	partialsKey = "__partials__"
	flashCookie = "flash"
)

var (
	files    fs.FS = templates.FS
	tplCache       = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}

	langResolver    = func(r *http.Request) string { return i18n.LangFromContext(r.Context()) }
	isAdminResolver func(*http.Request) bool

	printers = map[string]*message.Printer{
		"en": message.NewPrinter(language.English),
		"zh": message.NewPrinter(language.TraditionalChinese),
	}
)

// SetLangResolver allows the host app to provide a custom language resolver.
func SetLangResolver(f func(*http.Request) string) {
	if f != nil {
		langResolver = f
	}
}

// SetIsAdminResolver sets a callback used by templates to show admin-only UI.
func SetIsAdminResolver(f func(*http.Request) bool) {
	if f != nil {
		isAdminResolver = f
	}
}

// SetFS overrides the template file system and clears the cache.
func SetFS(f fs.FS) {
	if f == nil {
		return
	}
	files = f
	ResetForTests()
}

// ResetForTests clears the parsed template cache.
func ResetForTests() {
	tplCache.Lock()
	tplCache.m = map[string]*template.Template{}
	tplCache.Unlock()
}

// Currency formats an optional HKD amount as "HK$ 1,234.00", or "–" when absent.
func Currency(lang string, p decimal.NullDecimal) string {
	if !p.Valid {
		return "–"
	}
	pr, ok := printers[lang]
	if !ok {
		pr = printers[i18n.DefaultLang]
	}
	f := p.Decimal.Round(2).InexactFloat64()
	return pr.Sprintf("HK$ %v", number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// Funcs returns the standard func map including i18n and simple helpers.
func Funcs(r *http.Request) template.FuncMap {
	lang := i18n.DefaultLang
	admin := false
	if r != nil {
		lang = langResolver(r)
		if isAdminResolver != nil {
			admin = isAdminResolver(r)
		}
	}
	return template.FuncMap{
		"t":       func(code string) string { return i18n.T(lang, code) },
		"lang":    func() string { return lang },
		"isAdmin": func() bool { return admin },
		"year":    func() int { return time.Now().Year() },
		"currency": func(p decimal.NullDecimal) string {
			return Currency(lang, p)
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(models.DateLayout)
		},
		"datetime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Local().Format("2006-01-02 15:04")
		},
		// dict creates a map from key-value pairs for passing to sub-templates.
		// Usage: {{ template "partial" (dict "Key1" val1 "Key2" val2) }}
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				m[key] = values[i+1]
			}
			return m
		},
	}
}

// SetFlash stores a translated flash message shown on the next rendered page.
func SetFlash(w http.ResponseWriter, r *http.Request, code string) {
	msg := i18n.T(langResolver(r), code)
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: url.QueryEscape(msg), Path: "/", HttpOnly: true})
}

// popFlash reads and clears the flash cookie.
func popFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}

func devMode() bool { return os.Getenv("DEV") == "1" }

// lookup returns the cached template set for key, parsing it with parse on a miss.
func lookup(key string, parse func() (*template.Template, error)) (*template.Template, error) {
	if !devMode() {
		tplCache.RLock()
		t, ok := tplCache.m[key]
		tplCache.RUnlock()
		if ok && t != nil {
			return t, nil
		}
	}
	t, err := parse()
	if err != nil {
		return nil, err
	}
	if !devMode() {
		tplCache.Lock()
		tplCache.m[key] = t
		tplCache.Unlock()
	}
	return t, nil
}

func parsePage(name string) (*template.Template, error) {
	if _, err := fs.Stat(files, name); err != nil {
		return nil, fmt.Errorf("template %s: %w", name, err)
	}
	return template.New(layoutName).Funcs(Funcs(nil)).ParseFS(files, layoutName, partialGlob, name)
}

func parsePartials() (*template.Template, error) {
	return template.New("partials").Funcs(Funcs(nil)).ParseFS(files, partialGlob)
}

// Render executes the page template name (e.g. "orders/list.html") inside the layout.
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	return RenderStatus(w, r, http.StatusOK, name, data)
}

// RenderStatus is Render with an explicit status code.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Year"]; !exists {
		data["Year"] = time.Now().Year()
	}
	if _, exists := data["IsAdmin"]; !exists {
		data["IsAdmin"] = isAdminResolver != nil && isAdminResolver(r)
	}
	if _, exists := data["Flash"]; !exists {
		data["Flash"] = popFlash(w, r)
	}
	base, err := lookup(name, func() (*template.Template, error) { return parsePage(name) })
	if err != nil {
		return err
	}
	t, err := base.Clone()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := t.Funcs(Funcs(r)).ExecuteTemplate(&buf, layoutName, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

// RenderPartial executes a single named template from partials/ without the layout.
func RenderPartial(w http.ResponseWriter, r *http.Request, block string, data any) error {
	base, err := lookup(partialsKey, parsePartials)
	if err != nil {
		return err
	}
	if base.Lookup(block) == nil {
		return errors.New("unknown partial: " + block)
	}
	t, err := base.Clone()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := t.Funcs(Funcs(r)).ExecuteTemplate(&buf, block, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = buf.WriteTo(w)
	return err
}
