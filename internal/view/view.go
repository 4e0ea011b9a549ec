// Package view parses and executes the html/template page layouts.
//
// Templates live under one directory: layouts/ and partials/ form the shared
// root set, and every file under pages/ is parsed into its own clone of that
// root so each page can define "content" independently. The page name is the
// file name without the .tmpl suffix.
package view

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"casefolio.dev/portfolio-web/internal/format"
)

const (
	pagesDir  = "pages"
	baseName  = "base"
	extension = ".tmpl"
)

// ErrUnknownPage is returned by Render for a page with no template.
var ErrUnknownPage = errors.New("view: unknown page")

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"now":       time.Now,
		"year":      format.Year,
		"fmtDate":   format.FmtDate,
		"monthYear": format.MonthYear,
		"markdown":  format.Markdown,
		"json":      toJSON,
		"jsonld":    func(s string) template.JS { return template.JS(s) },
		"joinInts":  joinInts,
	}
}

func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func joinInts(values []int, sep string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, sep)
}

// Renderer holds the parsed page set. In dev mode the set is dropped whenever a
// file under the template directory changes and reparsed on the next render.
type Renderer struct {
	dir    string
	dev    bool
	logger *zap.Logger

	mu    sync.RWMutex
	pages map[string]*template.Template
}

// New parses every template under dir.
func New(dir string, dev bool, logger *zap.Logger) (*Renderer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Renderer{dir: dir, dev: dev, logger: logger}
	pages, err := parse(dir)
	if err != nil {
		return nil, err
	}
	r.pages = pages
	return r, nil
}

// Pages lists the parsed page names.
func (r *Renderer) Pages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.pages))
	for name := range r.pages {
		names = append(names, name)
	}
	return names
}

// Render executes page into a buffer and writes it with status. Nothing is
// written when execution fails, so callers can still send an error page.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) error {
	t, err := r.lookup(page)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, baseName, data); err != nil {
		return fmt.Errorf("view: execute %s: %w", page, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

func (r *Renderer) lookup(page string) (*template.Template, error) {
	r.mu.RLock()
	pages := r.pages
	r.mu.RUnlock()
	if pages == nil {
		parsed, err := parse(r.dir)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		if r.pages == nil {
			r.pages = parsed
		}
		pages = r.pages
		r.mu.Unlock()
	}
	t, ok := pages[page]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPage, page)
	}
	return t, nil
}

func (r *Renderer) invalidate() {
	r.mu.Lock()
	r.pages = nil
	r.mu.Unlock()
}

// Watch invalidates the parsed set on template changes until ctx is done.
// It is a no-op outside dev mode.
func (r *Renderer) Watch(ctx context.Context) error {
	if !r.dev {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("view: watcher: %w", err)
	}
	// fsnotify is not recursive.
	err = filepath.WalkDir(r.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		_ = watcher.Close()
		return fmt.Errorf("view: watch %s: %w", r.dir, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Create) {
					if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
						_ = watcher.Add(ev.Name)
					}
				}
				r.logger.Debug("templates changed", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
				r.invalidate()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				r.logger.Warn("template watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}

func parse(dir string) (map[string]*template.Template, error) {
	var shared, pages []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), extension) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if strings.HasPrefix(filepath.ToSlash(rel), pagesDir+"/") {
			pages = append(pages, path)
		} else {
			shared = append(shared, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("view: scan %s: %w", dir, err)
	}
	if len(shared) == 0 || len(pages) == 0 {
		return nil, fmt.Errorf("view: no templates found under %s", dir)
	}

	root, err := template.New("_root").Funcs(Funcs()).ParseFiles(shared...)
	if err != nil {
		return nil, fmt.Errorf("view: parse layouts: %w", err)
	}
	if root.Lookup(baseName) == nil {
		return nil, fmt.Errorf("view: layouts under %s do not define %q", dir, baseName)
	}

	out := make(map[string]*template.Template, len(pages))
	for _, path := range pages {
		clone, err := root.Clone()
		if err != nil {
			return nil, fmt.Errorf("view: clone layouts: %w", err)
		}
		t, err := clone.ParseFiles(path)
		if err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", path, err)
		}
		out[strings.TrimSuffix(filepath.Base(path), extension)] = t
	}
	return out, nil
}
