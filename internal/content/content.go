// Package content serves the markdown care and material guides that ship
// alongside the catalog. Files live on disk with a YAML front matter block;
// rendered pages are cached since guides only change with a deploy.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

// ErrNotFound indicates no guide exists for the requested slug.
var ErrNotFound = errors.New("content: guide not found")

const renderCacheSize = 64

// Guide is a fully rendered guide page.
type Guide struct {
	Slug    string
	Title   string
	Summary string
	Updated time.Time
	HTML    template.HTML
}

// Meta is the front matter subset used for guide listings.
type Meta struct {
	Slug    string
	Title   string
	Summary string
	Updated time.Time
}

type frontMatter struct {
	Title   string `yaml:"title"`
	Summary string `yaml:"summary"`
	Updated string `yaml:"updated"`
}

// Library loads and renders guides from a content directory.
type Library struct {
	dir      string
	md       goldmark.Markdown
	sanitize *bluemonday.Policy
	cache    *lru.Cache[string, Guide]
}

// NewLibrary builds a Library over dir.
func NewLibrary(dir string) *Library {
	cache, _ := lru.New[string, Guide](renderCacheSize)
	return &Library{
		dir:      dir,
		md:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
		sanitize: bluemonday.UGCPolicy(),
		cache:    cache,
	}
}

// List returns the front matter of every guide, newest first.
func (l *Library) List() ([]Meta, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("content: read dir %s: %w", l.dir, err)
	}
	var out []Meta
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		slug := strings.TrimSuffix(e.Name(), ".md")
		raw, err := os.ReadFile(filepath.Join(l.dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("content: read %s: %w", e.Name(), err)
		}
		fm, _, err := splitFrontMatter(raw)
		if err != nil {
			return nil, fmt.Errorf("content: %s: %w", e.Name(), err)
		}
		out = append(out, Meta{
			Slug:    slug,
			Title:   fm.Title,
			Summary: fm.Summary,
			Updated: parseUpdated(fm.Updated),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Updated.Equal(out[j].Updated) {
			return out[i].Slug < out[j].Slug
		}
		return out[i].Updated.After(out[j].Updated)
	})
	return out, nil
}

// Guide renders the guide for slug, serving from the cache when possible.
func (l *Library) Guide(slug string) (Guide, error) {
	if !validSlug(slug) {
		return Guide{}, ErrNotFound
	}
	if g, ok := l.cache.Get(slug); ok {
		return g, nil
	}
	raw, err := os.ReadFile(filepath.Join(l.dir, slug+".md"))
	if err != nil {
		if os.IsNotExist(err) {
			return Guide{}, ErrNotFound
		}
		return Guide{}, fmt.Errorf("content: read %s: %w", slug, err)
	}
	fm, body, err := splitFrontMatter(raw)
	if err != nil {
		return Guide{}, fmt.Errorf("content: %s: %w", slug, err)
	}
	var buf bytes.Buffer
	if err := l.md.Convert(body, &buf); err != nil {
		return Guide{}, fmt.Errorf("content: render %s: %w", slug, err)
	}
	g := Guide{
		Slug:    slug,
		Title:   fm.Title,
		Summary: fm.Summary,
		Updated: parseUpdated(fm.Updated),
		HTML:    template.HTML(l.sanitize.SanitizeBytes(buf.Bytes())),
	}
	l.cache.Add(slug, g)
	return g, nil
}

// splitFrontMatter separates the leading "---" YAML block from the body.
// A file without front matter is served with empty metadata.
func splitFrontMatter(raw []byte) (frontMatter, []byte, error) {
	var fm frontMatter
	const delim = "---"
	s := string(raw)
	if !strings.HasPrefix(s, delim) {
		return fm, raw, nil
	}
	rest := s[len(delim):]
	end := strings.Index(rest, "\n"+delim)
	if end < 0 {
		return fm, nil, fmt.Errorf("unterminated front matter")
	}
	if err := yaml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
		return fm, nil, fmt.Errorf("front matter: %w", err)
	}
	body := rest[end+len(delim)+1:]
	body = strings.TrimPrefix(body, "\n")
	return fm, []byte(body), nil
}

func parseUpdated(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}

// validSlug rejects anything that could escape the content directory.
func validSlug(slug string) bool {
	if slug == "" {
		return false
	}
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
		default:
			return false
		}
	}
	return true
}
