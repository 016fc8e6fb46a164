package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
)

const assetsCacheControl = "public, max-age=604800, stale-while-revalidate=86400"

// assetServer serves the public asset tree with long-lived caching and
// conditional requests. ETags are content hashes computed once at startup;
// assets only change with a deploy.
type assetServer struct {
	files http.Handler
	etags map[string]string
}

// AssetsWithCache builds the asset handler for dir. Callers mount it behind
// http.StripPrefix, so request paths arrive relative to dir.
func AssetsWithCache(dir string) http.Handler {
	s := &assetServer{
		files: http.FileServer(http.Dir(dir)),
		etags: map[string]string{},
	}
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		et, err := fileETag(path)
		if err != nil {
			return nil
		}
		if rel, err := filepath.Rel(dir, path); err == nil {
			s.etags["/"+filepath.ToSlash(rel)] = et
		}
		return nil
	})
	return s
}

func (s *assetServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Vary", "Accept-Encoding")
	w.Header().Set("Cache-Control", assetsCacheControl)
	if et, ok := s.etags[r.URL.Path]; ok {
		w.Header().Set("ETag", et)
		if r.Header.Get("If-None-Match") == et {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	s.files.ServeHTTP(w, r)
}

func fileETag(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return `W/"` + hex.EncodeToString(sum[:8]) + `"`, nil
}
