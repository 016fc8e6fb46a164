package main

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"oakfield.org/atelier-web/internal/availability"
	"oakfield.org/atelier-web/internal/catalog"
	"oakfield.org/atelier-web/internal/config"
	"oakfield.org/atelier-web/internal/content"
	"oakfield.org/atelier-web/internal/metrics"
	mw "oakfield.org/atelier-web/internal/middleware"
	"oakfield.org/atelier-web/internal/selection"
	"oakfield.org/atelier-web/internal/store"
)

var (
	templatesDir = "templates"
	publicDir    = "public"
	devMode      bool
	tmplCache    *template.Template

	logger     *zap.Logger
	cat        *catalog.Catalog
	coord      *selection.Coordinator
	kvStore    store.KV
	guides     *content.Library
	stockFeed  *availability.Client
	appMetrics *metrics.Metrics
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err = newLogger(cfg.DevMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	templatesDir = cfg.TemplatesDir
	publicDir = cfg.PublicDir
	devMode = cfg.DevMode

	if !devMode {
		// parse templates once in production
		tc, err := parseTemplates()
		if err != nil {
			logger.Fatal("parse templates", zap.Error(err))
		}
		tmplCache = tc
	}

	// the catalog loads exactly once; a bad data file is fatal, no partial
	// catalog is ever served
	cat, err = catalog.Load(cfg.DataFile)
	if err != nil {
		logger.Fatal("load catalog", zap.Error(err), zap.String("hint", "check the data file path and JSON syntax"))
	}

	ctx := context.Background()
	sq, err := store.OpenSQLite(ctx, cfg.StorePath)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	defer sq.Close()
	kvStore = sq

	coord = selection.New(ctx, cat, kvStore, cfg.CompareMax)
	guides = content.NewLibrary(cfg.ContentDir)
	stockFeed = availability.NewClient(os.Getenv("ATELIER_STOCK_FEED_URL"))
	appMetrics = metrics.New()

	r := newRouter()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("web listening", zap.String("addr", cfg.Addr), zap.Bool("dev_mode", devMode), zap.Int("items", cat.Len()))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("listen", zap.Error(err))
	}
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.HTMX)
	r.Use(mw.Session)
	r.Use(mw.CSRF)
	r.Use(mw.Logger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", appMetrics.Handler())

	assets := http.StripPrefix("/assets", mw.AssetsWithCache(filepath.Join(publicDir, "assets")))
	r.Handle("/assets/*", assets)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/catalog", http.StatusFound)
	})

	r.Get("/catalog", CatalogHandler)
	r.Get("/catalog/grid", CatalogGridFrag)

	r.Post("/compare/toggle/{id}", CompareToggleHandler)
	r.Post("/compare/clear", CompareClearHandler)
	r.Get("/compare/bar", CompareBarFrag)
	r.Get("/compare", CompareHandler)

	r.Post("/cart/toggle/{id}", CartToggleHandler)
	r.Post("/cart/clear", CartClearHandler)
	r.Get("/cart", CartHandler)

	r.Post("/theme", ThemeToggleHandler)

	r.Get("/guides", GuidesHandler)
	r.Get("/guides/{slug}", GuideHandler)

	return r
}

func parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"now": time.Now,
	}
	// recursively discover and parse all .tmpl files; ParseGlob doesn't support **
	var files []string
	if err := filepath.WalkDir(templatesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", templatesDir)
	}
	return template.New("_root").Funcs(funcMap).ParseFiles(files...)
}

func currentTemplates(w http.ResponseWriter) *template.Template {
	if devMode {
		tc, err := parseTemplates()
		if err != nil {
			http.Error(w, fmt.Sprintf("template parse error: %v", err), http.StatusInternalServerError)
			return nil
		}
		return tc
	}
	if tmplCache == nil {
		http.Error(w, "template not initialized", http.StatusInternalServerError)
		return nil
	}
	return tmplCache
}

// renderPage executes a full page template.
func renderPage(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	t := currentTemplates(w)
	if t == nil {
		return
	}
	if err := t.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, fmt.Sprintf("template exec error: %v", err), http.StatusInternalServerError)
	}
}

// renderTemplate executes an htmx fragment template.
func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	renderPage(w, r, name, data)
}

// currentTheme reads the persisted preference token; anything but "dark"
// reads as "light".
func currentTheme(ctx context.Context) string {
	if kvStore == nil {
		return "light"
	}
	v, err := kvStore.Get(ctx, store.KeyTheme)
	if err != nil || v != "dark" {
		return "light"
	}
	return "dark"
}
