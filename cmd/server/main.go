// Package main runs the Quill admin server: a local REST/WebSocket API over
// the SQLite content database.
package main

import (
	"net/http"
	"os"

	"github.com/quillcms/quill/cmd/server/handlers"
	"github.com/quillcms/quill/internal/db"
	"github.com/quillcms/quill/internal/logging"
	"github.com/quillcms/quill/internal/posts"
	"github.com/quillcms/quill/migrations"
)

// config is read from the environment; every value has a usable default.
type config struct {
	DataDir  string
	Addr     string
	AuthorID string
	LogLevel string
}

func loadConfig() config {
	cfg := config{
		DataDir:  os.Getenv("QUILL_DATA_DIR"),
		Addr:     os.Getenv("QUILL_ADDR"),
		AuthorID: os.Getenv("QUILL_AUTHOR_ID"),
		LogLevel: os.Getenv("QUILL_LOG_LEVEL"),
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "./data"
	}
	if cfg.Addr == "" {
		cfg.Addr = "localhost:8090"
	}
	if cfg.AuthorID == "" {
		cfg.AuthorID = "admin"
	}
	return cfg
}

func main() {
	cfg := loadConfig()
	logging.Init(os.Stdout, logging.ParseLevel(cfg.LogLevel))

	database, err := db.Open(cfg.DataDir)
	if err != nil {
		logging.Error("failed to open database", err)
		os.Exit(1)
	}
	defer database.Close()

	migrator := db.NewMigrator(database.DB, migrations.FS)
	if err := migrator.Initialize(); err != nil {
		logging.Error("failed to initialize migrations", err)
		os.Exit(1)
	}
	if err := migrator.Up(); err != nil {
		logging.Error("failed to apply migrations", err)
		os.Exit(1)
	}
	version, _ := migrator.CurrentVersion()

	repo := db.NewRepository(database.DB)
	defer repo.Close()
	store := posts.NewStore(repo, posts.StaticIdentity(cfg.AuthorID))
	hub := NewWSHub()

	postHandler := handlers.NewPostHandler(store, repo, hub)
	taxonomyHandler := handlers.NewTaxonomyHandler(repo, hub)
	pageHandler := handlers.NewPageHandler(repo)
	portfolioHandler := handlers.NewPortfolioHandler(repo)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"quill"}`))
	})

	mux.HandleFunc("/api/posts", postHandler.Collection)
	mux.HandleFunc("/api/posts/{id}", postHandler.Item)
	mux.HandleFunc("/api/posts/{id}/versions", postHandler.History)
	mux.HandleFunc("/api/posts/{id}/html", postHandler.HTML)
	mux.HandleFunc("/api/posts/{id}/views", postHandler.Views)
	mux.HandleFunc("/api/versions/{id}", postHandler.Version)

	mux.HandleFunc("/api/tags", taxonomyHandler.Tags)
	mux.HandleFunc("/api/tags/{id}", taxonomyHandler.Tag)
	mux.HandleFunc("/api/categories", taxonomyHandler.Categories)
	mux.HandleFunc("/api/categories/{id}", taxonomyHandler.Category)

	mux.HandleFunc("/api/pages", pageHandler.Collection)
	mux.HandleFunc("/api/pages/{id}", pageHandler.Item)

	mux.HandleFunc("/api/portfolio", portfolioHandler.Overview)
	mux.HandleFunc("/api/portfolio/projects", portfolioHandler.Projects)
	mux.HandleFunc("/api/portfolio/projects/{id}", portfolioHandler.Project)
	mux.HandleFunc("/api/portfolio/experience", portfolioHandler.Experience)
	mux.HandleFunc("/api/portfolio/experience/{id}", portfolioHandler.ExperienceEntry)
	mux.HandleFunc("/api/portfolio/skills", portfolioHandler.Skills)
	mux.HandleFunc("/api/portfolio/skills/{id}", portfolioHandler.Skill)
	mux.HandleFunc("/api/portfolio/social-links", portfolioHandler.SocialLinks)
	mux.HandleFunc("/api/portfolio/social-links/{id}", portfolioHandler.SocialLink)

	mux.HandleFunc("/ws", HandleWebSocket(hub))

	logging.Info("quill server starting", map[string]interface{}{
		"addr":           cfg.Addr,
		"data_dir":       cfg.DataDir,
		"schema_version": version,
	})
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		logging.Error("server stopped", err)
		os.Exit(1)
	}
}
