package web

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/gorilla/mux"
	"github.com/postforge/postforge/internal/archive"
	"github.com/postforge/postforge/internal/config"
	"github.com/postforge/postforge/internal/models"
	"github.com/postforge/postforge/internal/platform"
	"github.com/sirupsen/logrus"
)

// generateTimeout bounds one scrape-and-generate round trip
const generateTimeout = 2 * time.Minute

// Pipeline is the generation entry point the web UI drives
type Pipeline interface {
	Run(ctx context.Context, pageURL string, prefs models.Preferences) (*models.GenerationRun, error)
	GetMetrics() string
}

// Server serves the web UI and the JSON API
type Server struct {
	config   *config.Config
	pipeline Pipeline
	archive  *archive.Service
}

// NewServer creates a new web server
func NewServer(cfg *config.Config, pipeline Pipeline, archiveService *archive.Service) *Server {
	return &Server{
		config:   cfg,
		pipeline: pipeline,
		archive:  archiveService,
	}
}

// Router builds the HTTP route table
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/", s.handleIndex).Methods("GET")
	router.HandleFunc("/generate", s.handleGenerate).Methods("POST")
	router.HandleFunc("/runs", s.handleRuns).Methods("GET")
	router.HandleFunc("/runs/{id}", s.handleRun).Methods("GET")
	router.HandleFunc("/runs/{id}/download", s.handleDownload).Methods("GET")

	router.HandleFunc("/api/generate", s.handleAPIGenerate).Methods("POST")
	router.HandleFunc("/health", s.handleHealth).Methods("GET")
	router.HandleFunc("/metrics", s.handleMetrics).Methods("GET")

	return router
}

type platformOption struct {
	Name    string
	Display string
	Limit   int
	Checked bool
}

type indexData struct {
	URL       string
	Audience  string
	Tone      string
	Hashtags  string
	Platforms []platformOption
	Error     string
}

type runData struct {
	Run *models.GenerationRun
}

type runsData struct {
	Runs []models.GenerationRun
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, indexPage, indexData{
		Audience:  s.config.DefaultAudience,
		Tone:      s.config.DefaultTone,
		Platforms: s.platformOptions(s.config.Platforms),
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	pageURL := strings.TrimSpace(r.FormValue("url"))
	prefs := models.Preferences{
		Audience:       strings.TrimSpace(r.FormValue("audience")),
		Tone:           strings.TrimSpace(r.FormValue("tone")),
		CustomHashtags: splitHashtags(r.FormValue("hashtags")),
		Platforms:      r.Form["platforms"],
	}

	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()

	run, err := s.pipeline.Run(ctx, pageURL, prefs)
	if err != nil {
		logrus.Errorf("Generation failed for %s: %v", pageURL, err)
		s.render(w, indexPage, indexData{
			URL:       pageURL,
			Audience:  r.FormValue("audience"),
			Tone:      r.FormValue("tone"),
			Hashtags:  r.FormValue("hashtags"),
			Platforms: s.platformOptions(prefs.Platforms),
			Error:     err.Error(),
		})
		return
	}

	s.render(w, resultsPage, runData{Run: run})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.archive.List()
	if err != nil {
		logrus.Errorf("Failed to list archived runs: %v", err)
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		return
	}

	s.render(w, runsPage, runsData{Runs: runs})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.archive.Load(mux.Vars(r)["id"])
	if err != nil {
		http.NotFound(w, r)
		return
	}

	s.render(w, runPage, runData{Run: run})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	markdown, err := s.archive.LoadMarkdown(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", archive.MarkdownFilename(id)))
	w.WriteHeader(http.StatusOK)
	w.Write(markdown)
}

type apiGenerateRequest struct {
	URL       string   `json:"url"`
	Audience  string   `json:"audience,omitempty"`
	Tone      string   `json:"tone,omitempty"`
	Platforms []string `json:"platforms,omitempty"`
	Hashtags  []string `json:"hashtags,omitempty"`
}

func (s *Server) handleAPIGenerate(w http.ResponseWriter, r *http.Request) {
	var req apiGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	if strings.TrimSpace(req.URL) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "url is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()

	run, err := s.pipeline.Run(ctx, req.URL, models.Preferences{
		Audience:       req.Audience,
		Tone:           req.Tone,
		CustomHashtags: req.Hashtags,
		Platforms:      req.Platforms,
	})
	if err != nil {
		logrus.Errorf("API generation failed for %s: %v", req.URL, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","timestamp":"` + time.Now().Format(time.RFC3339) + `"}`))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(s.pipeline.GetMetrics()))
}

func (s *Server) platformOptions(checkedNames []string) []platformOption {
	checked := make(map[string]bool, len(checkedNames))
	for _, name := range checkedNames {
		checked[name] = true
	}

	names := platform.Names()
	options := make([]platformOption, 0, len(names))
	for _, name := range names {
		spec, err := platform.SpecFor(name)
		if err != nil {
			continue
		}
		options = append(options, platformOption{
			Name:    name,
			Display: platform.DisplayName(name),
			Limit:   spec.CharacterLimit,
			Checked: checked[name],
		})
	}

	return options
}

func (s *Server) render(w http.ResponseWriter, page *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.ExecuteTemplate(w, "layout.html", data); err != nil {
		logrus.Errorf("Template render failed: %v", err)
	}
}

// splitHashtags breaks a free-form input like "#launch, #golang news"
// into individual tag candidates.
func splitHashtags(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("Failed to write JSON response: %v", err)
	}
}
