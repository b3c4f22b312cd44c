// cmd/server/main.go

// The itemscout server exposes the extraction engine over HTTP: point it at a
// page and an image and it answers with the extracted item record.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gorilla/mux"

	"github.com/dechora/itemscout/internal/browser"
	"github.com/dechora/itemscout/internal/config"
	"github.com/dechora/itemscout/internal/extract"
	"github.com/dechora/itemscout/internal/fetch"
	"github.com/dechora/itemscout/internal/monitoring"
	"github.com/dechora/itemscout/internal/utils"
	"github.com/dechora/itemscout/pkg/api"
)

var (
	version = "dev"
)

type server struct {
	cfg     *config.Config
	logger  utils.Logger
	metrics *monitoring.Metrics
	fetcher extract.Fetcher
	band    extract.GeometryBand
}

func main() {
	configFile := flag.String("config", "", "path to YAML configuration")
	address := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.LoadFromFile(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *address != "" {
		cfg.Server.Address = *address
	}

	logger := utils.NewLoggerWithLevel(utils.ParseLogLevel(cfg.Logging.Level)).
		WithField("component", "server")

	s := newServer(cfg, logger)

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      s.setupRoutes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logger.Infof("itemscout server %s listening on %s", version, cfg.Server.Address)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Errorf("server failed: %v", err)
		os.Exit(1)
	}
}

// newServer wires the extraction stack from configuration.
func newServer(cfg *config.Config, logger utils.Logger) *server {
	client := fetch.NewClient(fetch.ClientConfig{
		Timeout:       cfg.Fetch.Timeout,
		RetryAttempts: cfg.Fetch.RetryAttempts,
		RetryDelay:    cfg.Fetch.RetryDelay,
		UserAgents:    cfg.Fetch.UserAgents,
		Headers:       cfg.Fetch.Headers,
		Cookies:       cfg.Fetch.Cookies,
		RateLimit:     cfg.Fetch.RateLimit,
		RateBurst:     cfg.Fetch.RateBurst,
	})

	var fetcher extract.Fetcher = client
	if cfg.Fetch.Render {
		fetcher = browser.NewRenderer(browser.RendererConfig{
			Headless: true,
			Timeout:  cfg.Fetch.RenderTimeout,
			Fallback: client,
		}, logger)
	}

	return &server{
		cfg:     cfg,
		logger:  logger,
		metrics: monitoring.NewMetrics(),
		fetcher: fetcher,
		band: extract.GeometryBand{
			MinWidth:  cfg.Geometry.MinWidth,
			MinHeight: cfg.Geometry.MinHeight,
			MaxWidth:  cfg.Geometry.MaxWidth,
			MaxHeight: cfg.Geometry.MaxHeight,
		},
	}
}

// setupRoutes builds the HTTP routing table.
func (s *server) setupRoutes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.healthHandler).Methods("GET")
	r.Handle("/metrics", s.metrics.Handler()).Methods("GET")

	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	apiRouter.HandleFunc("/extract", s.extractHandler).Methods("POST")
	apiRouter.HandleFunc("/scan", s.scanHandler).Methods("POST")

	return r
}

func (s *server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version,
	})
}

// extractHandler builds one item for one image on a page. The image is
// addressed by CSS selector, or by index among the page's eligible images.
func (s *server) extractHandler(w http.ResponseWriter, r *http.Request) {
	var req api.ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	if req.PageURL == "" {
		writeError(w, http.StatusBadRequest, "page_url is required", "")
		return
	}

	page, err := s.loadPage(r, req.PageURL)
	if err != nil {
		s.logger.Warnf("page load failed for %s: %v", req.PageURL, err)
		writeError(w, http.StatusBadGateway, "failed to load page", string(utils.CodeOf(err)))
		return
	}

	img := s.selectImage(page, req)
	if img == nil {
		s.metrics.ImageSkipped()
		writeError(w, http.StatusNotFound, "no eligible image matched the request",
			string(utils.ErrCodeImageRejected))
		return
	}

	builder := extract.NewBuilder(extract.BuilderConfig{
		Fetcher: s.fetcher,
		Logger:  s.logger,
		Metrics: s.metrics,
	})
	item, err := builder.BuildItem(r.Context(), page, img)
	if err != nil {
		s.metrics.ImageSkipped()
		writeError(w, http.StatusUnprocessableEntity, err.Error(), string(utils.CodeOf(err)))
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// scanHandler builds items for every eligible image on a page.
func (s *server) scanHandler(w http.ResponseWriter, r *http.Request) {
	var req api.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	if req.PageURL == "" {
		writeError(w, http.StatusBadRequest, "page_url is required", "")
		return
	}

	page, err := s.loadPage(r, req.PageURL)
	if err != nil {
		s.logger.Warnf("page load failed for %s: %v", req.PageURL, err)
		writeError(w, http.StatusBadGateway, "failed to load page", string(utils.CodeOf(err)))
		return
	}

	maxImages := req.MaxImages
	if maxImages == 0 {
		maxImages = s.cfg.Scan.MaxImages
	}

	scanner := extract.NewScanner(extract.ScannerConfig{
		Builder: extract.NewBuilder(extract.BuilderConfig{
			Fetcher: s.fetcher,
			Logger:  s.logger,
			Metrics: s.metrics,
		}),
		Band:        s.band,
		Concurrency: s.cfg.Scan.Concurrency,
		MaxImages:   maxImages,
		Logger:      s.logger,
	})

	start := time.Now()
	result := scanner.Scan(r.Context(), page)
	s.metrics.ObserveScanDuration(time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, &api.ScanResponse{
		PageURL:       req.PageURL,
		Items:         result.Items,
		ImagesSeen:    result.ImagesSeen,
		ImagesSkipped: result.ImagesSkipped,
		CompletedAt:   time.Now().UTC(),
	})
}

// loadPage fetches and wraps the page the request points at.
func (s *server) loadPage(r *http.Request, pageURL string) (*extract.Page, error) {
	doc, err := s.fetcher.Fetch(r.Context(), pageURL)
	if err != nil {
		return nil, err
	}
	return extract.NewPage(doc, pageURL)
}

// selectImage resolves the requested image: by CSS selector when given
// (descending into the selection for an img when the selector matches a
// container), otherwise by index among the page's eligible images.
func (s *server) selectImage(page *extract.Page, req api.ExtractRequest) *goquery.Selection {
	if req.ImageSelector != "" {
		sel := page.Doc.Find(req.ImageSelector).First()
		if sel.Length() == 0 {
			return nil
		}
		if !sel.Is("img") {
			sel = sel.Find("img").First()
			if sel.Length() == 0 {
				return nil
			}
		}
		if !extract.EligibleImage(sel, s.band) {
			return nil
		}
		return sel
	}

	var match *goquery.Selection
	index := 0
	page.Doc.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		if !extract.EligibleImage(img, s.band) {
			return true
		}
		if index == req.ImageIndex {
			match = img
			return false
		}
		index++
		return true
	})
	return match
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, &api.ErrorResponse{Error: message, Code: code})
}
