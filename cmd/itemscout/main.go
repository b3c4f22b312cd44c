// cmd/itemscout/main.go

// itemscout extracts structured product descriptions (name, brand, category,
// image URL) from arbitrary web pages using layered heuristics.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/PuerkitoBio/goquery"
	"gopkg.in/yaml.v3"

	"github.com/dechora/itemscout/internal/browser"
	"github.com/dechora/itemscout/internal/config"
	"github.com/dechora/itemscout/internal/extract"
	"github.com/dechora/itemscout/internal/fetch"
	"github.com/dechora/itemscout/internal/output"
	"github.com/dechora/itemscout/internal/utils"
	"github.com/dechora/itemscout/pkg/api"
)

// Version information (set by build flags)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "extract":
		runExtract(os.Args[2:])
	case "scan":
		runScan(os.Args[2:])
	case "validate":
		runValidate(os.Args[2:])
	case "template":
		runTemplate(os.Args[2:])
	case "version":
		fmt.Printf("itemscout %s (built %s, commit %s)\n", version, buildTime, gitCommit)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(2)
	}
}

func printUsage() {
	fmt.Println(`itemscout - heuristic product extraction from web pages

Usage:
  itemscout extract -url URL [-selector CSS] [-config FILE]
  itemscout scan -url URL [-config FILE]
  itemscout validate -config FILE
  itemscout template [-type basic|server]
  itemscout version`)
}

// loadConfig loads the config file when given, or returns defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(path)
}

// buildStack assembles the fetcher and builder from configuration.
func buildStack(cfg *config.Config, logger utils.Logger) (extract.Fetcher, *extract.Builder) {
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

	builder := extract.NewBuilder(extract.BuilderConfig{
		Fetcher: fetcher,
		Logger:  logger,
	})
	return fetcher, builder
}

func runExtract(args []string) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	configFile := fs.String("config", "", "path to YAML configuration")
	pageURL := fs.String("url", "", "page URL to extract from")
	selector := fs.String("selector", "", "CSS selector for the target image")
	fs.Parse(args)

	if *pageURL == "" {
		fatal("extract requires -url")
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fatal("configuration error: %v", err)
	}
	logger := utils.NewLoggerWithLevel(utils.ParseLogLevel(cfg.Logging.Level))
	fetcher, builder := buildStack(cfg, logger)

	ctx := context.Background()
	doc, err := fetcher.Fetch(ctx, *pageURL)
	if err != nil {
		fatal("failed to load page: %v", err)
	}
	page, err := extract.NewPage(doc, *pageURL)
	if err != nil {
		fatal("%v", err)
	}

	band := bandFromConfig(cfg)
	img := pickImage(page, *selector, band)
	if img == nil {
		fatal("no eligible image matched")
	}

	item, err := builder.BuildItem(ctx, page, img)
	if err != nil {
		fatal("extraction failed: %v", err)
	}

	emitItems(cfg, logger, []*api.Item{item})
}

func runScan(args []string) {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	configFile := fs.String("config", "", "path to YAML configuration")
	pageURL := fs.String("url", "", "page URL to scan")
	fs.Parse(args)

	if *pageURL == "" {
		fatal("scan requires -url")
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fatal("configuration error: %v", err)
	}
	logger := utils.NewLoggerWithLevel(utils.ParseLogLevel(cfg.Logging.Level))
	fetcher, builder := buildStack(cfg, logger)

	ctx := context.Background()
	doc, err := fetcher.Fetch(ctx, *pageURL)
	if err != nil {
		fatal("failed to load page: %v", err)
	}
	page, err := extract.NewPage(doc, *pageURL)
	if err != nil {
		fatal("%v", err)
	}

	scanner := extract.NewScanner(extract.ScannerConfig{
		Builder:     builder,
		Band:        bandFromConfig(cfg),
		Concurrency: cfg.Scan.Concurrency,
		MaxImages:   cfg.Scan.MaxImages,
		Logger:      logger,
	})
	result := scanner.Scan(ctx, page)

	logger.Infof("scan finished: %d items from %d images (%d skipped)",
		len(result.Items), result.ImagesSeen, result.ImagesSkipped)
	emitItems(cfg, logger, result.Items)
}

func runValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configFile := fs.String("config", "", "path to YAML configuration")
	fs.Parse(args)

	if *configFile == "" {
		fatal("validate requires -config")
	}
	if _, err := config.LoadFromFile(*configFile); err != nil {
		fatal("%v", err)
	}
	fmt.Printf("configuration file '%s' is valid\n", *configFile)
}

func runTemplate(args []string) {
	fs := flag.NewFlagSet("template", flag.ExitOnError)
	templateType := fs.String("type", "basic", "template type (basic or server)")
	fs.Parse(args)

	template := config.GenerateTemplate(*templateType)
	data, err := yaml.Marshal(template)
	if err != nil {
		fatal("failed to marshal template: %v", err)
	}
	fmt.Print(string(data))
}

// pickImage resolves the target image: by selector when given, otherwise the
// first eligible image on the page.
func pickImage(page *extract.Page, selector string, band extract.GeometryBand) *goquery.Selection {
	if selector != "" {
		sel := page.Doc.Find(selector).First()
		if sel.Length() == 0 {
			return nil
		}
		if !sel.Is("img") {
			sel = sel.Find("img").First()
			if sel.Length() == 0 {
				return nil
			}
		}
		if !extract.EligibleImage(sel, band) {
			return nil
		}
		return sel
	}

	var match *goquery.Selection
	page.Doc.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		if extract.EligibleImage(img, band) {
			match = img
			return false
		}
		return true
	})
	return match
}

// emitItems hands the items to the configured sink.
func emitItems(cfg *config.Config, logger utils.Logger, items []*api.Item) {
	manager, err := output.NewManager(cfg.Output)
	if err != nil {
		fatal("output error: %v", err)
	}
	writer, err := manager.GetWriter()
	if err != nil {
		fatal("output error: %v", err)
	}
	defer writer.Close()

	if err := writer.Write(items); err != nil {
		fatal("failed to write items: %v", err)
	}
	logger.Debugf("%d item(s) written to %s sink", len(items), cfg.Output.Format)
}

func bandFromConfig(cfg *config.Config) extract.GeometryBand {
	return extract.GeometryBand{
		MinWidth:  cfg.Geometry.MinWidth,
		MinHeight: cfg.Geometry.MinHeight,
		MaxWidth:  cfg.Geometry.MaxWidth,
		MaxHeight: cfg.Geometry.MaxHeight,
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
