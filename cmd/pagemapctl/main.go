// Command pagemapctl builds a PageMap from a static HTML file or a
// live page fetched with a headless browser, and prints it to stdout.
//
// Usage:
//
//	pagemapctl -file page.html             # build from a saved snapshot
//	pagemapctl -live https://example.com    # drive a real browser
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"

	"pagemap"
	"pagemap/assemble"
)

func main() {
	filePath := flag.String("file", "", "path to a saved HTML snapshot")
	liveURL := flag.String("live", "", "URL to load with a headless browser")
	format := flag.String("format", "prompt", "output format: prompt or json")
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var snap pagemap.Snapshot
	var err error
	switch {
	case *liveURL != "":
		snap, err = captureLive(*liveURL)
	case *filePath != "":
		snap, err = loadSnapshotFile(*filePath)
	default:
		fmt.Fprintln(os.Stderr, "usage: pagemapctl -file <path> | -live <url>")
		os.Exit(1)
	}
	if err != nil {
		logger.Error("capture failed", "error", err)
		os.Exit(1)
	}

	builder := pagemap.New(pagemap.WithLogger(logger))
	pm, err := builder.Build(ctx, snap)
	if err != nil {
		logger.Error("build failed", "error", err)
		os.Exit(1)
	}

	if *format == "json" {
		out, err := assemble.ToJSON(pm, 0)
		if err != nil {
			logger.Error("serialize failed", "error", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}
	fmt.Println(assemble.ToPrompt(pm))
}

func loadSnapshotFile(path string) (pagemap.Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return pagemap.Snapshot{}, err
	}
	return pagemap.Snapshot{HTML: raw, URL: "file://" + path, Title: path}, nil
}

// captureLive drives a stealth-patched browser tab to the target URL and
// returns the rendered HTML as a snapshot. It carries no AX tree or
// listener hits — those require instrumentation this reference CLI
// doesn't wire up.
func captureLive(url string) (pagemap.Snapshot, error) {
	l := launcher.New().Headless(true).Set("disable-blink-features", "AutomationControlled")
	wsURL, err := l.Launch()
	if err != nil {
		return pagemap.Snapshot{}, fmt.Errorf("launch: %w", err)
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(wsURL)
	if err := browser.Connect(); err != nil {
		return pagemap.Snapshot{}, fmt.Errorf("connect: %w", err)
	}
	defer browser.MustClose()

	page := stealth.MustPage(browser)
	defer page.MustClose()

	if err := page.Timeout(20 * time.Second).Navigate(url); err != nil {
		return pagemap.Snapshot{}, fmt.Errorf("navigate: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return pagemap.Snapshot{}, fmt.Errorf("wait load: %w", err)
	}

	html, err := page.HTML()
	if err != nil {
		return pagemap.Snapshot{}, fmt.Errorf("html: %w", err)
	}
	info, err := page.Info()
	title := ""
	finalURL := url
	if err == nil && info != nil {
		title = info.Title
		finalURL = info.URL
	}

	return pagemap.Snapshot{
		HTML:     []byte(html),
		URL:      url,
		FinalURL: finalURL,
		Title:    title,
	}, nil
}
