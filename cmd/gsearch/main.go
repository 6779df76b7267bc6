// Command gsearch runs a Google search from the terminal, optionally reading
// each result's page text, and can persist the results to a storage backend.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"gsearch/internal/analyzer"
	"gsearch/internal/metrics"
	"gsearch/internal/report"
	"gsearch/internal/search"
	"gsearch/internal/storage"
	"gsearch/internal/storage/jsonbackend"
	"gsearch/internal/storage/postgres"
	"gsearch/internal/storage/sqlite"
)

func main() {
	var (
		numResults  = flag.Int("n", search.DefaultNumResults, "number of results to request")
		language    = flag.String("lang", search.DefaultLanguage, "interface language code (hl parameter)")
		safeMode    = flag.String("safe", search.DefaultSafeMode, "safe search mode (active or off)")
		since       = flag.String("since", "", "recency filter: h, d, w, m or y")
		timeout     = flag.Duration("timeout", search.DefaultTimeout, "per-request timeout")
		noText      = flag.Bool("no-text", false, "skip fetching each result's page text")
		userAgent   = flag.String("ua", "", "override the User-Agent header")
		stream      = flag.Bool("stream", false, "print results as they complete instead of all at once")
		jsonOut     = flag.Bool("json", false, "print results as NDJSON")
		store       = flag.String("store", "", "persist results: sqlite, postgres or json")
		dsn         = flag.String("dsn", "", "storage DSN (file path for sqlite/json)")
		matchTerms  = flag.String("match", "", "comma-separated terms to locate in fetched page text")
		showReport  = flag.Bool("report", false, "print a session summary after storing results")
		metricsPort = flag.Int("metrics-port", 0, "expose Prometheus metrics on this port (0 = off)")
		verbose     = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	term := strings.Join(flag.Args(), " ")
	if term == "" {
		fmt.Fprintln(os.Stderr, "usage: gsearch [flags] <query terms>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	ctx := context.Background()

	if *metricsPort > 0 {
		srv := metrics.Start(*metricsPort)
		defer func() { _ = srv.Stop(ctx) }()
	}

	timeframe, err := parseTimeframe(*since)
	if err != nil {
		logger.Error("invalid -since value", "error", err)
		os.Exit(2)
	}

	var backend storage.Backend
	if *store != "" {
		backend, err = openBackend(ctx, *store, *dsn)
		if err != nil {
			logger.Error("failed to open storage backend", "error", err)
			os.Exit(1)
		}
		defer backend.Close()
	}

	client, err := search.New(search.Config{Logger: logger})
	if err != nil {
		logger.Error("failed to create search client", "error", err)
		os.Exit(1)
	}

	req := search.NewRequest(term)
	req.NumResults = *numResults
	req.Language = *language
	req.SafeMode = *safeMode
	req.Timeframe = timeframe
	req.Timeout = *timeout
	req.ReadPageText = !*noText
	if *userAgent != "" {
		req.UserAgent = *userAgent
	}

	var results []search.Result
	if *stream {
		ch, err := client.SearchStream(ctx, req)
		if err != nil {
			logger.Error("search failed", "term", term, "error", err)
			os.Exit(1)
		}
		for res := range ch {
			printResult(res, *jsonOut)
			results = append(results, res)
		}
	} else {
		results, err = client.Search(ctx, req)
		if err != nil {
			logger.Error("search failed", "term", term, "error", err)
			os.Exit(1)
		}
		for _, res := range results {
			printResult(res, *jsonOut)
		}
	}

	if *matchTerms != "" {
		printMatches(results, strings.Split(*matchTerms, ","))
	}

	if backend != nil {
		now := time.Now().UTC()
		for i, res := range results {
			rec := &storage.Record{
				ID:        uuid.New().String(),
				Query:     term,
				Title:     res.Title,
				Href:      res.Href,
				PageText:  res.PageText,
				Position:  i,
				CreatedAt: now,
			}
			if err := backend.Save(ctx, rec); err != nil {
				logger.Error("failed to save result", "href", res.Href, "error", err)
			}
		}
		logger.Info("results stored", "backend", *store, "count", len(results))

		if *showReport {
			stored, err := backend.Query(ctx, storage.Filter{Query: term})
			if err != nil {
				logger.Error("failed to query stored results", "error", err)
			} else if err := report.WriteText(os.Stdout, report.GenerateSummary(stored)); err != nil {
				logger.Error("failed to write report", "error", err)
			}
		}
	}
}

func parseTimeframe(code string) (search.Timeframe, error) {
	switch code {
	case "":
		return search.TimeframeNone, nil
	case "h":
		return search.PastHour, nil
	case "d":
		return search.Past24Hours, nil
	case "w":
		return search.PastWeek, nil
	case "m":
		return search.PastMonth, nil
	case "y":
		return search.PastYear, nil
	default:
		return search.TimeframeNone, fmt.Errorf("unknown timeframe code %q", code)
	}
}

func openBackend(ctx context.Context, kind, dsn string) (storage.Backend, error) {
	switch kind {
	case "sqlite":
		if dsn == "" {
			dsn = "gsearch.db"
		}
		return sqlite.New(dsn)
	case "postgres":
		if dsn == "" {
			return nil, fmt.Errorf("postgres backend requires -dsn")
		}
		return postgres.New(ctx, dsn)
	case "json":
		if dsn == "" {
			dsn = "gsearch.jsonl"
		}
		return jsonbackend.New(dsn)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}

func printResult(res search.Result, asJSON bool) {
	if asJSON {
		data, err := json.Marshal(res)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to marshal result: %v\n", err)
			return
		}
		fmt.Println(string(data))
		return
	}

	fmt.Printf("%s\n  %s\n", res.Title, res.Href)
	if res.PageText != "" {
		fmt.Printf("  %s\n", truncate(res.PageText, 200))
	}
	fmt.Println()
}

func printMatches(results []search.Result, terms []string) {
	for i := range terms {
		terms[i] = strings.TrimSpace(terms[i])
	}

	for _, res := range results {
		for _, m := range analyzer.FindTermMatches(res.PageText, res.Href, terms) {
			fmt.Printf("%s: %q x%d\n", m.Href, m.Term, m.Count)
			for _, s := range m.Sentences {
				fmt.Printf("  > %s\n", truncate(s, 160))
			}
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
