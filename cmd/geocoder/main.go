// Command geocoder resolves free-text address queries against a
// JSON-lines hierarchy file.
//
// Usage:
//
//	geocoder -hierarchy data/hierarchy.jsonl "main st 5" "paris"
//	cat queries.txt | geocoder -hierarchy data/hierarchy.jsonl -json
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/placematch/geocoder"
)

type queryOutput struct {
	Query   string            `json:"query"`
	Results []geocoder.Result `json:"results"`
}

func main() {
	hierarchyPath := flag.String("hierarchy", "", "path to the JSON-lines hierarchy file (required)")
	workers := flag.Int("workers", runtime.NumCPU(), "worker count for the one-time load")
	top := flag.Int("top", 0, "print at most this many results per query (0 = all)")
	asJSON := flag.Bool("json", false, "print one JSON object per query instead of text")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *hierarchyPath == "" {
		fmt.Fprintln(os.Stderr, "missing required -hierarchy flag")
		flag.Usage()
		os.Exit(2)
	}

	g, err := geocoder.NewFromFile(*hierarchyPath, geocoder.WithWorkers(*workers))
	if err != nil {
		slog.Error("failed to load hierarchy", "path", *hierarchyPath, "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	run := func(query string) error {
		results := g.ProcessQuery(query)
		if *top > 0 && len(results) > *top {
			results = results[:*top]
		}
		if *asJSON {
			return enc.Encode(queryOutput{Query: query, Results: results})
		}
		fmt.Printf("%s\n", query)
		for _, r := range results {
			if r.HasCenter {
				fmt.Printf("  %d\t%.3f\t%.5f,%.5f\t%s\n", r.ID, r.Certainty, r.Lat, r.Lon, r.Geohash)
			} else {
				fmt.Printf("  %d\t%.3f\n", r.ID, r.Certainty)
			}
		}
		return nil
	}

	if flag.NArg() > 0 {
		for _, query := range flag.Args() {
			if err := run(query); err != nil {
				slog.Error("writing output", "error", err)
				os.Exit(1)
			}
		}
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		query := scanner.Text()
		if query == "" {
			continue
		}
		if err := run(query); err != nil {
			slog.Error("writing output", "error", err)
			os.Exit(1)
		}
	}
	if err := scanner.Err(); err != nil {
		slog.Error("reading queries", "error", err)
		os.Exit(1)
	}
}
