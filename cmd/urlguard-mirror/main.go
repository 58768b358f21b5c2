// Command urlguard-mirror is a demo client binary in the spirit of
// the teacher's main.go + poll.go: it polls the configured lists
// forever, logs match decisions for URLs read from stdin, and shuts
// down gracefully on SIGINT/SIGTERM. The library itself serves no
// public API (spec section 1 Non-goals); this binary exists only to
// exercise it end-to-end.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/listguard/urlguard/internal/clock"
	"github.com/listguard/urlguard/internal/engine"
	"github.com/listguard/urlguard/internal/hashcache"
	"github.com/listguard/urlguard/internal/httpclient"
	"github.com/listguard/urlguard/internal/logger"
	"github.com/listguard/urlguard/internal/lookup"
	"github.com/listguard/urlguard/internal/scratch"
	"github.com/listguard/urlguard/internal/store"
)

func main() {
	var (
		confServer       = pflag.String("server", "", "List service base URL (required)")
		confKey          = pflag.String("key", "", "List service API key (required)")
		confStorage      = pflag.String("storage", "memory", `Chunk store: "memory" or a redis:// URL`)
		confVersion      = pflag.String("version", "3.0", "Protocol version string (pver)")
		confAppVer       = pflag.String("appver", "1.0", "Client application version string (appver)")
		confDataFilePath = pflag.String("data-file-path", "/tmp/urlguard-mirror.db", "Scratch state database path")
		confHTTPTimeout  = pflag.Duration("http-timeout", 60*time.Second, "Per-request HTTP timeout")
		confUserAgent    = pflag.String("user-agent", "", "Override the default User-Agent header")
		confCacheTime    = pflag.Duration("cache-time", 0, "Override the server's CACHELIFETIME for full-hash caching")
		confDefaultRetry = pflag.Duration("default-retry", 30*time.Second, "Fallback poll interval")
		confLists        = pflag.StringSlice("lists", nil, "Comma-separated list names to mirror and check against")
		confPollInterval = pflag.Duration("poll-interval", time.Minute, "How often to run an update pass over --lists")
		confLogLevel     = pflag.String("log-level", "Info", "Debug, Info, Warning, or Error")
	)
	pflag.Parse()

	initLogger(*confLogLevel)

	if *confServer == "" || *confKey == "" {
		logger.Error.Println("--server and --key are required")
		os.Exit(1)
	}

	if len(*confLists) == 0 {
		logger.Error.Println("--lists must name at least one list to mirror")
		os.Exit(1)
	}

	st, closeStore, err := openStore(*confStorage)
	if err != nil {
		logger.Error.Printf("open store: %s\n", err)
		os.Exit(1)
	}
	defer closeStore()

	db, err := scratch.Open(scratch.Config{Path: *confDataFilePath})
	if err != nil {
		logger.Error.Printf("open scratch db: %s\n", err)
		os.Exit(1)
	}
	defer db.Close()

	clk := clock.Real()

	eng := engine.New(engine.Config{
		Server:       *confServer,
		APIKey:       *confKey,
		Version:      *confVersion,
		AppVer:       *confAppVer,
		DataFilePath: *confDataFilePath,
		HTTPTimeout:  *confHTTPTimeout,
		UserAgent:    *confUserAgent,
		CacheTime:    *confCacheTime,
		DefaultRetry: *confDefaultRetry,
	}, st, db, clk)

	hc := httpclient.New(httpclient.Config{
		Server:    *confServer,
		APIKey:    *confKey,
		AppVer:    *confAppVer,
		PVer:      *confVersion,
		UserAgent: *confUserAgent,
		Timeout:   *confHTTPTimeout,
	})

	resolver := hashcache.New(hashcache.Config{CacheTime: *confCacheTime}, hc, st, db, clk)
	pipeline := lookup.New(st, resolver, clk)

	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()
		runPollLoop(ctx, eng, *confLists, *confPollInterval, clk)
	}()

	// The lookup loop is not waited on: it stays blocked reading stdin
	// until a line or EOF arrives, which would hold shutdown open.
	go func() {
		runLookupLoop(ctx, pipeline, *confLists)
	}()

	<-sigs
	logger.Warning.Println("shutting down...")
	cancel()
	wg.Wait()
}

func initLogger(level string) {
	switch level {
	case "Info":
		logger.Init(io.Discard, os.Stdout, os.Stderr, os.Stderr)
	case "Warning":
		logger.Init(io.Discard, io.Discard, os.Stderr, os.Stderr)
	case "Error":
		logger.Init(io.Discard, io.Discard, io.Discard, os.Stderr)
	default:
		logger.Init(os.Stderr, os.Stdout, os.Stderr, os.Stderr)
	}
}

func openStore(storage string) (store.Store, func(), error) {
	if storage == "" || storage == "memory" {
		return store.NewMemory(), func() {}, nil
	}

	r, err := store.NewRedis(storage)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis store: %w", err)
	}

	return r, func() { r.Close() }, nil
}

func runPollLoop(ctx context.Context, eng *engine.Engine, lists []string, interval time.Duration, clk clock.Clock) {
	for {
		results := eng.Update(ctx, lists, false)
		for _, r := range results {
			if r.Err != nil {
				logger.Warning.Printf("update %s failed, retry in %s: %s\n", r.List, r.Wait, r.Err)

				continue
			}

			if r.Applied {
				logger.Info.Printf("update %s applied, next poll in %s\n", r.List, r.Wait)
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-clk.After(interval):
		}
	}
}

// runLookupLoop reads newline-delimited URLs from stdin and logs the
// match decision for each against lists, in the spirit of a
// command-line triage tool layered over the library.
func runLookupLoop(ctx context.Context, pipeline *lookup.Pipeline, lists []string) {
	scanner := bufio.NewScanner(os.Stdin)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		url := strings.TrimSpace(scanner.Text())
		if url == "" {
			continue
		}

		matches, err := pipeline.Lookup(ctx, lists, url)
		if err != nil {
			logger.Error.Printf("lookup %q failed: %s\n", url, err)

			continue
		}

		if len(matches) == 0 {
			fmt.Println(url + ": clean")

			continue
		}

		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.List
		}

		fmt.Println(url + ": matched " + strconv.Quote(strings.Join(names, ",")))
	}
}
