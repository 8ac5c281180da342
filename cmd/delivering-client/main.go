// Command delivering-client downloads every listed clip from the delivering service.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/ilya-burinskiy/clipgate/internal/app/loadgen"
	"github.com/ilya-burinskiy/clipgate/internal/app/logger"
)

func main() {
	var (
		listURL  string
		movieURL string
		procNum  int64
		onAuth   bool
		token    string
		logLevel string
	)
	flag.StringVar(&listURL, "listurl", "", "URL of the JSON listing")
	flag.StringVar(&movieURL, "movieurl", "", "base URL destinations are appended to")
	flag.Int64Var(&procNum, "procnum", 2, "concurrent downloads")
	flag.BoolVar(&onAuth, "auth", false, "send a bearer token")
	flag.StringVar(&token, "token", os.Getenv("ACCESS_TOKEN"), "bearer token, application default credentials when empty")
	flag.StringVar(&logLevel, "log-level", "warn", "log level")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "ex: delivering-client -listurl=$LIST_URL -movieurl=https://example.com/user -procnum 10\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if err := logger.Initialize(logLevel); err != nil {
		panic(err)
	}
	if listURL == "" || movieURL == "" {
		flag.Usage()
		logger.Log.Fatal("-listurl and -movieurl are required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := &http.Client{Timeout: 10 * time.Minute}
	items, err := loadgen.FetchListing(ctx, client, listURL)
	if err != nil {
		logger.Log.Fatal("failed to fetch listing", zap.Error(err))
	}

	var tokens loadgen.TokenProvider
	if onAuth {
		if token != "" {
			tokens = loadgen.StaticToken(token)
		} else {
			tokens, err = loadgen.NewGoogleTokenSource(ctx)
			if err != nil {
				logger.Log.Fatal("failed to find credentials", zap.Error(err))
			}
		}
	}

	downloads := 0
	for _, item := range items {
		if item.Dst != "" {
			downloads++
		}
	}
	deliverer := loadgen.Deliverer{
		Client:   client,
		MovieURL: movieURL,
		Tokens:   tokens,
		Procs:    procNum,
		Bar:      progressbar.Default(int64(downloads), "downloading"),
	}
	stats, err := deliverer.Run(ctx, items)
	if err != nil {
		logger.Log.Error("run interrupted", zap.Error(err))
	}
	fmt.Printf("\nsucceeded: %d, failed: %d\n", stats.Succeeded, stats.Failed)
}
