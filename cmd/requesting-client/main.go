// Command requesting-client posts random processing requests to the requesting service.
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
		postURL    string
		listFile   string
		procNum    int64
		requestNum int
		logLevel   string
	)
	flag.StringVar(&postURL, "posturl", "", "URL of the request endpoint")
	flag.StringVar(&listFile, "listfile", "movies.txt", "file with one source per line")
	flag.Int64Var(&procNum, "procnum", 10, "concurrent requests")
	flag.IntVar(&requestNum, "requestnum", 100, "requests to send")
	flag.StringVar(&logLevel, "log-level", "warn", "log level")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "ex: requesting-client -posturl=https://example.com/request -listfile ./movies.txt -procnum 100 -requestnum 1000\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if err := logger.Initialize(logLevel); err != nil {
		panic(err)
	}
	if postURL == "" {
		flag.Usage()
		logger.Log.Fatal("-posturl is required")
	}

	f, err := os.Open(listFile)
	if err != nil {
		logger.Log.Fatal("failed to open list file", zap.Error(err))
	}
	sources, err := loadgen.ReadSources(f)
	f.Close()
	if err != nil {
		logger.Log.Fatal("failed to read list file", zap.Error(err))
	}
	if len(sources) == 0 {
		logger.Log.Fatal("list file is empty", zap.String("path", listFile))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	requester := loadgen.Requester{
		Client:    &http.Client{Timeout: time.Minute},
		PostURL:   postURL,
		Generator: loadgen.NewRequestGenerator(sources, time.Now().UnixNano()),
		Procs:     procNum,
		Bar:       progressbar.Default(int64(requestNum)),
	}
	stats, err := requester.Run(ctx, requestNum)
	if err != nil {
		logger.Log.Error("run interrupted", zap.Error(err))
	}
	fmt.Printf("\nsucceeded: %d, failed: %d\n", stats.Succeeded, stats.Failed)
}
