package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/simulate"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/pkg/logger"
)

// Default configuration constants.
const (
	defaultVisitors   = 500
	defaultTopN       = 50
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9080", "Base URL of the service")
		visitors = flag.Int("visitors", defaultVisitors, "Number of simulated visitors")
		workers  = flag.Int("workers", runtime.NumCPU()*2, "Number of concurrent workers")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		topN     = flag.Int("top", defaultTopN, "Number of top styles to cross-check")
		seed     = flag.Int64("seed", time.Now().UnixNano(), "Random seed for answer picks")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &simulate.Config{
		BaseURL:  *baseURL,
		Visitors: *visitors,
		Workers:  *workers,
		Timeout:  *timeout,
		TopN:     *topN,
		Seed:     *seed,
		Logger:   logger.Get().Named("simulate"),
	}

	stats, err := simulate.Run(ctx, cfg)
	if err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		os.Exit(1)
	}

	if stats.Failed > 0 {
		os.Exit(1)
	}
}
