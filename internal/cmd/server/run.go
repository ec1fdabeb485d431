package serverrun

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Uttam1728/event-analytics/internal/archive"
	cfgpkg "github.com/Uttam1728/event-analytics/internal/config"
	"github.com/Uttam1728/event-analytics/internal/counter"
	"github.com/Uttam1728/event-analytics/internal/processor"
	"github.com/Uttam1728/event-analytics/internal/queue"
	"github.com/Uttam1728/event-analytics/internal/runtime"
	httpserver "github.com/Uttam1728/event-analytics/internal/server/http"
	eventsvc "github.com/Uttam1728/event-analytics/internal/services/events"
	pebblestore "github.com/Uttam1728/event-analytics/internal/storage/pebble"
	logpkg "github.com/Uttam1728/event-analytics/pkg/log"
)

func getenvDefault(key, def string) string {
	if v := func() string { return getenv(key) }(); v != "" {
		return v
	}
	return def
}

// small wrapper to allow testing; replaced by os.Getenv at build time
var getenv = func(key string) string { return os.Getenv(key) }

type Options struct {
	DataDir  string
	HTTPAddr string
	Fsync    pebblestore.FsyncMode
	Config   cfgpkg.Config
}

// Run starts the ingestion pipeline and HTTP server and blocks until ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	// Be robust to callers that don't pass a signal-aware context
	// or if signal delivery needs to be observed here. We layer a
	// local signal context over the provided one.
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return err
	}
	httpAddr := opts.HTTPAddr
	if httpAddr == "" {
		httpAddr = cfg.HTTPAddr
	}

	rt, err := runtime.Open(runtime.Options{DataDir: opts.DataDir, Fsync: opts.Fsync, Config: cfg})
	if err != nil {
		return err
	}
	defer rt.Close()

	// Build process-wide logger using env/ApplyConfig; defaults: level=info, format=text
	logCfg := &logpkg.Config{
		Level:  getenvDefault("ANALYTICS_LOG_LEVEL", "info"),
		Format: getenvDefault("ANALYTICS_LOG_FORMAT", "text"),
	}
	procLogger, err := logpkg.ApplyConfig(logCfg)
	if err != nil {
		// Fallback to a sane default
		lvl := logpkg.InfoLevel
		if l, e := logpkg.ParseLevel(logCfg.Level); e == nil {
			lvl = l
		}
		procLogger = logpkg.NewLogger(logpkg.WithLevel(lvl), logpkg.WithFormatter(&logpkg.TextFormatter{}))
	}

	// Redirect stdlib logs (e.g., Pebble) to our logger
	logpkg.RedirectStdLog(procLogger)

	procLogger.Info("Starting analytics server",
		logpkg.Str("http", httpAddr),
		logpkg.Str("data_dir", rt.DataDir()),
		logpkg.Str("storage_root", rt.StorageRoot()),
		logpkg.Str("queue", cfg.QueueName),
		logpkg.Str("group", cfg.ConsumerGroup),
		logpkg.Str("level", logCfg.Level),
		logpkg.Str("format", logCfg.Format),
	)

	q, err := rt.OpenQueue(cfg.QueueName, queue.Options{LeaseMs: int64(cfg.LeaseMs)})
	if err != nil {
		return err
	}
	q.StartSweeper(5*time.Second, 1000)
	defer q.StopSweeper()

	cnt := counter.New(time.Duration(cfg.BucketTTLSeconds) * time.Second)
	defer cnt.Close()

	writer, err := archive.NewWriter(rt.StorageRoot(), procLogger)
	if err != nil {
		return err
	}

	proc := processor.New(q, writer, procLogger, processor.Options{
		Group:     cfg.ConsumerGroup,
		BatchSize: cfg.BatchSize,
		MaxWait:   time.Duration(cfg.MaxWaitMs) * time.Millisecond,
		Backoff:   time.Duration(cfg.BackoffMs) * time.Millisecond,
	})
	if err := proc.Start(); err != nil {
		return err
	}
	defer proc.Stop()

	svc := eventsvc.New(q, cnt, writer, proc, procLogger)
	hsrv := httpserver.New(rt, svc)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := hsrv.ListenAndServe(sctx, httpAddr); err != nil && sctx.Err() == nil {
			log.Printf("http error: %v", err)
		}
	}()

	<-sctx.Done()
	// Graceful order: stop accepting, drain the processor, then close storage.
	hsrv.Close()
	proc.Stop()
	wg.Wait()
	return nil
}
