package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"docpipe/internal/config"
	"docpipe/internal/document"
	"docpipe/internal/logger"
	"docpipe/internal/pipeline"
	"docpipe/internal/processors"
	"docpipe/internal/processors/provider"
	"docpipe/pkg/circuitbreaker"
	"docpipe/pkg/health"
	"docpipe/pkg/metrics"
	"docpipe/pkg/retry"
)

const shutdownTimeout = 10 * time.Second

// maxLineSize bounds a single NDJSON record.
const maxLineSize = 16 * 1024 * 1024

type App struct {
	cfg      *config.Config
	logger   logger.Logger
	redis    *redis.Client
	pipeline *pipeline.Pipeline
	server   *http.Server
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: log,
	}
}

func (a *App) Initialize(ctx context.Context) error {
	metrics.Register()

	providers, err := a.initProviders(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize lookup providers: %w", err)
	}

	if err := a.initPipeline(providers); err != nil {
		return fmt.Errorf("failed to initialize pipeline: %w", err)
	}

	a.initHTTPServer()

	return nil
}

func (a *App) initProviders(ctx context.Context) (map[string]provider.Provider, error) {
	providers := make(map[string]provider.Provider)

	if len(a.cfg.Lookup.Table) > 0 {
		providers["static"] = provider.NewStatic(a.cfg.Lookup.Table)
	}

	if a.cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", a.cfg.Redis.Host, a.cfg.Redis.Port),
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		a.redis = rdb

		providers["redis"] = a.decorate("redis", provider.NewRedis(rdb, a.cfg.Lookup.KeyPrefix))
		a.logger.Infow("Redis lookup provider enabled",
			"host", a.cfg.Redis.Host,
			"port", a.cfg.Redis.Port,
		)
	}

	return providers, nil
}

// decorate layers the configured resilience wrappers around a provider that
// talks to a remote backend.
func (a *App) decorate(name string, p provider.Provider) provider.Provider {
	if a.cfg.Lookup.RetryAttempts > 0 {
		policy := retry.DefaultPolicy()
		policy.MaxAttempts = a.cfg.Lookup.RetryAttempts
		p = provider.WithRetry(p, policy)
	}
	if a.cfg.Lookup.CircuitBreaker {
		p = provider.WithCircuitBreaker(p, name, circuitbreaker.DefaultConfig(name))
	}
	if a.cfg.Lookup.RatePerSecond > 0 {
		burst := a.cfg.Lookup.RateBurst
		if burst <= 0 {
			burst = 1
		}
		p = provider.WithRateLimit(p, a.cfg.Lookup.RatePerSecond, burst)
	}
	return p
}

func (a *App) initPipeline(providers map[string]provider.Provider) error {
	reg := pipeline.NewRegistry()
	processors.RegisterAll(reg, providers)

	defs := make([]pipeline.Definition, 0, len(a.cfg.Pipeline.Processors))
	for _, pc := range a.cfg.Pipeline.Processors {
		defs = append(defs, pipeline.Definition{
			Type:   pc.Type,
			Config: pc.Config,
		})
	}

	procs, err := reg.Build(defs)
	if err != nil {
		return err
	}

	pipelineID := a.cfg.Pipeline.ID
	if pipelineID == "" {
		pipelineID = uuid.NewString()
	}

	a.pipeline = pipeline.New(pipelineID, procs, a.logger)
	a.logger.Infow("Pipeline ready",
		"pipeline_id", pipelineID,
		"processors", len(procs),
	)
	return nil
}

func (a *App) initHTTPServer() {
	if a.cfg.Server.Port <= 0 {
		return
	}

	healthRegistry := health.NewCheckerRegistry()
	if a.redis != nil {
		healthRegistry.Register(health.NewRedisChecker(a.redis))
	}
	healthRegistry.Register(health.CheckerFunc{
		ProbeName: "pipeline",
		Probe: func(context.Context) error {
			if a.pipeline == nil {
				return fmt.Errorf("pipeline not initialized")
			}
			return nil
		},
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		h := healthRegistry.Check(r.Context())
		statusCode := http.StatusOK
		if h.Status == health.StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(h)
	})
	mux.Handle("/metrics", promhttp.Handler())

	a.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler: mux,
	}
}

// Run streams NDJSON records from input through the pipeline and writes the
// mutated documents to output. A record that fails is logged and skipped; the
// stream keeps going.
func (a *App) Run(ctx context.Context, inputPath, outputPath string) error {
	in, closeIn, err := openInput(inputPath)
	if err != nil {
		return err
	}
	defer closeIn()

	out, closeOut, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer closeOut()

	if a.server != nil {
		go func() {
			a.logger.Infow("Metrics server starting", "port", a.cfg.Server.Port)
			if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				a.logger.Errorw("Metrics server error", "error", err)
			}
		}()
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Runner.Concurrency)

	var mu sync.Mutex
	writer := bufio.NewWriter(out)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var processed, failed int

	for scanner.Scan() {
		if gCtx.Err() != nil {
			break
		}
		line := make([]byte, len(scanner.Bytes()))
		copy(line, scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		g.Go(func() error {
			result, err := a.processRecord(gCtx, line)
			if err != nil {
				a.logger.Errorw("Record failed",
					"pipeline_id", a.pipeline.ID(),
					"error", err,
				)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			processed++
			if _, err := writer.Write(result); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			if err := writer.WriteByte('\n'); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return nil
		})
	}

	runErr := g.Wait()
	if runErr == nil {
		runErr = scanner.Err()
	}

	if err := writer.Flush(); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to flush output: %w", err)
	}

	a.logger.Infow("Run finished",
		"processed", processed,
		"failed", failed,
	)
	return runErr
}

func (a *App) processRecord(ctx context.Context, line []byte) ([]byte, error) {
	doc, err := a.buildDocument(line)
	if err != nil {
		return nil, err
	}

	if err := a.pipeline.Run(ctx, doc); err != nil {
		return nil, err
	}

	return json.Marshal(doc.SourceAndMetadata())
}

// buildDocument turns one NDJSON record into a document. System fields are
// read from the record itself when present, otherwise filled from the
// pipeline defaults, with a generated id as the last resort.
func (a *App) buildDocument(line []byte) (*document.Document, error) {
	var record map[string]interface{}
	if err := json.Unmarshal(line, &record); err != nil {
		return nil, fmt.Errorf("invalid JSON record: %w", err)
	}

	index := popString(record, "_index")
	if index == "" {
		index = a.cfg.Pipeline.DefaultIndex
	}
	docType := popString(record, "_type")
	if docType == "" {
		docType = a.cfg.Pipeline.DefaultType
	}
	id := popString(record, "_id")
	if id == "" {
		id = uuid.NewString()
	}

	builder := document.NewBuilder().
		WithIndex(index).
		WithType(docType).
		WithID(id).
		WithSource(record)

	if routing := popString(record, "_routing"); routing != "" {
		builder = builder.WithRouting(routing)
	}
	if parent := popString(record, "_parent"); parent != "" {
		builder = builder.WithParent(parent)
	}
	if timestamp := popString(record, "_timestamp"); timestamp != "" {
		builder = builder.WithTimestamp(timestamp)
	}
	if ttl := popString(record, "_ttl"); ttl != "" {
		builder = builder.WithTTL(ttl)
	}

	return builder.Build()
}

func popString(m map[string]interface{}, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	delete(m, key)
	s, _ := v.(string)
	return s
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func (a *App) Shutdown(ctx context.Context) error {
	var errs []error

	if a.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server shutdown error: %w", err))
		}
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close error: %w", err))
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
