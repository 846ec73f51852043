package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/LdDl/slot-tracker/internal/config"
	"github.com/LdDl/slot-tracker/internal/metrics"
	"github.com/LdDl/slot-tracker/internal/monitoring"
	"github.com/LdDl/slot-tracker/internal/pipeline"
	"github.com/LdDl/slot-tracker/internal/sink"
	"github.com/LdDl/slot-tracker/internal/source"
	"github.com/LdDl/slot-tracker/mot"
)

func main() {
	var configPath string
	var input string
	var objects int
	var algorithm string
	var sqlitePath string
	var metricsAddr string
	var verbose bool
	flag.StringVar(&configPath, "config", "", "Path to JSON config.")
	flag.StringVar(&input, "input", "", "Override detections file (JSON lines, \"-\" for stdin).")
	flag.IntVar(&objects, "objects", 0, "Override expected number of objects.")
	flag.StringVar(&algorithm, "algorithm", "", "Override matching algorithm (greedy or hungarian).")
	flag.StringVar(&sqlitePath, "sqlite", "", "Override SQLite database path.")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on addr (host:port).")
	flag.BoolVar(&verbose, "v", false, "Log skipped frames.")
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			log.Fatalf("load config %q: %v", configPath, err)
		}
		cfg = loaded
	}
	if input != "" {
		cfg.Input = input
	}
	if objects != 0 {
		cfg.ExpectedObjects = objects
	}
	if algorithm != "" {
		parsed, err := mot.ParseMatchingAlgorithm(algorithm)
		if err != nil {
			log.Fatalf("invalid algorithm %q: %v", algorithm, err)
		}
		cfg.Algorithm = parsed
	}
	if sqlitePath != "" {
		cfg.Output.SQLitePath = sqlitePath
	}
	if metricsAddr != "" {
		cfg.MetricsAddr = metricsAddr
	}
	if verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg config.Config) error {
	monitoring.SetVerbose(cfg.Verbose)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := source.OpenJSONLines(cfg.Input)
	if err != nil {
		return err
	}
	defer src.Close()

	runID := uuid.New()
	sinks := sink.Multi{}
	defer func() {
		if err := sinks.Close(); err != nil {
			monitoring.Logf("closing outputs: %v", err)
		}
	}()
	out := cfg.Output
	if out.PositionsCSV != "" || out.RadiiCSV != "" || out.DistancesCSV != "" {
		csvSink, err := sink.NewCSVSink(cfg.ExpectedObjects, sink.CSVPaths{
			Positions: out.PositionsCSV,
			Radii:     out.RadiiCSV,
			Distances: out.DistancesCSV,
		})
		if err != nil {
			return err
		}
		sinks = append(sinks, csvSink)
	}
	if out.SQLitePath != "" {
		sqliteSink, err := sink.NewSQLiteSink(out.SQLitePath, sink.RunInfo{
			ID:              runID,
			ExpectedObjects: cfg.ExpectedObjects,
			Algorithm:       cfg.Algorithm,
		})
		if err != nil {
			return err
		}
		sinks = append(sinks, sqliteSink)
	}

	m := metrics.New()
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		server := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				monitoring.Logf("metrics server: %v", err)
			}
		}()
		defer server.Close()
	}

	monitoring.Logf("run %s: tracking %d objects with %s matching", runID, cfg.ExpectedObjects, cfg.Algorithm)
	summary, err := pipeline.Run(ctx, pipeline.Options{
		Expected: cfg.ExpectedObjects,
		Matcher:  mot.NewMatcher(cfg.Algorithm),
		Source:   src,
		Sink:     sinks,
		Metrics:  m,
	})
	monitoring.Logf("run %s: %d frames read, %d tracked, %d skipped", runID, summary.FramesRead, summary.FramesTracked, summary.FramesSkipped)
	return err
}
