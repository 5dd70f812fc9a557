package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"google.golang.org/protobuf/encoding/protojson"

	"github.com/joseph-ayodele/contracts-tracker/internal/common"
	"github.com/joseph-ayodele/contracts-tracker/internal/core"
	"github.com/joseph-ayodele/contracts-tracker/internal/entity"
	"github.com/joseph-ayodele/contracts-tracker/internal/ingest"
	"github.com/joseph-ayodele/contracts-tracker/internal/utils"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		file    = flag.String("file", "", "text file to analyse (default: stdin)")
		name    = flag.String("name", "", "filename hint (defaults to the base name of --file)")
		nowStr  = flag.String("now", "", "reference date YYYY-MM-DD (default: today)")
		cfgPath = flag.String("config", "", "optional YAML config file")
		format  = flag.String("format", "json", "output format: json, view or protojson")
		watch   = flag.String("watch", "", "watch a directory and analyse every new text file")
	)
	flag.Parse()

	cfg, err := common.LoadConfigFile(*cfgPath)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	switch *format {
	case "json", "view", "protojson":
	default:
		printError("Error: --format must be json, view or protojson\n")
		os.Exit(1)
	}

	logger := common.NewLogger(cfg.Log, os.Stderr)
	slog.SetDefault(logger)

	clock := time.Now
	if *nowStr != "" {
		now, err := utils.ParseYMD(*nowStr)
		if err != nil {
			printError("Error: invalid --now date format, use YYYY-MM-DD: %v\n", err)
			os.Exit(1)
		}
		clock = func() time.Time { return now }
	}
	analyzer := core.NewAnalyzer(core.WithConfig(cfg.Analysis), core.WithLogger(logger), core.WithClock(clock))
	reader := ingest.NewReader(int64(cfg.Analysis.MaxTextBytes), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *watch != "" {
		if err := watchDir(ctx, *watch, analyzer, reader, *format, logger); err != nil {
			logger.Error("watch failed", "dir", *watch, "err", err)
			os.Exit(1)
		}
		return
	}

	doc, err := readInput(reader, *file)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if *name != "" {
		doc.Filename = *name
	}

	resp := analyzer.Respond(common.WithRequestID(ctx, doc.Filename), doc)
	if err := writeResponse(os.Stdout, resp, *format, false); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if !resp.Success {
		os.Exit(2)
	}
}

func readInput(reader *ingest.Reader, path string) (entity.RawDocument, error) {
	if path != "" && path != "-" {
		return reader.ReadFile(path)
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return entity.RawDocument{}, fmt.Errorf("read stdin: %w", err)
	}
	return entity.RawDocument{Text: string(b)}, nil
}

// writeResponse prints resp; compact output yields one JSON document per line.
// Failed responses are always printed as the JSON envelope.
func writeResponse(w io.Writer, resp entity.Response, format string, compact bool) error {
	var v any = resp
	switch {
	case !resp.Success || format == "json":
	case format == "view":
		v = utils.ToView(resp.Result)
	default:
		s, err := utils.ToStruct(resp.Result)
		if err != nil {
			return err
		}
		out, err := protojson.MarshalOptions{Multiline: !compact, Indent: "  "}.Marshal(s)
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}

	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

func watchDir(ctx context.Context, dir string, analyzer *core.Analyzer, reader *ingest.Reader, format string, logger *slog.Logger) error {
	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{dir},
		InitialScan: true,
		Debounce:    500 * time.Millisecond,
	}, logger)
	if err != nil {
		return err
	}
	logger.Info("watching directory", "dir", dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("watcher error", "err", err)
		case path, ok := <-events:
			if !ok {
				return nil
			}
			doc, err := reader.ReadFile(path)
			if err != nil {
				logger.Error("failed to read file", "path", path, "err", err)
				continue
			}
			resp := analyzer.Respond(common.WithRequestID(ctx, filepath.Base(path)), doc)
			if err := writeResponse(os.Stdout, resp, format, true); err != nil {
				return err
			}
		}
	}
}
