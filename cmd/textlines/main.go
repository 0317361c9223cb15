package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"github.com/yasamoka/scantailor-universal/internal/dewarp"
	"github.com/yasamoka/scantailor-universal/internal/imgproc"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// result is the JSON document written for downstream tooling.
type result struct {
	Lines      []dewarp.Polyline `json:"lines"`
	LeftBound  *dewarp.Line      `json:"left_bound,omitempty"`
	RightBound *dewarp.Line      `json:"right_bound,omitempty"`
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("textlines %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		}
	}

	var (
		outPath    = flag.String("out", "", "write detected lines as JSON to this file (default stdout)")
		overlay    = flag.String("overlay", "", "write an annotated overlay PNG to this file")
		debugDir   = flag.String("debug-dir", "", "dump per-stage debug PNGs into this directory")
		accelName  = flag.String("accel", "parallel", "execution backend: reference or parallel")
		maxWorking = flag.Int("max-working-size", 0, "override the working-image size cap")
	)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	log := newLogger()

	backend, err := backendByName(*accelName)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid -accel")
	}

	params := dewarp.DefaultParams()
	params.Log = log
	if *maxWorking > 0 {
		params.MaxWorkingSize = *maxWorking
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, flag.Arg(0), *outPath, *overlay, *debugDir, backend, params, log); err != nil {
		log.Fatal().Err(err).Msg("textlines failed")
	}
}

func run(ctx context.Context, inPath, outPath, overlayPath, debugDir string, backend dewarp.Backend, params *dewarp.Params, log zerolog.Logger) error {
	img, err := imaging.Open(inPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", inPath, err)
	}

	var dbg *dewarp.DebugImages
	if debugDir != "" {
		if err := os.MkdirAll(debugDir, 0o755); err != nil {
			return fmt.Errorf("create debug dir: %w", err)
		}
		dbg = dewarp.NewDebugImages(debugDir)
	}

	builder := &dewarp.RecordingModelBuilder{}
	lines, err := dewarp.Process(ctx, dewarp.FullCrop(img), builder, backend, params, dbg)
	if err != nil {
		return fmt.Errorf("segmentation: %w", err)
	}
	log.Info().Int("lines", len(lines)).Msg("text lines detected")

	res := result{Lines: lines}
	if builder.HasBounds {
		res.LeftBound = &builder.LeftBound
		res.RightBound = &builder.RightBound
	}
	if err := writeJSON(outPath, res); err != nil {
		return err
	}

	if overlayPath != "" {
		annotated := dewarp.RenderLines(imgproc.FromImage(img), lines)
		if err := imaging.Save(annotated, overlayPath); err != nil {
			return fmt.Errorf("write overlay: %w", err)
		}
	}
	return nil
}

func writeJSON(path string, res result) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

func backendByName(name string) (dewarp.Backend, error) {
	switch name {
	case "reference":
		return dewarp.ReferenceBackend{}, nil
	case "parallel":
		return dewarp.ParallelBackend{}, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(os.Getenv("TEXTLINES_LOG_LEVEL")); err == nil && parsed != zerolog.NoLevel {
		level = parsed
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func usage() {
	fmt.Fprintln(os.Stderr, "textlines - detect curved text-line centerlines on scanned pages")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage: textlines [options] <scan.png>")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Options:")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Environment variables:")
	fmt.Fprintln(os.Stderr, "  TEXTLINES_LOG_LEVEL=debug    Enable per-stage debug logging")
}
