// Command rainctl inspects fitted artifact bundles, scores observations
// offline, and converts weather CSV extracts into request fixtures.
//
// Usage:
//
//	rainctl --artifacts models validate
//	rainctl --artifacts models --format yaml predict observations.jsonl
//	rainctl genmock --limit 50 weatherAUS.csv > testdata/observations.jsonl
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/rain-forecast-service/internal/adapter/onnx"
	"github.com/couchcryptid/rain-forecast-service/internal/artifact"
	"github.com/couchcryptid/rain-forecast-service/internal/config"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	version = "v0.0.1-default"
	commit  = ""

	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}

	artifactsFlag = &cli.StringFlag{
		Name:    "artifacts",
		Usage:   "Directory holding scaler.json, imputer.json, and the classifier",
		Value:   "models",
		Sources: cli.EnvVars("ARTIFACT_DIR"),
	}

	classifierFlag = &cli.StringFlag{
		Name:    "classifier",
		Usage:   "Classifier artifact format [json, onnx]",
		Value:   config.ClassifierJSON,
		Sources: cli.EnvVars("CLASSIFIER_FORMAT"),
	}

	onnxLibFlag = &cli.StringFlag{
		Name:    "onnxruntime-lib",
		Usage:   "Path to the ONNX Runtime shared library (onnx classifier only)",
		Sources: cli.EnvVars("ONNXRUNTIME_LIB"),
	}

	formatFlag = &cli.StringFlag{
		Name:  "format",
		Usage: "Output format [json, yaml]",
		Value: formatJSON,
	}
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:            "rainctl",
		Version:         fmt.Sprintf("%s (commit: %s)", version, commit),
		Usage:           "Operator CLI for the rain forecast service",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			debugFlag,
			artifactsFlag,
			classifierFlag,
			onnxLibFlag,
			formatFlag,
		},
		Commands: []*cli.Command{
			validateCmd,
			predictCmd,
			genmockCmd,
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level := slog.LevelWarn
			if cmd.Bool(debugFlag.Name) {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.Root().ErrWriter, &slog.HandlerOptions{Level: level})))

			switch f := cmd.String(formatFlag.Name); f {
			case formatJSON, formatYAML, "yml":
			default:
				return ctx, fmt.Errorf("unsupported format %q", f)
			}
			return ctx, nil
		},
	}
}

// loadBundle loads the artifacts named by the global flags.
func loadBundle(ctx context.Context, cmd *cli.Command) (*artifact.Bundle, error) {
	var opts artifact.Options
	switch f := cmd.String(classifierFlag.Name); f {
	case config.ClassifierJSON:
	case config.ClassifierONNX:
		lib := cmd.String(onnxLibFlag.Name)
		if lib == "" {
			return nil, fmt.Errorf("--%s is required for the onnx classifier", onnxLibFlag.Name)
		}
		opts = artifact.Options{
			ClassifierFile:   artifact.ONNXClassifierFile,
			DecodeClassifier: onnx.NewDecoder(lib),
		}
	default:
		return nil, fmt.Errorf("unsupported classifier format %q", f)
	}
	return artifact.LoadBundle(ctx, artifact.DirSource{Dir: cmd.String(artifactsFlag.Name)}, opts)
}

func encode(cmd *cli.Command, v any) error {
	return encodeTo(cmd.Root().Writer, cmd.String(formatFlag.Name), v)
}

func encodeTo(w io.Writer, format string, v any) error {
	if format == formatYAML || format == "yml" {
		e := yaml.NewEncoder(w)
		defer e.Close()
		return e.Encode(v)
	}
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
