package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/rain-forecast-service/internal/domain"
	"github.com/couchcryptid/rain-forecast-service/internal/observability"
	"github.com/couchcryptid/rain-forecast-service/internal/pipeline"
	"github.com/urfave/cli/v3"
)

var featuresFlag = &cli.BoolFlag{
	Name:  "features",
	Usage: "Include the aligned, unscaled feature vector in the output",
}

var predictCmd = &cli.Command{
	Name:      "predict",
	Usage:     "Score JSON observations (one object, a stream, or JSON lines) offline",
	ArgsUsage: "[file|-]",
	Flags:     []cli.Flag{featuresFlag},
	Action:    cmdPredict,
}

type scored struct {
	Index    int                      `json:"index" yaml:"index"`
	ID       string                   `json:"id,omitempty" yaml:"id,omitempty"`
	Result   *domain.PredictionResult `json:"result,omitempty" yaml:"result,omitempty"`
	Features []float64                `json:"features,omitempty" yaml:"features,omitempty,flow"`
	Error    string                   `json:"error,omitempty" yaml:"error,omitempty"`
}

func cmdPredict(ctx context.Context, cmd *cli.Command) error {
	in, closeIn, err := openInput(cmd.Args().First())
	if err != nil {
		return err
	}
	defer closeIn()

	b, err := loadBundle(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.Close()

	p := pipeline.NewPredictor(pipeline.ArtifactsFromBundle(b), observability.NewUnregisteredMetrics())
	out, err := scoreStream(ctx, p, in, cmd.Bool(featuresFlag.Name))
	if err != nil {
		return err
	}
	return encode(cmd, out)
}

// scoreStream scores every JSON value in r. Values that are not objects, or
// that fail to score, are reported per index rather than aborting the run.
func scoreStream(ctx context.Context, p *pipeline.Predictor, r io.Reader, withFeatures bool) ([]scored, error) {
	dec := json.NewDecoder(r)
	var out []scored
	for i := 0; ; i++ {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, fmt.Errorf("read observation %d: %w", i, err)
		}

		s := scored{Index: i}
		rec, err := domain.DecodeInputRecord(raw)
		if err != nil {
			s.Error = err.Error()
			out = append(out, s)
			continue
		}
		s.ID, _ = domain.ObservationID(rec)

		result, err := p.Predict(ctx, rec)
		if err != nil {
			s.Error = err.Error()
			out = append(out, s)
			continue
		}
		s.Result = &result
		if withFeatures {
			x, _ := p.Features(rec)
			s.Features = x
		}
		out = append(out, s)
	}
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open observations: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
