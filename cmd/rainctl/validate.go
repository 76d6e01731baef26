package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/couchcryptid/rain-forecast-service/internal/domain"
	"github.com/urfave/cli/v3"
)

var strictFlag = &cli.BoolFlag{
	Name:  "strict",
	Usage: "Fail when the bundle loads but has problems",
}

var validateCmd = &cli.Command{
	Name:   "validate",
	Usage:  "Load an artifact bundle and report its feature layout",
	Flags:  []cli.Flag{strictFlag},
	Action: cmdValidate,
}

type bundleReport struct {
	Columns        int            `json:"columns" yaml:"columns"`
	NumericColumns []string       `json:"numeric_columns" yaml:"numeric_columns"`
	EncodedFields  map[string]int `json:"encoded_fields" yaml:"encoded_fields"`
	ImputerColumns []string       `json:"imputer_columns" yaml:"imputer_columns"`
	Probability    bool           `json:"probability" yaml:"probability"`
	Problems       []string       `json:"problems,omitempty" yaml:"problems,omitempty"`
}

func cmdValidate(ctx context.Context, cmd *cli.Command) error {
	b, err := loadBundle(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.Close()

	report := bundleReport{
		Columns:        b.Manifest.Width(),
		EncodedFields:  make(map[string]int),
		ImputerColumns: b.Imputer.Columns(),
		Problems:       b.Problems(),
	}
	_, report.Probability = b.Classifier.(domain.ProbabilityEstimator)

	indicator := make(map[string]bool)
	for _, f := range b.Encoding.Fields() {
		cats := b.Encoding.Categories(f)
		report.EncodedFields[f] = len(cats)
		for _, c := range cats {
			indicator[f+"_"+c] = true
		}
	}
	for _, col := range b.Manifest {
		if !indicator[col] {
			report.NumericColumns = append(report.NumericColumns, col)
		}
	}

	if err := encode(cmd, report); err != nil {
		return err
	}
	if cmd.Bool(strictFlag.Name) && len(report.Problems) > 0 {
		return fmt.Errorf("bundle has %d problem(s): %s", len(report.Problems), strings.Join(report.Problems, "; "))
	}
	return nil
}
