package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/couchcryptid/rain-forecast-service/internal/domain"
	"github.com/urfave/cli/v3"
)

var (
	limitFlag = &cli.IntFlag{
		Name:  "limit",
		Usage: "Stop after this many rows (0 for all)",
	}

	dropFlag = &cli.StringSliceFlag{
		Name:  "drop",
		Usage: "Columns to leave out of the fixtures",
		Value: []string{"RainTomorrow"},
	}
)

var genmockCmd = &cli.Command{
	Name:      "genmock",
	Usage:     "Convert weather CSV rows into /predict request bodies, one JSON object per line",
	ArgsUsage: "[file|-]",
	Flags:     []cli.Flag{limitFlag, dropFlag},
	Action:    cmdGenmock,
}

func cmdGenmock(_ context.Context, cmd *cli.Command) error {
	in, closeIn, err := openInput(cmd.Args().First())
	if err != nil {
		return err
	}
	defer closeIn()

	n, err := convertCSV(in, cmd.Root().Writer, cmd.StringSlice(dropFlag.Name), cmd.Int(limitFlag.Name))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Root().ErrWriter, "%d fixtures written\n", n)
	return nil
}

// convertCSV writes one observation per CSV row. Empty and NA cells are left
// out so the service sees them as absent; numeric cells become numbers.
func convertCSV(r io.Reader, w io.Writer, drop []string, limit int) (int, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return 0, fmt.Errorf("read csv header: %w", err)
	}
	skip := make(map[string]bool, len(drop))
	for _, d := range drop {
		skip[d] = true
	}

	enc := json.NewEncoder(w)
	n := 0
	for limit <= 0 || n < limit {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return n, fmt.Errorf("read csv row %d: %w", n+1, err)
		}

		rec := make(domain.InputRecord, len(row))
		for i, cell := range row {
			if i >= len(header) || skip[header[i]] {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell == "" || cell == "NA" {
				continue
			}
			if f, err := strconv.ParseFloat(cell, 64); err == nil {
				rec[header[i]] = domain.Number(f)
			} else {
				rec[header[i]] = domain.String(cell)
			}
		}
		if err := enc.Encode(rec); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
