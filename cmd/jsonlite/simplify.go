package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/halhen/jsonlite/pkg/columnar"
	"github.com/halhen/jsonlite/pkg/compression"
	"github.com/halhen/jsonlite/pkg/config"
	"github.com/halhen/jsonlite/pkg/errors"
	formats "github.com/halhen/jsonlite/pkg/formats/columnar"
	"github.com/halhen/jsonlite/pkg/json"
	"github.com/halhen/jsonlite/pkg/logger"
	"github.com/halhen/jsonlite/pkg/mmap"
	"github.com/halhen/jsonlite/pkg/models"
	"github.com/halhen/jsonlite/pkg/observability"
)

func newSimplifyCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "simplify [file]",
		Short: "Convert a list of JSON records into a typed table",
		Long: `Read a JSON document from file (or stdin when file is absent or "-"),
infer one typed column per field and write the table.

Compressed input is detected from the file suffix (.gz, .zst, .lz4, .sz, .s2).

Example:
  jsonlite simplify events.json --format parquet --compress zstd -o events.parquet`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := "-"
			if len(args) == 1 {
				input = args[0]
			}
			return a.runSimplify(cmd, input, output)
		},
	}

	flags := cmd.Flags()
	flags.StringP("format", "f", "json", "Output format (json, arrow, parquet, avro)")
	flags.StringP("compress", "c", "none", "Compression (none, gzip, snappy, lz4, zstd, s2)")
	flags.String("orient", "columns", "JSON layout (columns, rows)")
	flags.Bool("pretty", false, "Indent JSON output")
	flags.StringVarP(&output, "output", "o", "-", "Output file, stdout when \"-\"")

	return cmd
}

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema [file]",
		Short: "Print the inferred column schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := "-"
			if len(args) == 1 {
				input = args[0]
			}
			ctx := context.WithValue(a.ctx, logger.InputKey, input)
			log := logger.FromContext(ctx, a.log)

			v, err := a.decode(ctx, cmd, input)
			if err != nil {
				return err
			}

			reg, ok := a.simplifier(log).Infer(v)
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "not simplifiable")
				return nil
			}
			data, err := reg.Export()
			if err != nil {
				return errors.Wrap(err, errors.ErrorTypeInternal, "failed to export schema")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

func (a *app) runSimplify(cmd *cobra.Command, input, output string) error {
	out := a.cfg.Output
	ctx := context.WithValue(a.ctx, logger.InputKey, input)
	ctx = context.WithValue(ctx, logger.FormatKey, out.Format)
	log := logger.FromContext(ctx, a.log)

	format, err := formats.ParseFormat(out.Format)
	if err != nil {
		return err
	}

	v, err := a.decode(ctx, cmd, input)
	if err != nil {
		return err
	}

	var (
		t        *columnar.Table
		feasible bool
	)
	_ = observability.Trace(ctx, "simplify", func(ctx context.Context, span *observability.Span) error {
		t, feasible = a.simplifier(log).Table(v)
		span.SetAttribute("feasible", feasible)
		if feasible {
			span.SetAttribute("rows", t.NumRows())
			span.SetAttribute("columns", t.NumCols())
		}
		return nil
	})

	if !feasible && format != formats.JSON {
		return errors.New(errors.ErrorTypeData, "input is not a list of records").
			WithDetail("format", string(format))
	}

	w, closeOutput, err := openOutput(cmd, output)
	if err != nil {
		return err
	}

	err = observability.Trace(ctx, "write", func(ctx context.Context, span *observability.Span) error {
		span.SetAttribute("format", string(format))
		span.SetAttribute("compression", out.Compression)

		if !feasible {
			log.Warn("input is not a list of records, writing it unchanged")
			return echo(w, v, out)
		}

		writer, err := formats.NewWriter(w, &formats.WriterConfig{
			Format:      format,
			Compression: out.Compression,
			Pretty:      out.Pretty,
			Orientation: json.Orientation(out.Orientation),
			BatchSize:   formats.DefaultWriterConfig().BatchSize,
		})
		if err != nil {
			return err
		}
		if err := writer.Write(t); err != nil {
			_ = writer.Close()
			return err
		}
		if err := writer.Close(); err != nil {
			return err
		}
		log.Info("table written",
			zap.Int64("rows", writer.RowsWritten()),
			zap.Int("columns", t.NumCols()),
			zap.Duration("elapsed", span.Duration()))
		return nil
	})
	if cerr := closeOutput(); err == nil {
		err = cerr
	}
	return err
}

// echo writes a value that could not be simplified back as JSON.
func echo(w io.Writer, v models.Value, out config.OutputConfig) error {
	algo, err := compression.Parse(out.Compression)
	if err != nil {
		return err
	}
	cw, err := compression.NewWriter(w, &compression.Config{Algorithm: algo, Level: compression.Default})
	if err != nil {
		return err
	}
	if err := json.Encode(cw, v, out.JSONOptions()); err != nil {
		_ = cw.Close()
		return err
	}
	return cw.Close()
}

// decode reads and parses one JSON document.
func (a *app) decode(ctx context.Context, cmd *cobra.Command, input string) (models.Value, error) {
	var v models.Value
	err := observability.Trace(ctx, "decode", func(ctx context.Context, span *observability.Span) error {
		span.SetAttribute("input", input)

		r, closeInput, err := openInput(cmd, input)
		if err != nil {
			return err
		}
		defer closeInput()

		v, err = json.Decode(r)
		return err
	})
	return v, err
}

func openInput(cmd *cobra.Command, input string) (io.Reader, func(), error) {
	if input == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	algo := compression.Detect(input)
	if algo == compression.None {
		m, err := mmap.Open(input)
		if err != nil {
			return nil, nil, err
		}
		return m.NewReader(), func() { _ = m.Close() }, nil
	}

	f, err := os.Open(input) //nolint:gosec // G304: path comes from the command line
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open input").
			WithDetail("path", input)
	}
	r, err := compression.NewReader(f, algo)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return r, func() {
		_ = r.Close()
		_ = f.Close()
	}, nil
}

func openOutput(cmd *cobra.Command, output string) (io.Writer, func() error, error) {
	if output == "" || output == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(output) //nolint:gosec // G304: path comes from the command line
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to create output").
			WithDetail("path", output)
	}
	return f, func() error {
		if err := f.Close(); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to close output").
				WithDetail("path", output)
		}
		return nil
	}, nil
}
