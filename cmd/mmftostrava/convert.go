package main

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/kevinnayar/mmftostrava/pkg/domain/activity"
	csvparser "github.com/kevinnayar/mmftostrava/pkg/domain/csv_parser"
)

type convertOptions struct {
	In        string
	Out       string
	Delimiter string
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(root *RootOptions) *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a MapMyFitness CSV export into a Strava records file",
		Long:  "Reads the workout export, keeps runs, and writes them as a JSON array of activity records with fresh ids.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConvert(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.In, "in", "i", "", "input CSV (local path or gs://bucket/object; default from config)")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output JSON (local path or gs://bucket/object; default from config)")
	cmd.Flags().StringVar(&opts.Delimiter, "delimiter", ",", "single-character field delimiter")

	return cmd
}

func runConvert(cmd *cobra.Command, root *RootOptions, opts *convertOptions) error {
	if utf8.RuneCountInString(opts.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", opts.Delimiter)
	}
	delimiter, _ := utf8.DecodeRuneInString(opts.Delimiter)

	ctx := cmd.Context()
	svc, err := loadService(ctx, cmd, root, false, opts.In, opts.Out)
	if err != nil {
		return err
	}
	defer svc.Close()

	in := svc.Config.InputPath()
	if opts.In != "" {
		in = opts.In
	}
	out := svc.Config.OutputPath()
	if opts.Out != "" {
		out = opts.Out
	}

	raw, err := svc.Files.Read(ctx, in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	records, err := csvparser.NewNormalizer(delimiter).Normalize(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("normalize %s: %w", in, err)
	}

	data, err := activity.MarshalRecords(records)
	if err != nil {
		return err
	}
	if err := svc.Files.Write(ctx, out, data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	svc.Logger.Info("Converted export", "input", in, "output", out, "records", len(records))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d records to %s\n", len(records), out)
	return nil
}
