package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"purchasepredict/ml"
	"purchasepredict/pipeline"
)

func newFeaturesCommand() *cobra.Command {
	var (
		input          string
		imputeAfterAbs bool
	)
	cmd := &cobra.Command{
		Use:   "features",
		Short: "Transform a CSV of raw records into model features",
		Long: `Reads raw records as CSV (header row required) from --input or stdin and
writes one feature row per record to stdout. Missing day counts are imputed
from the whole file, so the file is one batch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var in io.Reader = cmd.InOrStdin()
			if input != "" && input != "-" {
				file, err := os.Open(input)
				if err != nil {
					return err
				}
				defer file.Close()
				in = file
			}
			return runFeatures(in, cmd.OutOrStdout(), ml.Transformer{ImputeAfterAbs: imputeAfterAbs})
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "CSV file to read (default stdin)")
	cmd.Flags().BoolVar(&imputeAfterAbs, "impute-after-abs", false, "impute missing day counts from absolute values")
	return cmd
}

func runFeatures(in io.Reader, out io.Writer, transformer ml.Transformer) error {
	records, err := pipeline.ReadRecords(in)
	if err != nil {
		return err
	}
	if err := pipeline.CheckRecords(records, pipeline.DefaultRules()); err != nil {
		return err
	}
	rows, err := transformer.Transform(records)
	if err != nil {
		return err
	}
	return pipeline.WriteFeatures(out, rows)
}
