package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"kubegems.io/servingconf/pkg/errors"
	"kubegems.io/servingconf/pkg/generator"
	"kubegems.io/servingconf/pkg/units"
	"kubegems.io/servingconf/pkg/version"
	"sigs.k8s.io/yaml"
)

const (
	OutputTable = "table"
	OutputYAML  = "yaml"
	OutputJSON  = "json"
)

func NewListCmd(configFile *string) *cobra.Command {
	options := generator.DefaultOptions()
	output := OutputTable
	cmd := &cobra.Command{
		Use:   "list [bucket-url]",
		Short: "list the models found in a bucket",
		Example: `
  servingconf list s3://bucket/models
  servingconf list gs://bucket --model-prefix serving -o yaml
  servingconf list minio://bucket/models --minio-endpoint localhost:9000
		`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := options.Load(viper.New(), cmd.Flags(), *configFile); err != nil {
				return err
			}
			if len(args) > 0 {
				options.StorageBucket = args[0]
			}
			ctx, cancel := BaseContext(options.Debug)
			defer cancel()

			report, err := generator.ListModels(ctx, options)
			if err != nil {
				return err
			}
			return PrintReport(cmd.OutOrStdout(), report, output)
		},
	}
	options.AddStorageFlags(cmd.Flags())
	cmd.Flags().StringVarP(&output, "output", "o", output, "output format: table, yaml or json")
	return cmd
}

func PrintReport(w io.Writer, report *generator.ModelReport, output string) error {
	switch output {
	case OutputTable:
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetTitle(report.Location)
		t.AppendHeader(table.Row{"Name", "Base Path", "Objects", "Size", "Last Modified"})
		for _, model := range report.Models {
			t.AppendRow(table.Row{
				model.Name,
				model.BasePath,
				model.Objects,
				units.HumanSize(model.Size),
				model.LastModified.Format("2006-01-02 15:04:05"),
			})
		}
		t.Render()
		return nil
	case OutputYAML:
		content, err := yaml.Marshal(report)
		if err != nil {
			return err
		}
		_, err = w.Write(content)
		return err
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	default:
		return errors.NewParameterInvalidError(fmt.Sprintf("unknown output format %q", output))
	}
}

