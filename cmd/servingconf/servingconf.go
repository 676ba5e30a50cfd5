package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"kubegems.io/servingconf/pkg/generator"
	"kubegems.io/servingconf/pkg/version"
)

const ErrExitCode = 1

func main() {
	if err := NewServingConfCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(ErrExitCode)
	}
}

func NewServingConfCmd() *cobra.Command {
	options := generator.DefaultOptions()
	configFile := ""
	cmd := &cobra.Command{
		Use:   "servingconf",
		Short: "generate tensorflow serving config files from a model bucket",
		Example: `
  servingconf --storage-bucket s3://bucket/models --file-path /config/models.conf
  servingconf --storage-bucket gs://bucket --model-prefix models --enable-batching --max-batch-size 32
  CLOUD_PROVIDER=aws AWS_S3_BUCKET=bucket servingconf --monitoring-file-path /config/monitoring.conf
		`,
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := options.Load(viper.New(), cmd.Flags(), configFile); err != nil {
				return err
			}
			ctx, cancel := BaseContext(options.Debug)
			defer cancel()
			return generator.Run(ctx, options)
		},
	}
	cmd.PersistentFlags().StringVar(&configFile, "config", configFile, "config file, flags and environment take precedence")
	options.AddFlags(cmd.Flags())
	cmd.AddCommand(NewListCmd(&configFile))
	return cmd
}

func BaseContext(debug bool) (context.Context, context.CancelFunc) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if debug {
		stdr.SetVerbosity(1)
	}
	return logr.NewContext(ctx, stdr.NewWithOptions(log.Default(), stdr.Options{LogCaller: stdr.Error})), cancel
}
