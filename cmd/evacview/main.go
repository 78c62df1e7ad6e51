package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	envFile    string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	rootCmd := &cobra.Command{
		Use:          "evacview",
		Short:        "Inspect buildings and evacuation results and serve floor-plan frames",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file with EVACVIEW_* variables")

	rootCmd.AddCommand(inspectCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(frameCmd(opts))
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(serveCmd(opts))
	return rootCmd
}

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [bim-file]",
		Short: "Print levels, elements and room areas of a building",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.OutOrStdout(), args[0])
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [bim-file] [series-file]",
		Short: "Validate a building and, optionally, a simulation result",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			seriesPath := ""
			if len(args) == 2 {
				seriesPath = args[1]
			}
			return runValidate(cmd.OutOrStdout(), args[0], seriesPath)
		},
	}
}

func frameCmd(opts *globalOptions) *cobra.Command {
	var (
		level int
		at    float64
	)
	cmd := &cobra.Command{
		Use:   "frame [bim-file] [series-file]",
		Short: "Assemble one floor-plan frame and print it as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			return runFrame(cmd.OutOrStdout(), cfg, args[0], args[1], level, at)
		},
	}
	cmd.Flags().IntVarP(&level, "level", "l", 0, "level index")
	cmd.Flags().Float64VarP(&at, "time", "t", 0, "simulated time in seconds")
	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [series-file]",
		Short: "Print inside and evacuated counts for every step of a simulation result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd.OutOrStdout(), args[0])
		},
	}
}

func serveCmd(opts *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [bim-file] [series-file]",
		Short: "Serve frames of a building and its simulation result over HTTP",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			return runServe(cmd.Context(), cfg, args[0], args[1])
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides config)")
	return cmd
}
