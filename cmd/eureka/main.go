// Command eureka runs the discovery engine against a bootstrap file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ezachrisen/eureka"
	"github.com/ezachrisen/eureka/bootstrap"
	"github.com/ezachrisen/eureka/heuristics"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "eureka",
		Short:         "Agenda-driven discovery engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(runCmd())
	return root
}

func runCmd() *cobra.Command {
	var (
		bootstrapPath string
		maxTasks      int
		verbose       bool
		skipBuiltins  bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load a bootstrap file and process the agenda",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := zap.NewNop()
			if verbose {
				var err error
				if log, err = zap.NewDevelopment(); err != nil {
					return err
				}
				defer log.Sync()
			}

			engine := eureka.NewEngine(
				eureka.WithLogger(log),
				eureka.WithObserver(eureka.LoggingObserver{Log: log}),
			)

			if !skipBuiltins {
				if err := heuristics.RegisterAll(engine); err != nil {
					return fmt.Errorf("registering built-in heuristics: %w", err)
				}
			}

			caps := bootstrap.NewRegistry()
			for name, fn := range heuristics.Capabilities() {
				if err := caps.Register(name, fn); err != nil {
					return err
				}
			}
			loader, err := bootstrap.NewLoader(caps)
			if err != nil {
				return err
			}
			if err := loader.LoadFile(bootstrapPath, engine); err != nil {
				return err
			}

			res, err := engine.Run(cmd.Context(), maxTasks)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), res)
			fmt.Fprintln(cmd.OutOrStdout(), engine.SummarizeTasks())
			fmt.Fprintln(cmd.OutOrStdout(), engine.SummarizeHeuristics())
			return nil
		},
	}

	cmd.Flags().StringVarP(&bootstrapPath, "bootstrap", "b", "", "bootstrap YAML file (required)")
	cmd.Flags().IntVar(&maxTasks, "max-tasks", 0, "stop after this many tasks (0 = until the agenda is empty)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every phase transition")
	cmd.Flags().BoolVar(&skipBuiltins, "no-builtins", false, "do not register the built-in heuristics")
	cobra.CheckErr(cmd.MarkFlagRequired("bootstrap"))
	return cmd
}
