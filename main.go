package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/strager/jaic/compiler"
	"github.com/strager/jaic/config"
	"github.com/strager/jaic/logger"
)

var version = "dev"

// app carries the state shared by every subcommand of one invocation.
type app struct {
	cfgFile string
	verbose bool

	cfg       *config.Config
	logCloser io.Closer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "jaic",
		Short: "jaic - compiles jai-like source to fasm assembly",
		Long: `jaic compiles a small procedural language to fasm macro assembly
for the runtime in runtime/core.asm, then runs the assembler on it.

Configuration is read from --config, or from $JAIC_CONFIG when set.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logCloser != nil {
				a.logCloser.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (.toml, .yaml or .yml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log every compilation phase")

	rootCmd.AddCommand(
		a.buildCmd(),
		a.checkCmd(),
		a.tokensCmd(),
		a.astCmd(),
		a.tacCmd(),
		versionCmd(),
	)
	return rootCmd
}

// setup loads the configuration and installs the logger before any
// subcommand runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	path := a.cfgFile
	if path == "" {
		path = os.Getenv("JAIC_CONFIG")
	}

	if path == "" {
		a.cfg = config.Default()
	} else {
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	lc := a.cfg.LoggerConfig(a.verbose)
	lc.Output = cmd.ErrOrStderr()
	closer, err := logger.Init(lc)
	if err != nil {
		return err
	}
	a.logCloser = closer
	logger.Debug("Configuration loaded", "path", path, "lowering", a.cfg.Codegen.Lowering)
	return nil
}

// unit creates a compilation unit for file whose diagnostics go to the
// command's output.
func (a *app) unit(cmd *cobra.Command, file string) *compiler.Unit {
	return compiler.New(a.cfg, compiler.WithName(file), compiler.WithDiagnostics(cmd.OutOrStdout()))
}

func readSource(file string) (string, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", file, err)
	}
	return string(data), nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
