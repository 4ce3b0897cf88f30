package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/vmtransform/pkg/config"
	"github.com/getmockd/vmtransform/pkg/logging"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configFile string
	files      string
	suffix     string
	strict     bool
	logLevel   string
	logFormat  string
	jsonOutput bool
}

// NewRootCmd builds the command tree. Each call returns an independent tree,
// so tests can execute commands repeatedly.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "vmtransform",
		Short: "Render templated stub response bodies",
		Long: `vmtransform renders stub response body files ending in .vm as Velocity-style
templates, using values taken from the incoming request.

Configuration can be provided via flags, VMTRANSFORM_* environment variables,
or a YAML file passed with --config.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&g.configFile, "config", "c", "", "Path to a YAML configuration file")
	pf.StringVar(&g.files, "files", "", "Directory body file names are relative to (default \"__files\")")
	pf.StringVar(&g.suffix, "suffix", "", "Body file suffix that marks templates (default \".vm\")")
	pf.BoolVar(&g.strict, "strict", false, "Fail on undefined references")
	pf.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&g.logFormat, "log-format", "", "Log format: text, json")
	pf.BoolVar(&g.jsonOutput, "json", false, "Output command results in JSON format")

	rootCmd.AddCommand(
		newRenderCmd(g),
		newContextCmd(g),
		newCheckCmd(g),
		newVersionCmd(g),
	)
	return rootCmd
}

// Execute runs the command line with os.Args and exits on failure.
// This is called by main.main().
func Execute() {
	if code := Run(os.Args[1:], os.Stdout, os.Stderr); code != 0 {
		os.Exit(code)
	}
}

// Run executes the command line with args and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

// loadConfig layers the config file, environment, and flags, in that order.
func (g *globalFlags) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if g.configFile != "" {
		loaded, err := config.LoadFromFile(g.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("files") {
		cfg.Files = g.files
		cfg.Sources["files"] = config.SourceFlag
	}
	if flags.Changed("suffix") {
		cfg.TemplateSuffix = g.suffix
		cfg.Sources["templateSuffix"] = config.SourceFlag
	}
	if flags.Changed("strict") {
		cfg.Strict = g.strict
		cfg.Sources["strict"] = config.SourceFlag
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = g.logLevel
		cfg.Sources["log.level"] = config.SourceFlag
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = g.logFormat
		cfg.Sources["log.format"] = config.SourceFlag
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// logger writes to the command's error stream so stdout carries only results.
func logger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return logging.NewFromStrings(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
}
