package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/prefigure/openapi-mock-build/src/config"
	"github.com/prefigure/openapi-mock-build/src/engine"
	"github.com/prefigure/openapi-mock-build/src/gitver"
	"github.com/prefigure/openapi-mock-build/src/output"
	"github.com/prefigure/openapi-mock-build/src/pipeline"
	"github.com/prefigure/openapi-mock-build/src/security"
	"github.com/prefigure/openapi-mock-build/src/spec"
	"github.com/prefigure/openapi-mock-build/src/version"
)

// minEngineVersion is the oldest docker server this tool is exercised
// against (BuildKit on by default).
const minEngineVersion = ">= 23.0.0"

var (
	cfgFile     string
	imageFlag   string
	registry    string
	noPush      bool
	port        int
	verbose     bool
	skipSecrets bool
)

var rootCmd = &cobra.Command{
	Use:   "openapi-mock-build <spec-file>",
	Short: "Validate an OpenAPI spec and build a mock-server container image",
	Long: `openapi-mock-build validates an OpenAPI specification, builds a
container image serving a mock API from it, and optionally pushes the
image to a container registry.`,
	Args:          cobra.ExactArgs(1),
	RunE:          runPipeline,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = version.String()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.Flags().StringVarP(&imageFlag, "image", "i", "", "container image name (e.g. my-api:latest)")
	rootCmd.Flags().StringVarP(&registry, "registry", "r", "", "container registry host[:port], no path")
	rootCmd.Flags().BoolVar(&noPush, "no-push", false, "build the image but do not push it")
	rootCmd.Flags().IntVarP(&port, "port", "p", config.DefaultPort, "mock server listen port")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "include raw engine output in errors")
	rootCmd.Flags().BoolVar(&skipSecrets, "skip-secrets", false, "skip the pre-build secret scan of the spec file")
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default: .openapi-mock-build.yml)")

	_ = rootCmd.MarkFlagRequired("image")
}

// exitError carries a process exit code through cobra's error return.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit code %d", e.code) }

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Flags override config file defaults.
	if !cmd.Flags().Changed("registry") {
		registry = cfg.Registry
	}
	if !cmd.Flags().Changed("port") {
		port = cfg.Port
	}
	push := cfg.Push && !noPush
	if !cmd.Flags().Changed("skip-secrets") {
		skipSecrets = cfg.SkipSecrets
	}

	// Whole-process cancellation: an interrupt aborts the engine call
	// in flight and the pipeline reports the step it interrupted.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printer := output.NewPrinter()
	orch := &pipeline.Orchestrator{
		Validator:        pipeline.SpecValidatorFunc(spec.Validate),
		Engine:           engine.NewDocker(verbose),
		Printer:          printer,
		MinEngineVersion: minEngineVersion,
	}
	if !skipSecrets {
		scanner, err := security.NewScanner()
		if err != nil {
			return fmt.Errorf("initializing secret scanner: %w", err)
		}
		orch.Scanner = scanner
	}

	res := orch.Run(ctx, pipeline.Options{
		SpecFile: args[0],
		Image:    imageFlag,
		Registry: registry,
		Push:     push,
		Port:     port,
		Verbose:  verbose,
		Labels:   gitver.Detect(".").Labels(),
	})

	msg, code := pipeline.Report(res, verbose)
	printer.Blank()
	fmt.Fprintln(printer.Writer, msg)
	if code == pipeline.ExitOK {
		return nil
	}
	return &exitError{code: code}
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			return exit.code
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
