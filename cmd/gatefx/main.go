package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/gatefx/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┌─┐┌┬┐┌─┐┌─┐─┐ ┬
  │ ┬├─┤ │ ├┤ ├┤ ┌┴┬┘
  └─┘┴ ┴ ┴ └─┘└  ┴ └─
`

func main() {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "gatefx",
		Short: "Replay and inspect comparator-gated effects",
		Long: `gatefx replays render-cycle scenarios through UseCustomCompareEffect
and reports, cycle by cycle, whether the effect ran.

Scenarios are YAML or JSON files, local or in S3:

  name: tag-filter
  comparator: unordered
  cycles:
    - deps: [[a, b], 10]
    - deps: [[b, a], 10]`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configDir, "config", "c", ".", "Directory containing gatefx.json")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable hook order validation and usage warnings")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from gatefx.json)")
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		replayCmd(&flags),
		serveCmd(&flags),
		explainCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// printError prints coded errors in full and anything else on one line.
func printError(err error) {
	var ge *errors.GateError
	if stderrors.As(err, &ge) {
		errors.Fprint(os.Stderr, ge)
		return
	}
	fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
}

// printBanner prints the gatefx banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
