package main

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

// buildInfo is the version information reported by the version command.
type buildInfo struct {
	Version   string
	Commit    string
	Date      string
	Module    string
	GoVersion string
	Deps      []*debug.Module
}

// readBuildInfo merges the linker-set variables with the binary's embedded
// build info. A `go install` build has no -ldflags, so its module version
// and VCS revision come from the build info instead.
func readBuildInfo() buildInfo {
	info := buildInfo{
		Version:   version,
		Commit:    commit,
		Date:      date,
		Module:    "github.com/vango-dev/gatefx",
		GoVersion: runtime.Version(),
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	if bi.Main.Path != "" {
		info.Module = bi.Main.Path
	}
	if bi.GoVersion != "" {
		info.GoVersion = bi.GoVersion
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "none" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "unknown" {
				info.Date = s.Value
			}
		}
	}
	info.Deps = bi.Deps

	return info
}

func versionCmd() *cobra.Command {
	var short, deps bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print version, commit, and build information for the gatefx CLI.

With --deps, also list the module versions the binary was built with
(Prometheus, OpenTelemetry, AWS SDK, ...).`,
		Run: func(cmd *cobra.Command, args []string) {
			info := readBuildInfo()
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), info.Version)
				return
			}

			printBanner()
			writeVersion(cmd.OutOrStdout(), info, deps)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")
	cmd.Flags().BoolVar(&deps, "deps", false, "List dependency module versions")

	return cmd
}

func writeVersion(w io.Writer, info buildInfo, deps bool) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Version:    %s\n", info.Version)
	fmt.Fprintf(w, "  Module:     %s\n", info.Module)
	fmt.Fprintf(w, "  Commit:     %s\n", info.Commit)
	fmt.Fprintf(w, "  Built:      %s\n", info.Date)
	fmt.Fprintf(w, "  Go version: %s\n", info.GoVersion)
	fmt.Fprintf(w, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)

	if deps && len(info.Deps) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  Dependencies:")
		for _, d := range info.Deps {
			v := d.Version
			if d.Replace != nil {
				v += " => " + strings.TrimSpace(d.Replace.Path+" "+d.Replace.Version)
			}
			fmt.Fprintf(w, "    %-50s %s\n", d.Path, v)
		}
	}
	fmt.Fprintln(w)
}
