package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/gatefx/internal/errors"
)

func explainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain [code]",
		Short: "Describe gatefx error codes",
		Long: `Describe an error code printed by gatefx, or list all codes.

Examples:
  gatefx explain
  gatefx explain G201`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				listCodes(cmd.OutOrStdout())
				return nil
			}
			return explainCode(cmd.OutOrStdout(), args[0])
		},
	}
}

func listCodes(w io.Writer) {
	fmt.Fprintln(w)
	for _, code := range errors.GetAllCodes() {
		tmpl, _ := errors.GetTemplate(code)
		fmt.Fprintf(w, "  %s  %-9s %s\n", code, tmpl.Category, tmpl.Message)
	}
	fmt.Fprintln(w)
}

func explainCode(w io.Writer, code string) error {
	code = strings.ToUpper(code)
	tmpl, ok := errors.GetTemplate(code)
	if !ok {
		return fmt.Errorf("unknown error code %q; run 'gatefx explain' for the list", code)
	}

	fmt.Fprintf(w, "\n  %s: %s (%s)\n\n", code, tmpl.Message, tmpl.Category)
	if tmpl.Detail != "" {
		fmt.Fprintf(w, "  %s\n\n", tmpl.Detail)
	}
	return nil
}
