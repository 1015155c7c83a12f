// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pdf2email/internal/config"
	"pdf2email/internal/core"
	"pdf2email/internal/paths"
	"pdf2email/internal/version"
)

// rootFlags holds the raw command line values before they are merged with
// the configuration file.
type rootFlags struct {
	configFile         string
	password           string
	maxPages           int
	noCheckExtractable bool
	noCaching          bool
	normalize          string
	debug              bool
	noColor            bool
}

// NewRootCmd creates the root command for pdf2email.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "pdf2email [flags] [path]",
		Short: "Print the email addresses found in PDF documents",
		Long: `pdf2email extracts the text of a PDF file, or of every file below a
directory, and prints each email address it finds on its own line.

An address is printed only the first time it is seen during a run. Files
that cannot be decoded as PDF are skipped silently; I/O errors stop the run.

Examples:
  # Scan one document
  pdf2email report.pdf

  # Scan a directory tree
  pdf2email ./invoices

  # Only look at the first two pages of each document
  pdf2email --max-pages 2 ./invoices

Configuration is read from pdf2email.yaml, pdf2email.yml, pdf2email.toml or
.pdf2email.yaml in the current directory, then from config.yaml, config.yml
or config.toml in the user configuration directory ($PDF2EMAIL_CONFIG_DIR
overrides it). Command line flags win over the configuration file.`,
		Version:       version.Short(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, args, flags)
		},
	}

	cmd.SetVersionTemplate(version.Info() + "\n")

	cmd.Flags().StringVarP(&flags.configFile, "config", "c", "",
		"Path to a YAML or TOML configuration file")
	cmd.Flags().StringVar(&flags.password, "password", "",
		"User password for encrypted documents")
	cmd.Flags().IntVarP(&flags.maxPages, "max-pages", "p", 0,
		"Maximum number of pages read per document (0 = all)")
	cmd.Flags().BoolVar(&flags.noCheckExtractable, "no-check-extractable", false,
		"Extract text even when document permissions forbid it")
	cmd.Flags().BoolVar(&flags.noCaching, "no-caching", false,
		"Read documents from disk instead of loading them into memory")
	cmd.Flags().StringVar(&flags.normalize, "normalize", "",
		"Unicode normalization applied to page text (NFC or NFKC)")
	cmd.Flags().BoolVar(&flags.debug, "debug", false,
		"Print processing steps and decoder diagnostics to stderr")
	cmd.Flags().BoolVar(&flags.noColor, "no-color", false,
		"Disable colored diagnostics")

	cmd.AddCommand(NewVersionCmd())

	return cmd
}

func runRoot(cmd *cobra.Command, args []string, flags *rootFlags) error {
	// Without a path there is nothing to do.
	if len(args) == 0 {
		return nil
	}

	cfg, err := resolveConfig(cmd, flags)
	if err != nil {
		return err
	}
	setColorOutput(cfg.Defaults.NoColor)

	target := args[0]
	if err := paths.ValidatePath(target); err != nil {
		return err
	}

	_, err = core.Scan(core.ScanConfig{
		Path:        target,
		Debug:       cfg.Defaults.Debug,
		Config:      cfg,
		Output:      cmd.OutOrStdout(),
		Diagnostics: cmd.ErrOrStderr(),
	})
	return err
}

// resolveConfig merges defaults, the configuration file and the flags that
// were explicitly set, in that order.
func resolveConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	var cfg *config.Config
	if flags.configFile != "" {
		// An explicitly requested file must load.
		loaded, err := config.LoadConfig(flags.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", flags.configFile, err)
		}
		cfg = loaded
	} else {
		cfg = config.LoadConfigOrDefault("")
	}

	isFlagSet := cmd.Flags().Changed

	if isFlagSet("password") {
		cfg.Extraction.Password = flags.password
	}
	if isFlagSet("max-pages") {
		cfg.Extraction.MaxPages = flags.maxPages
	}
	if isFlagSet("no-check-extractable") {
		cfg.Extraction.CheckExtractable = !flags.noCheckExtractable
	}
	if isFlagSet("no-caching") {
		cfg.Extraction.Caching = !flags.noCaching
	}
	if isFlagSet("normalize") {
		cfg.Extraction.Normalize = flags.normalize
	}
	if isFlagSet("debug") {
		cfg.Defaults.Debug = flags.debug
	}
	if isFlagSet("no-color") {
		cfg.Defaults.NoColor = flags.noColor
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// setColorOutput enables colored diagnostics only when stderr is a terminal.
func setColorOutput(noColor bool) {
	color.NoColor = noColor || !isTerminal(os.Stderr)
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
