// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pdf2email/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, build date and toolchain of pdf2email.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info := version.Full()
			fmt.Fprintf(cmd.OutOrStdout(), "pdf2email version %s\n", info["version"])
			fmt.Fprintf(cmd.OutOrStdout(), "  commit:   %s\n", info["commit"])
			fmt.Fprintf(cmd.OutOrStdout(), "  built:    %s\n", info["buildDate"])
			fmt.Fprintf(cmd.OutOrStdout(), "  go:       %s\n", info["goVersion"])
			fmt.Fprintf(cmd.OutOrStdout(), "  platform: %s\n", info["platform"])
		},
	}
}
