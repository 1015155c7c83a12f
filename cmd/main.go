// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Command pdf2email prints the email addresses found in PDF documents.
//
// Usage:
//
//	pdf2email [flags] <file-or-directory>
//
// Each distinct address is printed once, on its own line, the first time it
// is found. See --help for all available options.
package main

import (
	"os"

	"github.com/fatih/color"
)

func main() {
	setColorOutput(false)

	if err := NewRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
