// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"io"

	"pdf2email/internal/config"
	"pdf2email/internal/observability"
	"pdf2email/internal/pdftext"
	"pdf2email/internal/validators/email"
)

// NewScannerFromConfig builds the extractor, the address validator and the
// scanner from cfg and attaches observer to all of them.
func NewScannerFromConfig(cfg *config.Config, out io.Writer, observer *observability.StandardObserver) *Scanner {
	extractor := pdftext.NewExtractor(cfg.ExtractorOptions())
	validator := email.NewValidator()

	scanner := NewScanner(extractor, validator, out)
	observability.Attach(observer, extractor, validator, scanner)

	if observer != nil && observer.DebugObserver != nil {
		observer.DebugObserver.LogDetail(validator.GetComponentName(), "pattern "+validator.Pattern())
	}
	return scanner
}
