// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package pdftext

import (
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// permExtract is bit 5 of the /P entry in the encryption dictionary
// (ISO 32000-1, table 22): copy or otherwise extract text and graphics.
const permExtract = 1 << 4

func init() {
	// pdfcpu otherwise installs a config.yml under the user config dir on
	// first use and exits the process if it cannot.
	model.ConfigPath = "disable"
}

// PermissionChecker reads a document's security handler with pdfcpu.
type PermissionChecker struct {
	pdfConfig *model.Configuration
}

// NewPermissionChecker creates a checker that opens documents with the given user password.
func NewPermissionChecker(password string) *PermissionChecker {
	pdfConfig := model.NewDefaultConfiguration()
	pdfConfig.UserPW = password
	pdfConfig.ValidationMode = model.ValidationRelaxed

	return &PermissionChecker{pdfConfig: pdfConfig}
}

// ExtractionAllowed reports whether text extraction is permitted.
//
// Unencrypted documents always allow extraction. When pdfcpu cannot read the
// document the result is true together with the read error, leaving the
// final verdict to the text decoder.
func (pc *PermissionChecker) ExtractionAllowed(rs io.ReadSeeker) (allowed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			allowed, err = true, parseError(r)
		}
	}()

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return true, fmt.Errorf("error rewinding PDF: %w", err)
	}

	ctx, err := api.ReadContext(rs, pc.pdfConfig)
	if err != nil {
		return true, fmt.Errorf("failed to read PDF context: %w", err)
	}

	if ctx.E == nil {
		return true, nil
	}

	return ctx.E.P&permExtract != 0, nil
}
