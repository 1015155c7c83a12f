// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package pdftext

import (
	"errors"
	"fmt"
)

var (
	// ErrParse marks a document or page the decoder could not make sense of.
	ErrParse = errors.New("pdf parse failure")

	// ErrNotExtractable marks a document whose permissions forbid text extraction.
	ErrNotExtractable = errors.New("pdf text extraction not permitted")
)

// parseError wraps a decoder error or recovered panic value as ErrParse.
func parseError(cause interface{}) error {
	if err, ok := cause.(error); ok {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}
	return fmt.Errorf("%w: %v", ErrParse, cause)
}
