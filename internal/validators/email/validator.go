// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package email

import (
	"regexp"
	"strings"

	"pdf2email/internal/observability"
)

// DefaultPattern is the permissive address pattern. It accepts word
// characters, dots and hyphens on both sides of the '@' and performs no
// domain or length checks.
const DefaultPattern = `[A-Za-z0-9_.\-]+@[A-Za-z0-9_.\-]+`

// Validator finds email-like substrings in extracted page text.
type Validator struct {
	pattern string
	regex   *regexp.Regexp

	// Observability
	observer *observability.StandardObserver
}

// NewValidator creates and returns a new Validator instance using DefaultPattern.
func NewValidator() *Validator {
	v := &Validator{
		pattern: DefaultPattern,
	}

	// Compile the regex pattern once at initialization
	v.regex = regexp.MustCompile(v.pattern)
	return v
}

// SetObserver sets the observability component
func (v *Validator) SetObserver(observer *observability.StandardObserver) {
	v.observer = observer
}

// GetComponentName implements observability.Observable
func (v *Validator) GetComponentName() string {
	return "email_validator"
}

// Pattern returns the source of the compiled address pattern.
func (v *Validator) Pattern() string {
	return v.pattern
}

// Scan returns every distinct address found in text, in first-match order.
//
// The text is split on whitespace and the pattern is applied to each token
// separately, so a token holding two addresses with no space between them
// yields both. The result never contains duplicates.
func (v *Validator) Scan(text string) []string {
	var finishTiming func(bool, map[string]interface{})
	if v.observer != nil {
		finishTiming = v.observer.StartTiming(v.GetComponentName(), "scan_text", "")
	}

	var found []string
	seen := make(map[string]struct{})

	for _, token := range strings.Fields(text) {
		for _, match := range v.regex.FindAllString(token, -1) {
			if _, dup := seen[match]; dup {
				continue
			}
			seen[match] = struct{}{}
			found = append(found, match)
		}
	}

	if finishTiming != nil {
		finishTiming(true, map[string]interface{}{
			"content_length": len(text),
			"match_count":    len(found),
		})
	}
	return found
}
