// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"pdf2email/internal/config"
	"pdf2email/internal/observability"
	"pdf2email/internal/pdftext"
)

// PageSource yields the pages of one document.
type PageSource interface {
	Pages(path string) iter.Seq2[pdftext.Page, error]
}

// AddressScanner finds the distinct addresses in a piece of text.
type AddressScanner interface {
	Scan(text string) []string
}

// ScanConfig holds configuration for scanning operations.
type ScanConfig struct {
	Path   string
	Debug  bool
	Config *config.Config
	// Output receives one line per newly discovered address.
	Output io.Writer
	// Diagnostics receives structured logs and debug steps. Defaults to os.Stderr.
	Diagnostics io.Writer
}

// ScanResult holds the results of a scanning operation.
type ScanResult struct {
	Addresses      *AddressSet
	ProcessedFiles int
}

// Scan wires the pipeline from scanConfig and runs it over scanConfig.Path.
func Scan(scanConfig ScanConfig) (*ScanResult, error) {
	diag := scanConfig.Diagnostics
	if diag == nil {
		diag = os.Stderr
	}

	// Build observer. Skipped documents are not reported outside debug mode.
	observer := observability.NewStandardObserver(observability.ObservabilityOff, diag)
	if scanConfig.Debug {
		debugObs := observability.NewDebugObserver(diag)
		observer = debugObs.StandardObserver
		observer.DebugObserver = debugObs
		debugObs.LogDetail("scanner", "run "+observer.RunID())
	}
	defer observer.Sync()

	cfg := scanConfig.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	scanner := NewScannerFromConfig(cfg, scanConfig.Output, observer)
	addresses, err := scanner.ScanPath(scanConfig.Path)
	if err != nil {
		return nil, err
	}

	return &ScanResult{
		Addresses:      addresses,
		ProcessedFiles: scanner.ProcessedFiles(),
	}, nil
}

// Scanner drives page extraction and address scanning over files and
// directory trees, writing each address the first time it is seen.
type Scanner struct {
	pages     PageSource
	addresses AddressScanner
	out       io.Writer

	processedFiles int

	// Observability
	observer *observability.StandardObserver
}

// NewScanner creates a scanner writing discovered addresses to out.
func NewScanner(pages PageSource, addresses AddressScanner, out io.Writer) *Scanner {
	if out == nil {
		out = io.Discard
	}
	return &Scanner{
		pages:     pages,
		addresses: addresses,
		out:       out,
	}
}

// SetObserver sets the observability component
func (s *Scanner) SetObserver(observer *observability.StandardObserver) {
	s.observer = observer
}

// GetComponentName implements observability.Observable
func (s *Scanner) GetComponentName() string {
	return "scanner"
}

// ProcessedFiles returns how many files have been scanned so far.
func (s *Scanner) ProcessedFiles() int {
	return s.processedFiles
}

// ScanFile scans one document and returns the addresses in it that are not
// in filter, printing each of them as it is found. filter is not modified.
//
// Failing to read the file aborts the scan with an error. Addresses written
// before the failure stay written.
func (s *Scanner) ScanFile(path string, filter *AddressSet) (*AddressSet, error) {
	var finishStep func(bool, string)
	if s.observer != nil && s.observer.DebugObserver != nil {
		finishStep = s.observer.DebugObserver.StartStep(s.GetComponentName(), "scan_file", path)
	}
	var finishTiming func(bool, map[string]interface{})
	if s.observer != nil {
		finishTiming = s.observer.StartTiming(s.GetComponentName(), "scan_file", path)
	}

	found := NewAddressSet()
	pageCount := 0

	finish := func(err error) {
		if finishStep != nil {
			if err != nil {
				finishStep(false, err.Error())
			} else {
				finishStep(true, fmt.Sprintf("%d pages, %d new addresses", pageCount, found.Len()))
			}
		}
		if finishTiming != nil {
			finishTiming(err == nil, map[string]interface{}{
				"page_count":    pageCount,
				"new_addresses": found.Len(),
			})
		}
	}

	for page, err := range s.pages.Pages(path) {
		if err != nil {
			finish(err)
			return nil, err
		}
		pageCount++

		for _, addr := range s.addresses.Scan(page.Text) {
			if filter.Contains(addr) || !found.Add(addr) {
				continue
			}
			if _, err := fmt.Fprintln(s.out, addr); err != nil {
				err = fmt.Errorf("error writing address: %w", err)
				finish(err)
				return nil, err
			}
		}
	}

	s.processedFiles++
	finish(nil)
	return found, nil
}

// ScanPath scans a single file, or every file below a directory in lexical
// walk order, and returns all addresses found. An address is printed only
// the first time it appears anywhere in the run.
//
// A root given as a symbolic link is followed, symbolic links to directories
// below it are not. Any I/O error, including an unreadable subdirectory,
// aborts the walk.
func (s *Scanner) ScanPath(root string) (*AddressSet, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("error accessing path: %w", err)
	}
	if !info.IsDir() {
		return s.ScanFile(root, nil)
	}

	// WalkDir does not descend into a root that is itself a symbolic link.
	walkRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("error accessing path: %w", err)
	}

	seen := NewAddressSet()
	err = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err == nil && target.IsDir() {
				return nil
			}
		}

		found, err := s.ScanFile(path, seen)
		if err != nil {
			return err
		}
		seen.Merge(found)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.observer != nil && s.observer.DebugObserver != nil {
		s.observer.DebugObserver.LogMetric(s.GetComponentName(), "files_processed", s.processedFiles)
		s.observer.DebugObserver.LogMetric(s.GetComponentName(), "unique_addresses", seen.Len())
	}

	return seen, nil
}
