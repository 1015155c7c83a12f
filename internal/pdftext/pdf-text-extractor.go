// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package pdftext turns a PDF file into a lazy sequence of per-page plain text.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"

	"pdf2email/internal/observability"
)

// Supported values for Options.Normalize.
const (
	NormalizeNone = ""
	NormalizeNFC  = "NFC"
	NormalizeNFKC = "NFKC"
)

// Options configures the decoding pipeline.
type Options struct {
	Layout LayoutParams

	// MaxPages caps the number of pages read per document. Zero means no limit.
	MaxPages int

	// Password is tried as the user password of encrypted documents.
	Password string

	// Caching reads each document into memory once instead of seeking the file.
	Caching bool

	// CheckExtractable skips documents whose permissions forbid text extraction.
	CheckExtractable bool

	// Normalize is an optional Unicode normalization form applied to page text.
	Normalize string
}

// DefaultOptions returns the pipeline configuration used when nothing is set.
func DefaultOptions() Options {
	return Options{
		Layout:           DefaultLayoutParams(),
		MaxPages:         0,
		Password:         "",
		Caching:          true,
		CheckExtractable: true,
		Normalize:        NormalizeNone,
	}
}

// Page is the decoded text of one page.
type Page struct {
	Number int
	Text   string
}

// document is what both decoders need: random access for ledongthuc/pdf and
// a seekable stream for pdfcpu.
type document interface {
	io.ReaderAt
	io.ReadSeeker
}

// extractabilityGate decides whether a document's text may be extracted.
type extractabilityGate interface {
	ExtractionAllowed(rs io.ReadSeeker) (bool, error)
}

// Extractor produces page text from PDF files.
type Extractor struct {
	opts        Options
	permissions extractabilityGate

	// Observability
	observer *observability.StandardObserver
}

// NewExtractor creates an extractor with the given options.
func NewExtractor(opts Options) *Extractor {
	if opts.Layout.SpaceRatio <= 0 {
		opts.Layout.SpaceRatio = DefaultLayoutParams().SpaceRatio
	}
	if opts.Layout.DefaultFontSize <= 0 {
		opts.Layout.DefaultFontSize = DefaultLayoutParams().DefaultFontSize
	}

	e := &Extractor{opts: opts}
	if opts.CheckExtractable {
		e.permissions = NewPermissionChecker(opts.Password)
	}
	return e
}

// SetObserver sets the observability component
func (e *Extractor) SetObserver(observer *observability.StandardObserver) {
	e.observer = observer
}

// GetComponentName implements observability.Observable
func (e *Extractor) GetComponentName() string {
	return "pdf_text_extractor"
}

// Pages returns the pages of the PDF at path in order.
//
// Failing to open or read the file is reported as a non-nil error, after
// which the sequence ends. A document that cannot be decoded, is locked, or
// forbids text extraction yields exactly one empty page. A page that fails
// to decode yields empty text and the remaining pages still follow. The file
// is closed when the sequence is exhausted or the caller stops ranging.
func (e *Extractor) Pages(path string) iter.Seq2[Page, error] {
	return func(yield func(Page, error) bool) {
		f, err := os.Open(path)
		if err != nil {
			yield(Page{}, fmt.Errorf("error opening PDF: %w", err))
			return
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			yield(Page{}, fmt.Errorf("error reading PDF: %w", err))
			return
		}
		if info.IsDir() {
			yield(Page{}, fmt.Errorf("error reading PDF: %s is a directory", path))
			return
		}

		var doc document = f
		if e.opts.Caching {
			data, err := io.ReadAll(f)
			if err != nil {
				yield(Page{}, fmt.Errorf("error reading PDF: %w", err))
				return
			}
			doc = bytes.NewReader(data)
		}

		r, err := e.openReader(doc, info.Size())
		if err != nil {
			e.reportParseFailure(path, err)
			yield(Page{Number: 1}, nil)
			return
		}

		pageCount := r.NumPage()
		if e.opts.MaxPages > 0 && pageCount > e.opts.MaxPages {
			pageCount = e.opts.MaxPages
		}

		for i := 1; i <= pageCount; i++ {
			text, err := e.pageText(r, i)
			if err != nil {
				e.reportPageFailure(path, i, err)
				text = ""
			}
			if !yield(Page{Number: i, Text: e.normalize(text)}, nil) {
				return
			}
		}
	}
}

// openReader runs the extractability gate and constructs the text decoder.
func (e *Extractor) openReader(doc document, size int64) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r, err = nil, parseError(rec)
		}
	}()

	if e.permissions != nil {
		allowed, permErr := e.permissions.ExtractionAllowed(doc)
		if permErr != nil && e.observer != nil && e.observer.DebugObserver != nil {
			e.observer.DebugObserver.LogDetail(e.GetComponentName(), "permission check skipped: "+permErr.Error())
		}
		if !allowed {
			return nil, ErrNotExtractable
		}
	}

	r, err = pdf.NewReaderEncrypted(doc, size, e.passwordPrompt())
	if err != nil {
		return nil, parseError(err)
	}
	return r, nil
}

// passwordPrompt offers the configured password once. The decoder keeps
// asking until it gets an empty answer.
func (e *Extractor) passwordPrompt() func() string {
	offered := e.opts.Password == ""
	return func() string {
		if offered {
			return ""
		}
		offered = true
		return e.opts.Password
	}
}

// pageText decodes a single page, converting decoder panics into ErrParse.
func (e *Extractor) pageText(r *pdf.Reader, pageNum int) (text string, err error) {
	var finishTiming func(bool, map[string]interface{})
	if e.observer != nil {
		finishTiming = e.observer.StartTiming(e.GetComponentName(), "extract_page", "")
	}

	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", parseError(rec)
		}
		if finishTiming != nil {
			finishTiming(err == nil, map[string]interface{}{
				"page":       pageNum,
				"char_count": len(text),
				"word_count": len(strings.Fields(text)),
			})
		}
	}()

	p := r.Page(pageNum)
	if p.V.IsNull() {
		return "", parseError(fmt.Sprintf("page %d is null", pageNum))
	}

	text, err = e.opts.Layout.extractTextWithProperSpacing(p)
	if err != nil {
		return "", parseError(err)
	}
	return text, nil
}

func (e *Extractor) normalize(text string) string {
	switch strings.ToUpper(e.opts.Normalize) {
	case NormalizeNFC:
		return norm.NFC.String(text)
	case NormalizeNFKC:
		return norm.NFKC.String(text)
	default:
		return text
	}
}

func (e *Extractor) reportParseFailure(path string, err error) {
	if e.observer == nil {
		return
	}
	operation := "open_document"
	if errors.Is(err, ErrNotExtractable) {
		operation = "check_extractable"
	}
	e.observer.LogError(e.GetComponentName(), operation, path, err)
	if e.observer.DebugObserver != nil {
		e.observer.DebugObserver.LogDetail(e.GetComponentName(), fmt.Sprintf("%s: treating as empty document (%v)", path, err))
	}
}

func (e *Extractor) reportPageFailure(path string, pageNum int, err error) {
	if e.observer == nil {
		return
	}
	e.observer.LogError(e.GetComponentName(), "extract_page", path, err)
	if e.observer.DebugObserver != nil {
		e.observer.DebugObserver.LogDetail(e.GetComponentName(), fmt.Sprintf("%s: page %d unreadable (%v)", path, pageNum, err))
	}
}

// ValidNormalization reports whether form is a supported Options.Normalize value.
func ValidNormalization(form string) bool {
	switch strings.ToUpper(form) {
	case NormalizeNone, NormalizeNFC, NormalizeNFKC:
		return true
	}
	return false
}
