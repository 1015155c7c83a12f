// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package pdftext

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf2email/internal/observability"
	"pdf2email/internal/pdftext/pdftest"
)

// collect drains the sequence, stopping at the first error.
func collect(t *testing.T, e *Extractor, path string) ([]Page, error) {
	t.Helper()
	var pages []Page
	for page, err := range e.Pages(path) {
		if err != nil {
			return pages, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

func TestPages_SinglePage(t *testing.T) {
	path := pdftest.WriteFile(t, t.TempDir(), "one.pdf",
		[]string{"Reach me at alice@example.com or bob@example.org."})

	pages, err := collect(t, NewExtractor(DefaultOptions()), path)
	require.NoError(t, err)
	require.Len(t, pages, 1)

	assert.Equal(t, 1, pages[0].Number)
	assert.Equal(t,
		[]string{"Reach", "me", "at", "alice@example.com", "or", "bob@example.org."},
		strings.Fields(pages[0].Text))
}

func TestPages_PageOrder(t *testing.T) {
	path := pdftest.WriteFile(t, t.TempDir(), "three.pdf",
		[]string{"first page"},
		[]string{"second page"},
		[]string{"third page"},
	)

	pages, err := collect(t, NewExtractor(DefaultOptions()), path)
	require.NoError(t, err)
	require.Len(t, pages, 3)

	for i, word := range []string{"first", "second", "third"} {
		assert.Equal(t, i+1, pages[i].Number)
		assert.Contains(t, pages[i].Text, word)
	}
}

func TestPages_LinesReadTopToBottom(t *testing.T) {
	path := pdftest.WriteFile(t, t.TempDir(), "lines.pdf",
		[]string{"top line", "middle line", "bottom line"})

	pages, err := collect(t, NewExtractor(DefaultOptions()), path)
	require.NoError(t, err)
	require.Len(t, pages, 1)

	text := pages[0].Text
	top := strings.Index(text, "top")
	middle := strings.Index(text, "middle")
	bottom := strings.Index(text, "bottom")
	require.True(t, top >= 0 && middle >= 0 && bottom >= 0, "text: %q", text)
	assert.Less(t, top, middle)
	assert.Less(t, middle, bottom)
}

func TestPages_InvalidDocumentYieldsOneEmptyPage(t *testing.T) {
	cases := map[string][]byte{
		"not a pdf":       []byte("this is plain text, not a PDF"),
		"empty file":      {},
		"truncated":       pdftest.Build([]string{"x@y.z"})[:40],
		"bad header only": []byte("%PDF-1.4\n%%EOF\n"),
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			path := pdftest.WriteRaw(t, t.TempDir(), "bad.pdf", data)

			pages, err := collect(t, NewExtractor(DefaultOptions()), path)
			require.NoError(t, err)
			assert.Equal(t, []Page{{Number: 1, Text: ""}}, pages)
		})
	}
}

func TestPages_MissingFileIsAnIOError(t *testing.T) {
	pages, err := collect(t, NewExtractor(DefaultOptions()), "/nonexistent/dir/file.pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Empty(t, pages)
}

func TestPages_DirectoryIsAnIOError(t *testing.T) {
	_, err := collect(t, NewExtractor(DefaultOptions()), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestPages_ZeroPageDocument(t *testing.T) {
	path := pdftest.WriteFile(t, t.TempDir(), "empty.pdf")

	pages, err := collect(t, NewExtractor(DefaultOptions()), path)
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestPages_MaxPages(t *testing.T) {
	path := pdftest.WriteFile(t, t.TempDir(), "many.pdf",
		[]string{"one"}, []string{"two"}, []string{"three"})

	opts := DefaultOptions()
	opts.MaxPages = 2
	pages, err := collect(t, NewExtractor(opts), path)
	require.NoError(t, err)
	assert.Len(t, pages, 2)
}

func TestPages_WithoutCaching(t *testing.T) {
	path := pdftest.WriteFile(t, t.TempDir(), "stream.pdf", []string{"carol@example.net"})

	opts := DefaultOptions()
	opts.Caching = false
	pages, err := collect(t, NewExtractor(opts), path)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Contains(t, pages[0].Text, "carol@example.net")
}

func TestPages_StopsWhenConsumerBreaks(t *testing.T) {
	path := pdftest.WriteFile(t, t.TempDir(), "many.pdf",
		[]string{"one"}, []string{"two"}, []string{"three"})

	seen := 0
	for _, err := range NewExtractor(DefaultOptions()).Pages(path) {
		require.NoError(t, err)
		seen++
		break
	}
	assert.Equal(t, 1, seen)
}

func TestPages_SequenceCanBeRangedAgain(t *testing.T) {
	path := pdftest.WriteFile(t, t.TempDir(), "two.pdf", []string{"a"}, []string{"b"})
	seq := NewExtractor(DefaultOptions()).Pages(path)

	count := func() int {
		n := 0
		for _, err := range seq {
			require.NoError(t, err)
			n++
		}
		return n
	}
	assert.Equal(t, 2, count())
	assert.Equal(t, 2, count())
}

type fakeGate struct {
	allowed bool
	err     error
	calls   int
}

func (g *fakeGate) ExtractionAllowed(rs io.ReadSeeker) (bool, error) {
	g.calls++
	return g.allowed, g.err
}

func TestPages_NotExtractableYieldsOneEmptyPage(t *testing.T) {
	path := pdftest.WriteFile(t, t.TempDir(), "locked.pdf",
		[]string{"secret@example.com"}, []string{"more@example.com"})

	var buf bytes.Buffer
	observer := observability.NewStandardObserver(observability.ObservabilityMetrics, &buf)

	gate := &fakeGate{allowed: false}
	e := NewExtractor(DefaultOptions())
	e.permissions = gate
	e.SetObserver(observer)

	pages, err := collect(t, e, path)
	require.NoError(t, err)
	assert.Equal(t, []Page{{Number: 1, Text: ""}}, pages)
	assert.Equal(t, 1, gate.calls)
	assert.Contains(t, buf.String(), `"operation":"check_extractable"`)
}

func TestPages_GateErrorFallsThroughToDecoder(t *testing.T) {
	path := pdftest.WriteFile(t, t.TempDir(), "doc.pdf", []string{"dave@example.com"})

	e := NewExtractor(DefaultOptions())
	e.permissions = &fakeGate{allowed: true, err: errors.New("unreadable security handler")}

	pages, err := collect(t, e, path)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Contains(t, pages[0].Text, "dave@example.com")
}

func TestPages_CheckExtractableDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.CheckExtractable = false
	e := NewExtractor(opts)
	assert.Nil(t, e.permissions)

	path := pdftest.WriteFile(t, t.TempDir(), "doc.pdf", []string{"erin@example.com"})
	pages, err := collect(t, e, path)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Contains(t, pages[0].Text, "erin@example.com")
}

func TestPermissionChecker_UnencryptedDocumentAllowsExtraction(t *testing.T) {
	allowed, _ := NewPermissionChecker("").ExtractionAllowed(bytes.NewReader(pdftest.Build([]string{"x"})))
	assert.True(t, allowed)
}

func TestPermissionChecker_GarbageDoesNotDenyExtraction(t *testing.T) {
	allowed, err := NewPermissionChecker("").ExtractionAllowed(bytes.NewReader([]byte("garbage")))
	assert.True(t, allowed)
	assert.Error(t, err)
}

func TestPages_EncryptedDocuments(t *testing.T) {
	plain := pdftest.Build([]string{"hidden@example.com"})
	noCopy := pdftest.Encrypt(t, plain, "", "owner", model.PermissionsNone)
	locked := pdftest.Encrypt(t, plain, "secret", "owner", model.PermissionsAll)

	cases := []struct {
		name             string
		data             []byte
		password         string
		checkExtractable bool
		want             string
	}{
		{"extraction forbidden", noCopy, "", true, ""},
		{"extraction forbidden but not checked", noCopy, "", false, "hidden@example.com"},
		{"correct user password", locked, "secret", true, "hidden@example.com"},
		{"wrong user password", locked, "guess", true, ""},
		{"missing user password", locked, "", true, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := pdftest.WriteRaw(t, t.TempDir(), "enc.pdf", tc.data)

			opts := DefaultOptions()
			opts.Password = tc.password
			opts.CheckExtractable = tc.checkExtractable

			pages, err := collect(t, NewExtractor(opts), path)
			require.NoError(t, err)
			require.Len(t, pages, 1)
			assert.Equal(t, 1, pages[0].Number)
			if tc.want == "" {
				assert.Empty(t, pages[0].Text)
			} else {
				assert.Contains(t, pages[0].Text, tc.want)
			}
		})
	}
}

func TestPermissionChecker_EncryptedDocuments(t *testing.T) {
	plain := pdftest.Build([]string{"x"})

	allowed, err := NewPermissionChecker("").ExtractionAllowed(
		bytes.NewReader(pdftest.Encrypt(t, plain, "", "owner", model.PermissionsNone)))
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = NewPermissionChecker("").ExtractionAllowed(
		bytes.NewReader(pdftest.Encrypt(t, plain, "", "owner", model.PermissionsAll)))
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = NewPermissionChecker("nope").ExtractionAllowed(
		bytes.NewReader(pdftest.Encrypt(t, plain, "secret", "owner", model.PermissionsAll)))
	assert.Error(t, err)
	assert.True(t, allowed, "an unreadable security handler leaves the verdict to the decoder")
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		form string
		in   string
		want string
	}{
		{NormalizeNone, "ﬁnance@example.com", "ﬁnance@example.com"},
		{NormalizeNFKC, "ﬁnance@example.com", "finance@example.com"},
		{"nfkc", "ﬁnance@example.com", "finance@example.com"},
		{NormalizeNFC, "é", "é"},
	}
	for _, tc := range cases {
		opts := DefaultOptions()
		opts.Normalize = tc.form
		assert.Equal(t, tc.want, NewExtractor(opts).normalize(tc.in), "form %q", tc.form)
	}
}

func TestValidNormalization(t *testing.T) {
	for _, form := range []string{"", "NFC", "nfkc", "NFKC"} {
		assert.True(t, ValidNormalization(form), form)
	}
	for _, form := range []string{"NFD", "latin1"} {
		assert.False(t, ValidNormalization(form), form)
	}
}

func TestNewExtractor_FillsLayoutDefaults(t *testing.T) {
	e := NewExtractor(Options{})
	assert.Equal(t, DefaultLayoutParams(), e.opts.Layout)
}

func TestPasswordPrompt(t *testing.T) {
	opts := DefaultOptions()
	opts.Password = "hunter2"
	prompt := NewExtractor(opts).passwordPrompt()
	assert.Equal(t, "hunter2", prompt())
	assert.Equal(t, "", prompt())

	empty := NewExtractor(DefaultOptions()).passwordPrompt()
	assert.Equal(t, "", empty())
}
