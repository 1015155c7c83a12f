// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package pdftest builds small, well-formed PDF documents for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const (
	fontSize    = 12
	lineSpacing = 16
	topMargin   = 720
	leftMargin  = 72
	glyphWidth  = 600 // Courier advance width in 1/1000 em
)

// Build returns a PDF with one page per element of pages. Each page draws
// its lines top to bottom in a monospaced Type1 font with explicit widths,
// so text decoders can recover word spacing from glyph positions.
func Build(pages ...[]string) []byte {
	var objects []string

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		fontObject(),
	)

	for i, lines := range pages {
		content := contentStream(lines)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

// WriteFile writes Build(pages...) to name inside dir and returns its path.
func WriteFile(t testing.TB, dir, name string, pages ...[]string) string {
	t.Helper()
	return WriteRaw(t, dir, name, Build(pages...))
}

// Encrypt returns data encrypted with 128-bit RC4 under the given passwords,
// granting only perms to users who open it with the user password.
func Encrypt(t testing.TB, data []byte, userPW, ownerPW string, perms model.PermissionFlags) []byte {
	t.Helper()

	// Keep pdfcpu from writing its config.yml into the user config dir.
	model.ConfigPath = "disable"

	conf := model.NewRC4Configuration(userPW, ownerPW, 128)
	conf.Permissions = perms
	conf.ValidationMode = model.ValidationRelaxed

	var out bytes.Buffer
	if err := api.Encrypt(bytes.NewReader(data), &out, conf); err != nil {
		t.Fatalf("failed to encrypt fixture: %v", err)
	}
	return out.Bytes()
}

// WriteRaw writes data to name inside dir, creating parent directories.
func WriteRaw(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create fixture dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func fontObject() string {
	widths := make([]string, 0, 126-32+1)
	for c := 32; c <= 126; c++ {
		widths = append(widths, fmt.Sprint(glyphWidth))
	}
	return fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /Courier /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [%s] >>",
		strings.Join(widths, " "))
}

func contentStream(lines []string) string {
	var b strings.Builder
	b.WriteString("BT\n")
	fmt.Fprintf(&b, "/F1 %d Tf\n", fontSize)
	for i, line := range lines {
		// Absolute text matrices keep every line on its own baseline.
		fmt.Fprintf(&b, "1 0 0 1 %d %d Tm\n", leftMargin, topMargin-i*lineSpacing)
		fmt.Fprintf(&b, "(%s) Tj\n", escape(line))
	}
	b.WriteString("ET")
	return b.String()
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
