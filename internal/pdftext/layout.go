// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package pdftext

import (
	"bytes"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// LayoutParams tunes how glyph runs are reassembled into lines of text.
type LayoutParams struct {
	// SpaceRatio is the horizontal gap, as a fraction of the font size,
	// above which two neighbouring runs are separated by a space.
	SpaceRatio float64

	// DefaultFontSize is used when the decoder reports no font size.
	DefaultFontSize float64
}

// DefaultLayoutParams returns the layout analysis used when none is configured.
func DefaultLayoutParams() LayoutParams {
	return LayoutParams{
		SpaceRatio:      0.2,
		DefaultFontSize: 12,
	}
}

// extractTextWithProperSpacing extracts text using row-based positioning for better spacing
func (l LayoutParams) extractTextWithProperSpacing(p pdf.Page) (string, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		return p.GetPlainText(nil)
	}

	sortedRows := make([]*pdf.Row, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			sortedRows = append(sortedRows, row)
		}
	}

	// PDF user space grows upwards, so the highest row is read first.
	sort.SliceStable(sortedRows, func(i, j int) bool {
		return getAverageY(sortedRows[i].Content) > getAverageY(sortedRows[j].Content)
	})

	var buf bytes.Buffer
	for _, row := range sortedRows {
		rowText := l.reconstructRowText(row.Content)
		if strings.TrimSpace(rowText) != "" {
			buf.WriteString(rowText)
			buf.WriteString("\n")
		}
	}

	return buf.String(), nil
}

// getAverageY calculates the average Y coordinate for text elements in a row
func getAverageY(textElements []pdf.Text) float64 {
	if len(textElements) == 0 {
		return 0
	}

	var totalY float64
	for _, element := range textElements {
		totalY += element.Y
	}

	return totalY / float64(len(textElements))
}

// reconstructRowText joins the runs of one row left to right, inserting a
// space wherever the gap between runs is wider than the space threshold.
func (l LayoutParams) reconstructRowText(textElements []pdf.Text) string {
	if len(textElements) == 0 {
		return ""
	}

	sortedElements := make([]pdf.Text, len(textElements))
	copy(sortedElements, textElements)

	// Runs sharing an X keep their content-stream order.
	sort.SliceStable(sortedElements, func(i, j int) bool {
		return sortedElements[i].X < sortedElements[j].X
	})

	var buf bytes.Buffer
	for i, element := range sortedElements {
		buf.WriteString(element.S)

		if i == len(sortedElements)-1 {
			break
		}

		next := sortedElements[i+1]
		gap := next.X - (element.X + element.W)

		fontSize := element.FontSize
		if fontSize <= 0 {
			fontSize = l.DefaultFontSize
		}

		if gap > fontSize*l.SpaceRatio && !strings.HasSuffix(element.S, " ") && !strings.HasPrefix(next.S, " ") {
			buf.WriteString(" ")
		}
	}

	return buf.String()
}
