// Package docx extracts body paragraphs from Word (.docx) documents.
//
// Only the text needed for task extraction is read: run text, tabs and
// breaks of top-level body paragraphs, plus the paragraph style and the
// font size of the first run so callers can drop headings.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const documentPart = "word/document.xml"

// headingFontSize is the point size above which an unstyled paragraph is
// treated as a heading.
const headingFontSize = 14

var ErrNoDocumentPart = errors.New("docx: missing " + documentPart)

// Paragraph is one body paragraph.
type Paragraph struct {
	Text  string
	Style string
	// FontSize of the first run in points, 0 when not set.
	FontSize float64
	Heading  bool
}

// Read extracts the paragraphs of the document in r.
func Read(r io.Reader) ([]Paragraph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("docx: read: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("docx: open archive: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != documentPart {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("docx: open %s: %w", documentPart, err)
		}
		defer rc.Close()
		return parseDocument(rc)
	}
	return nil, ErrNoDocumentPart
}

// IsHeading reports whether a paragraph with this style and first-run size
// reads as a heading or title. A set style decides on its own.
func IsHeading(style string, fontSize float64) bool {
	if style != "" {
		s := strings.ToLower(style)
		return strings.Contains(s, "heading") || strings.Contains(s, "title")
	}
	return fontSize > headingFontSize
}

type paragraphState struct {
	text     strings.Builder
	style    string
	fontSize float64
	runs     int
}

func parseDocument(r io.Reader) ([]Paragraph, error) {
	dec := xml.NewDecoder(r)

	var (
		paragraphs []Paragraph
		cur        *paragraphState
		tableDepth int
		paraDepth  int
		inPPr      bool
		inRun      bool
		inRPr      bool
		inText     bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("docx: parse %s: %w", documentPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
			case "p":
				paraDepth++
				if paraDepth == 1 && tableDepth == 0 {
					cur = &paragraphState{}
				}
			case "pPr":
				inPPr = true
			case "pStyle":
				if cur != nil && inPPr && paraDepth == 1 {
					cur.style = attr(t, "val")
				}
			case "r":
				if cur != nil && paraDepth == 1 {
					inRun = true
					cur.runs++
				}
			case "rPr":
				inRPr = inRun
			case "sz":
				if cur != nil && inRun && inRPr && cur.runs == 1 {
					if halfPoints, err := strconv.Atoi(attr(t, "val")); err == nil {
						cur.fontSize = float64(halfPoints) / 2
					}
				}
			case "t":
				inText = cur != nil && inRun && paraDepth == 1
			case "tab":
				if cur != nil && inRun && paraDepth == 1 {
					cur.text.WriteByte('\t')
				}
			case "br", "cr":
				if cur != nil && inRun && paraDepth == 1 {
					cur.text.WriteByte(' ')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth--
			case "p":
				if paraDepth == 1 && cur != nil {
					paragraphs = append(paragraphs, Paragraph{
						Text:     cur.text.String(),
						Style:    cur.style,
						FontSize: cur.fontSize,
						Heading:  IsHeading(cur.style, cur.fontSize),
					})
					cur = nil
				}
				paraDepth--
			case "pPr":
				inPPr = false
			case "r":
				if paraDepth == 1 {
					inRun = false
				}
			case "rPr":
				inRPr = false
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText && cur != nil {
				cur.text.Write(t)
			}
		}
	}
	return paragraphs, nil
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
