// Package extract turns resume documents into plain text and structured
// fields. Everything works on in-memory bytes; no temp files are written.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/hiringtools/cv-intake/internal/intake"
)

// MinTextLength is the minimum amount of text a document must yield before
// extraction is considered successful.
const MinTextLength = 50

// Extractor implements intake.ResumeExtractor for pdf, docx and doc files.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Extract pulls the full text out of the document and derives the structured
// resume fields from it.
func (e *Extractor) Extract(ctx context.Context, data []byte, filename string) (*intake.ResumeFields, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		text string
		err  error
	)

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".pdf":
		text, err = pdfText(data)
	case ".docx":
		text, err = docxText(data)
	case ".doc":
		text, err = docText(data)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("extracting text from %s: %w", filename, err)
	}

	if len(strings.TrimSpace(text)) < MinTextLength {
		return nil, fmt.Errorf("extracted text from %s is too short", filename)
	}

	fields := DeriveFields(text)
	return fields, nil
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func docxText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("docx has no word/document.xml")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	return wordXMLText(rc)
}

// wordXMLText walks WordprocessingML and keeps the character data of w:t
// runs, breaking lines on paragraph ends.
func wordXMLText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		buf    strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				buf.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				buf.Write(t)
			}
		}
	}
	return buf.String(), nil
}

// docText scrapes printable runs out of a legacy binary .doc. Crude, but the
// OLE container stores body text mostly as contiguous readable bytes, which
// is enough for keyword and identity matching.
func docText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty doc data")
	}

	var (
		buf bytes.Buffer
		run []byte
	)
	flush := func() {
		// Short runs are container noise, not prose.
		if len(run) >= 4 {
			buf.Write(run)
			buf.WriteByte('\n')
		}
		run = run[:0]
	}

	for _, b := range data {
		if b == '\t' || b == ' ' || (b >= 32 && b < 127) {
			run = append(run, b)
			continue
		}
		flush()
	}
	flush()

	return buf.String(), nil
}
