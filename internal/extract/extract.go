// Package extract turns uploaded base64 payloads into plain text.
// PDF and Word files are read locally; images are only decoded and typed so
// they can be forwarded to a vision model.
package extract

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"

	"archive-backend/internal/shared/telemetry"
)

const defaultImageMime = "image/jpeg"

// Decode strips an optional data URL prefix and base64-decodes the payload.
func Decode(payload string) ([]byte, error) {
	raw := strings.TrimSpace(payload)
	if strings.HasPrefix(raw, "data:") {
		idx := strings.Index(raw, ",")
		if idx < 0 {
			return nil, errors.New("malformed data url")
		}
		raw = raw[idx+1:]
	}
	raw = strings.Join(strings.Fields(raw), "")
	if raw == "" {
		return nil, errors.New("empty payload")
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		if alt, altErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(raw, "=")); altErr == nil {
			return alt, nil
		}
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return data, nil
}

// PDF returns the trimmed text of every page joined by newlines, or "" when
// the payload cannot be decoded or parsed.
func PDF(payload string) string {
	data, err := Decode(payload)
	if err == nil {
		var text string
		if text, err = PDFBytes(data); err == nil {
			return text
		}
	}
	telemetry.Warn("extract.pdf_failed", map[string]any{"error": err.Error()})
	return ""
}

// Word returns the trimmed paragraph text of a .docx payload joined by
// newlines, or "" when the payload cannot be decoded or parsed.
func Word(payload string) string {
	data, err := Decode(payload)
	if err == nil {
		var text string
		if text, err = WordBytes(data); err == nil {
			return text
		}
	}
	telemetry.Warn("extract.word_failed", map[string]any{"error": err.Error()})
	return ""
}

// Image decodes an image payload and sniffs its mime type for the vision call.
// Unrecognized content falls back to image/jpeg.
func Image(payload string) (string, []byte, error) {
	data, err := Decode(payload)
	if err != nil {
		return "", nil, err
	}
	mime := mimetype.Detect(data)
	if strings.HasPrefix(mime.String(), "image/") {
		return mime.String(), data, nil
	}
	return defaultImageMime, data, nil
}

// PDFBytes extracts page text from an in-memory PDF.
func PDFBytes(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed inputs
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("pdf parse panic: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var buf strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read pdf page %d: %w", i, err)
		}
		buf.WriteString(content)
		buf.WriteString("\n")
	}
	return strings.TrimSpace(buf.String()), nil
}

// WordBytes extracts paragraph text from an in-memory .docx file.
func WordBytes(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	paragraphs, err := docxParagraphs(rc)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.Join(paragraphs, "\n")), nil
}

// docxParagraphs walks WordprocessingML and returns the run text of each w:p.
func docxParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)
	var (
		paragraphs []string
		current    strings.Builder
		inPara     int
		inText     bool
	)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				if inPara == 0 {
					current.Reset()
				}
				inPara++
			case "t":
				inText = true
			case "tab":
				if inPara > 0 {
					current.WriteString("\t")
				}
			case "br", "cr":
				if inPara > 0 {
					current.WriteString("\n")
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if inPara > 0 {
					inPara--
				}
				if inPara == 0 {
					paragraphs = append(paragraphs, current.String())
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText && inPara > 0 {
				current.Write(t)
			}
		}
	}
	return paragraphs, nil
}
