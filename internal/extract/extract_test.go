package extract

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// buildPDF assembles a one-page PDF with a single WinAnsi text line.
func buildPDF(t *testing.T, line string) []byte {
	t.Helper()
	content := fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", line)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
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

func TestWordJoinsParagraphs(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>سند ملكية</w:t></w:r><w:r><w:t xml:space="preserve"> رقم 42</w:t></w:r></w:p>
<w:p><w:r><w:t>المالك: أحمد</w:t></w:r></w:p>
</w:body>
</w:document>`
	payload := base64.StdEncoding.EncodeToString(buildDocx(t, doc))

	got := Word(payload)
	want := "سند ملكية رقم 42\nالمالك: أحمد"
	if got != want {
		t.Fatalf("Word() = %q, want %q", got, want)
	}
}

func TestWordAcceptsDataURLPrefix(t *testing.T) {
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>عقد إيجار</w:t></w:r></w:p></w:body></w:document>`
	payload := "data:application/vnd.openxmlformats-officedocument.wordprocessingml.document;base64," +
		base64.StdEncoding.EncodeToString(buildDocx(t, doc))

	if got := Word(payload); got != "عقد إيجار" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestWordInvalidPayloadReturnsEmpty(t *testing.T) {
	cases := map[string]string{
		"not base64":   "%%%not-base64%%%",
		"not a zip":    base64.StdEncoding.EncodeToString([]byte("plain text, not a docx")),
		"zip sans doc": base64.StdEncoding.EncodeToString(zipWith(t, "notes.txt", "hello")),
		"empty":        "",
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			if got := Word(payload); got != "" {
				t.Fatalf("expected empty text, got %q", got)
			}
		})
	}
}

func TestPDFInvalidPayloadReturnsEmpty(t *testing.T) {
	for _, payload := range []string{
		"",
		"%%%",
		base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 truncated garbage")),
		base64.StdEncoding.EncodeToString([]byte("hello world")),
	} {
		if got := PDF(payload); got != "" {
			t.Fatalf("expected empty text for %q, got %q", payload, got)
		}
	}
}

func TestPDFExtractsPageText(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString(buildPDF(t, "Land survey report"))

	got := PDF(payload)
	if !strings.Contains(got, "Land") || !strings.Contains(got, "report") {
		t.Fatalf("expected page text, got %q", got)
	}
	if got != strings.TrimSpace(got) {
		t.Fatalf("expected trimmed text, got %q", got)
	}
}

func TestImageDetectsMime(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	mime, data, err := Image(base64.StdEncoding.EncodeToString(png))
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if mime != "image/png" {
		t.Fatalf("expected image/png, got %q", mime)
	}
	if !bytes.Equal(data, png) {
		t.Fatalf("decoded bytes differ")
	}

	mime, _, err = Image(base64.StdEncoding.EncodeToString([]byte("unknown bytes")))
	if err != nil {
		t.Fatalf("Image unknown: %v", err)
	}
	if mime != "image/jpeg" {
		t.Fatalf("expected jpeg fallback, got %q", mime)
	}

	if _, _, err := Image("***"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestDecodeToleratesMissingPadding(t *testing.T) {
	raw := base64.RawStdEncoding.EncodeToString([]byte("ab"))
	data, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(data) != "ab" {
		t.Fatalf("unexpected data %q", data)
	}
}

func zipWith(t *testing.T, name, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(body)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}
