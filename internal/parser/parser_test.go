package parser

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTwoPagePDF assembles a minimal two-page PDF, computing the xref
// offsets as it goes.
func writeTwoPagePDF(t *testing.T, path string) {
	t.Helper()

	var buf bytes.Buffer
	offsets := make([]int, 8)
	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}
	writeStream := func(num int, content string) {
		writeObj(num, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	buf.WriteString("%PDF-1.4\n")
	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, "<< /Type /Pages /Kids [3 0 R 4 0 R] /Count 2 >>")
	writeObj(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 6 0 R >>")
	writeObj(4, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 7 0 R >>")
	writeObj(5, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")
	writeStream(6, "BT /F1 12 Tf 72 720 Td (alpha opens the document) Tj ET")
	writeStream(7, "BT /F1 12 Tf 72 720 Td (bravo closes the document) Tj ET")

	xrefOffset := buf.Len()
	buf.WriteString("xref\n0 8\n")
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= 7; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 8 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xrefOffset)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

// writeTwoSlidePPTX zips up the slide XML skeleton of a two-slide deck.
func writeTwoSlidePPTX(t *testing.T, path string) {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	slides := []string{
		`<p:sld><a:t>alpha slide</a:t></p:sld>`,
		`<p:sld><a:t>bravo slide</a:t></p:sld>`,
	}
	for i, body := range slides {
		f, err := w.Create(fmt.Sprintf("ppt/slides/slide%d.xml", i+1))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.pdf"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLoad_MalformedPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.pdf")
	if err := os.WriteFile(path, []byte("this is not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}

func TestLoad_MalformedDOCX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.docx")
	if err := os.WriteFile(path, []byte("not a zip archive"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "document.xyz")
	if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}

func TestLoad_PDFPagesInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pair.pdf")
	writeTwoPagePDF(t, path)

	pages, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected one page record per physical page, got %d", len(pages))
	}
	if pages[0].Number != 1 || pages[1].Number != 2 {
		t.Errorf("pages out of order: %d, %d", pages[0].Number, pages[1].Number)
	}
	if !strings.Contains(pages[0].Text, "alpha") {
		t.Errorf("page 1 text missing its content: %q", pages[0].Text)
	}
	if !strings.Contains(pages[1].Text, "bravo") {
		t.Errorf("page 2 text missing its content: %q", pages[1].Text)
	}
}

func TestLoad_PPTXSlidesAsPages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.pptx")
	writeTwoSlidePPTX(t, path)

	pages, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected one page per slide, got %d", len(pages))
	}
	if pages[0].Number != 1 || pages[1].Number != 2 {
		t.Errorf("slides out of order: %d, %d", pages[0].Number, pages[1].Number)
	}
	if !strings.Contains(pages[0].Text, "alpha slide") || !strings.Contains(pages[1].Text, "bravo slide") {
		t.Errorf("slide text not extracted: %q / %q", pages[0].Text, pages[1].Text)
	}
}

func TestLoad_MalformedPPTX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.pptx")
	if err := os.WriteFile(path, []byte("not a zip archive"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}

func TestLoad_Text(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("plain text body"), 0o644); err != nil {
		t.Fatal(err)
	}

	pages, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	if pages[0].Number != 1 || pages[0].Text != "plain text body" {
		t.Errorf("unexpected page: %+v", pages[0])
	}
}
