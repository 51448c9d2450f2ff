package pdftext

import (
	"bytes"
	"context"
	"image/png"
	"log"
	"strings"
	"time"

	"crediflow-backend/internal/domain/document"

	"github.com/gen2brain/go-fitz"
)

// Extraction methods reported alongside the text.
const (
	MethodNativo  = "texto_nativo"
	MethodOCR     = "ocr"
	MethodNinguno = "ninguno"
)

// Identity cards are usually scans; below this many characters the native
// text layer is considered empty and the OCR fallback kicks in.
const minNativeLen = 20

const pageTimeout = 30 * time.Second

// Recognizer turns a rendered page image into text. Nil disables the OCR
// fallback entirely.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// Extractor pulls plain text out of an uploaded file. It never returns an
// error: corrupt files, timeouts and OCR failures all degrade to empty text,
// and the caller treats empty text as "no information extracted".
type Extractor struct {
	ocr Recognizer
}

func NewExtractor(ocr Recognizer) *Extractor { return &Extractor{ocr: ocr} }

func (e *Extractor) Extract(ctx context.Context, file []byte, tipo document.Type) (string, string) {
	text := e.nativeText(file)

	if tipo == document.TypeDNI && len(strings.TrimSpace(text)) < minNativeLen && e.ocr != nil {
		if out := e.ocrFirstPage(ctx, file); strings.TrimSpace(out) != "" {
			return out, MethodOCR
		}
	}

	if strings.TrimSpace(text) == "" {
		return "", MethodNinguno
	}
	return text, MethodNativo
}

// nativeText concatenates the text layer of every page, newline separated,
// in page order.
func (e *Extractor) nativeText(file []byte) string {
	doc, err := fitz.NewFromMemory(file)
	if err != nil {
		log.Printf("pdftext: open failed: %v", err)
		return ""
	}
	defer doc.Close()

	var pages []string
	for i := 0; i < doc.NumPage(); i++ {
		pages = append(pages, e.pageText(doc, i))
	}
	return strings.TrimSpace(strings.Join(pages, "\n"))
}

// pageText guards each page with a timeout; a stuck render yields an empty
// page instead of hanging the upload.
func (e *Extractor) pageText(doc *fitz.Document, page int) string {
	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		t, err := doc.Text(page)
		ch <- result{text: t, err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			log.Printf("pdftext: page %d text failed: %v", page+1, res.err)
			return ""
		}
		return strings.TrimSpace(res.text)
	case <-time.After(pageTimeout):
		log.Printf("pdftext: page %d timed out after %v", page+1, pageTimeout)
		go func() { <-ch }() // drain so the goroutine can exit
		return ""
	}
}

func (e *Extractor) ocrFirstPage(ctx context.Context, file []byte) string {
	doc, err := fitz.NewFromMemory(file)
	if err != nil {
		log.Printf("pdftext: open for ocr failed: %v", err)
		return ""
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return ""
	}
	img, err := doc.Image(0)
	if err != nil {
		log.Printf("pdftext: first page render failed: %v", err)
		return ""
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		log.Printf("pdftext: png encode failed: %v", err)
		return ""
	}

	out, err := e.ocr.Recognize(ctx, buf.Bytes())
	if err != nil {
		log.Printf("pdftext: ocr failed: %v", err)
		return ""
	}
	return strings.TrimSpace(out)
}
