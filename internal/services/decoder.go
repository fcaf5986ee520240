package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/ledongthuc/pdf"
)

// Format is a résumé document format the decoder understands.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

var ErrUnsupportedFormat = errors.New("unsupported document format")

// DecodeError reports a document that has a supported format but whose
// content could not be turned into text.
type DecodeError struct {
	Format Format
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s document: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// FormatFromFilename maps a filename extension to a Format.
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// DetectFormat resolves the format from the filename and checks that the
// leading bytes of the content agree with it.
func DetectFormat(name string, head []byte) (Format, error) {
	format, err := FormatFromFilename(name)
	if err != nil {
		return "", err
	}

	switch format {
	case FormatPDF:
		if !filetype.Is(head, "pdf") {
			return "", fmt.Errorf("%w: content of %q is not a PDF", ErrUnsupportedFormat, name)
		}
	case FormatDOCX:
		if !filetype.Is(head, "docx") && !filetype.Is(head, "zip") {
			return "", fmt.Errorf("%w: content of %q is not a DOCX archive", ErrUnsupportedFormat, name)
		}
	}

	return format, nil
}

// DocumentDecoder turns résumé bytes into plain UTF-8 text.
type DocumentDecoder interface {
	Decode(data []byte, format Format) (string, error)
}

type documentDecoder struct{}

func NewDocumentDecoder() DocumentDecoder {
	return &documentDecoder{}
}

// Decode implements DocumentDecoder.
func (d *documentDecoder) Decode(data []byte, format Format) (string, error) {
	var (
		text string
		err  error
	)

	switch format {
	case FormatPDF:
		text, err = decodePDF(data)
	case FormatDOCX:
		text, err = decodeDOCX(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err != nil {
		return "", &DecodeError{Format: format, Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return "", &DecodeError{Format: format, Err: errors.New("no text content found")}
	}

	return strings.ToValidUTF8(text, "�"), nil
}

func decodePDF(data []byte) (text string, err error) {
	// ledongthuc/pdf panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Unreadable pages are skipped, the rest of the document still counts.
			continue
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), nil
}

func decodeDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX archive: %w", err)
	}

	for _, file := range zr.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open document part: %w", err)
		}
		defer rc.Close()

		return parseWordML(rc)
	}

	return "", errors.New("document part word/document.xml not found")
}

// parseWordML collects the text runs of a WordprocessingML part, one line per
// paragraph.
func parseWordML(r io.Reader) (string, error) {
	var b strings.Builder
	decoder := xml.NewDecoder(r)
	inText := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse document XML: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}

	return strings.TrimSuffix(b.String(), "\n"), nil
}
