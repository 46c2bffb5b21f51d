// Package docwriter renders analysis results as a styled docx document.
package docwriter

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"tubescribe/internal/staging"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
	headSize = 16
)

// Build renders title, summary, and full transcript into a docx and returns
// its bytes. The intermediate file is staged and removed on every path.
func Build(ctx context.Context, store *staging.Store, title, summary, transcript string) ([]byte, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	addHeading(doc, title, headSize)
	addLine(doc, "Gerado em: "+time.Now().Format("02/01/2006 15:04"))

	addHeading(doc, "Resumo", 15)
	addParagraphs(doc, summary)

	addHeading(doc, "Transcrição Completa", 15)
	addParagraphs(doc, transcript)

	path, err := store.CreateFile("export-*.docx")
	if err != nil {
		return nil, err
	}
	defer store.Remove(ctx, path)

	if err := doc.SaveTo(path); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return data, nil
}

func addHeading(doc *docx.RootDoc, text string, size uint64) {
	p := doc.AddParagraph("")
	p.AddText(text).Font(fontName).Size(size).Color("000000").Bold(true)
}

func addLine(doc *docx.RootDoc, text string) {
	p := doc.AddParagraph("")
	p.AddText(text).Font(fontName).Size(fontSize).Color("000000")
}

func addParagraphs(doc *docx.RootDoc, text string) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		addLine(doc, line)
	}
}
