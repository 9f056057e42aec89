package merge

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// ErrNoReadableFiles is returned when every input of a merge is unreadable
var ErrNoReadableFiles = errors.New("none of the PDF files could be read")

// PDFCPU concatenates letters in process with pdfcpu. Files it cannot read
// are logged and left out of the merged document.
type PDFCPU struct{}

// Concat merges the readable files into output and returns their total page
// count
func (PDFCPU) Concat(ctx context.Context, files []string, output string) (int, error) {
	var readable []string
	pages := 0
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		n, err := api.PageCountFile(f)
		if err != nil {
			log.Printf("Skipping unreadable PDF %s: %v", filepath.Base(f), err)
			continue
		}
		readable = append(readable, f)
		pages += n
	}
	if len(readable) == 0 {
		return 0, ErrNoReadableFiles
	}

	if err := api.MergeCreateFile(readable, output, false, nil); err != nil {
		return 0, fmt.Errorf("pdfcpu merge failed: %w", err)
	}
	return pages, nil
}
