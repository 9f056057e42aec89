package merge

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoFiles is returned when a category folder holds no letters
var ErrNoFiles = errors.New("no PDF files to merge")

// Categories lists the recovery actions merged by default
var Categories = []string{"L0", "L1", "L2", "MED"}

// Job describes one merged document
type Job struct {
	Category  string
	InputDir  string
	OutputDir string
}

// Plan returns the merge jobs for categories, in the given order. MED letters
// are read from output_mise_en_demeure.
func Plan(categories []string) []Job {
	jobs := make([]Job, 0, len(categories))
	for _, cat := range categories {
		cat = strings.TrimSpace(cat)
		if cat == "" {
			continue
		}
		input := cat
		if strings.EqualFold(cat, "MED") {
			input = "output_mise_en_demeure"
		}
		jobs = append(jobs, Job{
			Category:  cat,
			InputDir:  input,
			OutputDir: cat + "_Merge",
		})
	}
	return jobs
}

// Concatenator writes the pages of files, in order, into one document
type Concatenator interface {
	Concat(ctx context.Context, files []string, output string) (pages int, err error)
}

// Result is the outcome of one merge job
type Result struct {
	Job      Job
	Output   string
	Files    int
	Pages    int
	Sequence SequenceReport
}

// Merger runs merge jobs below a root directory
type Merger struct {
	Root   string
	Concat Concatenator
	Now    func() time.Time
}

// Run merges the letters of one job. Previous merged files in the output
// folder are removed first.
func (m *Merger) Run(ctx context.Context, job Job) (*Result, error) {
	inDir := filepath.Join(m.Root, job.InputDir)
	outDir := filepath.Join(m.Root, job.OutputDir)

	files, err := filepath.Glob(filepath.Join(inDir, "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", inDir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", job.Category, ErrNoFiles)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", outDir, err)
	}
	if err := removeMerged(outDir); err != nil {
		return nil, err
	}

	files = SortBySequence(files)
	report := ValidateSequence(files)
	if !report.OK() {
		log.Printf("Warning: %s %s, merging anyway", job.Category, report)
	}

	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	output := filepath.Join(outDir, OutputName(job.Category, now()))

	pages, err := m.Concat.Concat(ctx, files, output)
	if err != nil {
		return nil, fmt.Errorf("failed to merge %s: %w", job.Category, err)
	}

	return &Result{
		Job:      job,
		Output:   output,
		Files:    len(files),
		Pages:    pages,
		Sequence: report,
	}, nil
}

// RunAll runs jobs in order. Categories without letters are skipped.
func (m *Merger) RunAll(ctx context.Context, jobs []Job) ([]Result, error) {
	var results []Result
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := m.Run(ctx, job)
		if errors.Is(err, ErrNoFiles) {
			log.Printf("No %s letters found in %s, skipping", job.Category, job.InputDir)
			continue
		}
		if err != nil {
			return results, err
		}
		results = append(results, *res)
	}
	return results, nil
}

// OutputName is the merged file name for a category
func OutputName(category string, at time.Time) string {
	return fmt.Sprintf("Arrears_%s_Letters_Merged_%s.pdf", category, at.Format("20060102_150405"))
}

func removeMerged(dir string) error {
	old, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}
	for _, f := range old {
		if err := os.Remove(f); err != nil {
			return fmt.Errorf("failed to remove old merged file: %w", err)
		}
	}
	return nil
}
