package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/risklab/xolsim/internal/analysis"
)

// Writer persists report artifacts to an output directory, one
// timestamped JSON and text pair per run.
type Writer struct {
	outputDir string
}

// NewWriter creates a writer rooted at outputDir.
func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

// Write stores both renderings of a report and returns the JSON path.
func (w *Writer) Write(r *analysis.Report) (string, error) {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	stamp := r.GeneratedAt.Format("20060102_150405")
	base := filepath.Join(w.outputDir, fmt.Sprintf("analysis_%s_%s", stamp, shortID(r.RunID)))

	data, err := RenderJSON(r)
	if err != nil {
		return "", err
	}
	jsonPath := base + ".json"
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report JSON: %w", err)
	}

	textPath := base + ".txt"
	if err := os.WriteFile(textPath, []byte(RenderText(r)), 0644); err != nil {
		return "", fmt.Errorf("failed to write report text: %w", err)
	}

	log.Info().Str("path", jsonPath).Msg("report artifacts written")
	return jsonPath, nil
}

func shortID(runID string) string {
	if len(runID) >= 8 {
		return runID[:8]
	}
	return runID
}
