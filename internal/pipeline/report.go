package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cadenza-lang/cadenza/pkg/models"
)

// FileReport is the per-file slice of the statistics report.
type FileReport struct {
	Program  string                               `yaml:"program"`
	Verified bool                                 `yaml:"verified"`
	Units    map[string]models.PipelineStatistics `yaml:"units"`
	Total    models.PipelineStatistics            `yaml:"total"`
}

// Report is the document written by --report.
type Report struct {
	Status string       `yaml:"status"`
	Files  []FileReport `yaml:"files"`
}

// WriteReport marshals the collected per-file aggregates to path.
func WriteReport(path string, status models.ExitStatus, files []FileReport) error {
	doc := Report{Status: status.String(), Files: files}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
