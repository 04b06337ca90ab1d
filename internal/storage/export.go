package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/newton/internal/metrics"
)

type ExportData struct {
	RunMetadata
	Trace []TraceRow `json:"trace"`
}

type TraceRow struct {
	Iteration int     `json:"iteration"`
	X         []Float `json:"x"`
	GradNorm  Float   `json:"grad_norm"`
	F         Float   `json:"f"`
}

// Export writes meta and its trace as one indented JSON document.
func Export(w io.Writer, meta *RunMetadata, tr *metrics.Trace) error {
	data := ExportData{RunMetadata: *meta, Trace: make([]TraceRow, 0)}
	if tr != nil {
		for i := 0; i < tr.Len(); i++ {
			data.Trace = append(data.Trace, TraceRow{
				Iteration: tr.Iterations[i],
				X:         toFloats(tr.Points[i]),
				GradNorm:  Float(tr.GradNorms[i]),
				F:         Float(tr.Values[i]),
			})
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSON exports a stored run to w.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	tr, err := s.LoadTrace(runID)
	if err != nil {
		return err
	}
	return Export(w, meta, tr)
}

// ExportFile exports a stored run to the file at path.
func (s *Store) ExportFile(path, runID string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.ExportJSON(file, runID)
}
