package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/newton/internal/metrics"
	"github.com/san-kum/newton/internal/newton"
	"github.com/san-kum/newton/internal/numeric"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string           `json:"id"`
	Problem       string           `json:"problem"`
	Timestamp     time.Time        `json:"timestamp"`
	Derivatives   string           `json:"derivatives"`
	Solver        string           `json:"solver"`
	Scale         float64          `json:"scale"`
	MaxIterations int              `json:"max_iterations"`
	Iterations    int              `json:"iterations"`
	Status        string           `json:"status"`
	Start         []Float          `json:"start"`
	X             []Float          `json:"x"`
	GradientNorm  Float            `json:"gradient_norm"`
	Metrics       map[string]Float `json:"metrics"`
}

// Point returns the final iterate.
func (m *RunMetadata) Point() numeric.Point { return toPoint(m.X) }

// Record describes a finished solve to persist.
type Record struct {
	Problem       string
	Derivatives   string
	Solver        string
	Scale         float64
	MaxIterations int
	Start         numeric.Point
	Result        *newton.Result
	// Trace is optional; without it trace.csv holds only the header.
	Trace *metrics.Trace
}

// Save writes rec under a new run directory named after the problem and the
// current time, and returns the run ID.
func (s *Store) Save(rec Record) (string, error) {
	if rec.Result == nil {
		return "", errors.New("storage: nil result")
	}
	if err := s.Init(); err != nil {
		return "", err
	}

	now := time.Now()
	runID, runDir, err := s.makeRunDir(fmt.Sprintf("%s_%d", rec.Problem, now.Unix()))
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Problem:       rec.Problem,
		Timestamp:     now,
		Derivatives:   rec.Derivatives,
		Solver:        rec.Solver,
		Scale:         rec.Scale,
		MaxIterations: rec.MaxIterations,
		Iterations:    rec.Result.Iterations,
		Status:        rec.Result.Status.String(),
		Start:         toFloats(rec.Start),
		X:             toFloats(rec.Result.X),
		GradientNorm:  Float(rec.Result.GradientNorm),
		Metrics:       make(map[string]Float, len(rec.Result.Metrics)),
	}
	for k, v := range rec.Result.Metrics {
		meta.Metrics[k] = Float(v)
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeTrace(filepath.Join(runDir, traceFile), len(rec.Result.X), rec.Trace); err != nil {
		return "", err
	}
	return runID, nil
}

// makeRunDir creates a fresh directory for base, suffixing a counter when
// several runs land in the same second.
func (s *Store) makeRunDir(base string) (string, string, error) {
	runID := base
	for i := 2; ; i++ {
		dir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return runID, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTrace(path string, dim int, tr *metrics.Trace) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"iteration"}
	for i := 0; i < dim; i++ {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	header = append(header, "grad_norm", "f")
	if err := w.Write(header); err != nil {
		return err
	}

	if tr != nil {
		for i := 0; i < tr.Len(); i++ {
			row := []string{strconv.Itoa(tr.Iterations[i])}
			for _, v := range tr.Points[i] {
				row = append(row, formatFloat(v))
			}
			row = append(row, formatFloat(tr.GradNorms[i]), formatFloat(tr.Values[i]))
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrace reads the iterates recorded for runID.
func (s *Store) LoadTrace(runID string) (*metrics.Trace, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	tr := metrics.NewTrace(nil)
	if len(records) < 2 {
		return tr, nil
	}

	dim := len(records[0]) - 3
	if dim < 0 {
		return nil, fmt.Errorf("storage: malformed trace header %v", records[0])
	}

	for _, record := range records[1:] {
		it, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("storage: iteration %q: %w", record[0], err)
		}
		vals := make([]float64, len(record)-1)
		for j := range vals {
			vals[j], err = strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("storage: iteration %d: %w", it, err)
			}
		}
		tr.Iterations = append(tr.Iterations, it)
		tr.Points = append(tr.Points, numeric.Point(vals[:dim]))
		tr.GradNorms = append(tr.GradNorms, vals[dim])
		tr.Values = append(tr.Values, vals[dim+1])
	}

	return tr, nil
}
