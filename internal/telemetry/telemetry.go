// Package telemetry writes per-episode CSV records and summarizes runs.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// EpisodeRecord is one CSV row describing a finished episode.
type EpisodeRecord struct {
	Episode int    `csv:"episode"`
	Player  string `csv:"player"`
	Seed    int64  `csv:"seed"`
	Score   int    `csv:"score"`
	Steps   int    `csv:"steps"`
	Merges  int    `csv:"merges"`
	MaxType int    `csv:"max_type"`
	Fruits  int    `csv:"fruits"`
	Reason  string `csv:"reason"`
	WallMS  int64  `csv:"wall_ms"`
}

// CSVWriter appends episode records to a CSV file.
// A nil *CSVWriter is valid and discards everything.
type CSVWriter struct {
	file          *os.File
	headerWritten bool
}

// NewCSVWriter creates (or truncates) the file at path.
// Returns nil if path is empty (output disabled).
func NewCSVWriter(path string) (*CSVWriter, error) {
	if path == "" {
		return nil, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating telemetry directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return &CSVWriter{file: f}, nil
}

// Write appends one record. The header is written before the first row.
func (w *CSVWriter) Write(rec EpisodeRecord) error {
	if w == nil {
		return nil
	}

	records := []EpisodeRecord{rec}

	if !w.headerWritten {
		if err := gocsv.Marshal(records, w.file); err != nil {
			return fmt.Errorf("writing episode: %w", err)
		}
		w.headerWritten = true
		return nil
	}

	if err := gocsv.MarshalWithoutHeaders(records, w.file); err != nil {
		return fmt.Errorf("writing episode: %w", err)
	}
	return nil
}

// Close flushes and closes the file.
func (w *CSVWriter) Close() error {
	if w == nil {
		return nil
	}
	return w.file.Close()
}

// ReadCSV loads records written by CSVWriter.
func ReadCSV(path string) ([]EpisodeRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []EpisodeRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return records, nil
}

// Summary aggregates scores over a set of episodes.
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	P10    float64
	P50    float64
	P90    float64

	MeanSteps  float64
	MeanMerges float64
}

// Summarize computes score statistics. An empty input yields a zero Summary.
func Summarize(records []EpisodeRecord) Summary {
	if len(records) == 0 {
		return Summary{}
	}

	scores := make([]float64, len(records))
	steps := make([]float64, len(records))
	merges := make([]float64, len(records))
	for i, r := range records {
		scores[i] = float64(r.Score)
		steps[i] = float64(r.Steps)
		merges[i] = float64(r.Merges)
	}

	s := Summary{Count: len(records)}
	s.Mean, s.StdDev = stat.MeanStdDev(scores, nil)
	if len(scores) == 1 {
		s.StdDev = 0
	}
	s.MeanSteps = stat.Mean(steps, nil)
	s.MeanMerges = stat.Mean(merges, nil)
	s.Min = floats.Min(scores)
	s.Max = floats.Max(scores)

	sort.Float64s(scores)
	s.P10 = stat.Quantile(0.1, stat.Empirical, scores, nil)
	s.P50 = stat.Quantile(0.5, stat.Empirical, scores, nil)
	s.P90 = stat.Quantile(0.9, stat.Empirical, scores, nil)

	return s
}

// String formats the summary on one line.
func (s Summary) String() string {
	return fmt.Sprintf("episodes=%d score mean=%.1f sd=%.1f min=%.0f p10=%.0f p50=%.0f p90=%.0f max=%.0f",
		s.Count, s.Mean, s.StdDev, s.Min, s.P10, s.P50, s.P90, s.Max)
}
