// Package storage persists acquisition sessions as two-column datasets.
package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/galileo/internal/session"
)

const (
	TimeColumn  = "Time"
	AngleColumn = "Angle"

	filePrefix   = "galileo_"
	stampLayout  = "2006-01-02_15-04-05"
	csvExtension = ".csv"
	matExtension = ".mat"
)

var (
	// ErrMissingColumns is returned when a dataset lacks Time or Angle.
	ErrMissingColumns = errors.New("storage: dataset must contain 'Time' and 'Angle' columns")

	// ErrMalformedRow indicates a row whose Time or Angle is not a number.
	ErrMalformedRow = errors.New("storage: malformed row")

	// ErrUnsupportedFormat is returned for extensions other than .csv and .mat.
	ErrUnsupportedFormat = errors.New("storage: unsupported dataset format")
)

// Store writes sessions into a directory, one timestamped file per save.
type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Save writes samples to <dir>/galileo_<timestamp>.csv and, when withMAT is
// set, a .mat twin. It returns the paths written.
func (s *Store) Save(samples []session.Sample, withMAT bool) ([]string, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	base := filepath.Join(s.baseDir, filePrefix+s.now().Format(stampLayout))

	csvPath := base + csvExtension
	if err := writeFile(csvPath, samples, WriteCSV); err != nil {
		return nil, err
	}
	paths := []string{csvPath}

	if withMAT {
		matPath := base + matExtension
		if err := writeFile(matPath, samples, WriteMAT); err != nil {
			return paths, err
		}
		paths = append(paths, matPath)
	}
	return paths, nil
}

func writeFile(path string, samples []session.Sample, write func(io.Writer, []session.Sample) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f, samples); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// WriteCSV writes the header Time,Angle followed by one row per sample.
func WriteCSV(w io.Writer, samples []session.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{TimeColumn, AngleColumn}); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			strconv.FormatFloat(s.Time, 'g', -1, 64),
			strconv.FormatFloat(s.Angle, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a dataset with Time and Angle columns in any position.
// Other columns are ignored.
func ReadCSV(r io.Reader) ([]session.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrMissingColumns
	}
	if err != nil {
		return nil, err
	}

	timeIdx, angleIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case TimeColumn:
			timeIdx = i
		case AngleColumn:
			angleIdx = i
		}
	}
	if timeIdx < 0 || angleIdx < 0 {
		return nil, ErrMissingColumns
	}

	samples := make([]session.Sample, 0)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if timeIdx >= len(record) || angleIdx >= len(record) {
			return nil, fmt.Errorf("%w at line %d: expected %d fields, got %d", ErrMalformedRow, line, len(header), len(record))
		}
		t, err := strconv.ParseFloat(strings.TrimSpace(record[timeIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w at line %d: %v", ErrMalformedRow, line, err)
		}
		a, err := strconv.ParseFloat(strings.TrimSpace(record[angleIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w at line %d: %v", ErrMalformedRow, line, err)
		}
		samples = append(samples, session.Sample{Time: t, Angle: a})
	}
	return samples, nil
}

// Load reads a dataset from a .csv or .mat file.
func Load(path string) ([]session.Sample, error) {
	var read func(io.Reader) ([]session.Sample, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case csvExtension:
		read = ReadCSV
	case matExtension:
		read = ReadMAT
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	samples, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return samples, nil
}

// Columns splits samples into time and angle slices.
func Columns(samples []session.Sample) (times, angles []float64) {
	times = make([]float64, len(samples))
	angles = make([]float64, len(samples))
	for i, s := range samples {
		times[i] = s.Time
		angles[i] = s.Angle
	}
	return times, angles
}
