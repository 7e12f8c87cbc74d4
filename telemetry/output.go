package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pthm-cable/mitosis/config"
)

// Output file names inside the run directory.
const (
	StatsFile     = "stats.csv"
	PerfFile      = "perf.csv"
	DivisionsFile = "divisions.csv"
	BookmarksFile = "bookmarks.csv"
	ConfigFile    = "config.yaml"
)

// csvSink appends gocsv records to one file, writing the header once.
type csvSink struct {
	name          string
	file          *os.File
	headerWritten bool
}

func openSink(dir, name string) (*csvSink, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvSink{name: name, file: f}, nil
}

func (s *csvSink) write(records any) error {
	var err error
	if !s.headerWritten {
		// First write includes headers
		err = gocsv.Marshal(records, s.file)
		s.headerWritten = err == nil
	} else {
		err = gocsv.MarshalWithoutHeaders(records, s.file)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", s.name, err)
	}
	return nil
}

// OutputManager writes run telemetry as CSV files in one directory.
// A nil *OutputManager is valid and discards everything.
type OutputManager struct {
	dir       string
	stats     *csvSink
	perf      *csvSink
	divisions *csvSink
	bookmarks *csvSink
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	for _, target := range []struct {
		sink **csvSink
		name string
	}{
		{&om.stats, StatsFile},
		{&om.perf, PerfFile},
		{&om.divisions, DivisionsFile},
		{&om.bookmarks, BookmarksFile},
	} {
		sink, err := openSink(dir, target.name)
		if err != nil {
			om.Close()
			return nil, err
		}
		*target.sink = sink
	}

	return om, nil
}

// WriteConfig saves the run configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// WriteStats appends a window stats record to stats.csv.
func (om *OutputManager) WriteStats(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return om.stats.write([]WindowStats{stats})
}

// WritePerf appends a performance record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32, population int) error {
	if om == nil {
		return nil
	}
	return om.perf.write([]PerfStatsCSV{stats.ToCSV(windowEnd, population)})
}

// WriteDivision appends a division record to divisions.csv.
func (om *OutputManager) WriteDivision(rec DivisionRecord) error {
	if om == nil {
		return nil
	}
	return om.divisions.write([]DivisionRecord{rec})
}

// WriteBookmark appends a bookmark record to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	return om.bookmarks.write([]Bookmark{b})
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, sink := range []*csvSink{om.stats, om.perf, om.divisions, om.bookmarks} {
		if sink == nil {
			continue
		}
		if err := sink.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
