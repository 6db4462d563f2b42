package emitter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/klauspost/compress/gzip"

	"github.com/francoishill/grunt-process-includes/internal/domain"
	"github.com/francoishill/grunt-process-includes/internal/utils"
)

// CSV layout of the size report
const (
	HeaderPath      = "FileRelativePath"
	HeaderSize      = "FileSize"
	HeaderGzipSize  = "GzipSize"
	separatorPath   = "--------------"
	separatorSize   = "------"
	totalBytesLabel = "TOTAL SIZE (bytes)"
	totalKBLabel    = "TOTAL SIZE (kB)"
	totalMBLabel    = "TOTAL SIZE (MB)"
)

// SizeRow is the measurement of one loose file
type SizeRow struct {
	Path     string
	Size     int64
	GzipSize int64
}

// SizeReport holds the measured loose files in manifest order
type SizeReport struct {
	Rows      []SizeRow
	Total     int64
	TotalGzip int64
	// WithGzip adds the gzip column to the CSV
	WithGzip bool
}

// KB returns the total in kilobytes, rounded half up
func (r *SizeReport) KB() int64 {
	return int64(math.Floor(float64(r.Total)/1024 + 0.5))
}

// MB returns the total in megabytes, rounded half up to two decimals
func (r *SizeReport) MB() float64 {
	return math.Floor(100*float64(r.Total)/(1024*1024)+0.5) / 100
}

// SizeReporter measures the final path of every loose file
type SizeReporter struct {
	fs       domain.FileSystem
	logger   *utils.Logger
	gzip     bool
	progress io.Writer
}

// SizeReporterOptions configures a SizeReporter
type SizeReporterOptions struct {
	Logger *utils.Logger
	// Gzip also measures the gzip-compressed size of every file
	Gzip     bool
	Progress io.Writer
}

// NewSizeReporter creates a SizeReporter
func NewSizeReporter(fsys domain.FileSystem, opts SizeReporterOptions) *SizeReporter {
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}
	return &SizeReporter{
		fs:       fsys,
		logger:   opts.Logger.WithComponent("sizereport"),
		gzip:     opts.Gzip,
		progress: opts.Progress,
	}
}

// Report measures every loose file
func (s *SizeReporter) Report(ctx context.Context, em *domain.ExpandedManifest) (*SizeReport, error) {
	report := &SizeReport{Rows: make([]SizeRow, 0), WithGzip: s.gzip}
	if em == nil {
		return report, nil
	}

	var advance func()
	if s.progress != nil && len(em.LooseFiles) > 0 {
		bar := utils.NewProgressBar(len(em.LooseFiles), utils.DescMeasuring, s.progress)
		defer bar.Finish()
		advance = func() { _ = bar.Add(1) }
	}

	for _, entry := range em.LooseFiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row := SizeRow{Path: entry.FinalPath}
		size, err := s.fs.ByteLength(entry.FinalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to measure %s: %w", entry.FinalPath, err)
		}
		row.Size = size

		if s.gzip {
			row.GzipSize, err = s.gzipSize(entry.FinalPath)
			if err != nil {
				return nil, err
			}
			report.TotalGzip += row.GzipSize
		}

		report.Rows = append(report.Rows, row)
		report.Total += size
		if advance != nil {
			advance()
		}
	}

	return report, nil
}

func (s *SizeReporter) gzipSize(path string) (int64, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return 0, err
	}
	if _, err := zw.Write(data); err != nil {
		return 0, err
	}
	if err := zw.Close(); err != nil {
		return 0, err
	}
	return int64(buf.Len()), nil
}

// WriteCSV writes the report: a header, one row per file, a separator and
// the three total rows
func (r *SizeReport) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := []string{HeaderPath, HeaderSize}
	if r.WithGzip {
		header = append(header, HeaderGzipSize)
	}
	records := [][]string{header}

	for _, row := range r.Rows {
		rec := []string{row.Path, strconv.FormatInt(row.Size, 10)}
		if r.WithGzip {
			rec = append(rec, strconv.FormatInt(row.GzipSize, 10))
		}
		records = append(records, rec)
	}

	records = append(records,
		[]string{separatorPath, separatorSize},
		[]string{totalBytesLabel, strconv.FormatInt(r.Total, 10)},
		[]string{totalKBLabel, strconv.FormatInt(r.KB(), 10)},
		[]string{totalMBLabel, strconv.FormatFloat(r.MB(), 'f', -1, 64)},
	)

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write size report: %w", err)
	}
	return nil
}

// WriteFile measures em and writes the CSV report to outPath
func (s *SizeReporter) WriteFile(ctx context.Context, em *domain.ExpandedManifest, outPath string) (*SizeReport, error) {
	report, err := s.Report(ctx, em)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf); err != nil {
		return nil, err
	}
	if err := s.fs.WriteFile(outPath, buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	s.logger.Info().
		Int("files", len(report.Rows)).
		Int64("total_bytes", report.Total).
		Str("output", outPath).
		Msg("Size report written")
	return report, nil
}
