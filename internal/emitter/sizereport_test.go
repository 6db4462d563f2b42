package emitter

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francoishill/grunt-process-includes/internal/domain"
	"github.com/francoishill/grunt-process-includes/internal/fsys"
)

func twoFileManifest() *domain.ExpandedManifest {
	em := domain.NewExpandedManifest()
	em.LooseFiles = []domain.ExpandedFileEntry{
		{FinalPath: "build/js/a.js", IsJS: true},
		{FinalPath: "build/css/b.css", IsCSS: true},
	}
	return em
}

func twoFileFS(t *testing.T) *fsys.FileSystem {
	t.Helper()
	fs := fsys.NewMemory()
	writeFiles(t, fs, map[string]string{
		"build/js/a.js":   strings.Repeat("a", 100),
		"build/css/b.css": strings.Repeat("b", 300),
	})
	return fs
}

func TestSizeReporter_TwoFiles(t *testing.T) {
	fs := twoFileFS(t)

	_, err := NewSizeReporter(fs, SizeReporterOptions{}).WriteFile(context.Background(), twoFileManifest(), "report/sizes.csv")
	require.NoError(t, err)

	data, err := fs.ReadFile("report/sizes.csv")
	require.NoError(t, err)
	assert.Equal(t, "FileRelativePath,FileSize\n"+
		"build/js/a.js,100\n"+
		"build/css/b.css,300\n"+
		"--------------,------\n"+
		"TOTAL SIZE (bytes),400\n"+
		"TOTAL SIZE (kB),0\n"+
		"TOTAL SIZE (MB),0\n", string(data))
}

func TestSizeReporter_QuotesPathsThatNeedIt(t *testing.T) {
	fs := fsys.NewMemory()
	writeFiles(t, fs, map[string]string{
		"build/js/a,b.js":        "abc",
		`build/css/say "hi".css`: "abcd",
		"build/js/plain.js":      "ab",
	})
	em := domain.NewExpandedManifest()
	em.LooseFiles = []domain.ExpandedFileEntry{
		{FinalPath: "build/js/a,b.js", IsJS: true},
		{FinalPath: `build/css/say "hi".css`, IsCSS: true},
		{FinalPath: "build/js/plain.js", IsJS: true},
	}

	report, err := NewSizeReporter(fs, SizeReporterOptions{}).Report(context.Background(), em)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf))

	lines := strings.Split(buf.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, `"build/js/a,b.js",3`, lines[1])
	assert.Equal(t, `"build/css/say ""hi"".css",4`, lines[2])
	assert.Equal(t, "build/js/plain.js,2", lines[3])

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"build/js/a,b.js", "3"}, records[1])
	assert.Equal(t, []string{`build/css/say "hi".css`, "4"}, records[2])
}

func TestSizeReporter_Idempotent(t *testing.T) {
	fs := twoFileFS(t)
	reporter := NewSizeReporter(fs, SizeReporterOptions{})
	em := twoFileManifest()

	_, err := reporter.WriteFile(context.Background(), em, "first.csv")
	require.NoError(t, err)
	_, err = reporter.WriteFile(context.Background(), em, "second.csv")
	require.NoError(t, err)

	first, err := fs.ReadFile("first.csv")
	require.NoError(t, err)
	second, err := fs.ReadFile("second.csv")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSizeReport_Totals(t *testing.T) {
	tests := []struct {
		total int64
		kb    string
		mb    string
	}{
		{0, "0", "0"},
		{511, "0", "0"},
		{512, "1", "0"},
		{1536, "2", "0"},
		{5243, "5", "0.01"},
		{1572864, "1536", "1.5"},
		{2359296, "2304", "2.25"},
		{10485760, "10240", "10"},
	}

	for _, tt := range tests {
		r := &SizeReport{Total: tt.total}
		var buf bytes.Buffer
		require.NoError(t, r.WriteCSV(&buf))

		got := lines(buf.String())
		require.Len(t, got, 5)
		assert.Equal(t, "TOTAL SIZE (kB),"+tt.kb, got[3], "total %d", tt.total)
		assert.Equal(t, "TOTAL SIZE (MB),"+tt.mb, got[4], "total %d", tt.total)
	}
}

func TestSizeReporter_Gzip(t *testing.T) {
	fs := twoFileFS(t)

	report, err := NewSizeReporter(fs, SizeReporterOptions{Gzip: true}).Report(context.Background(), twoFileManifest())
	require.NoError(t, err)

	require.Len(t, report.Rows, 2)
	for _, row := range report.Rows {
		assert.Greater(t, row.GzipSize, int64(0))
		assert.Less(t, row.GzipSize, row.Size)
	}
	assert.Equal(t, report.Rows[0].GzipSize+report.Rows[1].GzipSize, report.TotalGzip)

	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf))
	got := lines(buf.String())
	assert.Equal(t, "FileRelativePath,FileSize,GzipSize", got[0])
	assert.True(t, strings.HasPrefix(got[1], "build/js/a.js,100,"))
	assert.Equal(t, "TOTAL SIZE (bytes),400", got[4])
}

func TestSizeReporter_MissingFile(t *testing.T) {
	em := twoFileManifest()
	em.LooseFiles[1].FinalPath = "nope.css"

	_, err := NewSizeReporter(twoFileFS(t), SizeReporterOptions{}).Report(context.Background(), em)
	assert.Error(t, err)
}

func TestSizeReporter_Progress(t *testing.T) {
	var out bytes.Buffer
	_, err := NewSizeReporter(twoFileFS(t), SizeReporterOptions{Progress: &out}).Report(context.Background(), twoFileManifest())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Measuring")
}
