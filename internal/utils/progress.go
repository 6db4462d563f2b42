package utils

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// Standard progress bar descriptions
const (
	DescCloning   = "Cloning"
	DescHashing   = "Fingerprinting"
	DescMeasuring = "Measuring"
)

// NewProgressBar creates a consistently styled progress bar.
//
// Parameters:
//   - total: Total number of items. Use -1 for unknown totals (spinner mode).
//   - description: Text shown before the bar (DescCloning, DescHashing, ...).
//   - out: Destination writer; nil means stderr.
//
// Example:
//
//	bar := utils.NewProgressBar(len(files), utils.DescCloning, nil)
//	defer bar.Finish()
//
//	for _, f := range files {
//	    // copy f
//	    bar.Add(1)
//	}
func NewProgressBar(total int, description string, out io.Writer) *progressbar.ProgressBar {
	opts := []progressbar.Option{
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
	}
	if out != nil {
		opts = append(opts, progressbar.OptionSetWriter(out))
	}

	if total < 0 {
		opts = append(opts,
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetRenderBlankState(true),
		)
	} else {
		opts = append(opts,
			progressbar.OptionShowIts(),
		)
	}

	return progressbar.NewOptions(total, opts...)
}
