package manifest

import (
	"fmt"

	"github.com/francoishill/grunt-process-includes/internal/utils"
)

// Manifest is a parsed includes file
type Manifest struct {
	Sections []Section `yaml:"sections" json:"sections"`

	// Path is the file the manifest was loaded from, if any
	Path string `yaml:"-" json:"-"`
}

// Section is a named, independently includable list of file groups
type Section struct {
	Name       string      `yaml:"name" json:"name"`
	BaseDir    string      `yaml:"baseDir" json:"baseDir"`
	FileGroups []FileGroup `yaml:"fileGroups" json:"fileGroups"`
}

// FileGroup organizes files inside a section; it has no effect on output
type FileGroup struct {
	Name  string   `yaml:"name" json:"name"`
	Files []string `yaml:"files" json:"files"`
}

// Validate validates the manifest. A manifest without sections is valid and
// contributes nothing.
func (m *Manifest) Validate() error {
	seen := make(map[string]int, len(m.Sections))
	for i, sec := range m.Sections {
		if sec.Name == "" {
			return fmt.Errorf("section %d: %w", i, ErrEmptySectionName)
		}
		key := utils.FoldCase(sec.Name)
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("sections %d and %d (%s): %w", prev, i, sec.Name, ErrDuplicateSection)
		}
		seen[key] = i
	}
	return nil
}

// FileCount returns the number of file entries across all sections
func (m *Manifest) FileCount() int {
	n := 0
	for _, sec := range m.Sections {
		for _, g := range sec.FileGroups {
			n += len(g.Files)
		}
	}
	return n
}
