package manifest

import (
	"iter"

	"github.com/francoishill/grunt-process-includes/internal/utils"
)

// FileRef is one resolved leaf file of a manifest
type FileRef struct {
	Section string
	Group   string
	Path    string
}

// Walker iterates manifests, skipping sections outside an InclusionSet.
// Sequences are restartable: every range walks the manifest again.
type Walker struct {
	logger *utils.Logger
}

// NewWalker creates a walker; a nil logger discards skip notices
func NewWalker(logger *utils.Logger) *Walker {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Walker{logger: logger.WithComponent("walker")}
}

// Sections yields the included sections in declaration order
func (w *Walker) Sections(m *Manifest, inc InclusionSet) iter.Seq[*Section] {
	return func(yield func(*Section) bool) {
		if m == nil {
			return
		}
		for i := range m.Sections {
			sec := &m.Sections[i]
			if !inc.Includes(sec.Name) {
				w.logger.Info().
					Str("section", sec.Name).
					Str("manifest", m.Path).
					Msg("Non-included section skipped")
				continue
			}
			if !yield(sec) {
				return
			}
		}
	}
}

// Files yields every file of the included sections, resolved as baseDir+file
func (w *Walker) Files(m *Manifest, inc InclusionSet) iter.Seq[FileRef] {
	return func(yield func(FileRef) bool) {
		for sec := range w.Sections(m, inc) {
			for _, g := range sec.FileGroups {
				for _, f := range g.Files {
					if !yield(FileRef{Section: sec.Name, Group: g.Name, Path: sec.BaseDir + f}) {
						return
					}
				}
			}
		}
	}
}

// SectionFiles yields each included section with its files flattened
// across groups
func (w *Walker) SectionFiles(m *Manifest, inc InclusionSet) iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for sec := range w.Sections(m, inc) {
			files := make([]string, 0)
			for _, g := range sec.FileGroups {
				for _, f := range g.Files {
					files = append(files, sec.BaseDir+f)
				}
			}
			if !yield(sec.Name, files) {
				return
			}
		}
	}
}

// SectionNames yields the names of the included sections
func (w *Walker) SectionNames(m *Manifest, inc InclusionSet) iter.Seq[string] {
	return func(yield func(string) bool) {
		for sec := range w.Sections(m, inc) {
			if !yield(sec.Name) {
				return
			}
		}
	}
}

// ForEachFile calls visit for every included file and stops at the first error
func (w *Walker) ForEachFile(m *Manifest, inc InclusionSet, visit func(section, group, path string) error) error {
	for ref := range w.Files(m, inc) {
		if err := visit(ref.Section, ref.Group, ref.Path); err != nil {
			return err
		}
	}
	return nil
}

// ForEachSectionFlatFiles calls visit once per included section
func (w *Walker) ForEachSectionFlatFiles(m *Manifest, inc InclusionSet, visit func(section string, files []string) error) error {
	for name, files := range w.SectionFiles(m, inc) {
		if err := visit(name, files); err != nil {
			return err
		}
	}
	return nil
}

// ForEachSectionName calls visit with each included section name
func (w *Walker) ForEachSectionName(m *Manifest, inc InclusionSet, visit func(section string) error) error {
	for name := range w.SectionNames(m, inc) {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}
