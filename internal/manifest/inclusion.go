package manifest

import "github.com/francoishill/grunt-process-includes/internal/utils"

// IncludeAllToken in a section list means "every section"
const IncludeAllToken = "*"

// InclusionSet selects sections by case-insensitive name. A nil set
// includes every section; an empty non-nil set includes none.
type InclusionSet []string

// NewInclusionSet builds a set from configured names. A nil list or one
// containing IncludeAllToken yields the include-all set; an empty list
// includes nothing.
func NewInclusionSet(names []string) InclusionSet {
	if names == nil {
		return nil
	}
	out := make(InclusionSet, 0, len(names))
	for _, n := range names {
		if n == IncludeAllToken {
			return nil
		}
		out = append(out, n)
	}
	return out
}

// IncludesAll reports whether the set places no restriction
func (s InclusionSet) IncludesAll() bool {
	return s == nil
}

// Includes reports whether section is selected
func (s InclusionSet) Includes(section string) bool {
	if s == nil {
		return true
	}
	folded := utils.FoldCase(section)
	for _, n := range s {
		if utils.FoldCase(n) == folded {
			return true
		}
	}
	return false
}
