package utils

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/francoishill/grunt-process-includes/internal/domain"
)

// FoldCase returns the case-folded form of s used for every case-insensitive
// comparison of section names and placeholder patterns.
func FoldCase(s string) string {
	return cases.Fold().String(s)
}

// ChangeExtension replaces the extension of the final path segment.
// newExt gets a leading '.' if it lacks one. A segment without a '.' gets the
// extension appended.
func ChangeExtension(p, newExt string) string {
	if !strings.HasPrefix(newExt, ".") {
		newExt = "." + newExt
	}
	segStart := strings.LastIndexAny(p, `/\`) + 1
	dot := strings.LastIndexByte(p[segStart:], '.')
	if dot < 0 {
		return p + newExt
	}
	return p[:segStart+dot] + newExt
}

// Ext returns the extension of the final path segment: the suffix starting at
// its last '.'. A segment whose last '.' is its first character, such as
// ".coffee", has no extension, matching Node's path.extname.
func Ext(p string) string {
	seg := p[strings.LastIndexAny(p, `/\`)+1:]
	dot := strings.LastIndexByte(seg, '.')
	if dot <= 0 || seg == ".." {
		return ""
	}
	return seg[dot:]
}

// StripBaseDir returns what remains of p after removing baseDir, which must
// be a case-insensitive literal prefix of p. The prefix is matched one
// character at a time, so upper and lower case forms of different byte
// lengths (K and the Kelvin sign) still match.
func StripBaseDir(p, baseDir string) (string, error) {
	rest, prefix := p, baseDir
	for prefix != "" {
		want, wn := utf8.DecodeRuneInString(prefix)
		got, gn := utf8.DecodeRuneInString(rest)
		if gn == 0 {
			return "", domain.NewPathMismatchError(p, baseDir)
		}
		if rest[:gn] != prefix[:wn] {
			// invalid bytes only match themselves
			if want == utf8.RuneError || got == utf8.RuneError || !strings.EqualFold(rest[:gn], prefix[:wn]) {
				return "", domain.NewPathMismatchError(p, baseDir)
			}
		}
		rest, prefix = rest[gn:], prefix[wn:]
	}
	return rest, nil
}

// ResolveCompiledPath relocates a preprocessed source into its compiled
// location. Files whose extension is not srcExt are returned unchanged.
//
// Example: ("src/js/app.coffee", ".coffee", ".js", "src/js/", "build/js/")
// yields "build/js/app.js".
func ResolveCompiledPath(source, srcExt, destExt, srcBaseDir, destBaseDir string) (string, error) {
	if Ext(source) != srcExt {
		return source, nil
	}
	rel, err := StripBaseDir(source, srcBaseDir)
	if err != nil {
		return "", err
	}
	return ChangeExtension(destBaseDir+rel, destExt), nil
}

// ApplyPlaceholder returns the replacement of the first placeholder whose
// pattern equals p or is a suffix of p (trimmed, case-insensitive). Empty
// patterns never match. When nothing matches p is returned with false.
func ApplyPlaceholder(p string, placeholders domain.PlaceholderMap) (string, bool) {
	if p == "" || len(placeholders) == 0 {
		return p, false
	}
	folded := FoldCase(strings.TrimSpace(p))
	for _, ph := range placeholders {
		pattern := FoldCase(strings.TrimSpace(ph.Pattern))
		if pattern == "" {
			continue
		}
		if strings.HasSuffix(folded, pattern) {
			return ph.Replacement, true
		}
	}
	return p, false
}

// EnsureNoLeadingSlash strips every leading '/'
func EnsureNoLeadingSlash(p string) string {
	return strings.TrimLeft(p, "/")
}
