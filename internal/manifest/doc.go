// Package manifest loads asset manifests and walks their sections, file
// groups and files. A manifest names sections of front-end source files,
// each rooted at a base directory:
//
// # Manifest Format
//
// Manifests are JSON (YAML is accepted too):
//
//	{
//	  "sections": [
//	    {
//	      "name": "core",
//	      "baseDir": "src/js/",
//	      "fileGroups": [
//	        { "name": "libs", "files": ["libs/jquery.js"] },
//	        { "name": "app",  "files": ["app.coffee", "routes.coffee"] }
//	      ]
//	    }
//	  ]
//	}
//
// A file's resolved path is the section's baseDir concatenated with the file
// entry as written; no separator is inserted.
//
// # Usage
//
//	loader := manifest.NewLoader(fsys.NewOS())
//	m, err := loader.Load("includes/js.json")
//	if err != nil {
//	    return err
//	}
//
//	walker := manifest.NewWalker(logger)
//	for ref := range walker.Files(m, manifest.NewInclusionSet([]string{"core"})) {
//	    // ref.Section, ref.Group, ref.Path
//	}
//
// # Error Handling
//
// The package defines sentinel errors for common failure cases:
//   - ErrEmptySectionName: a section has no name
//   - ErrDuplicateSection: two sections share a name (case-insensitive)
//   - ErrInvalidFormat: file is not valid JSON/YAML
//   - ErrFileNotFound: manifest file does not exist
//   - ErrUnsupportedExt: unsupported file extension
package manifest
