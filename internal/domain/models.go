package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MediaType distinguishes the two asset families a manifest can describe
type MediaType string

const (
	MediaJS  MediaType = "js"
	MediaCSS MediaType = "css"
)

// PreprocessorKind names the preprocessor a source file goes through
type PreprocessorKind string

const (
	PreprocessorNone   PreprocessorKind = ""
	PreprocessorCoffee PreprocessorKind = "coffee"
	PreprocessorScss   PreprocessorKind = "scss"
)

// DefaultConcatBanner is written into every concat target; it is expanded by
// the concatenation tool, not by this module.
const DefaultConcatBanner = "/*! <%= pkg.name %> <%= grunt.template.today(\"yyyy-mm-dd\") %> */\n"

// ExpandedFileEntry is one leaf file of a manifest after path resolution
type ExpandedFileEntry struct {
	SectionName       string           `json:"section_name"`
	GroupName         string           `json:"group_name"`
	SourceFile        string           `json:"source_file"`
	ClonedPath        *string          `json:"cloned_path"`
	FinalPath         string           `json:"final_path"`
	IsPlaceholderFile bool             `json:"is_placeholder_file"`
	IsJS              bool             `json:"is_js"`
	IsCSS             bool             `json:"is_css"`
	IsCoffee          bool             `json:"is_coffee"`
	IsScss            bool             `json:"is_scss"`
	IsPreprocessed    bool             `json:"is_preprocessed"`
	PreprocessorKind  PreprocessorKind `json:"preprocessor_kind,omitempty"`
}

// NeedsClone reports whether the entry is flagged for the clone step
func (e *ExpandedFileEntry) NeedsClone() bool {
	return e.IsPreprocessed || e.IsCoffee || e.IsScss
}

// Is returns true if the entry belongs to the given media type
func (e *ExpandedFileEntry) Is(media MediaType) bool {
	switch media {
	case MediaJS:
		return e.IsJS
	case MediaCSS:
		return e.IsCSS
	}
	return false
}

// ConcatOptions mirrors the options block of a grunt-contrib-concat target
type ConcatOptions struct {
	Banner           string `json:"banner"`
	PreserveComments bool   `json:"preserveComments"`
	NonNull          bool   `json:"nonull"`
}

// ConcatTask describes how one section of one media type is concatenated
type ConcatTask struct {
	Options      ConcatOptions `json:"options"`
	IsJS         bool          `json:"task_is_js"`
	IsCSS        bool          `json:"task_is_css"`
	MinifiedDest string        `json:"task_minified_dest"`
	Sources      []string      `json:"src"`
	Dest         string        `json:"dest"`
}

// Is returns true if the task concatenates the given media type
func (t *ConcatTask) Is(media MediaType) bool {
	switch media {
	case MediaJS:
		return t.IsJS
	case MediaCSS:
		return t.IsCSS
	}
	return false
}

// ConcatTaskSetup maps task keys to concat tasks, keeping first-insertion order
type ConcatTaskSetup struct {
	keys  []string
	tasks map[string]*ConcatTask
}

// NewConcatTaskSetup creates an empty setup
func NewConcatTaskSetup() *ConcatTaskSetup {
	return &ConcatTaskSetup{tasks: make(map[string]*ConcatTask)}
}

// ConcatTaskKey builds the key of a concat task: dest_{js|css}_{section}
func ConcatTaskKey(media MediaType, section string) string {
	return "dest_" + string(media) + "_" + section
}

// Get returns the task for key
func (s *ConcatTaskSetup) Get(key string) (*ConcatTask, bool) {
	if s == nil || s.tasks == nil {
		return nil, false
	}
	t, ok := s.tasks[key]
	return t, ok
}

// GetOrCreate returns the task for key, calling create on first sight
func (s *ConcatTaskSetup) GetOrCreate(key string, create func() *ConcatTask) *ConcatTask {
	if s.tasks == nil {
		s.tasks = make(map[string]*ConcatTask)
	}
	if t, ok := s.tasks[key]; ok {
		return t
	}
	t := create()
	s.keys = append(s.keys, key)
	s.tasks[key] = t
	return t
}

// Keys returns the task keys in insertion order
func (s *ConcatTaskSetup) Keys() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of tasks
func (s *ConcatTaskSetup) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Each calls fn for every task in insertion order
func (s *ConcatTaskSetup) Each(fn func(key string, task *ConcatTask)) {
	if s == nil {
		return
	}
	for _, k := range s.keys {
		fn(k, s.tasks[k])
	}
}

// MarshalJSON writes the tasks as a JSON object in insertion order
func (s *ConcatTaskSetup) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if s != nil {
		for i, k := range s.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			val, err := json.Marshal(s.tasks[k])
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(val)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping the key order of the document
func (s *ConcatTaskSetup) UnmarshalJSON(data []byte) error {
	s.keys = nil
	s.tasks = make(map[string]*ConcatTask)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("concat_task_setup: expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("concat_task_setup: expected string key, got %v", keyTok)
		}
		var task ConcatTask
		if err := dec.Decode(&task); err != nil {
			return fmt.Errorf("concat_task_setup[%s]: %w", key, err)
		}
		if _, dup := s.tasks[key]; !dup {
			s.keys = append(s.keys, key)
		}
		s.tasks[key] = &task
	}
	_, err = dec.Token()
	return err
}

// ExpandedManifest is the intermediate artifact consumed by every emitter
type ExpandedManifest struct {
	ConcatTaskSetup *ConcatTaskSetup    `json:"concat_task_setup"`
	LooseFiles      []ExpandedFileEntry `json:"loose_files"`
}

// NewExpandedManifest creates an empty expanded manifest
func NewExpandedManifest() *ExpandedManifest {
	return &ExpandedManifest{
		ConcatTaskSetup: NewConcatTaskSetup(),
		LooseFiles:      make([]ExpandedFileEntry, 0),
	}
}
