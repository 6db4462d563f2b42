package config

import (
	"strings"

	"github.com/francoishill/grunt-process-includes/internal/domain"
)

// Task names one operation of a run
type Task string

// Supported tasks
const (
	TaskExpand             Task = "expand"
	TaskClone              Task = "clone"
	TaskEmitJSIncludeHTML  Task = "emitJsIncludeHtml"
	TaskEmitCSSIncludeHTML Task = "emitCssIncludeHtml"
	TaskEmitFileSizeCSV    Task = "emitFileSizeCsv"
)

// Tasks lists every supported task
var Tasks = []Task{TaskExpand, TaskClone, TaskEmitJSIncludeHTML, TaskEmitCSSIncludeHTML, TaskEmitFileSizeCSV}

// taskAliases maps the historical grunt target names
var taskAliases = map[string]Task{
	"generateExpandedJsonFile":         TaskExpand,
	"cloneCoffeeAndScss":               TaskClone,
	"generateMd5IncludeJsHtmlFile":     TaskEmitJSIncludeHTML,
	"generateMd5IncludeCssHtmlFile":    TaskEmitCSSIncludeHTML,
	"generateCsvOfIncludedFileSizeMap": TaskEmitFileSizeCSV,
}

// ParseTask resolves a task name or alias. Names are matched exactly.
func ParseTask(name string) (Task, error) {
	if name == "" {
		return "", domain.NewMissingKeyError(KeyTask)
	}
	for _, t := range Tasks {
		if string(t) == name {
			return t, nil
		}
	}
	if t, ok := taskAliases[name]; ok {
		return t, nil
	}

	names := make([]string, len(Tasks))
	for i, t := range Tasks {
		names[i] = string(t)
	}
	return "", domain.NewConfigurationError(KeyTask,
		"invalid task "+name+", allowed values are "+strings.Join(names, ","), domain.ErrUnknownTask)
}
