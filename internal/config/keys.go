package config

// Configuration keys
const (
	KeyTask = "task"

	KeyJSManifests     = "expand.js_manifests"
	KeyCSSManifests    = "expand.css_manifests"
	KeyJSSections      = "expand.js_sections"
	KeyCSSSections     = "expand.css_sections"
	KeyBaseCoffeeDir   = "expand.base_coffee_dir"
	KeyBaseScssDir     = "expand.base_scss_dir"
	KeyClonedCoffeeDir = "expand.cloned_coffee_dir"
	KeyClonedScssDir   = "expand.cloned_scss_dir"
	KeyCompiledJSDir   = "expand.compiled_js_dir"
	KeyCompiledCSSDir  = "expand.compiled_css_dir"
	KeyJSPlaceholders  = "expand.js_placeholders"
	KeyCSSPlaceholders = "expand.css_placeholders"
	KeyCombinedJSDir   = "expand.combined_js_dir"
	KeyCombinedCSSDir  = "expand.combined_css_dir"
	KeyMinifiedJSDir   = "expand.minified_js_dir"
	KeyMinifiedCSSDir  = "expand.minified_css_dir"
	KeyExpandOutput    = "expand.output"

	KeyExpandedManifest = "expanded_manifest"

	KeyHTMLOutput          = "html.output"
	KeyHTMLUseCombinedPath = "html.use_combined_path"

	KeyReportOutput = "report.output"
	KeyReportGzip   = "report.gzip"

	KeyCacheEnabled   = "cache.enabled"
	KeyCacheTTL       = "cache.ttl"
	KeyCacheDirectory = "cache.directory"

	KeyStateEnabled = "state.enabled"
	KeyStateFile    = "state.file"

	KeyLoggingLevel  = "logging.level"
	KeyLoggingFormat = "logging.format"

	KeyProgress = "progress"
)

var expandKeys = []string{
	KeyJSManifests,
	KeyCSSManifests,
	KeyJSSections,
	KeyCSSSections,
	KeyBaseCoffeeDir,
	KeyBaseScssDir,
	KeyClonedCoffeeDir,
	KeyClonedScssDir,
	KeyCompiledJSDir,
	KeyCompiledCSSDir,
	KeyJSPlaceholders,
	KeyCSSPlaceholders,
	KeyCombinedJSDir,
	KeyCombinedCSSDir,
	KeyMinifiedJSDir,
	KeyMinifiedCSSDir,
	KeyExpandOutput,
}

// RequiredKeys lists the keys task needs, in the order they are checked
func RequiredKeys(task Task) []string {
	switch task {
	case TaskExpand:
		return append([]string(nil), expandKeys...)
	case TaskClone:
		return []string{KeyExpandedManifest}
	case TaskEmitJSIncludeHTML, TaskEmitCSSIncludeHTML:
		return []string{KeyExpandedManifest, KeyHTMLUseCombinedPath, KeyHTMLOutput}
	case TaskEmitFileSizeCSV:
		return []string{KeyExpandedManifest, KeyReportOutput}
	default:
		return nil
	}
}

// trackedKeys are checked for presence when loading
func trackedKeys() []string {
	keys := append([]string{KeyTask}, expandKeys...)
	return append(keys, KeyExpandedManifest, KeyHTMLOutput, KeyHTMLUseCombinedPath, KeyReportOutput)
}

// envKeys are bound explicitly so values set only in the environment are
// decoded too
func envKeys() []string {
	return append(trackedKeys(),
		KeyReportGzip, KeyCacheEnabled, KeyCacheTTL, KeyCacheDirectory,
		KeyStateEnabled, KeyStateFile, KeyLoggingLevel, KeyLoggingFormat, KeyProgress)
}
