// Package util holds small helpers shared by the message pipeline.
package util

import (
	"path/filepath"
	"regexp"
	"strings"
)

// languageToExt maps programming language names to file extensions for
// extracted code-block attachments.
var languageToExt = map[string]string{
	"python":     "py",
	"javascript": "js",
	"typescript": "ts",
	"java":       "java",
	"c++":        "cpp",
	"c":          "c",
	"html":       "html",
	"css":        "css",
	"bash":       "sh",
	"shell":      "sh",
	"php":        "php",
	"markdown":   "md",
	"dotenv":     "env",
	"json":       "json",
	"yaml":       "yaml",
	"xml":        "xml",
	"dockerfile": "dockerfile",
	"plaintext":  "txt",
	"toml":       "toml",
	"go":         "go",
	"ruby":       "rb",
	"rust":       "rs",
	"perl":       "pl",
	"swift":      "swift",
	"kotlin":     "kt",
	"sql":        "sql",
	"jsx":        "jsx",
	"tsx":        "tsx",
	"graphql":    "graphql",
	"r":          "r",
	"dart":       "dart",
	"scala":      "scala",
	"groovy":     "groovy",
	"mermaid":    "mmd",
}

var filenamePattern = regexp.MustCompile(`([a-zA-Z0-9_\-\.]+\.[a-zA-Z0-9]+)`)

// extractValidFilename pulls a filename with extension out of a line of text.
func extractValidFilename(line string) string {
	for _, match := range filenamePattern.FindAllString(line, -1) {
		if filepath.Ext(match) != "" {
			return match
		}
	}
	return ""
}

// GetExt returns the file extension for a language, defaulting to txt.
func GetExt(language string) string {
	if ext, ok := languageToExt[strings.ToLower(language)]; ok {
		return ext
	}
	return "txt"
}

// GetFilename infers a filename for a code block: a name mentioned near the
// top of the code wins, otherwise a generic one based on the language.
func GetFilename(code string, language string) string {
	lines := strings.Split(strings.TrimSpace(code), "\n")
	sample := ""
	if len(lines) > 0 {
		sample = lines[0]
		if len(lines) > 1 {
			sample += lines[1]
		}
	}
	sample = strings.ReplaceAll(sample, "\\", "")

	ext := GetExt(language)
	if name := extractValidFilename(sample); name != "" {
		if strings.HasSuffix(name, "."+ext) && len(name) <= 24 {
			return name
		}
		return name + "." + ext
	}
	return "snippet." + ext
}
