package pipeline

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/Orange-OpenSource/angular-css-shrink/internal/collections"
	"github.com/Orange-OpenSource/angular-css-shrink/internal/log"
)

// Debug artifact names
const (
	DebugScriptsFile   = "css-shrink-debug-alljs.js"
	DebugClassListFile = "css-shrink-debug-classlist.txt"
	debugOriginalFmt   = "css-shrink-debug-original-"
)

// DebugOriginalFile returns the artifact name holding the unfiltered text of
// stylesheet. Separators are percent-encoded so distinct paths never share a name.
func DebugOriginalFile(stylesheet string) string {
	base := strings.TrimSuffix(stylesheet, filepath.Ext(stylesheet))
	return debugOriginalFmt + url.PathEscape(base) + ".css"
}

// debugWriter persists intermediate artifacts. Failures are logged and ignored.
type debugWriter struct {
	dir string
}

func newDebugWriter(dir string) *debugWriter {
	if dir == "" {
		dir = "."
	}
	return &debugWriter{dir: dir}
}

func (w *debugWriter) scripts(texts []string) {
	w.write(DebugScriptsFile, strings.Join(texts, " "))
}

func (w *debugWriter) classList(set collections.Set[string]) {
	w.write(DebugClassListFile, strings.Join(collections.Sorted(set), "\n"))
}

func (w *debugWriter) original(stylesheet, text string) {
	w.write(DebugOriginalFile(stylesheet), text)
}

func (w *debugWriter) write(name, text string) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		log.Warn("Failed to create debug directory %s: %v", w.dir, err)
		return
	}
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		log.Warn("Failed to write %s: %v", path, err)
		return
	}
	log.Debug("Wrote %s", path)
}
