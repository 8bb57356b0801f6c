package bundle

import (
	"regexp"
	"strings"

	"github.com/scriptpack-dev/scriptpack/internal/fileutil"
)

// Kind is the resolution strategy an import line calls for.
type Kind int

const (
	// KindNone marks a line that is not an import at all.
	KindNone Kind = iota
	// KindHelper marks a selective import from the shared helpers module.
	KindHelper
	// KindAdjacent marks a dotted cross-group import (group.script.file).
	KindAdjacent
	// KindSibling marks a same-family script import.
	KindSibling
	// KindUnknown marks an import line matching no known shape.
	KindUnknown
)

const (
	// helperMarker identifies imports from the shared helpers module.
	helperMarker = "common.helpers"
	// siblingMarker identifies same-family script imports.
	siblingMarker = ".script"
)

// symbolListRe captures the comma-separated symbol clause of a
// "from <module> import <names>" statement.
var symbolListRe = regexp.MustCompile(`from \S+ import (.+)`)

// Import is one classified line. Symbols is populated for helper
// imports, Dotted for adjacent ones.
type Import struct {
	Raw     string
	Kind    Kind
	Symbols map[string]bool
	Dotted  string
}

// Classify decides which resolution strategy applies to line.
// Precedence: the helper marker wins over everything, then a dotted
// three-segment path classifies adjacent, then the sibling marker.
// A line matching both the helper marker and a dotted path is
// helper-only.
func Classify(line string) Import {
	imp := Import{Raw: line}

	if !strings.HasPrefix(line, "import") && !strings.HasPrefix(line, "from") {
		return imp
	}

	if strings.Contains(line, helperMarker) {
		imp.Kind = KindHelper
		imp.Symbols = requestedSymbols(line)
		return imp
	}

	if dotted, ok := dottedPath(line); ok {
		imp.Kind = KindAdjacent
		imp.Dotted = dotted
		return imp
	}

	if strings.Contains(line, siblingMarker) {
		imp.Kind = KindSibling
		return imp
	}

	imp.Kind = KindUnknown
	return imp
}

// requestedSymbols derives the unique symbol set from an import's
// comma-separated name clause. An import without a name clause (plain
// "import common.helpers") yields an empty set.
func requestedSymbols(line string) map[string]bool {
	m := symbolListRe.FindStringSubmatch(line)
	if m == nil {
		return map[string]bool{}
	}
	return fileutil.ToSet(fileutil.SplitTrimmed(m[1], ","))
}

// dottedPath extracts the import target (the second whitespace token)
// when it forms a dotted path of at least three segments.
func dottedPath(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", false
	}
	target := fields[1]
	parts := strings.Split(target, ".")
	if len(parts) < 3 {
		return "", false
	}
	for _, part := range parts[:3] {
		if part == "" {
			return "", false
		}
	}
	return target, true
}
