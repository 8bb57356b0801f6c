package bundle

import (
	"regexp"

	"github.com/scriptpack-dev/scriptpack/internal/fileutil"
)

// Definition headers the extractor recognizes: top-level function
// definitions and upper-case constant assignments. Indented headers
// never match.
var (
	defHeaderRe   = regexp.MustCompile(`^def (\w+)\(`)
	constHeaderRe = regexp.MustCompile(`^([A-Z_]+)\s*=`)
)

// scanState is the extractor's explicit scanner state.
type scanState int

const (
	scanIdle scanState = iota
	scanCapturing
)

// ExtractSymbols scans a helpers module and returns the lines belonging
// to the requested symbols, in module order. Symbols absent from the
// module contribute nothing; that is not an error.
//
// Block boundary rule, preserved exactly: a block opens at a definition
// header whose name is requested, and closes at the first blank line
// whose own indentation is <= the header's (a blank line's indentation
// counts as zero, so in practice any blank line closes a top-level
// block, and the closing blank line is emitted). Dedented non-blank
// code does NOT close a block; only a blank line or the next definition
// header does.
func ExtractSymbols(lines []string, requested map[string]bool) []string {
	var out []string

	state := scanIdle
	baseline := 0

	for _, line := range lines {
		if m := defHeaderRe.FindStringSubmatch(line); m != nil {
			state, baseline = evalHeader(m[1], line, requested)
		}
		if m := constHeaderRe.FindStringSubmatch(line); m != nil {
			state, baseline = evalHeader(m[1], line, requested)
		}

		if state != scanCapturing {
			continue
		}

		out = append(out, line)
		if fileutil.IsBlank(line) && fileutil.IndentWidth(line) <= baseline {
			state = scanIdle
		}
	}

	return out
}

// evalHeader re-evaluates the scanner at a definition header: capture
// when the defined name is requested, go idle otherwise.
func evalHeader(name, line string, requested map[string]bool) (scanState, int) {
	if requested[name] {
		return scanCapturing, fileutil.IndentWidth(line)
	}
	return scanIdle, 0
}
