// Package bundle flattens a remote script and its transitive imports
// into one self-contained line sequence.
package bundle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/scriptpack-dev/scriptpack/internal/fileutil"
	"github.com/scriptpack-dev/scriptpack/internal/remote"
)

// ErrCycle is returned when resolution reaches an address already on
// the current resolution chain.
var ErrCycle = errors.New("import cycle detected")

// Fetcher retrieves a remote file as an ordered line sequence.
type Fetcher interface {
	Lines(ctx context.Context, address string) ([]string, error)
}

// Engine resolves one entry script at a time. It holds no per-script
// state, so a single Engine may serve concurrent resolutions.
type Engine struct {
	fetcher Fetcher
	logger  *log.Logger
}

func NewEngine(fetcher Fetcher, logger *log.Logger) *Engine {
	return &Engine{fetcher: fetcher, logger: logger}
}

// Bundle fetches the entry script for addrs and flattens it. Non-import
// lines pass through unchanged and in order; import lines are replaced
// by zero or more resolved lines. Any fetch failure aborts this
// script's resolution.
func (e *Engine) Bundle(ctx context.Context, addrs remote.Set) ([]string, error) {
	visited := make(map[string]bool)

	entry, err := e.fetchScript(ctx, addrs.Entry, visited)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(entry))
	for _, line := range entry {
		imp := Classify(line)
		switch imp.Kind {
		case KindNone:
			out = append(out, line)
		case KindHelper:
			resolved, err := e.resolveHelper(ctx, imp, addrs.Helpers)
			if err != nil {
				return nil, err
			}
			out = append(out, resolved...)
		case KindAdjacent:
			resolved, err := e.resolveAdjacent(ctx, imp, addrs, visited)
			if err != nil {
				return nil, err
			}
			out = append(out, resolved...)
		case KindSibling:
			resolved, err := e.resolveSibling(ctx, addrs, visited)
			if err != nil {
				return nil, err
			}
			out = append(out, resolved...)
		default:
			// No recognized shape: the line's effect is dropped.
			e.logger.Debug("dropping unresolvable import", "line", line)
		}
	}

	return out, nil
}

// resolveHelper fetches the helpers module and splices in only the
// requested symbols. The module is fetched per import line; there is
// no caching.
func (e *Engine) resolveHelper(ctx context.Context, imp Import, helpersAddr string) ([]string, error) {
	module, err := e.fetcher.Lines(ctx, helpersAddr)
	if err != nil {
		return nil, err
	}

	extracted := ExtractSymbols(module, imp.Symbols)
	e.logger.Debug("extracted helper symbols",
		"requested", strings.Join(fileutil.MapKeysSorted(imp.Symbols), ","),
		"lines", len(extracted))
	return extracted, nil
}

// resolveSibling fetches the same-family script file and re-runs
// classification over it, one level deep: helper and adjacent imports
// inside it resolve, further sibling imports do not.
func (e *Engine) resolveSibling(ctx context.Context, addrs remote.Set, visited map[string]bool) ([]string, error) {
	sibling, err := e.fetchScript(ctx, addrs.Sibling, visited)
	if err != nil {
		return nil, err
	}
	defer delete(visited, addrs.Sibling)

	out := make([]string, 0, len(sibling))
	for _, line := range sibling {
		imp := Classify(line)
		switch imp.Kind {
		case KindNone:
			out = append(out, line)
		case KindHelper:
			resolved, err := e.resolveHelper(ctx, imp, addrs.Helpers)
			if err != nil {
				return nil, err
			}
			out = append(out, resolved...)
		case KindAdjacent:
			resolved, err := e.resolveAdjacent(ctx, imp, addrs, visited)
			if err != nil {
				return nil, err
			}
			out = append(out, resolved...)
		case KindSibling:
			// Only from-shaped sibling imports are dropped at this
			// level; a plain "import x.script" passes through like any
			// other plain import.
			if strings.HasPrefix(line, "from") {
				e.logger.Debug("dropping nested sibling import", "line", line)
			} else {
				out = append(out, line)
			}
		default:
			// Plain imports inside a sibling pass through verbatim.
			out = append(out, line)
		}
	}

	return out, nil
}

// resolveAdjacent fetches the file named by a dotted cross-group path
// and scans it for helper markers only: marker lines are replaced by
// their extraction against the shared helpers module, everything else
// is emitted verbatim. Adjacent scripts do not recurse further.
func (e *Engine) resolveAdjacent(ctx context.Context, imp Import, addrs remote.Set, visited map[string]bool) ([]string, error) {
	address, ok := remote.Adjacent(addrs.Root, imp.Dotted, addrs.Ext)
	if !ok {
		e.logger.Debug("dropping malformed adjacent import", "line", imp.Raw)
		return nil, nil
	}

	adjacent, err := e.fetchScript(ctx, address, visited)
	if err != nil {
		return nil, err
	}
	defer delete(visited, address)

	out := make([]string, 0, len(adjacent))
	for _, line := range adjacent {
		if strings.Contains(line, helperMarker) {
			resolved, err := e.resolveHelper(ctx, Classify(line), addrs.Helpers)
			if err != nil {
				return nil, err
			}
			out = append(out, resolved...)
			continue
		}
		out = append(out, line)
	}

	return out, nil
}

// fetchScript guards script-file fetches with the set of addresses on
// the current resolution chain. Callers remove the address once its
// resolution returns, so the same file imported twice by different
// lines resolves twice; only genuine re-entry is a cycle. Helper-module
// fetches are deliberately unguarded: the helpers file is re-fetched
// per import line and never recursed into.
func (e *Engine) fetchScript(ctx context.Context, address string, visited map[string]bool) ([]string, error) {
	if visited[address] {
		return nil, fmt.Errorf("%w: %s", ErrCycle, address)
	}
	visited[address] = true
	return e.fetcher.Lines(ctx, address)
}
