package bundle

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/scriptpack-dev/scriptpack/internal/remote"
)

// Result is one requested script's resolution outcome. Scripts fail
// independently; a failed Result carries its error and no lines.
type Result struct {
	Script string
	Lines  []string
	Err    error
}

// BundleAll resolves the requested scripts concurrently under a bounded
// worker pool. Results come back in request order. jobs <= 0 means one
// worker per CPU. Per-script resolution shares no mutable state, so no
// synchronization beyond the group is needed.
func BundleAll(ctx context.Context, eng *Engine, root, group string, scripts []string, ext string, jobs int) []Result {
	if len(scripts) == 0 {
		return nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(scripts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(scripts)))

	for i, script := range scripts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{Script: script, Err: err}
				return nil
			}

			addrs := remote.Describe(root, group, script, ext)
			lines, err := eng.Bundle(gctx, addrs)
			results[i] = Result{Script: script, Lines: lines, Err: err}
			// Failures stay in the result slot; they must not cancel
			// the sibling resolutions.
			return nil
		})
	}

	_ = g.Wait()
	return results
}
