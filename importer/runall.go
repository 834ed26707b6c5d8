package importer

import (
	"context"

	"github.com/pitabwire/util"

	"github.com/pitabwire/typedtext/workerpool"
)

// TargetResult is the outcome of one target's run.
type TargetResult struct {
	Context TaskContext
	Result  *RunResult
	Err     error
}

// RunAll runs every target against the same file set on the worker pool. Targets are
// independent, so each keeps its own first-writer precedence. Results are returned in
// the order of contexts; a failed or cancelled target carries Err and no Result.
func RunAll(
	ctx context.Context,
	pool workerpool.Manager,
	contexts []TaskContext,
	files []CandidateFile,
) ([]TargetResult, error) {
	results := make([]TargetResult, len(contexts))
	jobs := make([]func(), 0, len(contexts))

	for i, tc := range contexts {
		results[i].Context = tc
		jobs = append(jobs, func() {
			log := util.Log(ctx).WithField("target", tc.Target)
			res, err := Run(ctx, tc.Tasks, files)
			if err != nil {
				log.WithError(err).Warn("import run did not complete")
			}
			results[i].Result = res
			results[i].Err = err
		})
	}

	if err := workerpool.Go(ctx, pool, jobs...); err != nil {
		return nil, err
	}

	if err := cancelled(ctx); err != nil {
		return nil, err
	}

	return results, nil
}
