package pipeline

import (
	"context"
	"log/slog"

	"github.com/crossdocs/xbridl/internal/extractor"
	"github.com/crossdocs/xbridl/internal/render"
	"github.com/crossdocs/xbridl/internal/store"
)

// Worker runs a single extraction job end to end.
type Worker struct {
	extractor *extractor.Extractor
	store     *store.Store
	log       *slog.Logger
}

func NewWorker(ex *extractor.Extractor, st *store.Store, log *slog.Logger) *Worker {
	return &Worker{
		extractor: ex,
		store:     st,
		log:       log,
	}
}

// Process scans the job's document tree, builds outline trees, and persists
// the run result.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "root", job.Root)

	if ctx.Err() != nil {
		job.SetStatus(StatusFailed, "canceled")
		return
	}

	// Phase 1: Scan + build.
	job.SetStatus(StatusScanning, "scanning")
	res, err := w.extractor.Extract(job.Root, job.AllowPaths)
	if err != nil {
		log.Error("extraction failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "scanning")
		return
	}
	for _, fe := range res.Errors {
		job.AddError(fe.Error())
	}
	job.SetCounts(len(res.Files), res.BlockCount(), res.NodeCount())

	// Phase 2: Persist.
	job.SetStatus(StatusStoring, "storing")
	run := render.FromResult(job.ID, job.Root, res)
	if err := w.store.SaveRun(run); err != nil {
		log.Error("store failed", "error", err)
		job.AddError("store: " + err.Error())
		job.SetStatus(StatusFailed, "storing")
		return
	}
	job.SetRunID(run.ID)

	if len(res.Errors) > 0 {
		job.SetStatus(StatusPartial, "done with errors")
		log.Warn("extraction completed with errors",
			"files", len(res.Files), "errors", len(res.Errors))
		return
	}
	job.SetStatus(StatusCompleted, "done")
	log.Info("extraction completed",
		"files", len(res.Files),
		"blocks", res.BlockCount(),
		"nodes", res.NodeCount(),
	)
}
