// Package driver runs the rule set over many documents in parallel and
// collects per-document findings.
package driver

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/cache"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/config"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/diag"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/javasrc"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/observ"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/rules"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/source"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/trace"
)

// ParseFunc extracts the structure of one document.
type ParseFunc func(ctx context.Context, file *source.File) (*javasrc.Unit, error)

// Options configure a run.
type Options struct {
	Config   *config.Config
	Registry *rules.Registry
	// Jobs limits concurrent documents; <= 0 means GOMAXPROCS.
	Jobs int
	// Cache is consulted only when Config.Run.Cache is set.
	Cache          *cache.Disk
	MaxDiagnostics int
	// Parse defaults to javasrc.Parse.
	Parse ParseFunc
	// Progress receives per-document events; nil discards them.
	Progress ProgressSink
}

// DocumentError wraps a failure confined to one document.
type DocumentError struct {
	Path  string
	Panic any
	Err   error
}

func (e *DocumentError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("%s: panic: %v", e.Path, e.Panic)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// DocumentResult is the outcome of one document.
type DocumentResult struct {
	Path string
	// File is nil when the document could not be read.
	File *source.File
	Bag  *diag.Bag
	// Cached is set when a previous run proved the document clean.
	Cached bool
	// Skipped is set for generated documents left alone by configuration.
	Skipped bool
	Err     error
}

// Result is the outcome of a run.
type Result struct {
	FileSet   *source.FileSet
	Documents []DocumentResult
	Timings   observ.Report
	Metrics   Metrics
}

// Diagnostics returns the findings of every document in path order.
func (r *Result) Diagnostics() []diag.Diagnostic {
	if r == nil {
		return nil
	}
	var out []diag.Diagnostic
	for _, doc := range r.Documents {
		if doc.Bag != nil {
			out = append(out, doc.Bag.Items()...)
		}
	}
	return out
}

// Bag merges the findings of every document into one bag.
func (r *Result) Bag() *diag.Bag {
	bag := diag.NewBag(0)
	if r == nil {
		return bag
	}
	for _, doc := range r.Documents {
		if doc.Bag != nil {
			bag.Merge(doc.Bag)
		}
	}
	return bag
}

// Errors returns document-level failures.
func (r *Result) Errors() []error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, doc := range r.Documents {
		if doc.Err != nil {
			errs = append(errs, doc.Err)
		}
	}
	return errs
}

// Run checks every document found under paths.
func Run(ctx context.Context, paths []string, opts Options) (*Result, error) {
	span, _ := trace.Start(ctx, trace.ScopeDriver, "discover")
	files, err := ListFiles(paths)
	if err != nil {
		span.End(err.Error())
		return nil, err
	}
	span.End(fmt.Sprintf("files=%d", len(files)))

	fileSet := source.NewFileSetWithBase(baseDirFor(paths))
	ids := make([]source.FileID, 0, len(files))
	var unread []DocumentResult
	for _, path := range files {
		id, loadErr := fileSet.Load(path)
		if loadErr != nil {
			// Сохраняем ошибку загрузки, документ проверять не будем
			bag := diag.NewBag(opts.MaxDiagnostics)
			bag.Add(diag.New(diag.SevError, diag.DriverReadError, source.Span{}, "failed to read file: "+loadErr.Error()))
			unread = append(unread, DocumentResult{
				Path: path,
				Bag:  bag,
				Err:  &DocumentError{Path: path, Err: loadErr},
			})
			continue
		}
		ids = append(ids, id)
	}

	res, err := Check(ctx, fileSet, ids, opts)
	if err != nil {
		return res, err
	}
	if len(unread) > 0 {
		res.Documents = append(res.Documents, unread...)
		sort.SliceStable(res.Documents, func(i, j int) bool {
			return res.Documents[i].Path < res.Documents[j].Path
		})
	}
	return res, nil
}

// Check runs the active rules over the given files of fileSet. A failure in
// one document never stops the others; the returned error is reserved for
// invalid configuration and cancellation.
func Check(ctx context.Context, fileSet *source.FileSet, ids []source.FileID, opts Options) (*Result, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	reg := opts.Registry
	if reg == nil {
		reg = rules.Default()
	}
	active, err := reg.Resolve(cfg)
	if err != nil {
		return nil, err
	}
	parse := opts.Parse
	if parse == nil {
		parse = javasrc.Parse
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = cfg.Run.Jobs
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	w := &worker{
		cfg:     cfg,
		active:  active,
		parse:   parse,
		digest:  cfg.Digest(),
		maxDiag: opts.MaxDiagnostics,
		timings: observ.NewAggregate(),
		sink:    opts.Progress,
	}
	if w.sink == nil {
		w.sink = nopSink{}
	}
	if cfg.Run.Cache {
		w.cache = opts.Cache
	}

	runSpan, ctx := trace.Start(ctx, trace.ScopeDriver, "check")

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]DocumentResult, len(ids))
	for _, id := range ids {
		w.sink.OnEvent(Event{File: fileSet.Get(id).Path, Status: StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(ids))))
	for i, id := range ids {
		g.Go(func() error {
			// Проверка отмены
			if err := gctx.Err(); err != nil {
				return err
			}
			w.metrics.workersActive.Add(1)
			defer w.metrics.workersActive.Add(-1)

			results[i] = w.document(gctx, fileSet.Get(id))
			w.metrics.workersCompleted.Add(1)
			if results[i].Err != nil {
				w.metrics.workersErrors.Add(1)
			}
			return nil
		})
	}
	waitErr := g.Wait()

	res := &Result{
		FileSet:   fileSet,
		Documents: results,
		Timings:   w.timings.Report(),
		Metrics:   w.metrics.snapshot(),
	}
	runSpan.End(res.Metrics.String())
	return res, waitErr
}
