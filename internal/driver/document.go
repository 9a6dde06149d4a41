package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/cache"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/config"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/diag"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/javasrc"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/observ"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/rules"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/source"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/trace"
)

// worker holds what every document of a run shares.
type worker struct {
	cfg     *config.Config
	active  []rules.Active
	parse   ParseFunc
	cache   *cache.Disk
	digest  [32]byte
	maxDiag int
	timings *observ.Aggregate
	metrics runMetrics
	sink    ProgressSink
}

// document checks one file. It never panics and never returns a partial
// result: a panic anywhere below turns into a D9003 finding.
func (w *worker) document(ctx context.Context, file *source.File) (res DocumentResult) {
	res = DocumentResult{Path: file.Path, File: file, Bag: diag.NewBag(w.maxDiag)}

	span, ctx := trace.StartDocument(ctx, file.Path, "check")

	timer := observ.NewTimer()
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			w.metrics.panics.Add(1)
			res.Bag = diag.NewBag(w.maxDiag)
			res.Bag.Add(diag.New(diag.SevError, diag.DriverInternal, head(file),
				fmt.Sprintf("internal error: %v", r)))
			trace.Point(ctx, trace.ScopeDocument, "panic", string(debug.Stack()))
			res.Err = &DocumentError{Path: file.Path, Panic: r}
			res.Cached, res.Skipped = false, false
		}
		w.timings.Add(timer)
		w.sink.OnEvent(finalEvent(&res, time.Since(started)))
		switch {
		case res.Err != nil:
			span.End(res.Err.Error())
		case res.Cached:
			span.End("cached")
		case res.Skipped:
			span.End("generated")
		default:
			span.Attr("diags", strconv.Itoa(res.Bag.Len())).Attr("fixable", strconv.Itoa(res.Bag.Fixable())).End("")
		}
	}()

	key, cacheable := w.cacheKey(file)
	if cacheable {
		w.sink.OnEvent(Event{File: file.Path, Stage: StageCache, Status: StatusWorking})
		idx := timer.Begin("cache")
		var payload cache.Payload
		hit, err := w.cache.Get(key, &payload)
		timer.End(idx, "")
		switch {
		case err == nil && hit && payload.Clean():
			w.metrics.cacheHits.Add(1)
			res.Cached = true
			return res
		default:
			// битая или устаревшая запись: просто проверяем заново
			w.metrics.cacheMisses.Add(1)
		}
	}

	w.sink.OnEvent(Event{File: file.Path, Stage: StageParse, Status: StatusWorking})
	idx := timer.Begin("parse")
	unit, err := w.parse(ctx, file)
	timer.End(idx, "")
	if err != nil {
		msg := "failed to parse file: " + err.Error()
		if errors.Is(err, javasrc.ErrNoCGO) {
			msg = "Java parsing is unavailable: " + err.Error()
		}
		res.Bag.Add(diag.New(diag.SevError, diag.DriverParseError, head(file), msg))
		res.Err = &DocumentError{Path: file.Path, Err: err}
		return res
	}
	if unit.Generated && w.cfg.Run.Generated != config.GeneratedReport {
		w.metrics.skippedGenerated.Add(1)
		res.Skipped = true
		return res
	}

	w.sink.OnEvent(Event{File: file.Path, Stage: StageRules, Status: StatusWorking})
	idx = timer.Begin("rules")
	doc := &rules.Document{File: file, Unit: unit, Config: w.cfg}
	err = rules.Run(ctx, doc, w.active, diag.NewDedupReporter(diag.NewBagReporter(res.Bag)))
	timer.End(idx, fmt.Sprintf("diags=%d", res.Bag.Len()))
	if err != nil {
		res.Bag.Add(diag.New(diag.SevError, diag.DriverInternal, head(file), err.Error()))
		res.Err = &DocumentError{Path: file.Path, Err: err}
		return res
	}
	res.Bag.Sort()

	if cacheable {
		w.store(key, file, res.Bag)
	}
	return res
}

// cacheKey returns the cache key of file; virtual files are never cached.
func (w *worker) cacheKey(file *source.File) (cache.Key, bool) {
	if w.cache == nil || file.Flags&source.FileVirtual != 0 {
		return cache.Key{}, false
	}
	return cache.KeyFor(file.Hash, w.digest), true
}

func (w *worker) store(key cache.Key, file *source.File, bag *diag.Bag) {
	payload := &cache.Payload{
		Path:     file.Path,
		Findings: bag.Len() + bag.Dropped(),
		Fixable:  bag.Fixable(),
	}
	seen := make(map[string]struct{})
	for _, d := range bag.Items() {
		id := d.Code.ID()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		payload.Codes = append(payload.Codes, id)
	}
	// Ошибки записи кэша не критичны
	if err := w.cache.Put(key, payload); err == nil {
		w.metrics.cacheWrites.Add(1)
	}
}

// head is the empty span at the start of file.
func head(file *source.File) source.Span {
	return source.Span{File: file.ID}
}
