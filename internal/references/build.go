// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package references runs the fetch, extract, and format stages over every
// record of a catalog and collects the results into a Report. A failing
// record never stops the batch; its error is kept with its result.
package references

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/inspire-refs/internal/document"
	"github.com/pdiddy/inspire-refs/internal/extract"
	"github.com/pdiddy/inspire-refs/internal/format"
	"github.com/pdiddy/inspire-refs/internal/logger"
	"github.com/pdiddy/inspire-refs/pkg/types"
)

// Fetcher retrieves the raw CV-format document for one record.
// *fetch.Fetcher satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, id types.RecordID) ([]byte, error)
}

// Failure classifies why a record has no reference.
type Failure int

const (
	FailureNone Failure = iota
	FailureNetwork
	FailureParse
)

func (f Failure) String() string {
	switch f {
	case FailureNone:
		return "none"
	case FailureNetwork:
		return "network"
	case FailureParse:
		return "parse"
	default:
		return fmt.Sprintf("Failure(%d)", int(f))
	}
}

// Result is the outcome for one record.
type Result struct {
	Group     string
	Record    types.Record
	Fields    types.CitationFields
	Reference string
	Err       error
	Failure   Failure
	Elapsed   time.Duration
}

// OK reports whether a reference was built.
func (r Result) OK() bool { return r.Failure == FailureNone }

// Builder turns catalog records into references.
type Builder struct {
	fetcher Fetcher
	log     logger.Logger
	workers int

	// OnResult, when set, is called once per record as soon as it
	// completes. Calls are serialized but arrive in completion order.
	OnResult func(Result)
}

// NewBuilder returns a Builder that fetches with f. Workers below one run
// sequentially. A nil log discards output.
func NewBuilder(f Fetcher, log logger.Logger, workers int) *Builder {
	if log == nil {
		log = logger.NewNop()
	}
	if workers < 1 {
		workers = 1
	}
	return &Builder{fetcher: f, log: log, workers: workers}
}

type job struct {
	group, index int
	name         string
	rec          types.Record
}

// Build processes every record of c. Results keep catalog order regardless
// of the worker count.
func (b *Builder) Build(ctx context.Context, c types.Catalog) Report {
	report := Report{Groups: make([]GroupReport, len(c.Groups))}
	var jobs []job
	for gi, g := range c.Groups {
		report.Groups[gi] = GroupReport{Group: g, Results: make([]Result, len(g.Records))}
		for ri, rec := range g.Records {
			jobs = append(jobs, job{group: gi, index: ri, name: g.Name, rec: rec})
		}
	}

	b.log.Debug("building references",
		logger.Int("groups", len(c.Groups)),
		logger.Int("records", len(jobs)),
		logger.Int("workers", b.workers))

	var (
		eg errgroup.Group
		mu sync.Mutex
	)
	eg.SetLimit(b.workers)
	for _, j := range jobs {
		eg.Go(func() error {
			res := b.process(ctx, j.name, j.rec)
			report.Groups[j.group].Results[j.index] = res
			if b.OnResult != nil {
				mu.Lock()
				b.OnResult(res)
				mu.Unlock()
			}
			return nil
		})
	}
	eg.Wait()

	return report
}

// process runs fetch, parse, extract, and format for one record.
func (b *Builder) process(ctx context.Context, group string, rec types.Record) (res Result) {
	res = Result{Group: group, Record: rec}
	log := b.log.With(logger.String("group", group), logger.String("id", string(rec.ID)))
	start := time.Now()
	defer func() { res.Elapsed = time.Since(start) }()

	log.Debug("fetching record")
	body, err := b.fetcher.Fetch(ctx, rec.ID)
	if err != nil {
		log.Warn("fetch failed", logger.Error(err))
		res.Err, res.Failure = err, FailureNetwork
		return res
	}

	doc, err := document.Parse(bytes.NewReader(body))
	if err != nil {
		err = fmt.Errorf("parsing document: %w", err)
		log.Warn("parse failed", logger.Error(err))
		res.Err, res.Failure = err, FailureParse
		return res
	}

	res.Fields = extract.Extract(doc)
	if res.Fields.IsEmpty() {
		log.Warn("no citation fields found", logger.Int("bytes", len(body)))
	}
	res.Reference = format.Reference(res.Fields)
	log.Debug("built reference", logger.String("reference", res.Reference))
	return res
}
