// Package pipeline runs the requirement pass over every posting in the directory.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/internship-checker/internal/fetch"
	"github.com/jonathan/internship-checker/internal/selection"
	"github.com/jonathan/internship-checker/internal/types"
)

// Directory lists postings and their details, degrading to empty values.
type Directory interface {
	ListPostings(ctx context.Context) []types.Posting
	GetDetail(ctx context.Context, id string) types.PostingDetail
}

// Downloader retrieves a posting document into a temp file.
type Downloader interface {
	Download(ctx context.Context, path string) (*fetch.Document, error)
}

// TextExtractor reads plain text from a downloaded document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *fetch.Document) (string, error)
}

// Classifier infers requirements from text. It never fails.
type Classifier interface {
	Classify(ctx context.Context, text string) types.RequirementResult
}

// Store is the persistence the pass needs.
type Store interface {
	RequirementExists(ctx context.Context, postingID string) (bool, error)
	InsertRequirement(ctx context.Context, rec *types.RequirementRecord) error
}

// ProgressEvent reports a state change of one posting.
type ProgressEvent struct {
	RunID     string `json:"run_id"`
	PostingID string `json:"posting_id"`
	ShortName string `json:"short_name"`
	State     State  `json:"state"`
}

// ProgressCallback is called on every state change.
type ProgressCallback func(event ProgressEvent)

// Deps are the collaborators of a Runner.
type Deps struct {
	Directory  Directory
	Downloader Downloader
	Extractor  TextExtractor
	Classifier Classifier
	Store      Store
}

// Runner processes postings strictly one at a time in listing order.
type Runner struct {
	deps       Deps
	logger     *zap.Logger
	onProgress ProgressCallback
	onRecord   func(rec *types.RequirementRecord)
	newRunID   func() string
}

// Option configures a Runner.
type Option func(*Runner)

// WithProgress registers a state change callback.
func WithProgress(cb ProgressCallback) Option {
	return func(r *Runner) { r.onProgress = cb }
}

// WithRecordHook is called after each successful insert.
func WithRecordHook(fn func(rec *types.RequirementRecord)) Option {
	return func(r *Runner) { r.onRecord = fn }
}

// WithRunID fixes the run id instead of generating one.
func WithRunID(id string) Option {
	return func(r *Runner) { r.newRunID = func() string { return id } }
}

// NewRunner validates deps and builds a Runner.
func NewRunner(deps Deps, logger *zap.Logger, opts ...Option) (*Runner, error) {
	switch {
	case deps.Directory == nil:
		return nil, errors.New("pipeline: directory is required")
	case deps.Downloader == nil:
		return nil, errors.New("pipeline: downloader is required")
	case deps.Extractor == nil:
		return nil, errors.New("pipeline: extractor is required")
	case deps.Classifier == nil:
		return nil, errors.New("pipeline: classifier is required")
	case deps.Store == nil:
		return nil, errors.New("pipeline: store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{
		deps:     deps,
		logger:   logger,
		newRunID: func() string { return uuid.NewString() },
	}
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

// Run performs one full pass. Per-posting failures are logged and counted;
// only context cancellation stops the pass early, returning the partial summary.
func (r *Runner) Run(ctx context.Context) (*types.RunSummary, error) {
	runID := r.newRunID()
	logger := r.logger.With(zap.String("run_id", runID))
	summary := &types.RunSummary{RunID: runID}

	postings := r.deps.Directory.ListPostings(ctx)
	summary.Total = len(postings)
	logger.Info("starting requirement pass", zap.Int("postings", len(postings)))

	for _, p := range postings {
		if err := ctx.Err(); err != nil {
			logger.Warn("requirement pass cancelled", zap.Error(err))
			return summary, fmt.Errorf("requirement pass cancelled: %w", err)
		}
		w := &postingRun{
			Runner: r,
			runID:  runID,
			p:      p,
			log:    logger.With(zap.String("posting_id", p.ID), zap.String("short_name", p.ShortName)),
			state:  StateNotStarted,
		}
		w.process(ctx)
		if !w.state.Terminal() {
			w.log.DPanic("posting stopped in a non-terminal state", zap.String("state", string(w.state)))
		}
		w.tally(summary)
	}

	logger.Info("requirement pass finished",
		zap.Int("persisted", summary.Persisted),
		zap.Int("skipped", summary.Skipped),
		zap.Int("persist_failed", summary.PersistFailed),
	)
	return summary, nil
}

// postingRun carries the state of a single posting; nothing is shared
// between postings.
type postingRun struct {
	*Runner
	runID string
	p     types.Posting
	log   *zap.Logger

	state   State
	visited []State
}

func (w *postingRun) advance(to State) {
	if !CanTransition(w.state, to) {
		w.log.DPanic("invalid state transition", zap.String("from", string(w.state)), zap.String("to", string(to)))
	}
	w.state = to
	w.visited = append(w.visited, to)
	if w.onProgress != nil {
		w.onProgress(ProgressEvent{RunID: w.runID, PostingID: w.p.ID, ShortName: w.p.ShortName, State: to})
	}
}

func (w *postingRun) process(ctx context.Context) {
	exists, err := w.deps.Store.RequirementExists(ctx, w.p.ID)
	if err != nil {
		w.log.Error("existence check failed, skipping posting", zap.Error(err))
		w.advance(StateCheckFailed)
		return
	}
	if exists {
		w.log.Info("requirements already stored, skipping")
		w.advance(StateAlreadyPersisted)
		return
	}

	detail := w.deps.Directory.GetDetail(ctx, w.p.ID)
	w.advance(StateDetailFetched)

	text, source := w.readDocument(ctx, detail)

	result := w.deps.Classifier.Classify(ctx, text)
	w.advance(StateClassified)

	rec := types.NewRequirementRecord(w.p, result)
	rec.SourceFile = source
	rec.RunID = w.runID
	if err := w.deps.Store.InsertRequirement(ctx, &rec); err != nil {
		w.log.Error("failed to persist requirements", zap.Error(err))
		w.advance(StatePersistFailed)
		return
	}
	w.log.Info("requirements persisted",
		zap.Bool("is_cv", rec.IsCV),
		zap.Bool("is_transcript", rec.IsTranscript),
		zap.String("gpa", rec.GPA),
	)
	w.advance(StatePersisted)
	if w.onRecord != nil {
		w.onRecord(&rec)
	}
}

// readDocument selects, downloads and extracts the posting document. Every
// failure degrades to empty text so classification still runs.
func (w *postingRun) readDocument(ctx context.Context, detail types.PostingDetail) (text, source string) {
	if detail.IsEmpty() {
		w.log.Info("detail lists no documents")
		w.advance(StateNoFile)
		return "", ""
	}
	path, ok := selection.SelectFile(detail)
	if !ok {
		w.log.Info("no .docx or .pdf attachment", zap.Int("attachments", len(detail.Files)))
		w.advance(StateNoFile)
		return "", ""
	}
	w.advance(StateFileSelected)

	doc, err := w.deps.Downloader.Download(ctx, path)
	if err != nil {
		w.log.Warn("failed to download document", zap.String("path", path), zap.Error(err))
		w.advance(StateDownloadFailed)
		return "", path
	}
	tempPath := doc.Path
	defer func() {
		if err := doc.Close(); err != nil {
			w.log.Warn("failed to remove temp document", zap.String("temp_path", tempPath), zap.Error(err))
		}
	}()
	w.advance(StateDownloaded)

	text, err = w.deps.Extractor.Extract(ctx, doc)
	if err != nil {
		w.log.Warn("failed to extract document text", zap.String("path", path), zap.Error(err))
		w.advance(StateExtractFailed)
		return "", path
	}
	w.advance(StateTextExtracted)
	return text, path
}

func (w *postingRun) tally(s *types.RunSummary) {
	for _, st := range w.visited {
		switch st {
		case StateAlreadyPersisted:
			s.Skipped++
		case StateCheckFailed:
			s.CheckFailed++
		case StateNoFile:
			s.NoFile++
		case StateDownloadFailed:
			s.DownloadFailed++
		case StateExtractFailed:
			s.ExtractFailed++
		case StatePersisted:
			s.Persisted++
		case StatePersistFailed:
			s.PersistFailed++
		}
	}
}
