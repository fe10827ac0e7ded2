package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
	"github.com/custodia-labs/nineslice-cli/internal/core/ports/driven"
	"github.com/custodia-labs/nineslice-cli/internal/core/ports/driving"
	"github.com/custodia-labs/nineslice-cli/internal/core/slicing"
	"github.com/custodia-labs/nineslice-cli/internal/logger"
)

// Ensure Importer implements the interface.
var _ driving.Importer = (*Importer)(nil)

// Importer orchestrates a nine-slice import: fetch the document, select and
// measure targets, fetch their rendered images and persist each one.
type Importer struct {
	source  driven.DocumentSource
	images  driven.ImageFetcher
	sink    driven.AssetSink
	history driven.HistoryStore

	historyKeep int
	now         func() time.Time

	// Status tracking
	mu      sync.Mutex
	running bool
	status  domain.ImportStatus
}

// NewImporter creates an importer. history is optional; if nil, runs are
// not recorded.
func NewImporter(
	source driven.DocumentSource,
	images driven.ImageFetcher,
	sink driven.AssetSink,
	history driven.HistoryStore,
) *Importer {
	return &Importer{
		source:      source,
		images:      images,
		sink:        sink,
		history:     history,
		historyKeep: domain.DefaultHistoryKeep,
		now:         time.Now,
		status:      domain.ImportStatus{Phase: domain.PhaseIdle},
	}
}

// SetHistoryKeep sets how many runs are kept after each import.
// Zero or less keeps everything.
func (i *Importer) SetHistoryKeep(keep int) {
	i.historyKeep = keep
}

// Status returns a snapshot of the current or last run.
func (i *Importer) Status() domain.ImportStatus {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.status
}

// Inspect fetches the document and returns the measured targets. Nothing
// is downloaded or written.
func (i *Importer) Inspect(ctx context.Context, cfg domain.ImportConfig) ([]domain.Target, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.ValidateSource(); err != nil {
		return nil, err
	}
	pattern, err := cfg.Pattern()
	if err != nil {
		return nil, err
	}

	root, err := i.source.FetchDocument(ctx, cfg.FileKey, cfg.AccessToken())
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	return slicing.SelectAndMeasure(root, pattern), nil
}

// Import runs a full import.
//
//nolint:gocyclo // Phase sequence reads top to bottom.
func (i *Importer) Import(ctx context.Context, cfg domain.ImportConfig) (*domain.ImportReport, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pattern, err := cfg.Pattern()
	if err != nil {
		return nil, err
	}

	report := &domain.ImportReport{
		RunID:     uuid.New().String(),
		FileKey:   cfg.FileKey,
		Pattern:   cfg.TargetPattern,
		OutputDir: cfg.OutputDir,
		Phase:     domain.PhaseIdle,
		StartedAt: i.now(),
	}
	if !i.begin(report.RunID) {
		return nil, domain.ErrImportInProgress
	}
	defer i.finish()

	// 1. Fetch document
	i.setPhase(report, domain.PhaseFetchingDocument)
	done := logger.Timed("Fetch document")
	root, err := i.source.FetchDocument(ctx, cfg.FileKey, cfg.AccessToken())
	done()
	if err != nil {
		return i.fail(ctx, report, fmt.Errorf("fetch document: %w", err))
	}

	// 2. Select and measure targets
	i.setPhase(report, domain.PhaseSelecting)
	targets := slicing.SelectAndMeasure(root, pattern)
	if len(targets) == 0 {
		logger.Info("No targets matched pattern %q in file %s", cfg.TargetPattern, cfg.FileKey)
		i.setPhase(report, domain.PhaseDone)
		report.EndedAt = i.now()
		i.record(ctx, report)
		return report, nil
	}
	logger.Debug("Selected %d targets", len(targets))
	i.setTotal(len(targets))

	// 3. Render all targets in one batch
	i.setPhase(report, domain.PhaseFetchingImages)
	ids := make([]string, len(targets))
	for n, t := range targets {
		ids[n] = t.ID
	}
	done = logger.Timed("Render image URLs")
	urls, err := i.source.FetchImageURLs(ctx, cfg.FileKey, cfg.AccessToken(), ids, cfg.Scale)
	done()
	if err != nil {
		return i.fail(ctx, report, fmt.Errorf("fetch image urls: %w", err))
	}

	// 4. Download and persist each target independently
	i.setPhase(report, domain.PhasePersisting)
	done = logger.Timed("Persist targets")
	report.Results = i.persistAll(ctx, cfg, targets, urls)
	done()

	i.setPhase(report, domain.PhaseDone)
	report.EndedAt = i.now()
	logger.Info("Import finished: %d persisted, %d failed in %s",
		len(report.Succeeded()), len(report.Failed()), report.Duration().Round(time.Millisecond))
	i.record(ctx, report)
	return report, nil
}

// persistAll fetches and persists targets with at most cfg.Concurrency in
// flight. Results are in selection order. A failed target never stops its
// siblings, so tasks always return nil to the group.
func (i *Importer) persistAll(
	ctx context.Context, cfg domain.ImportConfig, targets []domain.Target, urls map[string]string,
) []domain.TargetResult {
	results := make([]domain.TargetResult, len(targets))
	owners := make(map[string]string, len(targets))

	var g errgroup.Group
	g.SetLimit(cfg.Concurrency)

	for n, target := range targets {
		results[n].Target = target

		req := domain.AssetRequest{
			OutputDir: cfg.OutputDir,
			FileKey:   cfg.FileKey,
			Target:    target,
			Scale:     cfg.Scale,
		}
		// Btn.png and btn.png are one file on case-insensitive filesystems.
		name := req.FileName()
		slot := strings.ToLower(name)
		if owner, taken := owners[slot]; taken {
			results[n].Err = targetError(target,
				fmt.Errorf("%w: %s already written by %s", domain.ErrDuplicateTarget, name, owner))
			i.countResult(results[n])
			continue
		}
		owners[slot] = target.ID

		g.Go(func() error {
			path, err := i.persistOne(ctx, req, urls[target.ID])
			if err != nil {
				results[n].Err = targetError(target, err)
				logger.Warn("%v", results[n].Err)
			} else {
				results[n].Path = path
				logger.Debug("Persisted %s -> %s", target.Name, path)
			}
			i.countResult(results[n])
			return nil
		})
	}

	_ = g.Wait()
	return results
}

func (i *Importer) persistOne(ctx context.Context, req domain.AssetRequest, url string) (string, error) {
	if url == "" {
		return "", domain.ErrRenderMissing
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}

	data, err := i.images.FetchImage(ctx, url)
	if err != nil {
		return "", fmt.Errorf("fetch image: %w", err)
	}
	req.Image = data

	path, err := i.sink.Persist(ctx, req)
	if err != nil {
		return "", fmt.Errorf("persist: %w", err)
	}
	return path, nil
}

func targetError(t domain.Target, err error) error {
	return &domain.TargetError{ID: t.ID, Name: t.Name, Err: err}
}

// fail moves the run to Failed and records it.
func (i *Importer) fail(ctx context.Context, report *domain.ImportReport, err error) (*domain.ImportReport, error) {
	report.Fatal = err
	report.EndedAt = i.now()
	i.setPhase(report, domain.PhaseFailed)
	logger.Error("Import failed: %v", err)
	i.record(ctx, report)
	return report, err
}

// record saves the run to history. History failures are logged, never
// returned: the assets on disk are what matter.
func (i *Importer) record(ctx context.Context, report *domain.ImportReport) {
	if i.history == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if err := i.history.SaveRun(ctx, domain.RunFromReport(report)); err != nil {
		logger.Warn("Failed to record import run %s: %v", report.RunID, err)
		return
	}
	if i.historyKeep > 0 {
		if err := i.history.PruneRuns(ctx, i.historyKeep); err != nil {
			logger.Warn("Failed to prune import history: %v", err)
		}
	}
}

func (i *Importer) begin(runID string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.running {
		return false
	}
	i.running = true
	i.status = domain.ImportStatus{RunID: runID, Phase: domain.PhaseIdle}
	return true
}

func (i *Importer) finish() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.running = false
}

func (i *Importer) setPhase(report *domain.ImportReport, phase domain.ImportPhase) {
	report.Phase = phase
	logger.Section(string(phase))

	i.mu.Lock()
	defer i.mu.Unlock()
	i.status.Phase = phase
}

func (i *Importer) setTotal(n int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.status.Total = n
}

func (i *Importer) countResult(res domain.TargetResult) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if res.OK() {
		i.status.Persisted++
	} else {
		i.status.Failed++
	}
}
