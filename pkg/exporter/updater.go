// Package exporter orchestrates the incremental update pipeline: loading a
// previously persisted context pack, detecting new or changed conversations,
// extracting over just that subset, merging, deriving a delta pack, and
// recording the result in the version ledger.
package exporter

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/entrhq/contextpack/pkg/config"
	"github.com/entrhq/contextpack/pkg/extract"
	"github.com/entrhq/contextpack/pkg/incremental"
	"github.com/entrhq/contextpack/pkg/logging"
	"github.com/entrhq/contextpack/pkg/pack"
)

// Result reports what an update run produced.
type Result struct {
	// Pack is the current pack after the run: freshly extracted, merged,
	// or the unchanged existing pack on a no-op.
	Pack pack.Pack

	// Delta holds only the information new in this run. Nil for full
	// extractions and no-ops.
	Delta *pack.Pack

	// Changed lists the conversations that triggered re-extraction.
	Changed []pack.Conversation

	// FullExtraction is set when no usable previous pack existed and the
	// whole export was extracted from scratch.
	FullExtraction bool

	// NoChanges is set when change detection found nothing to do. The run
	// is a successful no-op: nothing is written.
	NoChanges bool
}

// Updater runs the incremental update pipeline against one output directory.
// It assumes a single writer; concurrent updaters over the same output
// directory can lose updates.
type Updater struct {
	extractor *extract.Extractor
	settings  config.ExporterSettings
	log       *logging.Logger
}

// NewUpdater creates an updater for the given settings. A nil logger
// disables component logging.
func NewUpdater(settings config.ExporterSettings, log *logging.Logger) *Updater {
	return &Updater{
		extractor: extract.NewExtractor(extract.WithSourcePlatform(settings.SourcePlatform)),
		settings:  settings,
		log:       log,
	}
}

// PackPath returns where the current pack is persisted.
func (u *Updater) PackPath() string {
	return filepath.Join(u.settings.OutputDir, u.settings.PackFileName)
}

// LedgerPath returns where the version ledger is persisted.
func (u *Updater) LedgerPath() string {
	return filepath.Join(u.settings.OutputDir, u.settings.LedgerFileName)
}

// Run processes the current export. When previous is nil or no usable
// persisted pack exists, it falls back to full extraction over the whole
// export. Otherwise it extracts only the new or changed conversations and
// merges the result into the existing pack, producing a delta alongside.
func (u *Updater) Run(current pack.ParsedExport, previous *pack.ParsedExport) (*Result, error) {
	existing, err := incremental.LoadPreviousPack(u.PackPath())
	if err != nil && !errors.Is(err, incremental.ErrNoPreviousContext) {
		return nil, fmt.Errorf("exporter: load previous pack: %w", err)
	}

	if existing == nil || previous == nil {
		u.infof("no previous context, running full extraction over %d conversations", len(current.Conversations))
		full := u.extractor.ExtractContext(current.Conversations)
		if err := u.persist(full); err != nil {
			return nil, err
		}
		return &Result{Pack: full, FullExtraction: true}, nil
	}

	changed := incremental.DetectNewConversations(current, *previous)
	if len(changed) == 0 {
		u.infof("no new or changed conversations, keeping pack version %s", existing.Version)
		return &Result{Pack: *existing, NoChanges: true}, nil
	}

	u.infof("detected %d new or changed conversations", len(changed))
	fresh := u.extractor.ExtractContext(changed)
	merged := incremental.MergeContexts(*existing, fresh)
	delta := incremental.GenerateDelta(*existing, fresh)

	if err := u.persist(merged); err != nil {
		return nil, err
	}
	u.infof("merged pack %s -> %s (%d projects)", existing.Version, merged.Version, len(merged.Projects))

	return &Result{
		Pack:    merged,
		Delta:   &delta,
		Changed: changed,
	}, nil
}

func (u *Updater) persist(p pack.Pack) error {
	if err := incremental.SavePack(p, u.PackPath()); err != nil {
		return fmt.Errorf("exporter: save pack: %w", err)
	}
	if err := incremental.NewLedger(u.LedgerPath()).Append(p); err != nil {
		return fmt.Errorf("exporter: append ledger: %w", err)
	}
	return nil
}

func (u *Updater) infof(format string, v ...interface{}) {
	if u.log != nil {
		u.log.Infof(format, v...)
	}
}
