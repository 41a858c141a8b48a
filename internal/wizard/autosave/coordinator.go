// internal/wizard/autosave/coordinator.go

// Package autosave decides what to persist, when, and at what granularity.
// Three channels with different semantics: whole-draft step writes
// (debounced, last-write-wins), profile field writes (immediate, shared
// across drafts) and document writes (per-slot, last-write-wins).
package autosave

import (
	"context"
	"io"
	"sync"
	"time"

	"rental-wizard/internal/common/logger"
	"rental-wizard/internal/common/metrics"
	"rental-wizard/internal/models"
)

// DraftSaver persists a full snapshot with a proposed step. The store
// re-derives the achievable step from the data with the same validator and
// returns the authoritative value; the coordinator adopts it as ground
// truth, not its local guess.
type DraftSaver interface {
	SaveStep(ctx context.Context, draftID string, snap *models.Snapshot, proposedStep int) (int, error)
}

// ProfileSaver writes a single profile-owned field. The store enforces the
// fixed allow-list.
type ProfileSaver interface {
	SetField(ctx context.Context, applicantID, field, value string) error
}

// DocumentSaver persists one file per logical slot and supports independent
// deletion.
type DocumentSaver interface {
	Put(ctx context.Context, applicantID string, slot models.DocumentKey, content io.Reader, filename string) (models.StoredDocument, error)
	Delete(ctx context.Context, applicantID string, slot models.DocumentKey) error
}

// Coordinator serializes writes for one draft. Safe for use from the single
// event loop that owns the wizard session; the internal mutex only guards
// against the coordinator's own completion goroutines.
type Coordinator struct {
	draftID     string
	applicantID string
	drafts      DraftSaver
	profile     ProfileSaver
	documents   DocumentSaver
	log         logger.Logger
	quiet       time.Duration
	saveTimeout time.Duration

	mu          sync.Mutex
	timer       *time.Timer
	seq         uint64
	pendingSnap *models.Snapshot
	pendingStep int
	pending     bool
	lastErr     error
	step        int
	docs        models.DocumentSet
	slotSeq     map[models.DocumentKey]uint64
	closed      bool
}

// Options tunes the coordinator; zero values fall back to defaults.
type Options struct {
	QuietPeriod time.Duration // debounce window, default 500ms
	SaveTimeout time.Duration // per-write deadline, default 10s
}

// New builds a coordinator for one open draft. existingDocs seeds the
// documents context; successful uploads and deletes keep it current for
// later validation calls.
func New(draftID, applicantID string, drafts DraftSaver, profile ProfileSaver, documents DocumentSaver,
	existingDocs models.DocumentSet, log logger.Logger, opts Options) *Coordinator {
	if opts.QuietPeriod <= 0 {
		opts.QuietPeriod = 500 * time.Millisecond
	}
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = 10 * time.Second
	}
	metrics.OpenDrafts.WithLabelValues("draft").Inc()
	return &Coordinator{
		draftID:     draftID,
		applicantID: applicantID,
		drafts:      drafts,
		profile:     profile,
		documents:   documents,
		docs:        existingDocs.Clone(),
		log:         log.WithFields(map[string]interface{}{"draftId": draftID}),
		quiet:       opts.QuietPeriod,
		saveTimeout: opts.SaveTimeout,
		slotSeq:     make(map[models.DocumentKey]uint64),
	}
}

// QueueStepSave coalesces rapid edits: the write goes out after the quiet
// period, carrying whatever snapshot was queued last. Queueing while an
// earlier write is still in flight supersedes it; the stale response is
// discarded by sequence check.
func (c *Coordinator) QueueStepSave(snap *models.Snapshot, proposedStep int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.seq++
	c.pendingSnap = snap
	c.pendingStep = proposedStep
	c.pending = true
	c.lastErr = nil
	if c.timer != nil {
		c.timer.Stop()
	}
	seq := c.seq
	c.timer = time.AfterFunc(c.quiet, func() { c.dispatch(seq) })
}

// Flush sends the queued snapshot immediately, skipping the remaining quiet
// period. Used on step advance. A write already handed to the store is not
// resent.
func (c *Coordinator) Flush() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	seq := c.seq
	hasPending := c.pendingSnap != nil
	c.mu.Unlock()
	if hasPending {
		c.dispatch(seq)
	}
}

func (c *Coordinator) dispatch(seq uint64) {
	c.mu.Lock()
	if c.closed || seq != c.seq || c.pendingSnap == nil {
		c.mu.Unlock()
		return
	}
	snap := c.pendingSnap
	step := c.pendingStep
	// Consumed at dispatch: a timer fire and a Flush racing on the same
	// sequence send the write exactly once.
	c.pendingSnap = nil
	c.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.saveTimeout)
		defer cancel()

		authoritative, err := c.drafts.SaveStep(ctx, c.draftID, snap, step)

		c.mu.Lock()
		defer c.mu.Unlock()
		if seq != c.seq {
			// A newer write superseded this one while it was in flight.
			return
		}
		c.pending = false
		if err != nil {
			// In-memory data stays authoritative; the caller retries on the
			// next edit, never automatically.
			c.lastErr = err
			metrics.DraftSaves.WithLabelValues("error").Inc()
			c.log.Error("draft step save failed", map[string]interface{}{
				"proposedStep": step,
				"error":        err.Error(),
			})
			return
		}
		c.step = authoritative
		metrics.DraftSaves.WithLabelValues("ok").Inc()
		c.log.Debug("draft step saved", map[string]interface{}{
			"proposedStep":      step,
			"authoritativeStep": authoritative,
		})
	}()
}

// SaveProfileField writes immediately and independently of the draft
// channel: the field must be visible to every draft of this applicant.
func (c *Coordinator) SaveProfileField(ctx context.Context, field, value string) error {
	err := c.profile.SetField(ctx, c.applicantID, field, value)
	if err != nil {
		metrics.ProfileFieldSaves.WithLabelValues("error").Inc()
		c.log.Error("profile field save failed", map[string]interface{}{
			"field": field,
			"error": err.Error(),
		})
		return err
	}
	metrics.ProfileFieldSaves.WithLabelValues("ok").Inc()
	return nil
}

// SaveDocument uploads a file into a logical slot. Two uploads racing on
// the same slot resolve last-write-wins; distinct slots are independent.
// On success the existing-documents context is updated so the very next
// validation call sees the slot as satisfied.
func (c *Coordinator) SaveDocument(ctx context.Context, slot models.DocumentKey, content io.Reader, filename string) (models.StoredDocument, error) {
	c.mu.Lock()
	c.slotSeq[slot]++
	seq := c.slotSeq[slot]
	c.mu.Unlock()

	stored, err := c.documents.Put(ctx, c.applicantID, slot, content, filename)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.slotSeq[slot] {
		return stored, err
	}
	if err != nil {
		metrics.DocumentWrites.WithLabelValues(string(slot), "error").Inc()
		return models.StoredDocument{}, err
	}
	if c.docs == nil {
		c.docs = models.DocumentSet{}
	}
	c.docs[slot] = true
	metrics.DocumentWrites.WithLabelValues(string(slot), "ok").Inc()
	return stored, nil
}

// DeleteDocument removes a slot's file without touching any other state.
func (c *Coordinator) DeleteDocument(ctx context.Context, slot models.DocumentKey) error {
	c.mu.Lock()
	c.slotSeq[slot]++
	seq := c.slotSeq[slot]
	c.mu.Unlock()

	err := c.documents.Delete(ctx, c.applicantID, slot)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.slotSeq[slot] {
		return err
	}
	if err != nil {
		return err
	}
	if c.docs != nil {
		delete(c.docs, slot)
	}
	return nil
}

// ExistingDocuments returns a copy of the current documents context for the
// next validation call.
func (c *Coordinator) ExistingDocuments() models.DocumentSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.docs.Clone()
}

// Pending reports whether a draft-step write is queued or in flight.
func (c *Coordinator) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// LastError returns the failure of the most recent settled draft-step
// write, cleared when a new save is queued.
func (c *Coordinator) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Step returns the authoritative current step last returned by the store.
func (c *Coordinator) Step() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Close cancels only the debounce timer: edits inside an unexpired quiet
// window are lost, which is the accepted tradeoff. An already in-flight
// write completes but its result is ignored.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	metrics.OpenDrafts.WithLabelValues("draft").Dec()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.seq++
}
