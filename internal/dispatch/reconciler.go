package dispatch

import (
	"context"
	"errors"
	"log/slog"

	"dispatchboard/internal/logger"
	"dispatchboard/internal/shift"
	"dispatchboard/internal/store"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TxState is the lifecycle of one placement.
type TxState int

const (
	// TxPending: proposal accepted, write not finished.
	TxPending TxState = iota
	// TxAwaitingConfirmation: outside the technician's shift, nothing written yet.
	TxAwaitingConfirmation
	TxCommitted
	// TxRolledBack: the board shows the original snapshot again.
	TxRolledBack
)

func (s TxState) String() string {
	switch s {
	case TxPending:
		return "pending"
	case TxAwaitingConfirmation:
		return "awaiting_confirmation"
	case TxCommitted:
		return "committed"
	case TxRolledBack:
		return "rolled_back"
	}
	return "unknown"
}

// ErrNotAwaitingConfirmation is returned by Confirm and Cancel on a transaction
// that is not paused at the shift gate.
var ErrNotAwaitingConfirmation = errors.New("placement is not awaiting confirmation")

// Transaction is one placement from proposal to commit or rollback.
type Transaction struct {
	state    TxState
	original store.Job
	proposed store.Job
	outside  []store.Appointment
	err      error
}

func (t *Transaction) State() TxState { return t.state }

// Original is the pre-interaction snapshot.
func (t *Transaction) Original() store.Job { return t.original.Clone() }

// Proposed is the job as it will be (or was) written.
func (t *Transaction) Proposed() store.Job { return t.proposed.Clone() }

// OutsideShift lists the changed appointments that fall outside their technician's shift.
func (t *Transaction) OutsideShift() []store.Appointment { return t.outside }

// Err is the write error that caused a rollback, if any.
func (t *Transaction) Err() error { return t.err }

// PlacementWriter persists a placement and returns the job's new version.
type PlacementWriter interface {
	UpdatePlacement(ctx context.Context, update store.PlacementUpdate) (int64, error)
}

// OutsideShift returns the appointments of after that differ from before and are
// not covered by their technician's shift on the job date.
func OutsideShift(idx *shift.Index, before, after store.Job) []store.Appointment {
	prev := before.Slots()
	var outside []store.Appointment
	for i, a := range after.Slots() {
		if i < len(prev) && prev[i] == a {
			continue
		}
		if !idx.Covers(a.TechnicianID, after.Date, a.StartTime, a.EndTime) {
			outside = append(outside, a)
		}
	}
	return outside
}

// Reconciler applies proposals to the board optimistically and writes them
// through to the store, rolling the board back when the write fails.
type Reconciler struct {
	board  *Board
	writer PlacementWriter
	logger *slog.Logger
}

// NewReconciler creates a reconciler for board.
func NewReconciler(board *Board, writer PlacementWriter, log *slog.Logger) *Reconciler {
	return &Reconciler{board: board, writer: writer, logger: log}
}

// Submit gates a proposal on the shift window. In-shift placements are
// committed right away; others wait for Confirm or Cancel.
func (r *Reconciler) Submit(ctx context.Context, p Proposal) *Transaction {
	tx := &Transaction{
		state:    TxPending,
		original: p.Original.Clone(),
		proposed: p.Updated.Clone(),
	}

	tx.outside = OutsideShift(r.board.Shifts(), p.Original, p.Updated)
	if len(tx.outside) > 0 {
		tx.state = TxAwaitingConfirmation
		return tx
	}

	r.commit(ctx, tx)
	return tx
}

// Confirm assigns anyway: the paused placement goes through the normal write path.
func (r *Reconciler) Confirm(ctx context.Context, tx *Transaction) error {
	if tx.state != TxAwaitingConfirmation {
		return ErrNotAwaitingConfirmation
	}
	tx.state = TxPending
	return r.commit(ctx, tx)
}

// Cancel rolls a paused placement back to the original snapshot.
func (r *Reconciler) Cancel(tx *Transaction) error {
	if tx.state != TxAwaitingConfirmation {
		return ErrNotAwaitingConfirmation
	}
	r.rollback(tx)
	return nil
}

func (r *Reconciler) commit(ctx context.Context, tx *Transaction) error {
	ctx, span := otel.Tracer("dispatchboard/dispatch").Start(ctx, "dispatch.commit_placement",
		trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()
	span.SetAttributes(
		attribute.String("job.id", tx.proposed.ID.String()),
		attribute.Int("job.appointments", len(tx.proposed.Appointments)),
	)

	r.board.Replace(tx.proposed)

	version, err := r.writer.UpdatePlacement(ctx, store.PlacementFor(tx.proposed))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.FromContext(ctx, r.logger).Error("placement write failed, rolling back",
			"job_id", tx.proposed.ID,
			"error", err,
		)
		tx.err = err
		r.rollback(tx)
		return err
	}

	tx.proposed.Version = version
	r.board.Replace(tx.proposed)
	tx.state = TxCommitted
	return nil
}

func (r *Reconciler) rollback(tx *Transaction) {
	r.board.Replace(tx.original)
	tx.state = TxRolledBack
}
