// Package drag turns a pointer drag across status columns into at most one
// status change.
package drag

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskboard/internal/model"
)

var ErrGestureInProgress = errors.New("drag already in progress")

type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// StatusSetter receives the single command a completed drag produces.
type StatusSetter interface {
	SetStatus(ctx context.Context, id string, status model.Status) (model.Task, bool, error)
}

// DropTarget is the element under the pointer on release. For a status
// column ID and Column carry the same value; a card inside a column has
// its own ID and the column it sits in.
type DropTarget struct {
	ID     string       `json:"id"`
	Column model.Status `json:"column"`
}

// ColumnTarget is the drop target of a whole column.
func ColumnTarget(s model.Status) *DropTarget {
	return &DropTarget{ID: string(s), Column: s}
}

type Protocol struct {
	setter StatusSetter
	logger *zap.Logger

	state  State
	active string
	origin model.Status
}

func NewProtocol(setter StatusSetter, logger *zap.Logger) *Protocol {
	return &Protocol{setter: setter, logger: logger}
}

func (p *Protocol) State() State { return p.state }

// Active returns the dragged task id while a gesture is in progress.
func (p *Protocol) Active() (string, bool) {
	return p.active, p.state == Dragging
}

// Start begins a gesture on task. A second Start before the gesture ends
// is ignored.
func (p *Protocol) Start(task model.Task) error {
	if p.state == Dragging {
		return ErrGestureInProgress
	}
	p.state = Dragging
	p.active = task.ID
	p.origin = task.Status
	return nil
}

// Drop ends the gesture and reports whether a status change was issued.
// over is nil when the pointer was released outside every target.
func (p *Protocol) Drop(ctx context.Context, over *DropTarget) (bool, error) {
	if p.state != Dragging {
		return false, nil
	}
	id, origin := p.active, p.origin
	p.reset()

	if over == nil || over.ID == id || !over.Column.Valid() || over.Column == origin {
		return false, nil
	}

	_, ok, err := p.setter.SetStatus(ctx, id, over.Column)
	if err != nil {
		return false, err
	}
	p.logger.Debug("task dropped on column",
		zap.String("task_id", id),
		zap.String("from", string(origin)),
		zap.String("to", string(over.Column)),
		zap.Bool("found", ok),
	)
	return true, nil
}

// Cancel aborts the gesture without issuing anything.
func (p *Protocol) Cancel() {
	p.reset()
}

func (p *Protocol) reset() {
	p.state = Idle
	p.active = ""
	p.origin = ""
}
