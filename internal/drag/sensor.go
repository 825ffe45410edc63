package drag

import (
	"context"
	"math"

	"github.com/BuzzLyutic/taskboard/internal/model"
)

// ActivationDistance is how far, in pixels, the pointer must travel before
// a press turns into a drag.
const ActivationDistance = 8.0

type Point struct {
	X, Y float64
}

// Sensor enforces the activation constraint in front of a Protocol. A press
// released before the pointer moved far enough is a click.
type Sensor struct {
	protocol *Protocol
	distance float64

	pressed  bool
	dragging bool
	start    Point
	task     model.Task
}

func NewSensor(p *Protocol, distance float64) *Sensor {
	if distance <= 0 {
		distance = ActivationDistance
	}
	return &Sensor{protocol: p, distance: distance}
}

// Press records a pointer down on a card. A drag this sensor left open is
// cancelled first.
func (s *Sensor) Press(at Point, task model.Task) {
	if s.dragging {
		s.protocol.Cancel()
	}
	s.pressed = true
	s.dragging = false
	s.start = at
	s.task = task
}

// Move reports whether the gesture is an active drag after this move.
func (s *Sensor) Move(to Point) (bool, error) {
	if !s.pressed {
		return false, nil
	}
	if s.dragging {
		return true, nil
	}
	if math.Hypot(to.X-s.start.X, to.Y-s.start.Y) < s.distance {
		return false, nil
	}
	if err := s.protocol.Start(s.task); err != nil {
		s.pressed = false
		return false, err
	}
	s.dragging = true
	return true, nil
}

// Release ends the pointer interaction and reports whether a status change
// was issued. Only a drag this sensor started is dropped.
func (s *Sensor) Release(ctx context.Context, over *DropTarget) (bool, error) {
	owned := s.pressed && s.dragging
	s.pressed, s.dragging = false, false
	if !owned {
		return false, nil
	}
	return s.protocol.Drop(ctx, over)
}

// Abort handles focus loss or an explicit cancel.
func (s *Sensor) Abort() {
	owned := s.dragging
	s.pressed, s.dragging = false, false
	if owned {
		s.protocol.Cancel()
	}
}
