package service

import (
	"errors"

	"github.com/volnyigory/storefront/internal/domain/model"
)

// PickupStep is the current page of the pickup-point wizard.
type PickupStep int

const (
	StepChoosePoint PickupStep = iota + 1
	StepPointDetails
	StepEstimatedTiming
	StepCostSummary
)

var (
	// ErrNoPointSelected blocks Next on the first step until a point is picked.
	ErrNoPointSelected = errors.New("no pickup point selected")
	// ErrNotAtSummary blocks Confirm before the last step.
	ErrNotAtSummary = errors.New("pickup flow has not reached the cost summary")
)

// PickupFlow is the four-step wizard a CDEK order walks through before the
// point choice is committed. The flow holds its own candidate selection;
// nothing leaks into checkout state until Confirm.
type PickupFlow struct {
	points   []model.PickupPoint
	selected *model.PickupPoint
	step     PickupStep
}

func NewPickupFlow(points []model.PickupPoint) *PickupFlow {
	return &PickupFlow{points: points, step: StepChoosePoint}
}

func (f *PickupFlow) Step() PickupStep {
	return f.step
}

// Points returns the candidates offered on the first step.
func (f *PickupFlow) Points() []model.PickupPoint {
	points := make([]model.PickupPoint, len(f.points))
	copy(points, f.points)
	return points
}

func (f *PickupFlow) Selected() (model.PickupPoint, bool) {
	if f.selected == nil {
		return model.PickupPoint{}, false
	}
	return *f.selected, true
}

// SelectPoint records the candidate. Selecting is only meaningful on the
// first step; later steps show the already-chosen point.
func (f *PickupFlow) SelectPoint(id int) error {
	for i := range f.points {
		if f.points[i].ID == id {
			p := f.points[i]
			f.selected = &p
			return nil
		}
	}
	return ErrNoPointSelected
}

// Next advances one step. The first step refuses to advance without a
// selection; the last step does not advance, Confirm ends the flow.
func (f *PickupFlow) Next() error {
	if f.step == StepChoosePoint && f.selected == nil {
		return ErrNoPointSelected
	}
	if f.step < StepCostSummary {
		f.step++
	}
	return nil
}

// Back steps to the previous page. Backing out of the first step reports
// done=true: the caller closes the flow without a committed point.
func (f *PickupFlow) Back() (done bool) {
	if f.step == StepChoosePoint {
		return true
	}
	f.step--
	return false
}

// ChooseDifferent returns to the first step keeping the current selection,
// so the shopper can compare before overwriting it.
func (f *PickupFlow) ChooseDifferent() {
	f.step = StepChoosePoint
}

// Confirm hands out the chosen point. Only valid on the cost summary step.
func (f *PickupFlow) Confirm() (model.PickupPoint, error) {
	if f.step != StepCostSummary {
		return model.PickupPoint{}, ErrNotAtSummary
	}
	if f.selected == nil {
		return model.PickupPoint{}, ErrNoPointSelected
	}
	return *f.selected, nil
}
