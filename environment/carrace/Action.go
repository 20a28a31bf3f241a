package carrace

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrIllegalAction is returned for actions outside the nine legal
// combinations
var ErrIllegalAction = errors.New("illegal action")

// Longitudinal is the speed intent of an action
type Longitudinal int

const (
	HoldSpeed Longitudinal = iota
	Decelerate
	Accelerate
)

func (l Longitudinal) String() string {
	switch l {
	case HoldSpeed:
		return "Hold"
	case Decelerate:
		return "Decelerate"
	case Accelerate:
		return "Accelerate"
	default:
		return fmt.Sprintf("Longitudinal(%d)", int(l))
	}
}

// Lateral is the steering intent of an action
type Lateral int

const (
	HoldTurn Lateral = iota
	TurnLeft
	TurnRight
)

func (l Lateral) String() string {
	switch l {
	case HoldTurn:
		return "Hold"
	case TurnLeft:
		return "TurnLeft"
	case TurnRight:
		return "TurnRight"
	default:
		return fmt.Sprintf("Lateral(%d)", int(l))
	}
}

// NumActions is the number of legal actions
const NumActions = 9

// Action is a pair of speed and steering intents. Legal actions can be
// numbered 0..8 as Long*3 + Lat:
//
//	Index	Long		Lat
//	  0		Hold		Hold
//	  1		Hold		TurnLeft
//	  2		Hold		TurnRight
//	  3		Decelerate	Hold
//	  ...
//	  8		Accelerate	TurnRight
type Action struct {
	Long Longitudinal
	Lat  Lateral
}

// Validate returns an error if a is not one of the legal actions
func (a Action) Validate() error {
	if a.Long < HoldSpeed || a.Long > Accelerate ||
		a.Lat < HoldTurn || a.Lat > TurnRight {
		return fmt.Errorf("%w: %v", ErrIllegalAction, a)
	}
	return nil
}

// Index returns the number of a legal action
func (a Action) Index() int {
	return int(a.Long)*3 + int(a.Lat)
}

// Vec returns the action as a 1-dimensional index vector, the form
// taken by Discrete.Step
func (a Action) Vec() *mat.VecDense {
	return mat.NewVecDense(1, []float64{float64(a.Index())})
}

func (a Action) String() string {
	return fmt.Sprintf("(%v, %v)", a.Long, a.Lat)
}

// ActionFromIndex returns the action numbered i
func ActionFromIndex(i int) (Action, error) {
	if i < 0 || i >= NumActions {
		return Action{}, fmt.Errorf("actionFromIndex: %w: %d ∉ [0, %d]",
			ErrIllegalAction, i, NumActions-1)
	}
	return Action{Long: Longitudinal(i / 3), Lat: Lateral(i % 3)}, nil
}

// ActionFromVec decodes an action vector. A vector of length 1 holds an
// action index; a vector of length 2 holds the (long, lat) pair. Values
// must be whole numbers.
func ActionFromVec(v mat.Vector) (Action, error) {
	whole := func(x float64) (int, error) {
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return 0, fmt.Errorf("actionFromVec: %w: %v is not a whole "+
				"number", ErrIllegalAction, x)
		}
		return int(x), nil
	}

	switch v.Len() {
	case 1:
		i, err := whole(v.AtVec(0))
		if err != nil {
			return Action{}, err
		}
		return ActionFromIndex(i)

	case 2:
		long, err := whole(v.AtVec(0))
		if err != nil {
			return Action{}, err
		}
		lat, err := whole(v.AtVec(1))
		if err != nil {
			return Action{}, err
		}
		a := Action{Long: Longitudinal(long), Lat: Lateral(lat)}
		if err := a.Validate(); err != nil {
			return Action{}, fmt.Errorf("actionFromVec: %w", err)
		}
		return a, nil
	}

	return Action{}, fmt.Errorf("actionFromVec: %w: actions should have "+
		"length 1 or 2, have %d", ErrIllegalAction, v.Len())
}
