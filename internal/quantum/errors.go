package quantum

import "errors"

// ErrIllegalAction is returned by Step when the requested action is not in
// the current action mask. This is a programmer error: callers are expected
// to consult ActionMask() before calling Step, so seeing this error means
// mask and step disagree.
var ErrIllegalAction = errors.New("quantum: action not legal for the side to move")

// ErrInfeasibleState is returned when collapse would leave some token with an
// empty possibility set. This can only happen if move generation or an
// earlier Step already violated an invariant; it is fatal to the game in
// progress.
var ErrInfeasibleState = errors.New("quantum: collapse produced an empty possibility set")
