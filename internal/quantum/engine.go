package quantum

import "math/rand"

// Engine is the single-seat, side-to-move view of one game. It owns one
// GameState and exposes Reset/Step/Observe/Clone; everything about agent
// alternation, cumulative reward bookkeeping, and dead-step broadcast
// belongs to a multi-agent wrapper built on top of this, not here.
type Engine struct {
	state     *GameState
	moveLimit int
}

// NewEngine constructs an Engine with a non-default move limit (the default
// 1000-ply limit otherwise applies). moveLimit <= 0 means "use the default".
func NewEngine(moveLimit int) *Engine {
	e := &Engine{}
	if moveLimit > 0 {
		e.moveLimit = moveLimit
	} else {
		e.moveLimit = moveLimitPlies
	}
	e.Reset()
	return e
}

// Reset reinitializes the engine to the deterministic opening position and
// returns the side-to-move's observation.
func (e *Engine) Reset() Observation {
	e.state = reset()
	return e.Observe()
}

// Step applies action for the side to move and returns its reward. See Apply
// for the error contract.
func (e *Engine) Step(action int) (int, error) {
	return apply(e.state, action, e.moveLimit)
}

// Observe returns the side-to-move's observation.
func (e *Engine) Observe() Observation { return observe(e.state, e.state.SideToMove) }

// ObserveTurned returns the observation from the other side's perspective,
// used by the wrapper to hand the loser their terminal observation.
func (e *Engine) ObserveTurned() Observation {
	return observe(e.state, e.state.SideToMove.Opponent())
}

// ActionMask returns the legal action mask for the side to move.
func (e *Engine) ActionMask() ActionMask { return LegalActions(e.state) }

// Won reports whether the side to move has just won. Won and Lost are both
// queried against the side to move, which after a decisive Step is the
// loser — Step already flipped SideToMove.
func (e *Engine) Won() bool {
	winner, ok := e.state.Terminal.Winner()
	return ok && winner == e.state.SideToMove
}

// Lost reports whether the side to move has just lost.
func (e *Engine) Lost() bool {
	winner, ok := e.state.Terminal.Winner()
	return ok && winner != e.state.SideToMove
}

// Terminal reports the current terminal state.
func (e *Engine) Terminal() Terminal { return e.state.Terminal }

// Turn returns the current ply count.
func (e *Engine) Turn() int { return e.state.TurnCount }

// Clone returns a new Engine with an independently-mutable deep copy of the
// state: cheap, value-type, no shared ownership, so a search agent can
// explore a move on the clone without touching the original.
func (e *Engine) Clone() *Engine {
	return &Engine{state: e.state.Clone(), moveLimit: e.moveLimit}
}

// State exposes the underlying GameState for callers (tests, the debug
// server) that need direct access beyond the Observation encoding.
func (e *Engine) State() *GameState { return e.state }

// SampleAssignment draws one concrete identity for every token currently in
// play, uniformly among the assignments consistent with each token's own
// possibilities and its origin owner's stock. The caller supplies the RNG
// rather than this reaching for a package-global one, so sampling stays
// reproducible. It does not mutate the engine; it is a read-only utility for
// an external renderer that wants to show one concrete board.
func (e *Engine) SampleAssignment(rng *rand.Rand) (map[int]Identity, bool) {
	full := make(map[int]Identity)
	for _, origin := range []Owner{Side0, Side1} {
		group := e.state.tokensByOrigin(origin)
		a, ok := sampleGroup(group, rng)
		if !ok {
			return nil, false
		}
		for id, stockID := range a {
			full[id] = stockID
		}
	}
	return full, true
}

// sampleGroup returns a uniformly random satisfying assignment for tokens by
// collecting every satisfying assignment via backtracking and picking one at
// random. Group size is always 4, so this is cheap.
func sampleGroup(tokens []*Token, rng *rand.Rand) (assignment, bool) {
	var all []assignment
	domains := make(map[int]IdentitySet, len(tokens))
	for _, tok := range tokens {
		domains[tok.ID] = tok.effectiveDomain()
	}
	enumerate(tokens, domains, assignment{}, &all)
	if len(all) == 0 {
		return nil, false
	}
	return all[rng.Intn(len(all))], true
}

func enumerate(tokens []*Token, domains map[int]IdentitySet, partial assignment, out *[]assignment) {
	if len(partial) == len(tokens) {
		*out = append(*out, cloneAssignment(partial))
		return
	}
	var next *Token
	for _, tok := range tokens {
		if _, done := partial[tok.ID]; !done {
			next = tok
			break
		}
	}
	for _, id := range domains[next.ID].Slice() {
		if usedBy(partial, id) {
			continue
		}
		partial[next.ID] = id
		enumerate(tokens, domains, partial, out)
		delete(partial, next.ID)
	}
}
