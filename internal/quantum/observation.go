package quantum

// observation.go encodes a GameState as a side-relative tensor: 20 slots (12
// board squares, then 8 hand slots shared by both hands, the observer's own
// hand first), 9 channels per slot. Observe/ObserveTurned never mutate gs.

const (
	numChannels = 9
	numSlots    = numSquares + MaxHandSlots // 20
)

// Observation is the wrapper-facing encoding of one side's view of a
// GameState: the (20,9) tensor, the legal action mask for the side to move,
// and the ply counter.
type Observation struct {
	Tensor [numSlots][numChannels]bool
	Mask   ActionMask
	Turn   int
}

// Observe returns gs's observation from the side to move's perspective.
func Observe(gs *GameState) Observation { return observe(gs, gs.SideToMove) }

// ObserveTurned returns gs's observation from the other side's perspective:
// the board is point-reflected and every owner channel is relative to the
// opponent instead. This is how the loser's terminal observation gets built
// once the winner's Step has already flipped SideToMove.
func ObserveTurned(gs *GameState) Observation { return observe(gs, gs.SideToMove.Opponent()) }

// observe builds the tensor from perspective's point of view. When
// perspective is not gs.SideToMove, the whole state is first re-expressed in
// the opponent's frame (mirrorView), so the layout always reads "forward =
// decreasing row" for whoever it's shown to and the action mask lines up
// with the tensor it's paired with.
func observe(gs *GameState, perspective Owner) Observation {
	view := gs
	if perspective != gs.SideToMove {
		view = mirrorView(gs)
	}

	var obs Observation
	obs.Turn = gs.TurnCount
	obs.Mask = LegalActions(view)

	// In the view, the observer's tokens always carry the side-to-move label.
	me := view.SideToMove
	for idx, tok := range view.Board {
		writeSlot(&obs.Tensor[idx], tok, me)
	}

	slot := numSquares
	for _, side := range []Owner{me, me.Opponent()} {
		for _, tok := range view.Hands[side] {
			writeSlot(&obs.Tensor[slot], tok, me)
			slot++
		}
	}

	return obs
}

// mirrorView re-expresses gs in the opposing player's frame: every token is
// relocated to its point-reflected square and has both owner labels swapped,
// and each hand moves to the opposite slot. SideToMove keeps its label, so a
// token's movement orientation stays consistent with the owner label it now
// carries. The tokens are copies; gs is untouched.
func mirrorView(gs *GameState) *GameState {
	view := &GameState{
		SideToMove: gs.SideToMove,
		TurnCount:  gs.TurnCount,
		Terminal:   gs.Terminal,
	}
	for idx, tok := range gs.Board {
		if tok == nil {
			continue
		}
		cp := *tok
		cp.CurrentOwner = cp.CurrentOwner.Opponent()
		cp.OriginOwner = cp.OriginOwner.Opponent()
		view.Board[MirrorSquare(idx)] = &cp
	}
	for side := 0; side < 2; side++ {
		for _, tok := range gs.Hands[side] {
			cp := *tok
			cp.CurrentOwner = cp.CurrentOwner.Opponent()
			cp.OriginOwner = cp.OriginOwner.Opponent()
			view.Hands[cp.CurrentOwner] = append(view.Hands[cp.CurrentOwner], &cp)
		}
	}
	return view
}

// writeSlot fills one slot's 9 channels for tok as seen by perspective, or
// leaves it all-zero if tok is nil. Channels 0..4 report the identities the
// token could act as, which for a promoted token includes Hen even though
// Hen never occupies a stock slot.
func writeSlot(slot *[numChannels]bool, tok *Token, perspective Owner) {
	if tok == nil {
		return
	}
	dom := tok.moveDomain()
	for id := Identity(0); id < numIdentities; id++ {
		slot[id] = dom.Has(id)
	}
	slot[5] = tok.OriginOwner == perspective
	slot[6] = tok.OriginOwner != perspective
	slot[7] = tok.CurrentOwner == perspective
	slot[8] = tok.CurrentOwner != perspective
}

// FromObservation reconstructs a GameState from obs, as seen by the side it
// was observed from (that side is SideToMove in the result). Tokens are
// rebuilt with fresh IDs, since Observation carries no token identity beyond
// channels 0..8 — origin owner and possibilities are exactly what
// CollapseGroup keys on, so the reconstruction reproduces the same legal
// move set.
func FromObservation(obs Observation, mover Owner) *GameState {
	gs := &GameState{SideToMove: mover}
	nextID := 0

	for idx := 0; idx < numSquares; idx++ {
		gs.Board[idx] = tokenFromChannels(obs.Tensor[idx], mover, &nextID)
	}
	for i := 0; i < MaxHandSlots; i++ {
		tok := tokenFromChannels(obs.Tensor[numSquares+i], mover, &nextID)
		if tok != nil {
			gs.Hands[tok.CurrentOwner] = append(gs.Hands[tok.CurrentOwner], tok)
		}
	}

	gs.TurnCount = obs.Turn
	return gs
}

func tokenFromChannels(ch [numChannels]bool, perspective Owner, nextID *int) *Token {
	var dom IdentitySet
	for id := Identity(0); id < numIdentities; id++ {
		if ch[id] {
			dom |= 1 << id
		}
	}
	if dom.Empty() {
		return nil
	}

	origin := perspective
	if ch[6] {
		origin = perspective.Opponent()
	}
	current := perspective
	if ch[8] {
		current = perspective.Opponent()
	}

	tok := &Token{
		ID:            *nextID,
		Possibilities: dom &^ SetHen,
		OriginOwner:   origin,
		CurrentOwner:  current,
		MayBeHen:      dom.Has(Hen),
	}
	*nextID++
	return tok
}
