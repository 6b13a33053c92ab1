package quantum

// executor.go applies one action to a GameState: decode, collapse-and-narrow
// identities, capture with ownership flip, promotion, terminal detection, and
// the turn-limit draw.

// Apply executes action against gs in place and returns the reward for the
// side that just moved (+1 if that side just won, 0 otherwise). If gs is
// already terminal, Apply is a no-op dead step and returns 0, nil.
// ErrIllegalAction is returned, unmutated, if the action is not presently
// legal; ErrInfeasibleState is returned if collapse ever finds an empty
// possibility set, which signals a bug upstream of this call.
func Apply(gs *GameState, action int) (reward int, err error) {
	return apply(gs, action, moveLimitPlies)
}

// apply is Apply with a caller-chosen move limit, so differently-configured
// Engine instances share one implementation (internal/engineconfig wires the
// limit to config.yaml's moveLimit).
func apply(gs *GameState, action int, limit int) (reward int, err error) {
	if gs.Terminal.IsTerminal() {
		return 0, nil
	}

	mask := LegalActions(gs)
	if action < 0 || action >= ActionSpace || !mask[action] {
		return 0, ErrIllegalAction
	}

	mover := gs.SideToMove
	src, dst := DecodeAction(action)

	// Captures only happen on board moves: drops always land on an empty
	// square (movegen.go), so the pre-move occupant must be read before the
	// mover overwrites dst.
	var captured *Token
	if src < numSquares {
		captured = gs.Board[dst]
	}

	var moved *Token
	if src < numSquares {
		moved, err = applyBoardMove(gs, src, dst, mover)
	} else {
		moved = applyDrop(gs, src-numSquares, dst, mover)
	}
	if err != nil {
		return 0, err
	}

	won := false

	if captured != nil {
		captured.CurrentOwner = mover
		captured.MayBeHen = false
		gs.Hands[mover] = append(gs.Hands[mover], captured)

		group := gs.tokensByOrigin(captured.OriginOwner)
		if mustBe(group, captured, Lion) {
			won = true
		} else if !lionAlive(gs, mover.Opponent()) {
			// No single capture was provably the Lion, but across every
			// consistent assignment the opponent's Lion is now in enemy
			// hands.
			won = true
		}
	}

	// Promotion: only a moved (not dropped) Chick-possible token reaching the
	// back rank becomes promotion-eligible, and only as a potential, never a
	// commitment.
	_, dstRow := SquareColRow(dst)
	if src < numSquares && dstRow == backRank(mover) && moved.Possibilities.Has(Chick) {
		moved.MayBeHen = true
	}

	// Lion-reach win: forced exactly like the capture case above — the game
	// is won only when every consistent assignment puts the token on Lion,
	// not merely some of them.
	if !won && dstRow == backRank(mover) {
		group := gs.tokensByOrigin(moved.OriginOwner)
		if mustBe(group, moved, Lion) {
			won = true
		}
	}

	gs.TurnCount++

	switch {
	case won:
		if mover == Side0 {
			gs.Terminal = Terminal{Kind: WinSide0}
		} else {
			gs.Terminal = Terminal{Kind: WinSide1}
		}
		reward = 1
	case gs.TurnCount >= limit:
		gs.Terminal = Terminal{Kind: DrawByLimit}
	}

	gs.SideToMove = mover.Opponent()

	if err := gs.checkTokens(); err != nil {
		return 0, err
	}
	return reward, nil
}

// applyBoardMove narrows identities via collapse and relocates the mover.
func applyBoardMove(gs *GameState, src, dst int, mover Owner) (*Token, error) {
	tok := gs.Board[src]
	srcCol, srcRow := SquareColRow(src)
	dstCol, dstRow := SquareColRow(dst)
	offset := Offset{DC: dstCol - srcCol, DR: dstRow - srcRow}

	// The constraint is over stock identities, and a promoted Chick moves
	// with Hen's move set while still occupying the Chick stock slot. So an
	// offset only a Hen supports constrains a promoted token to Chick; for an
	// unpromoted token, Hen support contributes nothing.
	support := IdentitiesSupportingOffset(offset, mover)
	stock := support &^ SetHen
	if tok.MayBeHen && support.Has(Hen) {
		stock |= SetChick
	}

	group := gs.tokensByOrigin(tok.OriginOwner)
	constraint := groupConstraint{tok.ID: stock}
	result := CollapseGroup(group, constraint)
	if !result.Feasible {
		// Move generation guarantees this constraint is satisfiable; reaching
		// here means an invariant was already broken upstream.
		return nil, ErrInfeasibleState
	}

	// The resolver projects the whole group, not just the mover: what the
	// offset reveals about the mover's identity propagates to every token
	// sharing its stock.
	for _, member := range group {
		if projected, ok := result.Projected[member.ID]; ok && !projected.Empty() {
			member.Possibilities = projected
		}
	}

	gs.Board[dst], gs.Board[src] = tok, nil
	return tok, nil
}

// applyDrop relocates a hand token onto an empty square. Dropping carries no
// identity constraint: the token's possibilities are unchanged.
func applyDrop(gs *GameState, slot, dst int, mover Owner) *Token {
	hand := gs.Hands[mover]
	tok := hand[slot]
	gs.Hands[mover] = append(append([]*Token{}, hand[:slot]...), hand[slot+1:]...)
	gs.Board[dst] = tok
	return tok
}
