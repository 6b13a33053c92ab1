package quantum

const (
	// BoardCols and BoardRows give the 3x4 board. Row 0 is the top of the
	// board (Side1's back rank); row 3 is the bottom (Side0's back rank),
	// matching the row-major square indexing the action encoding uses.
	BoardCols  = 3
	BoardRows  = 4
	numSquares = BoardCols * BoardRows

	// MaxHandSlots is the fixed hand capacity the observation layout and
	// action encoding reserve per side.
	MaxHandSlots = 8
)

// SquareIndex returns the row-major board index of (col, row), or -1 if the
// square is off-board.
func SquareIndex(col, row int) int {
	if col < 0 || col >= BoardCols || row < 0 || row >= BoardRows {
		return -1
	}
	return row*BoardCols + col
}

// SquareColRow inverts SquareIndex.
func SquareColRow(idx int) (col, row int) {
	return idx % BoardCols, idx / BoardCols
}

// MirrorSquare returns the point-reflected square used to present one side's
// board as though the other side were looking at it. Because reflecting both
// the column (2-col) and the row (3-row) of a 3x4 grid is equivalent to
// subtracting the linear index from 11, this is a single subtraction: see
// board_test.go for the derivation check.
func MirrorSquare(idx int) int {
	return numSquares - 1 - idx
}

// backRank is the row a side's pieces must reach to be eligible for promotion
// or a Lion-reach win: the opponent's home row.
func backRank(owner Owner) int {
	if owner == Side0 {
		return 0
	}
	return BoardRows - 1
}

// TerminalKind enumerates the absorbing states of a game's state machine.
type TerminalKind int

const (
	InProgress TerminalKind = iota
	WinSide0
	WinSide1
	DrawByLimit
)

// Terminal describes whether, and how, the game has ended.
type Terminal struct {
	Kind TerminalKind
}

func (t Terminal) IsTerminal() bool { return t.Kind != InProgress }

// Winner reports the winning side and true, or (_, false) if the game is not
// a decisive win (in progress, or a draw).
func (t Terminal) Winner() (Owner, bool) {
	switch t.Kind {
	case WinSide0:
		return Side0, true
	case WinSide1:
		return Side1, true
	default:
		return 0, false
	}
}

// GameState is the full hidden state of one game: board, hands, whose turn it
// is, the ply count, and any terminal outcome. Board and Hands hold pointers
// to Tokens, and Tokens hold no pointers, so cloning it (Engine.Clone) copies
// every Token by value; see GameState.Clone.
type GameState struct {
	Board      [numSquares]*Token
	Hands      [2][]*Token
	SideToMove Owner
	TurnCount  int
	Terminal   Terminal
}

// moveLimitPlies is the default move limit; Engine can be constructed with a
// different limit via NewEngine.
const moveLimitPlies = 1000

// reset builds the deterministic initial position: every placed token's
// possibilities is {Chick, Giraffe, Elephant, Lion}, Side0 to move, turn 0,
// no terminal.
func reset() *GameState {
	gs := &GameState{SideToMove: Side0}

	nextID := 0
	place := func(col, row int, owner Owner) {
		gs.Board[SquareIndex(col, row)] = &Token{
			ID:            nextID,
			Possibilities: initialSet,
			OriginOwner:   owner,
			CurrentOwner:  owner,
		}
		nextID++
	}

	// Side1 back rank (row 0): Giraffe, Lion, Elephant; row 1: Chick at col 1.
	place(0, 0, Side1)
	place(1, 0, Side1)
	place(2, 0, Side1)
	place(1, 1, Side1)

	// Side0 back rank (row 3): Elephant, Lion, Giraffe; row 2: Chick at col 1.
	place(1, 2, Side0)
	place(0, 3, Side0)
	place(1, 3, Side0)
	place(2, 3, Side0)

	return gs
}

// Clone returns a deep value copy: every Token is copied, so mutating the
// clone (moves, collapse narrowing, capture) never touches the original,
// which is what lets a search agent explore a move cheaply without
// disturbing the game actually in progress.
func (gs *GameState) Clone() *GameState {
	next := &GameState{
		SideToMove: gs.SideToMove,
		TurnCount:  gs.TurnCount,
		Terminal:   gs.Terminal,
	}
	for i, tok := range gs.Board {
		if tok != nil {
			cp := *tok
			next.Board[i] = &cp
		}
	}
	for side := 0; side < 2; side++ {
		if gs.Hands[side] == nil {
			continue
		}
		next.Hands[side] = make([]*Token, len(gs.Hands[side]))
		for i, tok := range gs.Hands[side] {
			cp := *tok
			next.Hands[side][i] = &cp
		}
	}
	return next
}

// tokensByOrigin returns every token with the given origin owner, wherever it
// currently sits (board, either hand). This is always the same four tokens
// for the lifetime of the game.
func (gs *GameState) tokensByOrigin(origin Owner) []*Token {
	var out []*Token
	for _, tok := range gs.Board {
		if tok != nil && tok.OriginOwner == origin {
			out = append(out, tok)
		}
	}
	for side := 0; side < 2; side++ {
		for _, tok := range gs.Hands[side] {
			if tok.OriginOwner == origin {
				out = append(out, tok)
			}
		}
	}
	return out
}

// checkTokens verifies every token, board or hand, still holds a non-empty
// possibility set. Run after each mutation; a violation means collapse or
// move generation already went wrong.
func (gs *GameState) checkTokens() error {
	for _, tok := range gs.Board {
		if tok != nil && !tok.invariantsHold() {
			return ErrInfeasibleState
		}
	}
	for side := 0; side < 2; side++ {
		for _, tok := range gs.Hands[side] {
			if !tok.invariantsHold() {
				return ErrInfeasibleState
			}
		}
	}
	return nil
}
