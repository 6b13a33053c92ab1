package quantum

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func fourTokens(ids ...int) []*Token {
	toks := make([]*Token, 4)
	for i := range toks {
		id := i
		if i < len(ids) {
			id = ids[i]
		}
		toks[i] = &Token{ID: id, Possibilities: initialSet}
	}
	return toks
}

func TestCollapseGroupUnconstrained(t *testing.T) {
	Convey("Given four tokens all fully superposed", t, func() {
		toks := fourTokens(0, 1, 2, 3)

		Convey("CollapseGroup is feasible and projects every identity to every token", func() {
			result := CollapseGroup(toks, groupConstraint{})
			So(result.Feasible, ShouldBeTrue)
			for _, tok := range toks {
				So(result.Projected[tok.ID], ShouldEqual, initialSet)
			}
		})
	})
}

func TestCollapseGroupForcesRemainingToken(t *testing.T) {
	Convey("Given three tokens already pinned to three distinct identities", t, func() {
		toks := fourTokens(0, 1, 2, 3)
		toks[0].Possibilities = setOf(Chick)
		toks[1].Possibilities = setOf(Giraffe)
		toks[2].Possibilities = setOf(Elephant)
		// toks[3] remains fully superposed.

		Convey("The fourth token is forced to the one remaining identity", func() {
			result := CollapseGroup(toks, groupConstraint{})
			So(result.Feasible, ShouldBeTrue)
			So(result.Projected[toks[3].ID], ShouldEqual, setOf(Lion))
		})
	})
}

func TestCollapseGroupInfeasible(t *testing.T) {
	Convey("Given two tokens both constrained to the same singleton identity", t, func() {
		toks := fourTokens(0, 1, 2, 3)
		toks[0].Possibilities = setOf(Chick)
		toks[1].Possibilities = setOf(Chick)

		Convey("CollapseGroup reports infeasible", func() {
			result := CollapseGroup(toks, groupConstraint{})
			So(result.Feasible, ShouldBeFalse)
		})
	})
}

func TestCollapseGroupConstraintNarrows(t *testing.T) {
	Convey("Given a token constrained to {Chick, Lion} by an attempted offset", t, func() {
		toks := fourTokens(0, 1, 2, 3)
		c := groupConstraint{toks[0].ID: setOf(Chick, Lion)}

		Convey("Its projection is a subset of the constraint", func() {
			result := CollapseGroup(toks, c)
			So(result.Feasible, ShouldBeTrue)
			So(result.Projected[toks[0].ID]&^setOf(Chick, Lion), ShouldEqual, IdentitySet(0))
		})
	})
}

func TestLionAlive(t *testing.T) {
	Convey("Given a reset game state", t, func() {
		gs := reset()

		Convey("Both sides' Lions are alive", func() {
			So(lionAlive(gs, Side0), ShouldBeTrue)
			So(lionAlive(gs, Side1), ShouldBeTrue)
		})
	})

	Convey("Given one ambiguous Side1 token captured and one still on the board", t, func() {
		gs := &GameState{SideToMove: Side0}
		held := &Token{ID: 0, Possibilities: setOf(Chick, Lion), OriginOwner: Side1, CurrentOwner: Side0}
		gs.Hands[Side0] = append(gs.Hands[Side0], held)
		onBoard := &Token{ID: 1, Possibilities: setOf(Chick, Lion), OriginOwner: Side1, CurrentOwner: Side1}
		gs.Board[SquareIndex(1, 0)] = onBoard

		Convey("Side1's Lion is alive: it may still be the board token", func() {
			So(lionAlive(gs, Side1), ShouldBeTrue)
		})

		Convey("Once both tokens are enemy-held, the Lion is certainly among them", func() {
			gs.Board[SquareIndex(1, 0)] = nil
			onBoard.CurrentOwner = Side0
			gs.Hands[Side0] = append(gs.Hands[Side0], onBoard)
			So(lionAlive(gs, Side1), ShouldBeFalse)
		})
	})
}

func TestMustBe(t *testing.T) {
	Convey("Given a token pinned to exactly Lion and the rest unconstrained", t, func() {
		toks := fourTokens(0, 1, 2, 3)
		toks[0].Possibilities = setOf(Lion)

		Convey("mustBe reports the token must be Lion", func() {
			So(mustBe(toks, toks[0], Lion), ShouldBeTrue)
		})

		Convey("mustBe reports the token cannot be Chick", func() {
			// feasible(withID=Chick) is false since toks[0].Possibilities excludes it.
			So(mustBe(toks, toks[0], Chick), ShouldBeFalse)
		})
	})

	Convey("Given a token that could be Lion or Chick, with no other constraint", t, func() {
		toks := fourTokens(0, 1, 2, 3)
		toks[0].Possibilities = setOf(Lion, Chick)

		Convey("mustBe is false for Lion, since the non-Lion interpretation is also consistent", func() {
			So(mustBe(toks, toks[0], Lion), ShouldBeFalse)
		})
	})
}
