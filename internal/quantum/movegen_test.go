package quantum

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLegalActionsOpening(t *testing.T) {
	Convey("Given the reset position", t, func() {
		gs := reset()

		Convey("Side0's legal moves are exactly the empty-or-enemy king-neighborhood squares", func() {
			// Every token is fully superposed, so each one's offset union is
			// all eight king moves; only board bounds and own-occupancy prune.
			wantMoves := map[int][]int{
				SquareIndex(1, 2): {
					SquareIndex(0, 1), SquareIndex(1, 1), SquareIndex(2, 1),
					SquareIndex(0, 2), SquareIndex(2, 2),
				},
				SquareIndex(0, 3): {SquareIndex(0, 2)},
				SquareIndex(1, 3): {SquareIndex(0, 2), SquareIndex(2, 2)},
				SquareIndex(2, 3): {SquareIndex(2, 2)},
			}

			var want ActionMask
			total := 0
			for src, dsts := range wantMoves {
				for _, dst := range dsts {
					want[EncodeAction(src, dst)] = true
					total++
				}
			}

			mask := LegalActions(gs)
			So(mask, ShouldResemble, want)
			So(mask.Count(), ShouldEqual, total)
			So(total, ShouldEqual, 9)
		})

		Convey("Every legal action's source is an occupied Side0 square", func() {
			mask := LegalActions(gs)
			for action, ok := range mask {
				if !ok {
					continue
				}
				src, _ := DecodeAction(action)
				So(src, ShouldBeLessThan, numSquares)
				So(gs.Board[src].CurrentOwner, ShouldEqual, Side0)
			}
		})
	})
}

func TestEncodeDecodeAction(t *testing.T) {
	Convey("EncodeAction and DecodeAction round-trip", t, func() {
		for src := 0; src < numSrc; src++ {
			for dst := 0; dst < numSquares; dst++ {
				action := EncodeAction(src, dst)
				gotSrc, gotDst := DecodeAction(action)
				So(gotSrc, ShouldEqual, src)
				So(gotDst, ShouldEqual, dst)
			}
		}
	})
}

func TestLegalActionsIncludesHenOffsetsAfterPromotion(t *testing.T) {
	Convey("Given a promoted Chick-possible token alone on the board", t, func() {
		gs := &GameState{SideToMove: Side0}
		tok := place(gs, 1, 2, Side0, setOf(Chick), 0)
		tok.MayBeHen = true

		Convey("Its legal destinations include the sideways and backward Hen squares", func() {
			mask := LegalActions(gs)
			srcIdx := SquareIndex(1, 2)
			henOnlyDsts := []int{
				SquareIndex(0, 2), SquareIndex(2, 2), // sideways
				SquareIndex(1, 3),                    // backward
			}
			for _, dstIdx := range henOnlyDsts {
				So(mask[EncodeAction(srcIdx, dstIdx)], ShouldBeTrue)
			}
		})

		Convey("The same squares are unreachable before promotion", func() {
			tok.MayBeHen = false
			mask := LegalActions(gs)
			srcIdx := SquareIndex(1, 2)
			henOnlyDsts := []int{
				SquareIndex(0, 2), SquareIndex(2, 2), SquareIndex(1, 3),
			}
			for _, dstIdx := range henOnlyDsts {
				So(mask[EncodeAction(srcIdx, dstIdx)], ShouldBeFalse)
			}
		})
	})
}

func TestDropLegality(t *testing.T) {
	Convey("Given a game state with exactly one hand token for Side0", t, func() {
		gs := reset()
		captured := gs.Board[SquareIndex(1, 0)]
		gs.Board[SquareIndex(1, 0)] = nil
		captured.CurrentOwner = Side0
		gs.Hands[Side0] = append(gs.Hands[Side0], captured)

		Convey("The mask includes dropping that token onto every empty square", func() {
			mask := LegalActions(gs)
			for dst := 0; dst < numSquares; dst++ {
				if gs.Board[dst] != nil {
					continue
				}
				So(mask[EncodeAction(numSquares+0, dst)], ShouldBeTrue)
			}
		})
	})
}
