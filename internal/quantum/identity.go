// Package quantum implements the Quantum Animal Shogi rule engine: board and hand
// state, the identity-collapse constraint solver, legal move generation, move
// execution, and observation encoding. The package is single-threaded and
// synchronous by design — see Engine for the entry points a caller uses.
package quantum

import "fmt"

// Identity is one of the five piece identities a token may turn out to be.
// Indices are stable and used directly as observation-tensor channels.
type Identity int

const (
	Chick Identity = iota
	Giraffe
	Elephant
	Lion
	Hen
	numIdentities
)

func (id Identity) String() string {
	switch id {
	case Chick:
		return "Chick"
	case Giraffe:
		return "Giraffe"
	case Elephant:
		return "Elephant"
	case Lion:
		return "Lion"
	case Hen:
		return "Hen"
	default:
		return fmt.Sprintf("Identity(%d)", int(id))
	}
}

// IdentitySet is a bitset over the five identities: bit i set means Identity(i)
// is a member. This is what a token's possibilities are, and the whole set
// fits in a byte.
type IdentitySet uint8

// Single-identity sets, for convenience at call sites.
const (
	SetChick    IdentitySet = 1 << Chick
	SetGiraffe  IdentitySet = 1 << Giraffe
	SetElephant IdentitySet = 1 << Elephant
	SetLion     IdentitySet = 1 << Lion
	SetHen      IdentitySet = 1 << Hen
)

// initialSet is the possibility set every token starts reset() with: every
// identity except Hen, which only ever arises through promotion.
const initialSet = SetChick | SetGiraffe | SetElephant | SetLion

// allIdentitySet contains every identity, including Hen.
const allIdentitySet = initialSet | SetHen

func setOf(ids ...Identity) IdentitySet {
	var s IdentitySet
	for _, id := range ids {
		s |= 1 << id
	}
	return s
}

func (s IdentitySet) Has(id Identity) bool { return s&(1<<id) != 0 }

func (s IdentitySet) Empty() bool { return s == 0 }

func (s IdentitySet) Count() int {
	n := 0
	for i := Identity(0); i < numIdentities; i++ {
		if s.Has(i) {
			n++
		}
	}
	return n
}

// Single returns the sole member of s and true, if s has exactly one member.
func (s IdentitySet) Single() (Identity, bool) {
	if s.Count() != 1 {
		return 0, false
	}
	for i := Identity(0); i < numIdentities; i++ {
		if s.Has(i) {
			return i, true
		}
	}
	return 0, false
}

func (s IdentitySet) Slice() []Identity {
	out := make([]Identity, 0, s.Count())
	for i := Identity(0); i < numIdentities; i++ {
		if s.Has(i) {
			out = append(out, i)
		}
	}
	return out
}

// Owner is one of the two sides.
type Owner int

const (
	Side0 Owner = iota
	Side1
)

func (o Owner) Opponent() Owner {
	if o == Side0 {
		return Side1
	}
	return Side0
}

func (o Owner) String() string {
	if o == Side0 {
		return "Side0"
	}
	return "Side1"
}

// Offset is a (column, row) displacement on the board, from the mover's own
// forward-facing perspective before accounting for which side is moving.
type Offset struct {
	DC, DR int
}

// baseOffsets are defined from Side0's perspective (forward = decreasing
// row). Side1's offsets are the same set with DR negated.
var baseOffsets = map[Identity][]Offset{
	Chick:    {{0, -1}},
	Giraffe:  {{0, -1}, {0, 1}, {-1, 0}, {1, 0}},
	Elephant: {{-1, -1}, {1, -1}, {-1, 1}, {1, 1}},
	Hen:      {{0, -1}, {0, 1}, {-1, 0}, {1, 0}, {-1, -1}, {1, -1}},
}

func init() {
	// Lion moves as the union of Giraffe and Elephant: all eight king moves.
	baseOffsets[Lion] = append(append([]Offset{}, baseOffsets[Giraffe]...), baseOffsets[Elephant]...)
}

// OffsetsFor returns identity id's move offsets for the given owner.
func OffsetsFor(id Identity, owner Owner) []Offset {
	offs := baseOffsets[id]
	if owner == Side0 {
		return offs
	}
	flipped := make([]Offset, len(offs))
	for i, o := range offs {
		flipped[i] = Offset{DC: o.DC, DR: -o.DR}
	}
	return flipped
}

// UnionOffsets returns the union, without duplicates, of the move offsets of
// every identity in possibilities, for owner: the superposition-aware move
// set a token with that possibility set can use.
func UnionOffsets(possibilities IdentitySet, owner Owner) []Offset {
	seen := make(map[Offset]bool)
	var out []Offset
	for _, id := range possibilities.Slice() {
		for _, o := range OffsetsFor(id, owner) {
			if !seen[o] {
				seen[o] = true
				out = append(out, o)
			}
		}
	}
	return out
}

// IdentitiesSupportingOffset returns the set of identities, for owner, whose
// move set contains offset. Used to constrain a mover's identity to those
// consistent with the offset it just attempted.
func IdentitiesSupportingOffset(offset Offset, owner Owner) IdentitySet {
	var s IdentitySet
	for id := Identity(0); id < numIdentities; id++ {
		for _, o := range OffsetsFor(id, owner) {
			if o == offset {
				s |= 1 << id
				break
			}
		}
	}
	return s
}
