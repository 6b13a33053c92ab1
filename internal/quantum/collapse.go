package quantum

// collapse.go implements the constraint resolver: given the current tokens
// sharing one origin owner, and an extra constraint on zero or more of them,
// decide whether a global assignment of distinct stock identities to tokens
// exists, and if so narrow each token's reported possibilities to the
// projection of that consistent-assignment space — the set of identities
// that appear in at least one satisfying assignment, never a single
// arbitrarily-chosen assignment.
//
// Each origin owner always owns exactly four tokens, and the per-side stock
// is exactly one Chick, one Giraffe, one Elephant, one Lion, with a promoted
// Chick still occupying the Chick slot (piece.go's effectiveDomain). So this
// is a bipartite assignment between four tokens and four stock identities;
// the solver below is a general min-domain backtracking search over that
// bipartite graph rather than a hardcoded permutation check, since the shape
// of the problem is worth getting right even though the search space here is
// tiny.

// groupConstraint narrows one token's usable domain for a single collapse
// call, beyond its own possibilities.
type groupConstraint map[int]IdentitySet // token ID -> allowed identities

// domainFor returns token's usable stock domain under constraint c: its
// effective domain intersected with any extra constraint for its ID.
func domainFor(tok *Token, c groupConstraint) IdentitySet {
	dom := tok.effectiveDomain()
	if extra, ok := c[tok.ID]; ok {
		dom &= extra
	}
	return dom
}

// assignment maps token ID -> the stock identity assigned to it in one
// satisfying assignment.
type assignment map[int]Identity

// solveGroup finds one satisfying assignment for tokens under constraint c,
// or reports infeasibility. It propagates singleton domains and
// stock-exhaustion before branching on the token with the smallest
// remaining domain.
func solveGroup(tokens []*Token, c groupConstraint) (assignment, bool) {
	domains := make(map[int]IdentitySet, len(tokens))
	for _, tok := range tokens {
		dom := domainFor(tok, c)
		if dom.Empty() {
			return nil, false
		}
		domains[tok.ID] = dom
	}
	return backtrack(tokens, domains, assignment{})
}

func backtrack(tokens []*Token, domains map[int]IdentitySet, partial assignment) (assignment, bool) {
	// Propagate: identities already committed in partial are unavailable to
	// every other still-unassigned token (stock of exactly one each).
	changed := true
	for changed {
		changed = false
		for _, tok := range tokens {
			if _, done := partial[tok.ID]; done {
				continue
			}
			dom := domains[tok.ID]
			for _, assignedID := range partial {
				dom &^= 1 << assignedID
			}
			if dom.Empty() {
				return nil, false
			}
			if dom != domains[tok.ID] {
				domains[tok.ID] = dom
				changed = true
			}
		}
		// Unit propagation: a token with a singleton remaining domain commits,
		// unless another token already holds that identity's only stock slot.
		for _, tok := range tokens {
			if _, done := partial[tok.ID]; done {
				continue
			}
			if id, ok := domains[tok.ID].Single(); ok {
				if usedBy(partial, id) {
					return nil, false
				}
				partial[tok.ID] = id
				changed = true
			}
		}
	}

	// All tokens assigned: success.
	if len(partial) == len(tokens) {
		return cloneAssignment(partial), true
	}

	// Branch on the unassigned token with the smallest remaining domain.
	var branchTok *Token
	best := int(numIdentities) + 1
	for _, tok := range tokens {
		if _, done := partial[tok.ID]; done {
			continue
		}
		n := domains[tok.ID].Count()
		if n < best {
			best = n
			branchTok = tok
		}
	}
	if branchTok == nil {
		// Nothing left unassigned but the length check above didn't pass:
		// unreachable given the loop above, but guard defensively.
		return nil, false
	}

	for _, id := range domains[branchTok.ID].Slice() {
		if usedBy(partial, id) {
			continue
		}
		partial[branchTok.ID] = id
		domainsCopy := cloneDomains(domains)
		if result, ok := backtrack(tokens, domainsCopy, cloneAssignment(partial)); ok {
			return result, true
		}
		delete(partial, branchTok.ID)
	}
	return nil, false
}

func usedBy(partial assignment, id Identity) bool {
	for _, v := range partial {
		if v == id {
			return true
		}
	}
	return false
}

func cloneAssignment(a assignment) assignment {
	out := make(assignment, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

func cloneDomains(d map[int]IdentitySet) map[int]IdentitySet {
	out := make(map[int]IdentitySet, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// collapseResult is the outcome of CollapseGroup: whether a consistent
// assignment exists, and (if so) each token's projected possibility set.
type collapseResult struct {
	Feasible  bool
	Projected map[int]IdentitySet // token ID -> projected possibilities
}

// CollapseGroup tests whether any global assignment of stock identities to
// tokens (all sharing one origin owner) is consistent with c, and if so
// returns, per token, the union of identities it takes across every
// satisfying assignment — never a single arbitrarily-chosen one.
// CollapseGroup is pure: it never mutates tokens, so speculative legality
// checks can discard the result.
func CollapseGroup(tokens []*Token, c groupConstraint) collapseResult {
	first, ok := solveGroup(tokens, c)
	if !ok {
		return collapseResult{Feasible: false}
	}

	projected := make(map[int]IdentitySet, len(tokens))
	for _, tok := range tokens {
		projected[tok.ID] |= 1 << first[tok.ID]
	}

	// Projection: for every token and every other identity in its domain,
	// test whether some satisfying assignment could use it too. Each forced
	// solve contributes a full assignment, so the union converges on the
	// exact per-token projection.
	for _, tok := range tokens {
		dom := domainFor(tok, c)
		for _, candidate := range dom.Slice() {
			if candidate == first[tok.ID] {
				continue
			}
			forced := groupConstraint{tok.ID: 1 << candidate}
			for id, extra := range c {
				if id == tok.ID {
					forced[id] &= extra
				} else {
					forced[id] = extra
				}
			}
			if alt, ok := solveGroup(tokens, forced); ok {
				for _, t2 := range tokens {
					projected[t2.ID] |= 1 << alt[t2.ID]
				}
			}
		}
	}

	return collapseResult{Feasible: true, Projected: projected}
}

// feasible is a convenience wrapper over CollapseGroup for pure yes/no checks
// (mustBe and lionAlive, which decide the wins in executor.go), without
// paying for the full projection.
func feasible(tokens []*Token, c groupConstraint) bool {
	_, ok := solveGroup(tokens, c)
	return ok
}

// mustBe reports whether, under the tokens' current possibilities, token must
// be identity id in every satisfying assignment of its origin-owner group:
// feasible when constrained to id, and infeasible when constrained away from
// it. This is the forced rule that decides a capture or back-rank reach when
// the triggering token's identity is ambiguous: a side only wins once every
// consistent assignment agrees it must be Lion, never on a mere possibility.
func mustBe(tokens []*Token, token *Token, id Identity) bool {
	withID := feasible(tokens, groupConstraint{token.ID: 1 << id})
	withoutID := feasible(tokens, groupConstraint{token.ID: token.effectiveDomain() &^ (1 << id)})
	return withID && !withoutID
}

// lionAlive reports whether some satisfying assignment of side's origin group
// places Lion on a token side still controls (on the board, or in side's own
// hand and droppable later). The forced-capture rule above catches a single
// capture that must have been the Lion; this catches the deferred case where
// the Lion is only certain to be among several enemy-held tokens.
func lionAlive(gs *GameState, side Owner) bool {
	group := gs.tokensByOrigin(side)
	c := groupConstraint{}
	for _, tok := range group {
		if tok.CurrentOwner != side {
			c[tok.ID] = tok.effectiveDomain() &^ SetLion
		}
	}
	return feasible(group, c)
}
