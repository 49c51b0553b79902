package swiss

import (
	"math"
	"math/bits"
	"math/rand"

	"github.com/Dosada05/event-companion/models"
)

// GenerateRoundOne builds the round 1 plan from the given seating order,
// which the caller has already randomized. With an odd participant count one
// uniformly random participant takes the BYE; the remaining pool is split at
// its midpoint and seat i is paired with seat i+half, approximating players
// sitting opposite each other at the table. The BYE pairing comes last.
func GenerateRoundOne(participants []*models.EventParticipant, rng *rand.Rand) ([]Pairing, error) {
	if len(participants) < 2 {
		return nil, ErrNotEnoughParticipants
	}

	pool := make([]int, 0, len(participants))
	for _, p := range participants {
		pool = append(pool, p.ID)
	}

	var byeID *int
	if len(pool)%2 == 1 {
		i := rng.Intn(len(pool))
		id := pool[i]
		byeID = &id
		pool = append(pool[:i], pool[i+1:]...)
	}

	half := len(pool) / 2
	pairings := make([]Pairing, 0, half+1)
	for i := 0; i < half; i++ {
		pairings = append(pairings, pairOf(pool[i], pool[i+half]))
	}
	if byeID != nil {
		pairings = append(pairings, byeOf(*byeID))
	}
	return pairings, nil
}

// ComputeNextRound builds the pairing plan for the round after the last
// recorded one. Participants are processed strictly top-down by current
// standing; the highest unpaired participant takes the next unpaired
// participant in rank order that is not a rematch, with backtracking. Only
// when no rematch-free complete pairing exists does a second search allow
// rematches, minimizing their total count. With an odd pool the BYE goes to
// the lowest-ranked participant without a prior BYE (lowest-ranked overall
// once everyone has had one) and is appended last.
//
// Nothing is persisted here; the plan is recomputed purely from the current
// match rows, so it is safe to call again after a past round was edited and
// later rounds purged.
func ComputeNextRound(participants []*models.EventParticipant, matches []*models.Match) ([]Pairing, error) {
	if len(participants) < 2 {
		return nil, ErrNotEnoughParticipants
	}

	known := make(map[int]bool, len(participants))
	for _, p := range participants {
		known[p.ID] = true
	}

	previousPairs := make(map[pairKey]bool)
	hadBye := make(map[int]bool)
	for _, m := range matches {
		if m.Bye {
			if !known[m.Player1] {
				return nil, unknownParticipant(m.Player1)
			}
			hadBye[m.Player1] = true
			continue
		}
		if m.Player2 == nil {
			return nil, ErrMalformedMatch
		}
		if !known[m.Player1] {
			return nil, unknownParticipant(m.Player1)
		}
		if !known[*m.Player2] {
			return nil, unknownParticipant(*m.Player2)
		}
		previousPairs[keyFor(m.Player1, *m.Player2)] = true
	}

	standings, err := ComputeStandings(participants, matches)
	if err != nil {
		return nil, err
	}
	ranked := make([]int, 0, len(standings))
	for _, st := range standings {
		ranked = append(ranked, st.ParticipantID)
	}

	var byeCandidate *int
	if len(ranked)%2 == 1 {
		for i := len(ranked) - 1; i >= 0; i-- {
			if !hadBye[ranked[i]] {
				id := ranked[i]
				byeCandidate = &id
				break
			}
		}
		if byeCandidate == nil {
			id := ranked[len(ranked)-1]
			byeCandidate = &id
		}
	}

	toPair := ranked
	if byeCandidate != nil {
		toPair = make([]int, 0, len(ranked)-1)
		for _, id := range ranked {
			if id != *byeCandidate {
				toPair = append(toPair, id)
			}
		}
	}
	if len(toPair) > 64 {
		return nil, ErrPoolTooLarge
	}

	pairings, ok := pairWithoutRematch(toPair, previousPairs)
	if !ok {
		pairings = pairMinimizingRematches(toPair, previousPairs)
		if len(toPair) > 0 && pairings == nil {
			return nil, ErrNoCompletePairing
		}
	}

	if byeCandidate != nil {
		pairings = append(pairings, byeOf(*byeCandidate))
	}
	return pairings, nil
}

// pairWithoutRematch searches for a complete pairing with no repeated pair.
// The remaining pool is tracked as a bitmask over order indices; every
// recursion level works on fresh values, so there is no mutate-then-undo
// state to get wrong.
func pairWithoutRematch(order []int, previousPairs map[pairKey]bool) ([]Pairing, bool) {
	n := len(order)
	var search func(used uint64, acc []Pairing) ([]Pairing, bool)
	search = func(used uint64, acc []Pairing) ([]Pairing, bool) {
		if bits.OnesCount64(used) == n {
			return acc, true
		}
		i := lowestUnused(used, n)
		for j := i + 1; j < n; j++ {
			if used&(1<<uint(j)) != 0 {
				continue
			}
			if previousPairs[keyFor(order[i], order[j])] {
				continue
			}
			next := used | 1<<uint(i) | 1<<uint(j)
			if res, ok := search(next, append(acc, pairOf(order[i], order[j]))); ok {
				return res, true
			}
		}
		return nil, false
	}
	return search(0, make([]Pairing, 0, n/2))
}

// pairMinimizingRematches allows rematches but minimizes their total count,
// branch-and-bound style. Among solutions with the same rematch count the
// first one found wins, which keeps the top-down rank preference of the
// strict search.
func pairMinimizingRematches(order []int, previousPairs map[pairKey]bool) []Pairing {
	n := len(order)
	var best []Pairing
	bestRematches := math.MaxInt

	var search func(used uint64, acc []Pairing, rematches int)
	search = func(used uint64, acc []Pairing, rematches int) {
		if rematches >= bestRematches {
			return
		}
		if bits.OnesCount64(used) == n {
			best = append([]Pairing(nil), acc...)
			bestRematches = rematches
			return
		}
		i := lowestUnused(used, n)
		for j := i + 1; j < n; j++ {
			if used&(1<<uint(j)) != 0 {
				continue
			}
			cost := rematches
			if previousPairs[keyFor(order[i], order[j])] {
				cost++
			}
			next := used | 1<<uint(i) | 1<<uint(j)
			search(next, append(acc, pairOf(order[i], order[j])), cost)
		}
	}
	search(0, make([]Pairing, 0, n/2), 0)
	return best
}

func lowestUnused(used uint64, n int) int {
	for i := 0; i < n; i++ {
		if used&(1<<uint(i)) == 0 {
			return i
		}
	}
	return n
}
