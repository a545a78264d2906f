package game

import "math/rand"

// ChooseMove picks a cell for symbol me: complete an own triple first,
// block the opponent's second, otherwise a random empty cell. The caller
// owns the *rand.Rand so tests can pin the fallback path.
func ChooseMove(rnd *rand.Rand, b Board, me Cell) (int, bool) {
	if i, ok := completingCell(b, me); ok {
		return i, true
	}
	if i, ok := completingCell(b, Other(me)); ok {
		return i, true
	}
	empties := b.Empties()
	if len(empties) == 0 {
		return 0, false
	}
	return empties[rnd.Intn(len(empties))], true
}

// completingCell finds the empty cell of a triple that already holds two
// cells of s, scanning triples in enumeration order.
func completingCell(b Board, s Cell) (int, bool) {
	for _, t := range triples {
		var have, empty, emptyAt int
		for _, i := range t {
			switch b[i] {
			case s:
				have++
			case Empty:
				empty++
				emptyAt = i
			}
		}
		if have == 2 && empty == 1 {
			return emptyAt, true
		}
	}
	return 0, false
}
