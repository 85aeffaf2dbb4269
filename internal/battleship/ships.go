package battleship

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/rocketscienceinc/battlefun-backend/internal/entity"
)

// shotHistory - the set of cells a player has fired at.
func shotHistory(shots []entity.Shot) *bitset.BitSet {
	history := bitset.New(BoardSize + 1)
	for _, shot := range shots {
		history.Set(uint(shot.CellID))
	}

	return history
}

// HasRemainingShips reports whether any ship cell is still untouched.
func HasRemainingShips(placement entity.ShipPlacement, history *bitset.BitSet) bool {
	for _, ship := range placement.Ships {
		for _, cell := range ship.Cells {
			if !history.Test(uint(cell)) {
				return true
			}
		}
	}

	return false
}

// RemainingShips maps every ship that still has an untouched cell to those cells.
func RemainingShips(placement entity.ShipPlacement, history *bitset.BitSet) map[string][]entity.Cell {
	remaining := make(map[string][]entity.Cell)

	for _, ship := range placement.Ships {
		var cells []entity.Cell
		for _, cell := range ship.Cells {
			if !history.Test(uint(cell)) {
				cells = append(cells, cell)
			}
		}

		if len(cells) > 0 {
			remaining[ship.Type] = append(remaining[ship.Type], cells...)
		}
	}

	return remaining
}

// DestroyedShips lists, in placement order, the ships whose every cell was hit.
func DestroyedShips(placement entity.ShipPlacement, history *bitset.BitSet) []string {
	destroyed := []string{}

	for _, ship := range placement.Ships {
		if len(ship.Cells) == 0 {
			continue
		}

		sunk := true
		for _, cell := range ship.Cells {
			if !history.Test(uint(cell)) {
				sunk = false
				break
			}
		}

		if sunk {
			destroyed = append(destroyed, ship.Type)
		}
	}

	return destroyed
}
