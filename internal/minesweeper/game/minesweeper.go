// Package game implements the minesweeper field: mine placement,
// coordinate parsing, tile reveals with flood fill and flag handling.
// A State is owned by exactly one session and shares nothing.
package game

import (
	"math/rand"
	"time"
)

const (
	FieldWidth  = 9
	FieldHeight = 9
	NumMines    = 10
)

// Tile is one cell of the field. HasMine never changes after placement
// and Revealed only ever flips from false to true.
type Tile struct {
	HasMine       bool
	HasFlag       bool
	Revealed      bool
	AdjacentMines int
}

// State holds one game in progress.
type State struct {
	Field          [FieldWidth][FieldHeight]Tile
	MinesRemaining int
	StartTime      time.Time
	Username       string
	Won            bool
	TimeTaken      int // seconds, set when the game ends
}

// New prepares a fresh field for a player: mines placed from rng, adjacency
// counts precomputed and the timer started. The caller must serialize
// access to rng, which is shared across sessions.
func New(username string, rng *rand.Rand) *State {
	s := &State{
		Username:       username,
		MinesRemaining: NumMines,
		StartTime:      time.Now(),
	}

	for i := 0; i < NumMines; i++ {
		// Retry until landing on a tile that is still empty.
		var x, y int
		for {
			x = rng.Intn(FieldWidth)
			y = rng.Intn(FieldHeight)
			if !s.Field[x][y].HasMine {
				break
			}
		}
		s.Field[x][y].HasMine = true
	}

	for x := 0; x < FieldWidth; x++ {
		for y := 0; y < FieldHeight; y++ {
			s.Field[x][y].AdjacentMines = s.adjacentMines(x, y)
		}
	}

	return s
}

func InBounds(x, y int) bool {
	return x >= 0 && x < FieldWidth && y >= 0 && y < FieldHeight
}

// ConvertCoordinate parses a two-character tile coordinate such as "A1" or
// "1A". The digit 1-9 selects the column, the letter A-I (either case) the
// row, in either order.
func ConvertCoordinate(coord string) (x, y int, ok bool) {
	if len(coord) != 2 {
		return -1, -1, false
	}

	x, y = -1, -1
	for i := 0; i < 2; i++ {
		c := coord[i]
		switch {
		case c >= '0' && c <= '9':
			if !InBounds(int(c-'0')-1, 0) {
				return -1, -1, false
			}
			x = int(c-'0') - 1
		case c >= 'A' && c <= 'Z':
			y = int(c - 'A')
		case c >= 'a' && c <= 'z':
			y = int(c - 'a')
		default:
			return -1, -1, false
		}
	}

	if !InBounds(x, y) {
		return -1, -1, false
	}
	return x, y, true
}

// Reveal uncovers the tile at (x, y). A zero-adjacency tile cascades the
// reveal to all eight neighbours, which cascade further under the same
// rule. The fill runs over an explicit work list; revealed tiles are never
// revisited, so it terminates within the field size.
func (s *State) Reveal(x, y int) {
	if !InBounds(x, y) || s.Field[x][y].Revealed {
		return
	}

	type coord struct{ x, y int }
	work := []coord{{x, y}}

	for len(work) > 0 {
		c := work[len(work)-1]
		work = work[:len(work)-1]

		tile := &s.Field[c.x][c.y]
		if tile.Revealed {
			continue
		}
		tile.Revealed = true

		if tile.AdjacentMines != 0 {
			continue
		}
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := c.x+dx, c.y+dy
				if InBounds(nx, ny) && !s.Field[nx][ny].Revealed {
					work = append(work, coord{nx, ny})
				}
			}
		}
	}
}

// Flag attempts to place a flag at (x, y). A flag is only placed when the
// tile actually hides a mine; the tile is then marked revealed and the
// remaining-mine count drops. Flagging a safe tile changes nothing and
// reports false so the player can be told.
func (s *State) Flag(x, y int) bool {
	if !InBounds(x, y) || s.Field[x][y].Revealed {
		return false
	}
	if !s.Field[x][y].HasMine {
		return false
	}

	s.Field[x][y].HasFlag = true
	s.Field[x][y].Revealed = true
	s.MinesRemaining--
	return true
}

// ShowMines rewrites the field for the end-of-game screen: every mine is
// revealed (flagged too on a win) and every safe tile is hidden again.
func (s *State) ShowMines(showFlags bool) {
	for x := 0; x < FieldWidth; x++ {
		for y := 0; y < FieldHeight; y++ {
			if s.Field[x][y].HasMine {
				s.Field[x][y].Revealed = true
				s.Field[x][y].HasFlag = showFlags
			} else {
				s.Field[x][y].Revealed = false
			}
		}
	}
}

// End stops the clock and records the outcome on the state.
func (s *State) End(won bool) {
	s.Won = won
	s.TimeTaken = int(time.Since(s.StartTime).Seconds())
}

func (s *State) adjacentMines(x, y int) int {
	count := 0
	for i := x - 1; i <= x+1; i++ {
		for j := y - 1; j <= y+1; j++ {
			if InBounds(i, j) && s.Field[i][j].HasMine {
				count++
			}
		}
	}
	return count
}
