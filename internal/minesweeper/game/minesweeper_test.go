package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertCoordinate(t *testing.T) {
	tests := []struct {
		coord string
		x, y  int
		ok    bool
	}{
		{"A1", 0, 0, true},
		{"1A", 0, 0, true},
		{"a1", 0, 0, true},
		{"B5", 4, 1, true},
		{"5b", 4, 1, true},
		{"I9", 8, 8, true},
		{"Z9", 0, 0, false}, // row out of range for a 9x9 field
		{"J1", 0, 0, false},
		{"A0", 0, 0, false},
		{"11", 0, 0, false}, // no row letter
		{"AB", 0, 0, false}, // no column digit
		{"A", 0, 0, false},
		{"A12", 0, 0, false},
		{"", 0, 0, false},
		{"!1", 0, 0, false},
	}

	for _, tt := range tests {
		x, y, ok := ConvertCoordinate(tt.coord)
		assert.Equal(t, tt.ok, ok, "coord %q", tt.coord)
		if tt.ok {
			assert.Equal(t, tt.x, x, "coord %q", tt.coord)
			assert.Equal(t, tt.y, y, "coord %q", tt.coord)
		}
	}
}

func TestNewPlacesAllMines(t *testing.T) {
	s := New("alice", rand.New(rand.NewSource(42)))

	mines := 0
	for x := 0; x < FieldWidth; x++ {
		for y := 0; y < FieldHeight; y++ {
			tile := s.Field[x][y]
			if tile.HasMine {
				mines++
			}
			assert.False(t, tile.Revealed)
			assert.False(t, tile.HasFlag)
			assert.Equal(t, s.adjacentMines(x, y), tile.AdjacentMines)
		}
	}
	assert.Equal(t, NumMines, mines)
	assert.Equal(t, NumMines, s.MinesRemaining)
	assert.Equal(t, "alice", s.Username)
}

func TestNewIsDeterministicForASeed(t *testing.T) {
	a := New("alice", rand.New(rand.NewSource(42)))
	b := New("bob", rand.New(rand.NewSource(42)))
	assert.Equal(t, a.Field, b.Field)
}

func TestRevealFloodFillsZeroAdjacency(t *testing.T) {
	s := &State{MinesRemaining: 1}
	// Lone mine in the top-left corner; everything far from it has zero
	// adjacency and must cascade.
	s.Field[0][0].HasMine = true
	recomputeAdjacency(s)

	s.Reveal(8, 8)

	for x := 0; x < FieldWidth; x++ {
		for y := 0; y < FieldHeight; y++ {
			if x == 0 && y == 0 {
				assert.False(t, s.Field[x][y].Revealed, "mine should stay hidden")
				continue
			}
			assert.True(t, s.Field[x][y].Revealed, "tile (%d,%d) should be revealed by the cascade", x, y)
		}
	}
}

func TestRevealNumberedTileDoesNotCascade(t *testing.T) {
	s := &State{MinesRemaining: 1}
	s.Field[0][0].HasMine = true
	recomputeAdjacency(s)

	s.Reveal(1, 1) // adjacent to the mine, count 1

	revealed := 0
	for x := 0; x < FieldWidth; x++ {
		for y := 0; y < FieldHeight; y++ {
			if s.Field[x][y].Revealed {
				revealed++
			}
		}
	}
	assert.Equal(t, 1, revealed)
	assert.Equal(t, 1, s.Field[1][1].AdjacentMines)
}

func TestRevealOutOfBoundsIsIgnored(t *testing.T) {
	s := &State{}
	s.Reveal(-1, 0)
	s.Reveal(0, FieldHeight)
}

func TestFlagOnMine(t *testing.T) {
	s := &State{MinesRemaining: 2}
	s.Field[3][3].HasMine = true
	s.Field[5][5].HasMine = true

	require.True(t, s.Flag(3, 3))
	assert.True(t, s.Field[3][3].HasFlag)
	assert.True(t, s.Field[3][3].Revealed)
	assert.Equal(t, 1, s.MinesRemaining)

	// Flagging the same tile again is rejected: it is already revealed.
	assert.False(t, s.Flag(3, 3))
	assert.Equal(t, 1, s.MinesRemaining)

	require.True(t, s.Flag(5, 5))
	assert.Equal(t, 0, s.MinesRemaining)
}

func TestFlagOnSafeTileIsANoOp(t *testing.T) {
	s := &State{MinesRemaining: 1}
	s.Field[0][0].HasMine = true

	assert.False(t, s.Flag(4, 4))
	assert.False(t, s.Field[4][4].HasFlag)
	assert.False(t, s.Field[4][4].Revealed)
	assert.Equal(t, 1, s.MinesRemaining)
}

func TestShowMines(t *testing.T) {
	s := &State{MinesRemaining: 1}
	s.Field[2][2].HasMine = true
	recomputeAdjacency(s)
	s.Reveal(8, 8)

	s.ShowMines(true)
	for x := 0; x < FieldWidth; x++ {
		for y := 0; y < FieldHeight; y++ {
			tile := s.Field[x][y]
			if tile.HasMine {
				assert.True(t, tile.Revealed)
				assert.True(t, tile.HasFlag)
			} else {
				assert.False(t, tile.Revealed, "safe tiles are hidden again")
			}
		}
	}

	s.ShowMines(false)
	assert.True(t, s.Field[2][2].Revealed)
	assert.False(t, s.Field[2][2].HasFlag)
}

func TestEndRecordsOutcome(t *testing.T) {
	s := New("alice", rand.New(rand.NewSource(1)))
	s.End(true)
	assert.True(t, s.Won)
	assert.GreaterOrEqual(t, s.TimeTaken, 0)
}

func recomputeAdjacency(s *State) {
	for x := 0; x < FieldWidth; x++ {
		for y := 0; y < FieldHeight; y++ {
			s.Field[x][y].AdjacentMines = s.adjacentMines(x, y)
		}
	}
}
