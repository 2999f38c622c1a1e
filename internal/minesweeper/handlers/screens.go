package handlers

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"minesweeper/internal/minesweeper/game"
	"minesweeper/internal/minesweeper/leaderboard"
	"minesweeper/internal/minesweeper/protocol"
)

const (
	mineSprite = '*'
	flagSprite = '+'
)

func (s *Session) drawMainMenu() error {
	return s.sendScreen([]string{
		"Welcome to the Minesweeper gaming system.",
		"",
		"Please enter a selection:",
		"<1> Play Minesweeper",
		"<2> Show Leaderboard",
		"<3> Quit",
	}, "Selection Option (1-3): ")
}

func (s *Session) drawPlayingScreen() error {
	lines := []string{
		"------- Minesweeper -------",
		"",
		fmt.Sprintf("Mines remaining: %d", s.sweeper.MinesRemaining),
		"",
	}
	lines = append(lines, fieldLines(s.sweeper)...)
	lines = append(lines,
		"",
		"Choose an option: ",
		"(R)eveal tile",
		"(P)lace flag",
		"(Q)uit game",
		"",
	)
	return s.sendScreen(lines, "Option (R,P,Q): ")
}

func (s *Session) drawGameOverScreen() error {
	lines := []string{"------- Minesweeper -------", ""}
	if s.sweeper.Won {
		lines = append(lines,
			"You've won!",
			fmt.Sprintf("Time taken: %d seconds", s.sweeper.TimeTaken),
		)
	} else {
		lines = append(lines, "Game Over! You've hit a mine")
	}
	lines = append(lines, "")

	s.sweeper.ShowMines(s.sweeper.Won)
	lines = append(lines, fieldLines(s.sweeper)...)
	lines = append(lines, "")

	if err := s.ch.PrintAll(lines...); err != nil {
		return err
	}
	return s.ch.Send(protocol.CodePrintInput, "Press <Enter> to continue...")
}

// drawHighscoreScreen renders the ranked leaderboard. The whole traversal,
// including the per-entry user lookups, happens under the read gate so the
// client sees a consistent snapshot.
func (s *Session) drawHighscoreScreen() error {
	s.srv.Gate.RLock()
	var lines []string
	if s.srv.Board.Len() < 1 {
		lines = []string{"---- The leaderboard is empty ----", ""}
	} else {
		lines = lo.Map(s.srv.Board.Entries(), func(e leaderboard.Entry, _ int) string {
			played, won := s.srv.Board.Lookup(e.Username)
			return fmt.Sprintf("%s \t %d seconds \t %d games won, %d games played",
				e.Username, e.TimeTaken, won, played)
		})
	}
	s.srv.Gate.RUnlock()

	if err := s.ch.PrintAll(lines...); err != nil {
		return err
	}
	return s.ch.Send(protocol.CodePrintInput, "Press <Enter> to continue")
}

func (s *Session) sendScreen(lines []string, prompt string) error {
	if err := s.ch.PrintAll(lines...); err != nil {
		return err
	}
	return s.ch.Prompt(prompt)
}

// fieldLines renders the minefield with column labels, one protocol line
// per row.
func fieldLines(st *game.State) []string {
	lines := []string{
		"    1 2 3 4 5 6 7 8 9",
		"---------------------",
	}
	for y := 0; y < game.FieldHeight; y++ {
		lines = append(lines, rowLine(st, y))
	}
	return lines
}

func rowLine(st *game.State, y int) string {
	var row strings.Builder
	row.WriteByte(byte('A' + y))
	row.WriteString(" |")

	for x := 0; x < game.FieldWidth; x++ {
		row.WriteByte(' ')
		row.WriteByte(tileSprite(st.Field[x][y]))
	}
	return row.String()
}

func tileSprite(t game.Tile) byte {
	if !t.Revealed {
		return ' '
	}
	switch {
	case t.HasMine && !t.HasFlag:
		return mineSprite
	case t.HasFlag:
		return flagSprite
	default:
		return byte('0' + t.AdjacentMines)
	}
}
