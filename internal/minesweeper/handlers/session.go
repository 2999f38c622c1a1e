package handlers

import (
	"net"
	"strings"
	"sync"

	"github.com/google/uuid"

	"minesweeper/internal/minesweeper/game"
	"minesweeper/internal/minesweeper/protocol"
)

type sessionState int

const (
	stateMainMenu sessionState = iota
	statePlaying
	stateGameOver
	stateHighscore
	stateExit
)

// Session runs one client from login to disconnect. It is owned by a
// single worker; everything here except the leaderboard access is
// connection-local.
type Session struct {
	ID string

	ch       *protocol.Channel
	srv      *Server
	username string
	state    sessionState
	sweeper  *game.State

	closeOnce sync.Once
}

func NewSession(conn net.Conn, srv *Server) *Session {
	return &Session{
		ID:    uuid.New().String(),
		ch:    protocol.NewChannel(conn),
		srv:   srv,
		state: stateMainMenu,
	}
}

// Run authenticates the client and then drives the screen loop: draw the
// current state, block on one input, transition. It returns when the
// client quits, the peer disconnects or the session is terminated by
// shutdown.
func (s *Session) Run() {
	defer s.close("Thanks for playing! Disconnecting...")

	ok, err := s.login()
	if err != nil {
		return
	}
	if !ok {
		s.ch.Print("")
		s.close("Username or password is incorrect. Disconnecting...")
		return
	}

	if err := s.ch.PrintAll("", "Login successful", ""); err != nil {
		return
	}

	for s.state != stateExit {
		if err := s.draw(); err != nil {
			return
		}
		if err := s.update(); err != nil {
			return
		}
	}
}

// Terminate notifies the client and closes the socket. Safe to call from
// another goroutine while the session is blocked on the connection; the
// pending read fails and Run unwinds.
func (s *Session) Terminate(reason string) {
	s.close(reason)
}

func (s *Session) close(reason string) {
	s.closeOnce.Do(func() {
		s.ch.Send(protocol.CodeExit, reason)
		s.ch.Close()
	})
}

func (s *Session) login() (bool, error) {
	err := s.ch.PrintAll(
		"===========================================================",
		"=     Welcome to the online Minesweeper gaming system     =",
		"===========================================================",
		"",
	)
	if err != nil {
		return false, err
	}

	if err := s.ch.Prompt("Username: "); err != nil {
		return false, err
	}
	_, username, err := s.ch.Receive()
	if err != nil {
		return false, err
	}

	if err := s.ch.Prompt("Password: "); err != nil {
		return false, err
	}
	_, password, err := s.ch.Receive()
	if err != nil {
		return false, err
	}

	username = strings.TrimSpace(username)
	ok, err := s.srv.Auth.Check(username, strings.TrimSpace(password))
	if err != nil || !ok {
		return false, err
	}

	s.username = username
	return true, nil
}

func (s *Session) draw() error {
	s.ch.Print("")
	if err := s.ch.Print("==========================================================="); err != nil {
		return err
	}
	s.ch.Print("")

	switch s.state {
	case stateMainMenu:
		return s.drawMainMenu()
	case statePlaying:
		return s.drawPlayingScreen()
	case stateGameOver:
		return s.drawGameOverScreen()
	case stateHighscore:
		return s.drawHighscoreScreen()
	}
	return nil
}

func (s *Session) update() error {
	// The continue screens take one raw line, and any answer brings the
	// player back to the menu, even one that looks like an ack.
	if s.state == stateGameOver || s.state == stateHighscore {
		if _, err := s.ch.ReceiveReply(); err != nil {
			s.state = stateExit
			return err
		}
		s.state = stateMainMenu
		return nil
	}

	code, input, err := s.ch.Receive()
	if err != nil {
		s.state = stateExit
		return err
	}
	if code == protocol.CodeExit {
		s.state = stateExit
		return nil
	}

	switch s.state {
	case stateMainMenu:
		return s.updateMainMenu(input)
	case statePlaying:
		return s.updatePlayingScreen(input)
	}
	return nil
}

func (s *Session) updateMainMenu(input string) error {
	if len(input) < 1 || input[0] < '0' || input[0] > '9' {
		return s.ch.Print("Not a valid input! Choose a number between 1 and 3")
	}

	switch input[0] {
	case '1':
		s.sweeper = s.srv.newGame(s.username)
		s.state = statePlaying
	case '2':
		s.state = stateHighscore
	case '3':
		s.state = stateExit
	default:
		return s.ch.Print("Not a valid input! Choose a number between 1 and 3")
	}
	return nil
}

func (s *Session) updatePlayingScreen(input string) error {
	if len(input) < 1 {
		return s.ch.Print("Not a valid input! Choose a letter from (R, P, Q)")
	}

	var err error
	switch input[0] {
	case 'r', 'R':
		err = s.revealPrompt()
	case 'p', 'P':
		err = s.flagPrompt()
	case 'q', 'Q':
		s.endGame(false)
		s.state = stateMainMenu
	default:
		err = s.ch.Print("Not a valid input! Choose a letter from (R, P, Q)")
	}
	if err != nil {
		return err
	}

	if s.state == statePlaying && s.sweeper.MinesRemaining == 0 {
		s.endGame(true)
	}
	return nil
}

// revealPrompt asks for a coordinate and uncovers the tile. Revealing a
// mine ends the game as a loss.
func (s *Session) revealPrompt() error {
	x, y, ok, err := s.coordinatePrompt()
	if err != nil || !ok {
		return err
	}

	if s.sweeper.Field[x][y].Revealed {
		return s.ch.Print("This tile has already been revealed.")
	}

	s.sweeper.Reveal(x, y)
	if s.sweeper.Field[x][y].HasMine {
		s.endGame(false)
	}
	return nil
}

// flagPrompt asks for a coordinate and tries to place a flag there. A flag
// only sticks when the tile hides a mine; otherwise the player is told and
// the board is untouched.
func (s *Session) flagPrompt() error {
	x, y, ok, err := s.coordinatePrompt()
	if err != nil || !ok {
		return err
	}

	if !s.sweeper.Flag(x, y) {
		return s.ch.Print("There is no mine at this location.")
	}
	return nil
}

// coordinatePrompt reads and validates a tile coordinate. Malformed input
// is reported to the client and never changes state; ok is false when no
// usable coordinate was obtained.
func (s *Session) coordinatePrompt() (x, y int, ok bool, err error) {
	if err := s.ch.Prompt("Enter tile coordinate: "); err != nil {
		return 0, 0, false, err
	}
	_, input, err := s.ch.Receive()
	if err != nil {
		return 0, 0, false, err
	}

	if len(input) != 2 {
		return 0, 0, false, s.ch.Print("A coordinate is only two characters. Example: A1 or 1A, B5 or 5B.")
	}

	x, y, valid := game.ConvertCoordinate(input)
	if !valid {
		return 0, 0, false, s.ch.Print("Coordinate does not exist.")
	}
	return x, y, true, nil
}

// endGame closes out the current minefield and records the outcome on the
// shared leaderboard under the write gate. A won game gets a ranked score
// before the user's counters are bumped, matching the ranking rule's
// insertion-time semantics.
func (s *Session) endGame(won bool) {
	s.sweeper.End(won)
	s.state = stateGameOver

	s.srv.Gate.Lock()
	if won {
		s.srv.Board.InsertScore(s.username, s.sweeper.TimeTaken)
	}
	s.srv.Board.RecordGame(s.username, won)
	s.srv.Gate.Unlock()
}
