package handlers

import (
	"log"
	"math/rand"
	"net"
	"sync"
	"sync/atomic"

	"minesweeper/internal/minesweeper/game"
	"minesweeper/internal/minesweeper/leaderboard"
	"minesweeper/internal/minesweeper/models"
	"minesweeper/internal/minesweeper/protocol"
	"minesweeper/internal/minesweeper/queue"
)

// Server owns the listening socket, the admission queue, the worker pool
// and the shared leaderboard. Each worker serves one full client session
// at a time; the leaderboard is the only state shared between them.
type Server struct {
	ListenAddr string
	PoolSize   int

	Queue *queue.Queue
	Board *leaderboard.Store
	Gate  *leaderboard.Gate
	Auth  CredentialChecker

	// rng seeds every new minefield. rand.Rand is not safe for
	// concurrent use, so sessions draw from it under randMu.
	rng    *rand.Rand
	randMu sync.Mutex

	listener net.Listener
	wg       sync.WaitGroup

	sessionsMu sync.Mutex
	sessions   map[string]*Session

	shutdownOnce sync.Once
	shuttingDown atomic.Bool
}

func NewServer(cfg *models.Config, auth CredentialChecker) *Server {
	return &Server{
		ListenAddr: ":" + cfg.Port,
		PoolSize:   cfg.PoolSize,
		Queue:      queue.New(),
		Board:      leaderboard.NewStore(),
		Gate:       &leaderboard.Gate{},
		Auth:       auth,
		rng:        rand.New(rand.NewSource(cfg.RNGSeed)),
		sessions:   make(map[string]*Session),
	}
}

// ListenAndServe opens the listening socket and serves until Shutdown.
func (s *Server) ListenAndServe() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Listen binds the listening socket without accepting yet.
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.ListenAddr)
	if err != nil {
		return err
	}
	s.listener = listener
	return nil
}

// Addr reports the bound listen address. Only valid after Listen.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve starts the worker pool and runs the accept loop until Shutdown
// closes the listener. Accepted connections are queued; a worker picks
// each one up when it is free.
func (s *Server) Serve() error {
	log.Printf("server is listening on %s", s.listener.Addr())

	for i := 0; i < s.PoolSize; i++ {
		s.wg.Add(1)
		go s.workerLoop(i)
	}

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.shuttingDown.Load() {
				return nil
			}
			log.Printf("accepting connection error: %v", err)
			continue
		}

		n, qerr := s.Queue.Enqueue(conn)
		if qerr != nil {
			// Shutdown already drained the queue; this connection raced
			// the listener close and still deserves a farewell.
			ch := protocol.NewChannel(conn)
			ch.Send(protocol.CodeExit, "Server is offline.")
			ch.Close()
			continue
		}
		// The length is a snapshot taken before a worker claims the
		// connection, so 1 does not mean every worker is busy.
		log.Printf("client connected from %s, queue length: %d", conn.RemoteAddr(), n)
	}
}

// workerLoop serves queued connections one at a time until the queue is
// closed by shutdown.
func (s *Server) workerLoop(id int) {
	defer s.wg.Done()

	for {
		conn, err := s.Queue.Dequeue()
		if err != nil {
			return
		}

		sess := NewSession(conn, s)
		s.trackSession(sess)
		if s.shuttingDown.Load() {
			// Shutdown can drain the queue and snapshot the session
			// table between our Dequeue and trackSession; a connection
			// claimed in that window is only reachable here.
			sess.Terminate("Server is offline.")
		} else {
			sess.Run()
		}
		s.untrackSession(sess)

		log.Printf("client disconnected from %s (worker %d, session %s)", conn.RemoteAddr(), id, sess.ID)
	}
}

// Shutdown stops accepting connections, tells every queued and in-flight
// client the server is going away, closes their sockets and waits for the
// workers to drain. No connection is dropped silently.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		s.shuttingDown.Store(true)
		if s.listener != nil {
			s.listener.Close()
		}

		for _, conn := range s.Queue.Close() {
			ch := protocol.NewChannel(conn)
			ch.Send(protocol.CodeExit, "Server is offline.")
			ch.Close()
		}

		s.sessionsMu.Lock()
		active := make([]*Session, 0, len(s.sessions))
		for _, sess := range s.sessions {
			active = append(active, sess)
		}
		s.sessionsMu.Unlock()
		for _, sess := range active {
			sess.Terminate("Server is offline.")
		}

		s.wg.Wait()
		log.Printf("server shutdown complete")
	})
}

// newGame builds a fresh minefield for a player, serializing access to the
// shared random source.
func (s *Server) newGame(username string) *game.State {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return game.New(username, s.rng)
}

func (s *Server) trackSession(sess *Session) {
	s.sessionsMu.Lock()
	s.sessions[sess.ID] = sess
	s.sessionsMu.Unlock()
}

func (s *Server) untrackSession(sess *Session) {
	s.sessionsMu.Lock()
	delete(s.sessions, sess.ID)
	s.sessionsMu.Unlock()
}
