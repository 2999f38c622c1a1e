// Package leaderboard tracks per-user play statistics and the ranked list
// of won games shared by every connected client.
package leaderboard

// UserRecord holds the cumulative statistics for one username. A record is
// created lazily the first time its owner finishes a game and is never
// removed while the server runs.
type UserRecord struct {
	GamesPlayed int
	GamesWon    int
}

// Entry is one won game on the leaderboard.
type Entry struct {
	Username  string
	TimeTaken int // elapsed seconds
}

// Store owns the user records and the ranked entries. It performs no
// locking itself: every call must be made with the Gate held in the
// matching mode.
type Store struct {
	users   map[string]*UserRecord
	entries []Entry
}

func NewStore() *Store {
	return &Store{users: make(map[string]*UserRecord)}
}

// RecordGame registers one finished game for a username, creating the
// user's record on first sight. Called exactly once per completed game.
func (s *Store) RecordGame(username string, won bool) {
	rec, ok := s.users[username]
	if !ok {
		rec = &UserRecord{}
		s.users[username] = rec
	}

	rec.GamesPlayed++
	if won {
		rec.GamesWon++
	}
}

// Lookup returns the games played and won for a username, or (-1, -1) if
// the username has never finished a game.
func (s *Store) Lookup(username string) (gamesPlayed, gamesWon int) {
	rec, ok := s.users[username]
	if !ok {
		return -1, -1
	}
	return rec.GamesPlayed, rec.GamesWon
}

// InsertScore ranks a newly won game into the entries. Ordering is slower
// times first; equal times are broken by the players' games-won counts as
// they stand right now, fewer wins ranking ahead; remaining ties keep
// arrival order. The rank is fixed at insertion and never revisited, so a
// player's later wins do not re-sort entries already on the board.
func (s *Store) InsertScore(username string, timeTaken int) {
	entry := Entry{Username: username, TimeTaken: timeTaken}
	_, newWon := s.Lookup(username)

	pos := len(s.entries)
	for i, e := range s.entries {
		if s.precedes(entry, newWon, e) {
			pos = i
			break
		}
	}

	s.entries = append(s.entries, Entry{})
	copy(s.entries[pos+1:], s.entries[pos:])
	s.entries[pos] = entry
}

// precedes reports whether the new entry ranks ahead of an existing one.
// The comparison reads both players' current games-won counts, matching
// the insertion-time semantics of the ranking rule.
func (s *Store) precedes(entry Entry, entryWon int, existing Entry) bool {
	if entry.TimeTaken > existing.TimeTaken {
		return true
	}
	if entry.TimeTaken == existing.TimeTaken {
		_, existingWon := s.Lookup(existing.Username)
		return entryWon < existingWon
	}
	return false
}

// Entries returns a copy of the ranked sequence, best rank first.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len reports how many won games are on the board.
func (s *Store) Len() int {
	return len(s.entries)
}
