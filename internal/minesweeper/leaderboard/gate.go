package leaderboard

import "sync"

// Gate is a writer-preference readers-writers lock protecting the Store.
// Any number of readers share the critical section; a writer is exclusive
// even against other writers. While a writer is waiting or active, new
// readers queue behind it at the turnstile, so sustained reads can never
// starve a pending writer. Writes are rare (one per finished game), so the
// reverse starvation is acceptable.
type Gate struct {
	readTry sync.Mutex // turnstile: held by the writer side to stall new readers
	write   sync.Mutex // critical-section exclusivity

	rcMu    sync.Mutex
	readers int

	wcMu    sync.Mutex
	writers int
}

// RLock acquires shared read access. The first reader in locks writers out
// until the last reader leaves.
func (g *Gate) RLock() {
	g.readTry.Lock()
	g.rcMu.Lock()

	g.readers++
	if g.readers == 1 {
		g.write.Lock()
	}

	g.rcMu.Unlock()
	g.readTry.Unlock()
}

// RUnlock releases shared read access.
func (g *Gate) RUnlock() {
	g.rcMu.Lock()

	g.readers--
	if g.readers == 0 {
		g.write.Unlock()
	}

	g.rcMu.Unlock()
}

// Lock acquires exclusive write access. The first writer in closes the
// reader turnstile before contending for the critical section.
func (g *Gate) Lock() {
	g.wcMu.Lock()

	g.writers++
	if g.writers == 1 {
		g.readTry.Lock()
	}

	g.wcMu.Unlock()
	g.write.Lock()
}

// Unlock releases exclusive write access. The last writer out reopens the
// turnstile for readers.
func (g *Gate) Unlock() {
	g.write.Unlock()

	g.wcMu.Lock()
	g.writers--
	if g.writers == 0 {
		g.readTry.Unlock()
	}
	g.wcMu.Unlock()
}
