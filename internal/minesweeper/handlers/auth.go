package handlers

import (
	"bufio"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
)

// CredentialChecker answers whether a username/password pair matches a
// stored credential. Nothing else about account handling is the server's
// concern.
type CredentialChecker interface {
	Check(username, password string) (bool, error)
}

// FileChecker validates credentials against a flat text file: a header
// line followed by whitespace-separated username/password pairs. The file
// is re-read on every check, guarded by a mutex, so edits take effect
// without a restart.
type FileChecker struct {
	Path string

	mu sync.Mutex
}

func NewFileChecker(path string) *FileChecker {
	return &FileChecker{Path: path}
}

func (f *FileChecker) Check(username, password string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.Open(f.Path)
	if err != nil {
		return false, fmt.Errorf("failed to open credentials file: %w", err)
	}
	defer file.Close()

	matched := false
	scanner := bufio.NewScanner(file)
	first := true
	for scanner.Scan() {
		if first {
			// Skip the header line.
			first = false
			continue
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		if fields[0] == username && fields[1] == password {
			matched = true
		}
	}
	if err := scanner.Err(); err != nil {
		return false, fmt.Errorf("failed to read credentials file: %w", err)
	}

	return matched, nil
}

// PostgresChecker validates credentials against the players table.
type PostgresChecker struct {
	DB *sql.DB
}

func NewPostgresChecker(db *sql.DB) *PostgresChecker {
	return &PostgresChecker{DB: db}
}

func (p *PostgresChecker) Check(username, password string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM players WHERE username=$1 AND password=$2)"
	err := p.DB.QueryRow(query, username, password).Scan(&exists)
	if err != nil {
		log.Printf("error verifying password: %v", err)
		return false, err
	}
	return exists, nil
}
