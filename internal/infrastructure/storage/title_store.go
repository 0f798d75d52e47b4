package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"NewsRelay/internal/ports"
)

// TitleStore is the durable set of titles already delivered to the
// channel. The backing file is line-delimited UTF-8, one title per
// line, append-only and never compacted. The pipeline has exactly one
// writer, so no locking is needed.
type TitleStore struct {
	path   string
	titles map[string]struct{}
}

var _ ports.TitleStore = (*TitleStore)(nil)

// OpenTitleStore loads the full set into memory. A missing file means
// an empty store.
func OpenTitleStore(path string) (*TitleStore, error) {
	store := &TitleStore{
		path:   path,
		titles: map[string]struct{}{},
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return store, nil
		}
		return nil, fmt.Errorf("open title store: %w", err)
	}
	defer file.Close()

	sc := bufio.NewScanner(file)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		title := strings.TrimSpace(sc.Text())
		if title == "" {
			continue
		}
		store.titles[title] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read title store: %w", err)
	}

	return store, nil
}

// Contains reports whether the title was delivered before.
func (s *TitleStore) Contains(title string) bool {
	_, ok := s.titles[title]
	return ok
}

// Record adds the title durably. Idempotent: an already known title is
// a no-op. The in-memory set is updated only after the append succeeds,
// so a write failure leaves the store consistent with the file.
func (s *TitleStore) Record(title string) error {
	if s.Contains(title) {
		return nil
	}

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open title store for append: %w", err)
	}
	if _, err := file.WriteString(title + "\n"); err != nil {
		file.Close()
		return fmt.Errorf("append title: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close title store: %w", err)
	}

	s.titles[title] = struct{}{}
	return nil
}

// Len reports how many titles are known; used for startup logging.
func (s *TitleStore) Len() int {
	return len(s.titles)
}
