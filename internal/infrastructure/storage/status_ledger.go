package storage

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"NewsRelay/internal/domain"
	"NewsRelay/internal/ports"
)

// StatusLedger is the append-only audit trail of delivery outcomes,
// stored as line-delimited JSON. It is never rewritten or compacted.
type StatusLedger struct {
	path string
}

var _ ports.StatusLedger = (*StatusLedger)(nil)

// NewStatusLedger points the ledger at its backing file; the file is
// created on first append.
func NewStatusLedger(path string) *StatusLedger {
	return &StatusLedger{path: path}
}

// Append writes one record durably.
func (l *StatusLedger) Append(record domain.StatusRecord) error {
	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal status record: %w", err)
	}

	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open status ledger for append: %w", err)
	}
	if _, err := file.Write(append(line, '\n')); err != nil {
		file.Close()
		return fmt.Errorf("append status record: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close status ledger: %w", err)
	}

	return nil
}

// ReplayFailed rebuilds the retry queue candidates at startup. It keeps
// only the latest record per title, then collects the titles whose last
// outcome was a failure; failures later resolved by a success are not
// resurrected. Unparseable lines are skipped. Order follows first
// appearance in the ledger.
func (l *StatusLedger) ReplayFailed() ([]domain.Article, error) {
	file, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open status ledger: %w", err)
	}
	defer file.Close()

	var order []string
	latest := map[string]domain.StatusRecord{}

	sc := bufio.NewScanner(file)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var record domain.StatusRecord
		if err := json.Unmarshal(sc.Bytes(), &record); err != nil {
			continue
		}
		if record.Original == "" {
			continue
		}
		if _, seen := latest[record.Original]; !seen {
			order = append(order, record.Original)
		}
		latest[record.Original] = record
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read status ledger: %w", err)
	}

	var failed []domain.Article
	for _, title := range order {
		record := latest[title]
		if record.State != domain.StateFailed {
			continue
		}
		failed = append(failed, record.Article())
	}

	return failed, nil
}
