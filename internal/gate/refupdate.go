package gate

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrMalformedRefUpdate is returned for a line that is not "<old> <new> <ref>".
	ErrMalformedRefUpdate = errors.New("malformed ref update")
	// ErrMalformedRange is returned for a revision range without "..".
	ErrMalformedRange = errors.New("malformed revision range")
)

// RefUpdate is one line of pre-receive input.
type RefUpdate struct {
	OldRev  string `json:"oldRev"`
	NewRev  string `json:"newRev"`
	RefName string `json:"refName"`
}

// ParseRefUpdate parses "<oldRevision> <newRevision> <refName>".
func ParseRefUpdate(line string) (RefUpdate, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return RefUpdate{}, fmt.Errorf("%w: %q", ErrMalformedRefUpdate, line)
	}
	return RefUpdate{OldRev: fields[0], NewRev: fields[1], RefName: fields[2]}, nil
}

// ReadRefUpdates parses every non-blank line of r.
func ReadRefUpdates(r io.Reader) ([]RefUpdate, error) {
	var updates []RefUpdate
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		u, err := ParseRefUpdate(line)
		if err != nil {
			return nil, err
		}
		updates = append(updates, u)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading ref updates: %w", err)
	}
	return updates, nil
}

// ParseRange splits "old..new". A three-dot range is rejected because
// symmetric differences include commits that are not new.
func ParseRange(revRange string) (oldRev, newRev string, err error) {
	if strings.Contains(revRange, "...") {
		return "", "", fmt.Errorf("%w: %q (symmetric ranges are not supported)", ErrMalformedRange, revRange)
	}
	oldRev, newRev, ok := strings.Cut(revRange, "..")
	if !ok || oldRev == "" || strings.Contains(newRev, "..") {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedRange, revRange)
	}
	if newRev == "" {
		newRev = "HEAD"
	}
	return oldRev, newRev, nil
}
