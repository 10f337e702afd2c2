// Package transcript records chat turns to a CSV file.
package transcript

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is one row in the transcript.
type Entry struct {
	Timestamp time.Time
	SessionID uuid.UUID
	File      string
	Role      string
	Content   string
}

// Header is the CSV header for the transcript file.
const Header = "timestamp,session_id,file,role,content"

const (
	numFields    = 5
	colTimestamp = 0
	colSession   = 1
	colFile      = 2
	colRole      = 3
	colContent   = 4
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colSession] = e.SessionID.String()
	row[colFile] = e.File
	row[colRole] = e.Role
	row[colContent] = e.Content
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	id, err := uuid.Parse(record[colSession])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing session id %q: %w", record[colSession], err)
	}

	return Entry{
		Timestamp: ts,
		SessionID: id,
		File:      record[colFile],
		Role:      record[colRole],
		Content:   record[colContent],
	}, nil
}

// Log appends entries to one transcript file. It is safe for concurrent use.
type Log struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// New returns a Log writing to path. The file and its directory are created on first write.
func New(path string) *Log {
	return &Log{path: path, now: time.Now}
}

// Path returns the transcript file path.
func (l *Log) Path() string { return l.path }

// Record appends a single chat turn stamped with the current time.
func (l *Log) Record(session uuid.UUID, file, role, content string) error {
	return l.Append([]Entry{{
		Timestamp: l.now(),
		SessionID: session,
		File:      file,
		Role:      role,
		Content:   content,
	}})
}

// Append writes entries, creating the file and header if needed.
func (l *Log) Append(entries []Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("creating transcript dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening transcript: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from the transcript at path.
// Returns an empty slice if the file does not exist.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening transcript: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transcript CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
