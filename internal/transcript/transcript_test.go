package transcript

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testTime    = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	testSession = uuid.MustParse("7f1c1a52-3b6e-4f0e-9a1d-2b9c3f1e8d44")
)

func testEntry() Entry {
	return Entry{
		Timestamp: testTime,
		SessionID: testSession,
		File:      "bctc_2023.xlsx",
		Role:      "user",
		Content:   "Chỉ số thanh toán hiện hành thay đổi thế nào?",
	}
}

func newLog(t *testing.T) *Log {
	l := New(filepath.Join(t.TempDir(), "logs", "chat-transcript.csv"))
	l.now = func() time.Time { return testTime }
	return l
}

func TestAppend_NewFile(t *testing.T) {
	l := newLog(t)
	require.NoError(t, l.Append([]Entry{testEntry()}))

	entries, err := Read(l.Path())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "user", entries[0].Role)

	data, err := os.ReadFile(l.Path())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), Header+"\n"))
}

func TestAppend_ExistingFile(t *testing.T) {
	l := newLog(t)
	require.NoError(t, l.Append([]Entry{testEntry()}))

	e2 := testEntry()
	e2.Role = "model"
	e2.Content = "Tăng từ 1,50 lên 3,00 lần."
	require.NoError(t, l.Append([]Entry{e2}))

	entries, err := Read(l.Path())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "user", entries[0].Role)
	assert.Equal(t, "model", entries[1].Role)
}

func TestRecord(t *testing.T) {
	l := newLog(t)
	require.NoError(t, l.Record(testSession, "a.csv", "model", "xin chào,\n\"bạn\""))

	entries, err := Read(l.Path())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, testTime, entries[0].Timestamp)
	assert.Equal(t, testSession, entries[0].SessionID)
	assert.Equal(t, "a.csv", entries[0].File)
	assert.Equal(t, "xin chào,\n\"bạn\"", entries[0].Content)
}

func TestRead_RoundTrip(t *testing.T) {
	l := newLog(t)
	original := testEntry()
	require.NoError(t, l.Append([]Entry{original}))

	entries, err := Read(l.Path())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, original, entries[0])
}

func TestRead_NoFile(t *testing.T) {
	entries, err := Read(filepath.Join(t.TempDir(), "missing.csv"))
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	_, err := UnmarshalEntry([]string{"a", "b"})
	assert.Error(t, err)

	row := MarshalEntry(testEntry())
	row[colTimestamp] = "yesterday"
	_, err = UnmarshalEntry(row)
	assert.ErrorContains(t, err, "parsing timestamp")

	row = MarshalEntry(testEntry())
	row[colSession] = "not-a-uuid"
	_, err = UnmarshalEntry(row)
	assert.ErrorContains(t, err, "parsing session id")
}
