package assistant

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/finstat/internal/format"
	"github.com/cleared-dev/finstat/internal/importer"
	"github.com/cleared-dev/finstat/internal/pipeline"
)

// fakeModel echoes canned replies and records every history it was sent.
type fakeModel struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   [][]Message
}

func (m *fakeModel) Generate(_ context.Context, history []Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, append([]Message(nil), history...))
	if m.err != nil {
		return "", m.err
	}
	if len(m.replies) == 0 {
		return "ok", nil
	}
	r := m.replies[0]
	m.replies = m.replies[1:]
	return r, nil
}

type recorded struct {
	session uuid.UUID
	file    string
	role    string
	content string
}

type fakeRecorder struct {
	turns []recorded
	err   error
}

func (r *fakeRecorder) Record(session uuid.UUID, file, role, content string) error {
	r.turns = append(r.turns, recorded{session, file, role, content})
	return r.err
}

func upload(t *testing.T, name string) pipeline.SessionContext {
	t.Helper()
	data, err := os.ReadFile("../../testdata/" + name)
	require.NoError(t, err)
	opts := pipeline.DefaultOptions()
	if strings.Contains(name, "3y") {
		opts.Periods = 3
	}
	s := pipeline.NewSession(importer.DefaultRegistry(), opts, time.Minute)
	sc, err := s.Upload(name, data)
	require.NoError(t, err)
	return sc
}

var vi = format.New(format.Vietnamese)

func TestBuildContext(t *testing.T) {
	ctx := BuildContext(upload(t, "bctc_2023.csv"), vi)

	assert.Contains(t, ctx, "File: bctc_2023.csv")
	assert.Contains(t, ctx, "Periods (oldest first): 31/12/2022, 31/12/2023")
	for _, title := range []string{"### Balance Sheet", "### Income Statement", "### Cost Structure (% of Net Revenue)", "### Financial Ratios", "### Key Indicators"} {
		assert.Contains(t, ctx, title)
	}
	assert.Contains(t, ctx, "| Line Item | 31/12/2022 | 31/12/2023 |")
	assert.Contains(t, ctx, "- Short-term Assets growth 31/12/2022 -> 31/12/2023: 50,00%")
	assert.Contains(t, ctx, "- Current Ratio 31/12/2022: 1,50")
	assert.Contains(t, ctx, "- Current Ratio 31/12/2023: 3,00")
	assert.NotContains(t, ctx, "Data Warnings")

	assert.Less(t, strings.Index(ctx, "### Balance Sheet"), strings.Index(ctx, "### Financial Ratios"))
}

func TestBuildContext_Warnings(t *testing.T) {
	ctx := BuildContext(upload(t, "bs_only.csv"), vi)
	assert.Contains(t, ctx, "### Data Warnings")
	assert.Contains(t, ctx, "split: income statement keyword")
	assert.Contains(t, ctx, "_No data._")
}

func TestBuildContext_NotReady(t *testing.T) {
	assert.Equal(t, "", BuildContext(pipeline.SessionContext{}, vi))
}

func TestHighlights_ThreePeriods(t *testing.T) {
	sc := upload(t, "bctc_3y.csv")
	h := Highlights(sc.Analysis, format.New(format.English))
	assert.Contains(t, h, "- Short-term Assets growth 2021 -> 2022: 20.00%")
	assert.Contains(t, h, "- Short-term Assets growth 2022 -> 2023: 50.00%")
	assert.Contains(t, h, "- Current Ratio 2021: 2.00")
}

func TestNewChat_SeedsHistory(t *testing.T) {
	sc := upload(t, "bctc_2023.csv")
	rec := &fakeRecorder{}
	c, err := NewChat(&fakeModel{}, sc, vi, rec)
	require.NoError(t, err)

	assert.Equal(t, sc.ID, c.SessionID())
	msgs := c.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, Message{Role: RoleModel, Text: Greeting}, msgs[0])

	require.Len(t, rec.turns, 1)
	assert.Equal(t, "model", rec.turns[0].role)
	assert.Equal(t, "bctc_2023.csv", rec.turns[0].file)
}

func TestNewChat_NotReady(t *testing.T) {
	_, err := NewChat(&fakeModel{}, pipeline.SessionContext{}, vi, nil)
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestChat_Send(t *testing.T) {
	sc := upload(t, "bctc_2023.csv")
	m := &fakeModel{replies: []string{"Tăng gấp đôi.", "Không."}}
	rec := &fakeRecorder{}
	c, err := NewChat(m, sc, vi, rec)
	require.NoError(t, err)

	reply, err := c.Send(context.Background(), "  Chỉ số thanh toán thay đổi ra sao?  ")
	require.NoError(t, err)
	assert.Equal(t, "Tăng gấp đôi.", reply)

	require.Len(t, m.calls, 1)
	first := m.calls[0]
	require.Len(t, first, 3)
	assert.Equal(t, RoleUser, first[0].Role)
	assert.Contains(t, first[0].Text, "bctc_2023.csv")
	assert.Contains(t, first[0].Text, "### Financial Ratios")
	assert.Equal(t, Greeting, first[1].Text)
	assert.Equal(t, "Chỉ số thanh toán thay đổi ra sao?", first[2].Text)

	_, err = c.Send(context.Background(), "Còn ROE?")
	require.NoError(t, err)
	assert.Len(t, m.calls[1], 5)

	msgs := c.Messages()
	require.Len(t, msgs, 5)
	assert.Equal(t, "Không.", msgs[4].Text)
	assert.Len(t, rec.turns, 5)
}

func TestChat_SendFailureKeepsHistory(t *testing.T) {
	sc := upload(t, "bctc_2023.csv")
	m := &fakeModel{err: errors.New("quota exceeded")}
	c, err := NewChat(m, sc, vi, nil)
	require.NoError(t, err)

	_, err = c.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Len(t, c.Messages(), 1)

	m.err = nil
	_, err = c.Send(context.Background(), "again")
	require.NoError(t, err)
	require.Len(t, m.calls, 2)
	assert.Len(t, m.calls[1], 3, "failed turn must not be replayed")
}

func TestChat_SendEmpty(t *testing.T) {
	c, err := NewChat(&fakeModel{}, upload(t, "bs_only.csv"), vi, nil)
	require.NoError(t, err)
	_, err = c.Send(context.Background(), "   ")
	assert.Error(t, err)
}

func TestChat_RecorderErrorIsNotFatal(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	c, err := NewChat(&fakeModel{}, upload(t, "bs_only.csv"), vi, rec)
	require.NoError(t, err)
	reply, err := c.Send(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
}

func TestAssistant_ChatFor(t *testing.T) {
	a := New(&fakeModel{}, vi, nil)

	_, err := a.ChatFor(pipeline.SessionContext{})
	assert.ErrorIs(t, err, ErrNotReady)

	first := upload(t, "bctc_2023.csv")
	c1, err := a.ChatFor(first)
	require.NoError(t, err)
	_, err = c1.Send(context.Background(), "q")
	require.NoError(t, err)

	same, err := a.ChatFor(first)
	require.NoError(t, err)
	assert.Same(t, c1, same)
	assert.Len(t, same.Messages(), 3)

	c2, err := a.ChatFor(upload(t, "bs_only.csv"))
	require.NoError(t, err)
	assert.NotSame(t, c1, c2)
	assert.Len(t, c2.Messages(), 1, "new file resets history")
}

func TestSummarize(t *testing.T) {
	sc := upload(t, "bctc_2023.csv")
	m := &fakeModel{replies: []string{"Doanh nghiệp tăng trưởng tốt."}}

	got, err := Summarize(context.Background(), m, sc, vi)
	require.NoError(t, err)
	assert.Equal(t, "Doanh nghiệp tăng trưởng tốt.", got)

	require.Len(t, m.calls, 1)
	require.Len(t, m.calls[0], 1)
	prompt := m.calls[0][0].Text
	assert.Contains(t, prompt, "3-4 đoạn")
	assert.Contains(t, prompt, "### Key Indicators")
}

func TestSummarize_Errors(t *testing.T) {
	_, err := Summarize(context.Background(), &fakeModel{}, pipeline.SessionContext{}, vi)
	assert.ErrorIs(t, err, ErrNotReady)

	sc := upload(t, "bs_only.csv")
	_, err = New(&fakeModel{err: errors.New("boom")}, vi, nil).Summarize(context.Background(), sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "summarizing bs_only.csv")
}

func TestNewGemini_RequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), GeminiConfig{Model: "gemini-2.5-flash"})
	assert.ErrorIs(t, err, ErrNoAPIKey)
}
