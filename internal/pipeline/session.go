package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/cleared-dev/finstat/internal/importer"
	"github.com/cleared-dev/finstat/internal/logger"
	"github.com/cleared-dev/finstat/internal/model"
)

// SessionContext is the state a single user session works from.
// A zero SessionContext means no data is loaded.
type SessionContext struct {
	ID       uuid.UUID
	FileName string
	FileKey  string
	Analysis *model.Analysis
	LoadedAt time.Time
}

// Ready reports whether an analysis is loaded.
func (sc SessionContext) Ready() bool {
	return sc.Analysis != nil
}

// Session holds the current upload's analysis. Results are cached by file content
// and period count; every new file replaces the whole cache.
type Session struct {
	mu       sync.Mutex
	registry *importer.Registry
	opts     Options
	results  *cache.Cache
	current  SessionContext
}

// NewSession creates a session that keeps results for ttl.
func NewSession(registry *importer.Registry, opts Options, ttl time.Duration) *Session {
	return &Session{
		registry: registry,
		opts:     opts,
		results:  cache.New(ttl, 2*ttl),
	}
}

// FileKey identifies a file's content under a given period count.
func FileKey(data []byte, periods int) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%d", hex.EncodeToString(sum[:]), periods)
}

// Upload loads and analyzes a file, making it the session's current data.
// Re-uploading the current file keeps the existing context. Any failure, including
// a panic inside the pipeline, leaves the session with no data.
func (s *Session) Upload(name string, data []byte) (sc SessionContext, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := FileKey(data, s.opts.Periods)
	if s.current.Ready() && s.current.FileKey == key {
		if _, ok := s.results.Get(key); ok {
			logger.L.Debug("upload matches current file", "file", name, "session", s.current.ID)
			return s.current, nil
		}
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("analyzing %s: unexpected failure: %v", name, r)
		}
		if err != nil {
			s.reset()
			logger.L.Error("upload failed", "file", name, "error", err)
		}
	}()

	start := time.Now()
	analysis, err := s.analyze(name, data)
	if err != nil {
		return SessionContext{}, err
	}

	s.results.Flush()
	s.results.SetDefault(key, analysis)
	s.current = SessionContext{
		ID:       uuid.New(),
		FileName: name,
		FileKey:  key,
		Analysis: analysis,
		LoadedAt: time.Now(),
	}

	logger.L.Info("analysis ready",
		"file", name,
		"session", s.current.ID,
		"periods", analysis.PeriodLabels(),
		"warnings", len(analysis.Warnings),
		"duration", time.Since(start))
	for _, w := range analysis.Warnings {
		logger.L.Warn("analysis warning", "file", name, "stage", w.Stage, "message", w.Message)
	}
	return s.current, nil
}

func (s *Session) analyze(name string, data []byte) (*model.Analysis, error) {
	t, err := s.registry.Load(name, data)
	if err != nil {
		return nil, err
	}
	analysis, err := Run(t, s.opts)
	if err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", name, err)
	}
	return analysis, nil
}

// Current returns the session's current context.
func (s *Session) Current() SessionContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Reset drops the loaded data.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *Session) reset() {
	s.current = SessionContext{}
	s.results.Flush()
}

// Periods returns the configured period count.
func (s *Session) Periods() int {
	return s.opts.Periods
}
