package timeseries

import (
	"context"
	"time"

	"biometric-session-analyzer/src/logger"
	"biometric-session-analyzer/src/storage"
	"biometric-session-analyzer/src/types"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultDownsampleLength = 60
	// A missing chunk of a session saved more recently than this is reported
	// as in flight rather than corrupt.
	DefaultInFlightWindow = 30 * time.Second
)

// Store persists processed sessions as one metadata document plus one chunk
// document per present modality. It holds no cross-call state; concurrent
// saves of the same session race with last-write-wins semantics.
type Store struct {
	docs             storage.DocumentStore
	log              *logger.Logger
	now              func() time.Time
	downsampleLength int
	inFlightWindow   time.Duration
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithDownsampleLength(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.downsampleLength = n
		}
	}
}

func WithInFlightWindow(d time.Duration) Option {
	return func(s *Store) { s.inFlightWindow = d }
}

func NewStore(docs storage.DocumentStore, log *logger.Logger, opts ...Option) *Store {
	s := &Store{
		docs:             docs,
		log:              log,
		now:              time.Now,
		downsampleLength: DefaultDownsampleLength,
		inFlightWindow:   DefaultInFlightWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save validates and writes the session. The metadata document is written
// before any chunk; chunks are then written concurrently. Save does not retry:
// a *StorageError means the caller should retry the whole call.
func (s *Store) Save(ctx context.Context, session *types.ProcessedSessionTimeSeries) (string, error) {
	if err := Validate(session); err != nil {
		return "", err
	}

	now := s.now().UTC()
	metaKey := sessionKey(session.SessionID)
	log := s.log.With("session_id", session.SessionID)

	if err := s.docs.Put(ctx, metaKey, newSessionRecord(session, now)); err != nil {
		log.Error("failed to write session metadata", "error", err)
		return "", &StorageError{Op: "put", Key: metaKey.String(), Err: err}
	}

	chunks := splitChunks(session, now)
	g, gctx := errgroup.WithContext(ctx)
	for _, chunk := range chunks {
		chunk := chunk
		g.Go(func() error {
			key := chunkKey(chunk.SessionID, chunk.ChunkType)
			if err := s.docs.Put(gctx, key, chunk); err != nil {
				return &StorageError{Op: "put", Key: key.String(), Err: err}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("failed to write session chunk", "error", err)
		return "", err
	}

	log.Info("session saved", "chunks", len(chunks), "duration", session.Duration)
	return metaKey.String(), nil
}

// Load reconstructs a session. It returns (nil, nil) when no metadata exists.
// A chunk flagged in metadata but missing yields a *DataIntegrityError, marked
// InFlight when the metadata was written within the in-flight window.
func (s *Store) Load(ctx context.Context, sessionID string) (*types.ProcessedSessionTimeSeries, error) {
	metaKey := sessionKey(sessionID)

	var record sessionRecord
	found, err := s.docs.Get(ctx, metaKey, &record)
	if err != nil {
		return nil, &StorageError{Op: "get", Key: metaKey.String(), Err: err}
	}
	if !found {
		return nil, nil
	}

	flagged := record.flaggedChunks()
	chunks := make([]chunkRecord, len(flagged))

	g, gctx := errgroup.WithContext(ctx)
	for i, chunkType := range flagged {
		i, chunkType := i, chunkType
		g.Go(func() error {
			key := chunkKey(sessionID, chunkType)
			found, err := s.docs.Get(gctx, key, &chunks[i])
			if err != nil {
				return &StorageError{Op: "get", Key: key.String(), Err: err}
			}
			if !found || !chunks[i].hasPayload() {
				return &DataIntegrityError{
					SessionID: sessionID,
					ChunkType: string(chunkType),
					InFlight:  s.now().Sub(record.SavedAt) < s.inFlightWindow,
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Error("failed to load session", "session_id", sessionID, "error", err)
		return nil, err
	}

	return record.assemble(chunks), nil
}

// FormatForAnalysis builds the analysis bundle for a session using the
// store's downsample length.
func (s *Store) FormatForAnalysis(session *types.ProcessedSessionTimeSeries, subject *types.SubjectProfile) (*types.AnalysisBundle, error) {
	return FormatForAnalysis(session, subject, s.downsampleLength)
}
