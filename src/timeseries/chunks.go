package timeseries

import (
	"time"

	"biometric-session-analyzer/src/storage"
	"biometric-session-analyzer/src/types"
)

const (
	SessionsCollection = "sessions"
	ChunksCollection   = "session_chunks"
)

// sessionRecord is the metadata document written once per session.
type sessionRecord struct {
	SessionID     string                `json:"sessionId"`
	MeasurementID string                `json:"measurementId"`
	StartTime     time.Time             `json:"startTime"`
	EndTime       time.Time             `json:"endTime"`
	Duration      int                   `json:"duration"`
	HasEEG        bool                  `json:"hasEeg"`
	HasPPG        bool                  `json:"hasPpg"`
	HasACC        bool                  `json:"hasAcc"`
	HasFused      bool                  `json:"hasFused"`
	Metadata      types.SessionMetadata `json:"metadata"`
	SavedAt       time.Time             `json:"savedAt"`
}

// chunkRecord holds one modality bundle; exactly one payload field is set.
type chunkRecord struct {
	SessionID string               `json:"sessionId"`
	ChunkType types.ChunkType      `json:"chunkType"`
	CreatedAt time.Time            `json:"createdAt"`
	EEG       *types.EEGTimeSeries `json:"eeg,omitempty"`
	PPG       *types.PPGTimeSeries `json:"ppg,omitempty"`
	ACC       *types.ACCTimeSeries `json:"acc,omitempty"`
	Fused     *types.FusedMetrics  `json:"fused,omitempty"`
}

func sessionKey(sessionID string) storage.Key {
	return storage.Key{Collection: SessionsCollection, ID: sessionID}
}

func chunkKey(sessionID string, chunkType types.ChunkType) storage.Key {
	return storage.Key{Collection: ChunksCollection, ID: sessionID, Sub: string(chunkType)}
}

func newSessionRecord(s *types.ProcessedSessionTimeSeries, now time.Time) sessionRecord {
	return sessionRecord{
		SessionID:     s.SessionID,
		MeasurementID: s.MeasurementID,
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		Duration:      s.Duration,
		HasEEG:        s.EEG != nil,
		HasPPG:        s.PPG != nil,
		HasACC:        s.ACC != nil,
		HasFused:      s.FusedMetrics != nil,
		Metadata:      s.Metadata,
		SavedAt:       now,
	}
}

// splitChunks returns one chunk record per present modality, in eeg, ppg,
// acc, fused order.
func splitChunks(s *types.ProcessedSessionTimeSeries, now time.Time) []chunkRecord {
	var chunks []chunkRecord
	base := chunkRecord{SessionID: s.SessionID, CreatedAt: now}

	if s.EEG != nil {
		c := base
		c.ChunkType, c.EEG = types.ChunkEEG, s.EEG
		chunks = append(chunks, c)
	}
	if s.PPG != nil {
		c := base
		c.ChunkType, c.PPG = types.ChunkPPG, s.PPG
		chunks = append(chunks, c)
	}
	if s.ACC != nil {
		c := base
		c.ChunkType, c.ACC = types.ChunkACC, s.ACC
		chunks = append(chunks, c)
	}
	if s.FusedMetrics != nil {
		c := base
		c.ChunkType, c.Fused = types.ChunkFused, s.FusedMetrics
		chunks = append(chunks, c)
	}

	return chunks
}

func (r sessionRecord) flaggedChunks() []types.ChunkType {
	var flagged []types.ChunkType
	if r.HasEEG {
		flagged = append(flagged, types.ChunkEEG)
	}
	if r.HasPPG {
		flagged = append(flagged, types.ChunkPPG)
	}
	if r.HasACC {
		flagged = append(flagged, types.ChunkACC)
	}
	if r.HasFused {
		flagged = append(flagged, types.ChunkFused)
	}
	return flagged
}

// hasPayload reports whether the record carries the payload its type names.
func (c chunkRecord) hasPayload() bool {
	switch c.ChunkType {
	case types.ChunkEEG:
		return c.EEG != nil
	case types.ChunkPPG:
		return c.PPG != nil
	case types.ChunkACC:
		return c.ACC != nil
	case types.ChunkFused:
		return c.Fused != nil
	}
	return false
}

func (r sessionRecord) assemble(chunks []chunkRecord) *types.ProcessedSessionTimeSeries {
	session := &types.ProcessedSessionTimeSeries{
		SessionID:     r.SessionID,
		MeasurementID: r.MeasurementID,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Duration:      r.Duration,
		Metadata:      r.Metadata,
	}

	for _, c := range chunks {
		switch c.ChunkType {
		case types.ChunkEEG:
			session.EEG = c.EEG
		case types.ChunkPPG:
			session.PPG = c.PPG
		case types.ChunkACC:
			session.ACC = c.ACC
		case types.ChunkFused:
			session.FusedMetrics = c.Fused
		}
	}

	return session
}
