package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sanjibani/cardiology-ai-agent/types"
)

const sessionKeyPrefix = "cardiology:session:"

// SessionContextStore keeps the carried-forward conversation context per
// patient in redis. The workflow treats the payload as opaque; the store
// just rounds it through JSON with a TTL.
type SessionContextStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// SessionContext is the persisted per-patient context.
type SessionContext struct {
	PatientID string            `json:"patient_id"`
	History   []types.Message   `json:"history,omitempty"`
	Data      map[string]string `json:"data,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewSessionContextStore wraps an existing redis client. A zero ttl means
// contexts live for 24 hours.
func NewSessionContextStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *SessionContextStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &SessionContextStore{
		client: client,
		ttl:    ttl,
		logger: logger.With(zap.String("component", "store.sessions")),
	}
}

// Load fetches the stored context for a patient. A missing context returns
// (nil, nil).
func (s *SessionContextStore) Load(ctx context.Context, patientID string) (*SessionContext, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+patientID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, types.NewError(types.ErrStoreUnavailable, "load session context").WithCause(err)
	}

	var sc SessionContext
	if err := json.Unmarshal(raw, &sc); err != nil {
		// A corrupt context is dropped rather than blocking the session.
		s.logger.Warn("discarding unreadable session context",
			zap.String("patient_id", patientID), zap.Error(err))
		return nil, nil
	}
	return &sc, nil
}

// Save stores the context for a patient with the configured TTL.
func (s *SessionContextStore) Save(ctx context.Context, sc *SessionContext) error {
	sc.UpdatedAt = time.Now()
	raw, err := json.Marshal(sc)
	if err != nil {
		return types.NewError(types.ErrInternalError, "encode session context").WithCause(err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+sc.PatientID, raw, s.ttl).Err(); err != nil {
		return types.NewError(types.ErrStoreUnavailable, "save session context").WithCause(err)
	}
	return nil
}

// Append adds conversation turns to a patient's stored history and saves it.
func (s *SessionContextStore) Append(ctx context.Context, patientID string, turns ...types.Message) error {
	sc, err := s.Load(ctx, patientID)
	if err != nil {
		return err
	}
	if sc == nil {
		sc = &SessionContext{PatientID: patientID}
	}
	sc.History = append(sc.History, turns...)
	return s.Save(ctx, sc)
}

// Delete removes a patient's stored context.
func (s *SessionContextStore) Delete(ctx context.Context, patientID string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+patientID).Err(); err != nil {
		return types.NewError(types.ErrStoreUnavailable, "delete session context").WithCause(err)
	}
	return nil
}
