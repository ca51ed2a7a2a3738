package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjibani/cardiology-ai-agent/types"
)

func newSessionStore(t *testing.T) (*SessionContextStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSessionContextStore(client, time.Hour, nil), mr
}

func TestSessionContextRoundTrip(t *testing.T) {
	s, _ := newSessionStore(t)
	ctx := context.Background()

	missing, err := s.Load(ctx, "P001")
	require.NoError(t, err)
	assert.Nil(t, missing)

	sc := &SessionContext{
		PatientID: "P001",
		History:   []types.Message{types.NewUserMessage("I feel dizzy")},
		Data:      map[string]string{"last_urgency": "moderate"},
	}
	require.NoError(t, s.Save(ctx, sc))

	loaded, err := s.Load(ctx, "P001")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "P001", loaded.PatientID)
	require.Len(t, loaded.History, 1)
	assert.Equal(t, "I feel dizzy", loaded.History[0].Content)
	assert.Equal(t, "moderate", loaded.Data["last_urgency"])
	assert.False(t, loaded.UpdatedAt.IsZero())
}

func TestSessionContextAppend(t *testing.T) {
	s, _ := newSessionStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "P002", types.NewUserMessage("hello")))
	require.NoError(t, s.Append(ctx, "P002",
		types.NewAssistantMessage("education", "Here is some information.")))

	loaded, err := s.Load(ctx, "P002")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.History, 2)
	assert.Equal(t, types.RoleAssistant, loaded.History[1].Role)
	assert.Equal(t, "education", loaded.History[1].Agent)
}

func TestSessionContextDelete(t *testing.T) {
	s, _ := newSessionStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &SessionContext{PatientID: "P003"}))
	require.NoError(t, s.Delete(ctx, "P003"))

	loaded, err := s.Load(ctx, "P003")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSessionContextExpires(t *testing.T) {
	s, mr := newSessionStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &SessionContext{PatientID: "P004"}))
	mr.FastForward(2 * time.Hour)

	loaded, err := s.Load(ctx, "P004")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSessionContextCorruptPayloadDropped(t *testing.T) {
	s, mr := newSessionStore(t)
	require.NoError(t, mr.Set(sessionKeyPrefix+"P005", "{not json"))

	loaded, err := s.Load(context.Background(), "P005")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
