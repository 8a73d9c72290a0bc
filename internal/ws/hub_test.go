package ws

import (
	"encoding/base64"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	assert.Equal(t, 0, hub.Count())

	hub.Register("sess-1")
	hub.Register("sess-2")
	assert.Equal(t, 2, hub.Count())

	hub.Unregister("sess-1")
	assert.Equal(t, 1, hub.Count())

	sessions := hub.ActiveSessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, "sess-2", sessions[0].ID)
	assert.False(t, sessions[0].ConnectedAt.IsZero())
}

func TestHub_FrameProcessed(t *testing.T) {
	hub := NewHub()
	hub.Register("sess-1")

	hub.FrameProcessed("sess-1")
	hub.FrameProcessed("sess-1")
	hub.FrameProcessed("sess-desconhecida") // ignorada

	sessions := hub.ActiveSessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, int64(2), sessions[0].Frames)
}

func TestHub_ConcurrentAccess(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('a' + n))
			hub.Register(id)
			hub.FrameProcessed(id)
			_ = hub.Count()
			_ = hub.ActiveSessions()
			hub.Unregister(id)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, hub.Count())
}

func TestDecodeFrame(t *testing.T) {
	payload := []byte{0xff, 0xd8, 0xff, 0xe0}
	encoded := base64.StdEncoding.EncodeToString(payload)

	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr bool
	}{
		{name: "plain base64", input: encoded, want: payload},
		{name: "data url prefix", input: "data:image/jpeg;base64," + encoded, want: payload},
		{name: "empty", input: "", wantErr: true},
		{name: "invalid base64", input: "not-base64!!!", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeFrame(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
