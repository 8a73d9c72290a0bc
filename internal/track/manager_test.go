package track

import (
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facestream-labs/facestream/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestManager() *Manager {
	return NewManager(Config{IoUThreshold: 0.3, MaxLostFrames: 3, SmoothingAlpha: 0.3}, testLogger())
}

func box(top, right, bottom, left int) domain.BoundingBox {
	return domain.BoundingBox{Top: top, Right: right, Bottom: bottom, Left: left}
}

func identified(b domain.BoundingBox, id uuid.UUID, name string, conf float64) Observation {
	return Observation{Box: b, IdentityID: &id, Name: name, Confidence: conf}
}

func TestIoU(t *testing.T) {
	tests := []struct {
		name string
		a, b domain.BoundingBox
		want float64
	}{
		{"identical", box(0, 100, 100, 0), box(0, 100, 100, 0), 1.0},
		{"disjoint", box(0, 100, 100, 0), box(200, 300, 300, 200), 0.0},
		{"touching edges", box(0, 100, 100, 0), box(0, 200, 100, 100), 0.0},
		{"half overlap", box(0, 100, 100, 0), box(0, 150, 100, 50), 1.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, IoU(tt.a, tt.b), 1e-9)
			assert.InDelta(t, tt.want, IoU(tt.b, tt.a), 1e-9, "IoU must be symmetric")
		})
	}
}

func TestManager_TrackContinuity(t *testing.T) {
	m := newTestManager()
	id := uuid.New()

	first := m.Update([]Observation{identified(box(10, 110, 110, 10), id, "alice", 0.95)})
	require.Len(t, first, 1)
	trackID := first[0].ID

	// Slightly jittered boxes across frames keep the same track.
	for _, b := range []domain.BoundingBox{
		box(12, 112, 112, 12),
		box(15, 114, 113, 14),
		box(11, 110, 111, 11),
	} {
		active := m.Update([]Observation{identified(b, id, "alice", 0.95)})
		require.Len(t, active, 1)
		assert.Equal(t, trackID, active[0].ID)
		assert.Equal(t, b, active[0].Box)
		assert.True(t, active[0].Matched)
	}
}

func TestManager_LostTrackCarriesLastBox(t *testing.T) {
	m := newTestManager()
	id := uuid.New()
	b := box(10, 110, 110, 10)

	m.Update([]Observation{identified(b, id, "alice", 0.95)})

	active := m.Update(nil)
	require.Len(t, active, 1, "track must survive a frame with no detections")
	assert.Equal(t, b, active[0].Box)
	assert.Equal(t, 1, active[0].LostCount)
	assert.False(t, active[0].Matched)
	require.NotNil(t, active[0].IdentityID)
	assert.Equal(t, id, *active[0].IdentityID)
}

func TestManager_TrackExpiry(t *testing.T) {
	m := newTestManager() // MaxLostFrames: 3
	id := uuid.New()

	m.Update([]Observation{identified(box(10, 110, 110, 10), id, "alice", 0.95)})

	for i := 0; i < 3; i++ {
		active := m.Update(nil)
		require.Len(t, active, 1, "track must survive %d consecutive misses", i+1)
	}

	active := m.Update(nil)
	assert.Empty(t, active, "track must expire after exceeding MaxLostFrames")
	assert.Equal(t, 0, m.Len())
}

func TestManager_RematchBeforeExpiryResetsLostCount(t *testing.T) {
	m := newTestManager()
	id := uuid.New()
	b := box(10, 110, 110, 10)

	first := m.Update([]Observation{identified(b, id, "alice", 0.95)})
	trackID := first[0].ID

	m.Update(nil)
	m.Update(nil)

	active := m.Update([]Observation{identified(b, id, "alice", 0.95)})
	require.Len(t, active, 1)
	assert.Equal(t, trackID, active[0].ID, "re-matched track keeps its id")
	assert.Equal(t, 0, active[0].LostCount)
}

func TestManager_ConfidenceSmoothing(t *testing.T) {
	m := newTestManager() // alpha 0.3
	id := uuid.New()
	b := box(10, 110, 110, 10)

	m.Update([]Observation{identified(b, id, "alice", 1.0)})

	active := m.Update([]Observation{identified(b, id, "alice", 0.5)})
	require.Len(t, active, 1)
	// 0.3*0.5 + 0.7*1.0
	assert.InDelta(t, 0.85, active[0].Confidence, 1e-9)
}

func TestManager_SmoothingStaysInBounds(t *testing.T) {
	m := newTestManager()
	id := uuid.New()
	b := box(10, 110, 110, 10)

	for _, conf := range []float64{1.0, 1.0, 0.0, 1.0, 0.0, 0.0, 1.0} {
		active := m.Update([]Observation{identified(b, id, "alice", conf)})
		require.Len(t, active, 1)
		assert.GreaterOrEqual(t, active[0].Confidence, 0.0)
		assert.LessOrEqual(t, active[0].Confidence, 1.0)
	}
}

func TestManager_FastSwitchFromUnknown(t *testing.T) {
	m := newTestManager()
	b := box(10, 110, 110, 10)

	first := m.Update([]Observation{{Box: b}})
	require.Len(t, first, 1)
	require.Nil(t, first[0].IdentityID)

	id := uuid.New()
	active := m.Update([]Observation{identified(b, id, "alice", 0.9)})
	require.Len(t, active, 1)
	require.NotNil(t, active[0].IdentityID, "identity must switch on the same frame")
	assert.Equal(t, id, *active[0].IdentityID)
	assert.Equal(t, 0.9, active[0].Confidence, "switch takes the raw confidence, no smoothing")
}

func TestManager_MoreConfidentDisagreementSwitches(t *testing.T) {
	m := newTestManager()
	b := box(10, 110, 110, 10)
	alice, bob := uuid.New(), uuid.New()

	m.Update([]Observation{identified(b, alice, "alice", 0.86)})

	active := m.Update([]Observation{identified(b, bob, "bob", 0.95)})
	require.Len(t, active, 1)
	require.NotNil(t, active[0].IdentityID)
	assert.Equal(t, bob, *active[0].IdentityID)
	assert.Equal(t, 0.95, active[0].Confidence)
}

func TestManager_WeakerDisagreementIsNoise(t *testing.T) {
	m := newTestManager()
	b := box(10, 110, 110, 10)
	alice, bob := uuid.New(), uuid.New()

	m.Update([]Observation{identified(b, alice, "alice", 0.95)})

	active := m.Update([]Observation{identified(b, bob, "bob", 0.86)})
	require.Len(t, active, 1)
	require.NotNil(t, active[0].IdentityID)
	assert.Equal(t, alice, *active[0].IdentityID, "a weaker disagreeing read must not flip the identity")
	assert.Equal(t, 0.95, active[0].Confidence)
}

func TestManager_UnknownReadDoesNotClearIdentity(t *testing.T) {
	m := newTestManager()
	b := box(10, 110, 110, 10)
	alice := uuid.New()

	m.Update([]Observation{identified(b, alice, "alice", 0.95)})

	active := m.Update([]Observation{{Box: b, Confidence: 0}})
	require.Len(t, active, 1)
	require.NotNil(t, active[0].IdentityID)
	assert.Equal(t, alice, *active[0].IdentityID)
}

func TestManager_GreedyAssociationPrefersStrongestOverlap(t *testing.T) {
	m := newTestManager()
	left := box(0, 100, 100, 0)
	right := box(0, 260, 100, 160)

	first := m.Update([]Observation{{Box: left}, {Box: right}})
	require.Len(t, first, 2)
	leftID, rightID := first[0].ID, first[1].ID

	// Both detections drift toward the middle; each still overlaps its own
	// track far more than the other's.
	newLeft := box(0, 120, 100, 20)
	newRight := box(0, 240, 100, 140)

	active := m.Update([]Observation{{Box: newRight}, {Box: newLeft}})
	require.Len(t, active, 2)

	byID := map[uuid.UUID]*Track{}
	for _, tr := range active {
		byID[tr.ID] = tr
	}
	require.Contains(t, byID, leftID)
	require.Contains(t, byID, rightID)
	assert.Equal(t, newLeft, byID[leftID].Box)
	assert.Equal(t, newRight, byID[rightID].Box)
}

func TestManager_MalformedBoxDropped(t *testing.T) {
	m := newTestManager()

	active := m.Update([]Observation{
		{Box: box(10, 10, 10, 10)},    // zero area
		{Box: box(10, 110, 110, 10)},  // fine
		{Box: box(100, 50, 20, 200)},  // inverted
	})

	require.Len(t, active, 1, "malformed detections are dropped, the rest of the frame survives")
	assert.Equal(t, box(10, 110, 110, 10), active[0].Box)
}

func TestManager_NewDetectionFarAwayCreatesTrack(t *testing.T) {
	m := newTestManager()
	id := uuid.New()

	first := m.Update([]Observation{identified(box(10, 110, 110, 10), id, "alice", 0.95)})
	trackID := first[0].ID

	active := m.Update([]Observation{
		identified(box(10, 110, 110, 10), id, "alice", 0.95),
		{Box: box(400, 520, 520, 400)},
	})
	require.Len(t, active, 2)

	var fresh *Track
	for _, tr := range active {
		if tr.ID != trackID {
			fresh = tr
		}
	}
	require.NotNil(t, fresh)
	assert.Nil(t, fresh.IdentityID)
	assert.NotEqual(t, trackID, fresh.ID, "track ids are never reused")
}

func TestManager_Reset(t *testing.T) {
	m := newTestManager()
	m.Update([]Observation{{Box: box(10, 110, 110, 10)}})
	require.Equal(t, 1, m.Len())

	m.Reset()
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.Update(nil))
}
