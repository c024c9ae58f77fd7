package simulation

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/aristath/hermes/internal/events"
	"github.com/aristath/hermes/internal/modules/missions"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) (*Registry, *time.Time) {
	t.Helper()

	catalog, err := missions.NewCatalog([]missions.Definition{testMission("m1", 2, 5)})
	require.NoError(t, err)

	bus := events.NewBus(zerolog.Nop())
	r := NewRegistry(catalog, &fakeLoader{scenario: testScenario(100, 101)}, events.NewManager(bus, zerolog.Nop()),
		SessionConfig{InitialCash: 10000, PlaybackInterval: time.Hour}, zerolog.Nop())

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }
	n := 0
	r.newID = func() string {
		n++
		return fmt.Sprintf("s-%d", n)
	}
	t.Cleanup(r.CloseAll)
	return r, &now
}

func TestRegistry_CreateAndGet(t *testing.T) {
	r, _ := newTestRegistry(t)

	s, err := r.Create("  Grace  ")
	require.NoError(t, err)
	assert.Equal(t, "s-1", s.ID())
	assert.Equal(t, "Grace", s.PlayerName())
	assert.Equal(t, PhaseSelecting, s.State().Status.Phase)

	got, err := r.Get("s-1")
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, 1, r.Count())
}

func TestRegistry_CreateRequiresName(t *testing.T) {
	r, _ := newTestRegistry(t)

	_, err := r.Create("   ")
	assert.ErrorIs(t, err, ErrInvalidPlayerName)
	assert.Equal(t, 0, r.Count())
}

func TestRegistry_LongNamesAreTruncated(t *testing.T) {
	r, _ := newTestRegistry(t)

	long := ""
	for i := 0; i < 100; i++ {
		long += "x"
	}
	s, err := r.Create(long)
	require.NoError(t, err)
	assert.Len(t, s.PlayerName(), maxPlayerNameLength)

	wide, err := r.Create(strings.Repeat("é", 100))
	require.NoError(t, err)
	assert.Equal(t, maxPlayerNameLength, utf8.RuneCountInString(wide.PlayerName()))
	assert.True(t, utf8.ValidString(wide.PlayerName()))
}

func TestRegistry_Transactions(t *testing.T) {
	r, _ := newTestRegistry(t)

	s, err := r.Create("Ada")
	require.NoError(t, err)

	txs, err := r.Transactions(s.ID())
	require.NoError(t, err)
	assert.Empty(t, txs)

	_, err = s.StartMission(context.Background(), "m1")
	require.NoError(t, err)
	require.True(t, s.Buy(10).Accepted)
	require.True(t, s.Sell(4).Accepted)

	txs, err = r.Transactions(s.ID())
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, 4, txs[0].Quantity)
	assert.Equal(t, 10, txs[1].Quantity)

	_, err = r.Transactions("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRegistry_GetUnknown(t *testing.T) {
	r, _ := newTestRegistry(t)

	_, err := r.Get("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRegistry_Remove(t *testing.T) {
	r, _ := newTestRegistry(t)

	s, err := r.Create("Ada")
	require.NoError(t, err)

	require.NoError(t, r.Remove(s.ID()))
	assert.Equal(t, 0, r.Count())
	assert.ErrorIs(t, r.Remove(s.ID()), ErrSessionNotFound)
}

func TestRegistry_EvictIdle(t *testing.T) {
	r, now := newTestRegistry(t)

	stale, err := r.Create("stale")
	require.NoError(t, err)

	*now = now.Add(90 * time.Minute)
	fresh, err := r.Create("fresh")
	require.NoError(t, err)

	*now = now.Add(45 * time.Minute)
	evicted := r.EvictIdle(2 * time.Hour)

	assert.Equal(t, 1, evicted)
	_, err = r.Get(stale.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = r.Get(fresh.ID())
	assert.NoError(t, err)
}

func TestRegistry_CloseAll(t *testing.T) {
	r, _ := newTestRegistry(t)

	for i := 0; i < 3; i++ {
		_, err := r.Create("p")
		require.NoError(t, err)
	}
	r.CloseAll()
	assert.Equal(t, 0, r.Count())
}
