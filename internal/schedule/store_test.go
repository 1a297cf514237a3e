package schedule

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/pomo/internal/logging"
	"github.com/tgienger/pomo/internal/store"
)

func newStore() (*Store, *store.Memory) {
	kv := store.NewMemory()
	return NewStore(kv, logging.NopLogger()), kv
}

func TestSlotJSON(t *testing.T) {
	data, err := json.Marshal([]Slot{For("a"), {TaskID: "b", Done: true}, Open()})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"taskId":"a","done":false},{"taskId":"b","done":true},{"taskId":null,"done":false}]`, string(data))

	var back []Slot
	require.NoError(t, json.Unmarshal([]byte(`[{"taskId":null,"done":true}]`), &back))
	assert.Equal(t, []Slot{Open()}, back, "an open slot is never done")
}

func TestDecodeSlots_ExpandsLegacy(t *testing.T) {
	legacy := []byte(`[{"taskId":"a","pomodoros":3,"completed":1},{"taskId":"b","pomodoros":1,"completed":0}]`)
	got, err := DecodeSlots(legacy)
	require.NoError(t, err)
	assert.Equal(t, []Slot{{TaskID: "a", Done: true}, For("a"), For("a"), For("b")}, got)
}

func TestDecodeSlots_Idempotent(t *testing.T) {
	inputs := []string{
		`[{"taskId":"a","pomodoros":2,"completed":2},{"taskId":"b","pomodoros":1,"completed":5}]`,
		`[{"taskId":"a","done":true},{"taskId":null,"done":false},{"taskId":"b","done":false}]`,
		`[]`,
		``,
	}
	for _, in := range inputs {
		once, err := DecodeSlots([]byte(in))
		require.NoError(t, err)
		encoded, err := json.Marshal(once)
		require.NoError(t, err)
		twice, err := DecodeSlots(encoded)
		require.NoError(t, err)
		assert.Equal(t, once, twice, in)
	}
}

func TestLoad_EmptyStore(t *testing.T) {
	s, _ := newStore()
	got := s.Load("2026-10-16")
	assert.Equal(t, "2026-10-16", got.Date)
	assert.Empty(t, got.Items)
	assert.NotNil(t, got.Items)
}

func TestLoad_RolloverOfEmptyScheduleSkipsHistory(t *testing.T) {
	s, _ := newStore()
	require.NoError(t, s.Save(Schedule{Date: "2026-10-15", Items: []Slot{}}, "2026-10-15"))

	got := s.Load("2026-10-16")
	assert.Equal(t, Schedule{Date: "2026-10-16", Items: []Slot{}}, got)
	assert.Empty(t, s.Dates())
}

func TestLoad_RolloverArchivesYesterday(t *testing.T) {
	s, kv := newStore()
	// written by an older version that never mirrored history
	require.NoError(t, store.Write(kv, store.KeySchedule, Schedule{Date: "2026-10-15", Items: slots("A", "B+")}))

	got := s.Load("2026-10-16")
	assert.Equal(t, "2026-10-16", got.Date)
	assert.Empty(t, got.Items)
	assert.Equal(t, []string{"2026-10-15"}, s.Dates())
	assert.Equal(t, slots("A", "B+"), s.LoadForDate("2026-10-15", "2026-10-16"))

	// stored live schedule is now today's
	again := s.Load("2026-10-16")
	assert.Equal(t, got, again)
}

func TestSave_MirrorsHistory(t *testing.T) {
	s, _ := newStore()
	today := "2026-10-16"
	require.NoError(t, s.Save(Schedule{Date: today, Items: slots("A", "A")}, today))
	assert.Equal(t, slots("A", "A"), s.LoadForDate(today, today))
	assert.Equal(t, []string{today}, s.Dates())

	require.NoError(t, s.Save(Schedule{Date: today, Items: slots("A+", "A")}, today))
	var history map[string][]Slot
	require.NoError(t, store.Read(s.kv, store.KeyScheduleHistory, &history))
	assert.Equal(t, slots("A+", "A"), history[today])
}

func TestSaveLoad_RoundTripIsByteIdentical(t *testing.T) {
	s, kv := newStore()
	today := "2026-10-16"
	require.NoError(t, s.Save(Schedule{Date: today, Items: slots("A", "_", "B+")}, today))
	before, _, err := kv.Get(store.KeySchedule)
	require.NoError(t, err)

	require.NoError(t, s.Save(s.Load(today), today))
	after, _, err := kv.Get(store.KeySchedule)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestLoad_MigratesLegacyLiveSchedule(t *testing.T) {
	s, kv := newStore()
	require.NoError(t, kv.Put(store.KeySchedule, []byte(`{"date":"2026-10-16","items":[{"taskId":"a","pomodoros":2,"completed":1}]}`)))
	got := s.Load("2026-10-16")
	assert.Equal(t, []Slot{{TaskID: "a", Done: true}, For("a")}, got.Items)
}

func TestLoad_CorruptScheduleIsEmpty(t *testing.T) {
	s, kv := newStore()
	require.NoError(t, kv.Put(store.KeySchedule, []byte(`{{{`)))
	got := s.Load("2026-10-16")
	assert.Empty(t, got.Items)
}

func TestLatestBefore(t *testing.T) {
	s, kv := newStore()
	history := map[string][]Slot{
		"2026-10-12": slots("A"),
		"2026-10-14": {},
		"2026-10-16": slots("C"),
	}
	require.NoError(t, store.Write(kv, store.KeyScheduleHistory, history))

	date, items, ok := s.LatestBefore("2026-10-16")
	require.True(t, ok)
	assert.Equal(t, "2026-10-12", date)
	assert.Equal(t, slots("A"), items)

	_, _, ok = s.LatestBefore("2026-10-12")
	assert.False(t, ok)
}

func TestCarryoverDismissal(t *testing.T) {
	s, _ := newStore()
	assert.False(t, s.CarryoverDismissed("2026-10-16"))
	require.NoError(t, s.DismissCarryover("2026-10-16"))
	assert.True(t, s.CarryoverDismissed("2026-10-16"))
	assert.False(t, s.CarryoverDismissed("2026-10-17"))
}
