package history

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

func fill(s *Store, n int) {
	for i := 0; i < n; i++ {
		s.Append(NewEntry(base.Add(time.Duration(i)*time.Second), "user", float64(i)))
	}
}

func TestRecent_NewestFirst(t *testing.T) {
	s := NewStore()
	fill(s, 7)

	recent := s.Recent(5)
	require.Len(t, recent, 5)
	assert.Equal(t, 6.0, recent[0].BodyFat)
	assert.Equal(t, 2.0, recent[4].BodyFat)
	for i := 1; i < len(recent); i++ {
		assert.True(t, recent[i-1].Time.After(recent[i].Time))
	}
	assert.Equal(t, 7, s.Len())
}

func TestRecent_FewerThanN(t *testing.T) {
	s := NewStore()
	fill(s, 3)

	recent := s.Recent(5)
	require.Len(t, recent, 3)
	assert.Equal(t, []float64{2, 1, 0}, []float64{recent[0].BodyFat, recent[1].BodyFat, recent[2].BodyFat})
}

func TestRecent_EdgeCases(t *testing.T) {
	s := NewStore()
	assert.Empty(t, s.Recent(5))

	fill(s, 2)
	assert.Empty(t, s.Recent(0))
	assert.Empty(t, s.Recent(-1))
	assert.Len(t, s.Recent(100), 2)
}

func TestRecent_ReturnsCopy(t *testing.T) {
	s := NewStore()
	fill(s, 2)

	recent := s.Recent(2)
	recent[0].User = "mutated"

	assert.Equal(t, "user", s.Recent(1)[0].User)
}

func TestAppend_NoDeduplication(t *testing.T) {
	s := NewStore()
	e := NewEntry(base, "ana", 18.2)
	s.Append(e)
	s.Append(e)

	assert.Equal(t, 2, s.Len())
}

func TestNewEntry_GuestDefault(t *testing.T) {
	assert.Equal(t, GuestLabel, NewEntry(base, "", 10).User)
	assert.Equal(t, GuestLabel, NewEntry(base, "   ", 10).User)
	assert.Equal(t, "ana", NewEntry(base, "ana", 10).User)
}

func TestRow(t *testing.T) {
	row := NewEntry(base.Add(5*time.Second), "", 21.37).Row()
	assert.Equal(t, Row{Time: "09:30:05", User: "Guest", BF: 21.37}, row)

	s := NewStore()
	fill(s, 2)
	rows := s.RecentRows(5)
	require.Len(t, rows, 2)
	assert.Equal(t, "09:30:01", rows[0].Time)
}

func TestConcurrentAppendAndRecent(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup

	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s.Append(NewEntry(base, "worker", 1))
				_ = s.Recent(5)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 800, s.Len())
	assert.Len(t, s.Recent(5), 5)
}
