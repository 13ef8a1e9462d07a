package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PSY-AppointmentService/pkg/types"
)

func mustInterval(t *testing.T, start, end string) Interval {
	t.Helper()
	i, err := NewInterval(types.TimeString(start), types.TimeString(end))
	require.NoError(t, err)
	return i
}

func TestNewInterval_RejectsEmpty(t *testing.T) {
	_, err := NewInterval("10:00", "10:00")
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = NewInterval("11:00", "10:00")
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestInterval_Overlaps(t *testing.T) {
	slot := mustInterval(t, "11:30", "12:00")

	assert.True(t, slot.Overlaps(mustInterval(t, "11:20", "11:40")))
	assert.False(t, slot.Overlaps(mustInterval(t, "11:00", "11:30")), "touching at start")
	assert.False(t, slot.Overlaps(mustInterval(t, "12:00", "12:30")), "touching at end")
	assert.True(t, slot.Overlaps(mustInterval(t, "11:00", "13:00")))
}

func TestInterval_Subtract(t *testing.T) {
	block := mustInterval(t, "09:00", "12:00")

	tests := []struct {
		name string
		busy []Interval
		want []Interval
	}{
		{
			name: "nothing busy",
			want: []Interval{block},
		},
		{
			name: "hole in the middle",
			busy: []Interval{mustInterval(t, "10:00", "11:00")},
			want: []Interval{mustInterval(t, "09:00", "10:00"), mustInterval(t, "11:00", "12:00")},
		},
		{
			name: "overlapping and unsorted busy intervals",
			busy: []Interval{mustInterval(t, "10:30", "11:15"), mustInterval(t, "10:00", "10:45")},
			want: []Interval{mustInterval(t, "09:00", "10:00"), mustInterval(t, "11:15", "12:00")},
		},
		{
			name: "busy outside the block is ignored",
			busy: []Interval{mustInterval(t, "07:00", "09:00"), mustInterval(t, "12:00", "13:00")},
			want: []Interval{block},
		},
		{
			name: "fully covered",
			busy: []Interval{mustInterval(t, "08:00", "13:00")},
			want: []Interval{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, block.Subtract(tt.busy))
		})
	}
}

func TestInterval_Chunk(t *testing.T) {
	free := mustInterval(t, "09:00", "11:30")

	assert.Equal(t, []Interval{
		mustInterval(t, "09:00", "10:00"),
		mustInterval(t, "10:00", "11:00"),
	}, free.Chunk(60), "remainder shorter than a step is dropped")

	assert.Empty(t, mustInterval(t, "09:00", "09:45").Chunk(60))
	assert.Nil(t, free.Chunk(0))
}
