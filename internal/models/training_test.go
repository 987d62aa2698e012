// ABOUTME: Tests for training log models and date helpers.
// ABOUTME: Validates builders, set helpers, and date parsing.
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLoadAndEmpty(t *testing.T) {
	s := Set{WeightKg: 80, Reps: 10}
	assert.Equal(t, 800.0, s.Load())
	assert.False(t, s.IsEmpty())

	assert.True(t, Set{}.IsEmpty())
	assert.False(t, Set{Reps: 12}.IsEmpty())
}

func TestNewSessionMedia(t *testing.T) {
	m := NewSessionMedia(7, "/tmp/a.jpg", MediaImage).
		WithThumb("/tmp/a_thumb.jpg").
		WithDimensions(640, 480)

	assert.Equal(t, int64(7), m.SessionID)
	assert.Equal(t, MediaImage, m.Type)
	require.NotNil(t, m.ThumbURI)
	assert.Equal(t, "/tmp/a_thumb.jpg", *m.ThumbURI)
	require.NotNil(t, m.Width)
	assert.Equal(t, 640, *m.Width)
	assert.Equal(t, 480, *m.Height)
	assert.Nil(t, m.DurationSec)
	assert.False(t, m.CreatedAt.IsZero())

	v := NewSessionMedia(7, "/tmp/b.mp4", MediaVideo).WithDuration(12.5)
	require.NotNil(t, v.DurationSec)
	assert.Equal(t, 12.5, *v.DurationSec)
}

func TestMediaTypeIsValid(t *testing.T) {
	assert.True(t, MediaImage.IsValid())
	assert.True(t, MediaVideo.IsValid())
	assert.False(t, MediaType("audio").IsValid())
}

func TestDeleteResultArchived(t *testing.T) {
	assert.True(t, DeleteResult{Kind: DeleteKindArchived}.Archived())
	assert.False(t, DeleteResult{Kind: DeleteKindDeleted}.Archived())
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"2024-06-01", false},
		{"2024-02-29", false},
		{"2023-02-29", true},
		{"2024-6-1", true},
		{"06/01/2024", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, FormatDate(got))
		})
	}
}

func TestParseYearMonth(t *testing.T) {
	got, err := ParseYearMonth("2024-06")
	require.NoError(t, err)
	assert.Equal(t, time.June, got.Month())

	_, err = ParseYearMonth("2024-13")
	assert.Error(t, err)
	_, err = ParseYearMonth("2024-06-01")
	assert.Error(t, err)
}

func TestToday(t *testing.T) {
	assert.Equal(t, time.Now().Format(DateLayout), Today())
}
