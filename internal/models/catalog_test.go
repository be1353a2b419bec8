package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateStripsTime(t *testing.T) {
	d, err := ParseDate("2024-09-01T00:00:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("01.09.2024")
	assert.Error(t, err)
}

func TestClockTime(t *testing.T) {
	assert.Equal(t, "8:30", ClockTime("08:30:00"))
	assert.Equal(t, "13:05", ClockTime("13:05"))
	assert.Equal(t, "soon", ClockTime("soon"))
}

func TestTeacherSplitPhoto(t *testing.T) {
	teacher := Teacher{ID: 1, FullName: "Іваненко І.І.", Infos: []TeacherInfo{
		{InfoTypeName: "PhotoUrl", Value: "https://cdn.example.com/1.jpg"},
		{InfoTypeName: "Email", Value: "ivanenko@example.com"},
	}}

	photo, rest := teacher.SplitPhoto()
	assert.Equal(t, "https://cdn.example.com/1.jpg", photo)
	assert.Equal(t, []TeacherInfo{{InfoTypeName: "Email", Value: "ivanenko@example.com"}}, rest)
}
