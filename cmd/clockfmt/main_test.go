package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedNow() time.Time {
	return time.Date(2024, time.March, 5, 21, 7, 0, 0, time.UTC)
}

func TestRun(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"now", nil, "2024-03-05\nTuesday\n21:07\n03-05 21:07Z\n"},
		{"twelve hour", []string{"-24h=false"}, "2024-03-05\nTuesday\n09:07\n03-05 21:07Z\n"},
		{"offset instant", []string{"-at", "2024-03-06T01:30:00+05:30"}, "2024-03-06\nWednesday\n01:30\n03-05 20:00Z\n"},
		{"zone", []string{"-at", "2024-03-05T09:07:00Z", "-tz", "UTC"}, "2024-03-05\nTuesday\n09:07\n03-05 09:07Z\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			code := run(tt.args, &stdout, &stderr, fixedNow)

			assert.Equal(t, 0, code)
			assert.Equal(t, tt.want, stdout.String())
			assert.Empty(t, stderr.String())
		})
	}
}

func TestRunBadInput(t *testing.T) {
	for _, args := range [][]string{
		{"-at", "tomorrow"},
		{"-tz", "Nowhere/Special"},
		{"-bogus"},
	} {
		var stdout, stderr bytes.Buffer

		code := run(args, &stdout, &stderr, fixedNow)

		assert.Equal(t, 2, code, "args %v", args)
		assert.Empty(t, stdout.String())
		assert.NotEmpty(t, stderr.String())
	}
}

func TestRunVersion(t *testing.T) {
	var stdout bytes.Buffer
	assert.Equal(t, 0, run([]string{"-version"}, &stdout, &bytes.Buffer{}, fixedNow))
	assert.Contains(t, stdout.String(), "clockfmt ")
}
