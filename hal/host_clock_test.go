//go:build !tinygo

package hal

import (
	"testing"
	"time"
)

type fakeReal struct {
	t time.Time
}

func (f *fakeReal) now() time.Time { return f.t }

func TestHostClockStartAndRate(t *testing.T) {
	real := &fakeReal{t: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}
	start := time.Date(2024, time.March, 5, 23, 59, 0, 0, time.UTC)
	c := newHostClock(HostClockConfig{Location: time.UTC, Start: start, Rate: 60}, real.now)

	if got := c.Now(); !got.Equal(start) {
		t.Fatalf("expected %v at startup, got %v", start, got)
	}

	real.t = real.t.Add(time.Second)
	want := start.Add(time.Minute)
	if got := c.Now(); !got.Equal(want) {
		t.Fatalf("expected %v after one real second at rate 60, got %v", want, got)
	}
}

func TestHostClockSkew(t *testing.T) {
	real := &fakeReal{t: time.Date(2024, time.March, 5, 9, 7, 0, 0, time.UTC)}
	c := newHostClock(HostClockConfig{Location: time.UTC}, real.now)

	c.adjust(time.Hour)
	c.adjust(24 * time.Hour)
	if got := c.Now(); got.Hour() != 10 || got.Day() != 6 {
		t.Fatalf("expected 2024-03-06 10:07 after skew, got %v", got)
	}

	c.resetSkew()
	if got := c.Now(); !got.Equal(real.t) {
		t.Fatalf("expected skew reset to real time, got %v", got)
	}
}

func TestHostClockLocation(t *testing.T) {
	real := &fakeReal{t: time.Date(2024, time.March, 5, 9, 7, 0, 0, time.UTC)}
	zone := time.FixedZone("X", 2*3600)
	c := newHostClock(HostClockConfig{Location: zone}, real.now)

	got := c.Now()
	if got.Location() != zone || got.Hour() != 11 {
		t.Fatalf("expected 11:07 in fixed zone, got %v", got)
	}
}

func TestHostClockToggle24Hour(t *testing.T) {
	c := newHostClock(HostClockConfig{Use24Hour: true}, nil)
	if !c.Use24Hour() {
		t.Fatal("expected initial 24h style")
	}
	if c.toggle24Hour() {
		t.Fatal("expected toggle to report 12h")
	}
	if c.Use24Hour() {
		t.Fatal("expected 12h style after toggle")
	}
	if !c.toggle24Hour() || !c.Use24Hour() {
		t.Fatal("expected 24h style after second toggle")
	}
}
