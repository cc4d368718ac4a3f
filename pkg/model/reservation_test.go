package model

import (
	"math/rand"
	"testing"
	"time"
)

func TestOverlaps(t *testing.T) {
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	at := func(hours int) time.Time { return base.Add(time.Duration(hours) * time.Hour) }

	tests := []struct {
		name                           string
		start1, end1, start2, end2     time.Time
		want                           bool
	}{
		{"identical", at(0), at(2), at(0), at(2), true},
		{"partial overlap", at(1), at(3), at(0), at(2), true},
		{"containment", at(0), at(4), at(1), at(2), true},
		{"back to back", at(2), at(4), at(0), at(2), false},
		{"disjoint", at(5), at(6), at(0), at(2), false},
		{"touching starts", at(0), at(1), at(0), at(2), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.start1, tt.end1, tt.start2, tt.end2); got != tt.want {
				t.Errorf("Overlaps(%v, %v, %v, %v) = %v, want %v",
					tt.start1, tt.end1, tt.start2, tt.end2, got, tt.want)
			}
			// Overlap is symmetric.
			if got := Overlaps(tt.start2, tt.end2, tt.start1, tt.end1); got != tt.want {
				t.Errorf("Overlaps is not symmetric for %s", tt.name)
			}
		})
	}
}

func TestOverlaps_RandomPairs(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 1000; i++ {
		s1 := base.Add(time.Duration(rng.Intn(240)) * time.Hour)
		e1 := s1.Add(time.Duration(1+rng.Intn(48)) * time.Hour)
		s2 := base.Add(time.Duration(rng.Intn(240)) * time.Hour)
		e2 := s2.Add(time.Duration(1+rng.Intn(48)) * time.Hour)

		got := Overlaps(s1, e1, s2, e2)

		// Reference: two half-open intervals intersect iff some instant
		// belongs to both.
		want := true
		if !e1.After(s2) || !e2.After(s1) {
			want = false
		}

		if got != want {
			t.Fatalf("pair %d: Overlaps(%v, %v, %v, %v) = %v, want %v", i, s1, e1, s2, e2, got, want)
		}
	}
}

func TestReservation_Blocking(t *testing.T) {
	tests := []struct {
		status ReservationStatus
		want   bool
	}{
		{ReservationScheduled, true},
		{ReservationActive, true},
		{ReservationConfirmed, true},
		{ReservationCompleted, false},
		{ReservationCancelled, false},
		{ReservationStatus("bogus"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			r := &Reservation{Status: tt.status}
			if got := r.Blocking(); got != tt.want {
				t.Errorf("Blocking() with status %q = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}
