package core

import (
	"testing"
	"time"
)

func TestPreferenceProfile_Adjust(t *testing.T) {
	tests := []struct {
		name      string
		start     float64
		deltas    []float64
		wantScore float64
	}{
		{
			name:      "single positive adjustment",
			start:     0.5,
			deltas:    []float64{0.10},
			wantScore: 0.6,
		},
		{
			name:      "clamped at upper bound",
			start:     0.5,
			deltas:    []float64{0.20, 0.20, 0.20}, // three saves from default
			wantScore: 1.0,
		},
		{
			name:      "clamped at lower bound",
			start:     0.5,
			deltas:    []float64{-0.10, -0.10, -0.10, -0.10, -0.10, -0.10},
			wantScore: 0.0,
		},
		{
			name:      "recovers after clamping at zero",
			start:     0.05,
			deltas:    []float64{-0.10, 0.20},
			wantScore: 0.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &PreferenceProfile{UserID: 1, CategoryID: 2, Score: tt.start}
			before := p.UpdatedAt
			for _, d := range tt.deltas {
				p.Adjust(d)
			}
			if diff := p.Score - tt.wantScore; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Score = %v, want %v", p.Score, tt.wantScore)
			}
			if !p.UpdatedAt.After(before) {
				t.Errorf("UpdatedAt not advanced")
			}
		})
	}
}

func TestNewPreferenceProfile_Default(t *testing.T) {
	p := NewPreferenceProfile(7, 3)
	if p.Score != DefaultPreferenceScore {
		t.Fatalf("Score = %v, want %v", p.Score, DefaultPreferenceScore)
	}
	if p.UserID != 7 || p.CategoryID != 3 {
		t.Fatalf("unexpected identity: %+v", p)
	}
}

func TestPreferenceProfile_Thresholds(t *testing.T) {
	tests := []struct {
		score    float64
		wantHigh bool
		wantLow  bool
	}{
		{0.69, false, false},
		{0.70, true, false},
		{1.0, true, false},
		{0.31, false, false},
		{0.30, false, true},
		{0.0, false, true},
		{0.5, false, false},
	}
	for _, tt := range tests {
		p := &PreferenceProfile{Score: tt.score}
		if got := p.HighPreference(); got != tt.wantHigh {
			t.Errorf("HighPreference(%v) = %v, want %v", tt.score, got, tt.wantHigh)
		}
		if got := p.LowPreference(); got != tt.wantLow {
			t.Errorf("LowPreference(%v) = %v, want %v", tt.score, got, tt.wantLow)
		}
	}
}

func TestAffinityVector(t *testing.T) {
	now := time.Now()
	profiles := []*PreferenceProfile{
		{UserID: 1, CategoryID: 10, Score: 0.8, UpdatedAt: now},
		{UserID: 1, CategoryID: 20, Score: 0.3, UpdatedAt: now},
	}
	vec := AffinityVector(profiles)
	if len(vec) != 2 {
		t.Fatalf("len = %d, want 2", len(vec))
	}
	if vec[10] != 0.8 || vec[20] != 0.3 {
		t.Errorf("unexpected vector: %v", vec)
	}
	if got := AffinityVector(nil); len(got) != 0 {
		t.Errorf("nil profiles should produce empty vector, got %v", got)
	}
}
