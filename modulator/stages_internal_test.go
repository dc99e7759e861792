package modulator

import (
	"math"
	"testing"

	"github.com/pelab/npcsim/gates"
)

func TestRectify(t *testing.T) {
	tests := []struct {
		name    string
		ref     int32
		max     uint32
		wantMag uint32
		wantNeg bool
	}{
		{"zero", 0, 5000, 0, false},
		{"positive in range", 1234, 5000, 1234, false},
		{"negative in range", -1234, 5000, 1234, true},
		{"positive at limit", 5000, 5000, 5000, false},
		{"positive clamped", 5001, 5000, 5000, false},
		{"negative clamped", -9000, 5000, 5000, true},
		{"max int32 saturates", math.MaxInt32, 5000, 5000, false},
		{"min int32 saturates", math.MinInt32, 5000, 5000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rectify(tt.ref, tt.max)
			if got.mag != tt.wantMag {
				t.Errorf("rectify(%d, %d).mag = %d, want %d",
					tt.ref, tt.max, got.mag, tt.wantMag)
			}
			if got.negative != tt.wantNeg {
				t.Errorf("rectify(%d, %d).negative = %v, want %v",
					tt.ref, tt.max, got.negative, tt.wantNeg)
			}
		})
	}
}

func TestDecideLevel(t *testing.T) {
	tests := []struct {
		name    string
		ms      magSign
		carrier uint32
		want    gates.Level
	}{
		{"below carrier", magSign{mag: 3}, 10, gates.LevelNeutral},
		{"equal is neutral", magSign{mag: 10}, 10, gates.LevelNeutral},
		{"above carrier positive", magSign{mag: 11}, 10, gates.LevelPositive},
		{"above carrier negative", magSign{mag: 11, negative: true}, 10, gates.LevelNegative},
		{"negative below carrier", magSign{mag: 3, negative: true}, 10, gates.LevelNeutral},
		{"zero magnitude at valley", magSign{}, 0, gates.LevelNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decideLevel(tt.ms, tt.carrier); got != tt.want {
				t.Errorf("decideLevel(%+v, %d) = %v, want %v",
					tt.ms, tt.carrier, got, tt.want)
			}
		})
	}
}
