// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package database

import (
	"reflect"
	"testing"
)

func TestVectorParam(t *testing.T) {
	t.Parallel()

	if got := vectorParam(nil); got != nil {
		t.Errorf("vectorParam(nil) = %v, want nil", got)
	}
	src := []float32{1, -0.5}
	got, ok := vectorParam(src).([]float32)
	if !ok || !reflect.DeepEqual(got, src) {
		t.Fatalf("vectorParam() = %v", got)
	}
	got[0] = 9
	if src[0] != 1 {
		t.Error("vectorParam() must copy its input")
	}
}

func TestVectorScanner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     any
		want    []float32
		wantErr bool
	}{
		{"null", nil, nil, false},
		{"float32 list", []float32{1, 2}, []float32{1, 2}, false},
		{"float64 list", []float64{0.5, 1}, []float32{0.5, 1}, false},
		{"any list", []any{float32(1), float64(2)}, []float32{1, 2}, false},
		{"text", "[1, 2.5, -3]", []float32{1, 2.5, -3}, false},
		{"bytes", []byte("[0.25]"), []float32{0.25}, false},
		{"empty text", "[]", nil, false},
		{"null element", []any{nil}, nil, true},
		{"bad text", "[a, b]", nil, true},
		{"unsupported", 42, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var s vectorScanner
			err := s.Scan(tt.src)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Scan() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(s.vec, tt.want) {
				t.Errorf("Scan() = %v, want %v", s.vec, tt.want)
			}
		})
	}
}
