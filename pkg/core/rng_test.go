package core

import (
	"slices"
	"testing"
)

func TestRNGDeterministic(t *testing.T) {
	a := make([]uint8, 64)
	b := make([]uint8, 64)
	FillBinary(NewRNG(7), a, 0.5)
	FillBinary(NewRNG(7), b, 0.5)
	if !slices.Equal(a, b) {
		t.Fatal("same seed must produce the same fill")
	}
	for i, v := range a {
		if v > 1 {
			t.Fatalf("cell %d holds %d, expected 0 or 1", i, v)
		}
	}
}

func TestFillBinaryDensityBounds(t *testing.T) {
	buf := make([]uint8, 32)
	FillBinary(NewRNG(1), buf, 0)
	if slices.Contains(buf, 1) {
		t.Fatal("density 0 must leave the buffer empty")
	}
	FillBinary(NewRNG(1), buf, 1)
	if slices.Contains(buf, 0) {
		t.Fatal("density 1 must fill every cell")
	}
}
