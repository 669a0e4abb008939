package model

import "testing"

func TestPacingBoundsDefaults(t *testing.T) {
	c := &Campaign{}

	min, max := c.PacingBounds()
	if min != 30 || max != 90 {
		t.Errorf("expected defaults 30/90, got %d/%d", min, max)
	}
}

func TestPacingBoundsExplicit(t *testing.T) {
	c := &Campaign{IntervalMinSeconds: 5, IntervalMaxSeconds: 5}

	min, max := c.PacingBounds()
	if min != 5 || max != 5 {
		t.Errorf("expected 5/5, got %d/%d", min, max)
	}
}

func TestPacingBoundsInvertedRange(t *testing.T) {
	c := &Campaign{IntervalMinSeconds: 60, IntervalMaxSeconds: 10}

	min, max := c.PacingBounds()
	if min != 60 || max != 60 {
		t.Errorf("inverted bounds must collapse to min, got %d/%d", min, max)
	}
}
