package engine

import (
	"math/rand"
	"testing"
	"time"
)

func TestBackoffWaitDeterministicTiers(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	if got := backoffWait(1, rnd); got != 60*time.Second {
		t.Errorf("errors=1: got %v, want 60s", got)
	}

	for _, errs := range []int{6, 7, 100} {
		if got := backoffWait(errs, rnd); got != 480*time.Minute {
			t.Errorf("errors=%d: got %v, want 480m", errs, got)
		}
	}
}

func TestBackoffWaitRandomTiersStayInBand(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))

	bands := map[int][2]time.Duration{
		2: {30 * time.Minute, 60 * time.Minute},
		3: {60 * time.Minute, 120 * time.Minute},
		4: {120 * time.Minute, 240 * time.Minute},
		5: {240 * time.Minute, 480 * time.Minute},
	}

	for errs, band := range bands {
		for i := 0; i < 50; i++ {
			got := backoffWait(errs, rnd)
			if got < band[0] || got > band[1] {
				t.Errorf("errors=%d: got %v, want in [%v,%v]", errs, got, band[0], band[1])
			}
		}
	}
}
