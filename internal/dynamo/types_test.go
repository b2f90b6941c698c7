package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestStateClone(t *testing.T) {
	s := State{1, 2}
	c := s.Clone()
	c[0] = 5
	if s[0] != 1 {
		t.Errorf("clone shares storage with original")
	}
}

func TestStateIsValid(t *testing.T) {
	if !(State{0, 1}).IsValid() {
		t.Error("expected finite state to be valid")
	}
	if (State{math.NaN(), 0}).IsValid() {
		t.Error("expected NaN state to be invalid")
	}
	if (State{0, math.Inf(-1)}).IsValid() {
		t.Error("expected Inf state to be invalid")
	}
}

func TestIntegrationErrorUnwrap(t *testing.T) {
	err := &IntegrationError{Time: 1.5, Wrapped: ErrInvalidState}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("expected IntegrationError to unwrap to ErrInvalidState")
	}
}
