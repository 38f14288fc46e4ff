package types

import "testing"

func TestConstants(t *testing.T) {
	if MaxDefaultLines != 200 {
		t.Errorf("expected MaxDefaultLines to be 200, got %d", MaxDefaultLines)
	}
	if MaxAllowedLines != 100000 {
		t.Errorf("expected MaxAllowedLines to be 100000, got %d", MaxAllowedLines)
	}
	if MaxAllowedLines <= MaxDefaultLines {
		t.Error("expected MaxAllowedLines to be greater than MaxDefaultLines")
	}
}

func TestMaxDefaultLines_Reasonable(t *testing.T) {
	// Large enough for a port scan summary, small enough for an agent context.
	if MaxDefaultLines < 50 || MaxDefaultLines > 1000 {
		t.Errorf("MaxDefaultLines out of range: %d", MaxDefaultLines)
	}
}

func TestMaxHistoryLimit(t *testing.T) {
	if MaxHistoryLimit <= 0 || MaxHistoryLimit > MaxDefaultLines {
		t.Errorf("unexpected MaxHistoryLimit %d", MaxHistoryLimit)
	}
}
