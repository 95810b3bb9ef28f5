package testfixtures

import "testing"

func TestIDGeneratorSequence(t *testing.T) {
	gen := NewIDGenerator()

	first := gen.Next()
	second := gen.Next()

	if first != SequentialID(1) {
		t.Fatalf("expected %s, got %s", SequentialID(1), first)
	}
	if second != SequentialID(2) {
		t.Fatalf("expected %s, got %s", SequentialID(2), second)
	}
}

func TestIDGeneratorSetCounter(t *testing.T) {
	gen := NewIDGenerator()
	gen.SetCounter(41)

	if got := gen.Next(); got != SequentialID(42) {
		t.Fatalf("expected %s, got %s", SequentialID(42), got)
	}
}

func TestIDGeneratorNextFunc(t *testing.T) {
	gen := NewIDGenerator()
	next := gen.NextFunc()

	if got := next(); got != SequentialID(1) {
		t.Fatalf("expected %s, got %s", SequentialID(1), got)
	}
}
