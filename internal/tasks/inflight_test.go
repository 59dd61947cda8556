package tasks

import "testing"

func TestInflightSet(t *testing.T) {
	s := NewInflightSet()

	if !s.Acquire("t1") {
		t.Fatal("first acquire should succeed")
	}
	if s.Acquire("t1") {
		t.Fatal("duplicate acquire should fail")
	}
	if !s.Acquire("t2") {
		t.Fatal("distinct id should acquire")
	}

	s.Release("t1")
	if !s.Acquire("t1") {
		t.Fatal("acquire after release should succeed")
	}
}
