// ABOUTME: Tests for the ring buffer
// ABOUTME: Verifies wraparound, underrun zero-fill and blocking writes
package output

import (
	"testing"
	"time"
)

func TestRingBufferWriteRead(t *testing.T) {
	rb := NewRingBuffer(4)

	if n := rb.Write([]int16{1, 2, 3}); n != 3 {
		t.Errorf("expected 3 written, got %d", n)
	}
	if rb.Available() != 3 || rb.Free() != 1 {
		t.Errorf("expected available=3 free=1, got %d/%d", rb.Available(), rb.Free())
	}

	// Only one slot left
	if n := rb.Write([]int16{4, 5}); n != 1 {
		t.Errorf("expected 1 written, got %d", n)
	}

	out := make([]int16, 2)
	rb.Read(out)
	if out[0] != 1 || out[1] != 2 {
		t.Errorf("unexpected read %v", out)
	}

	// Wraps around
	rb.Write([]int16{6, 7})
	out = make([]int16, 6)
	n := rb.Read(out)
	if n != 4 {
		t.Errorf("expected 4 read, got %d", n)
	}
	expected := []int16{3, 4, 6, 7, 0, 0}
	for i := range expected {
		if out[i] != expected[i] {
			t.Errorf("index %d: expected %d, got %d", i, expected[i], out[i])
		}
	}
}

func TestRingBufferWriteAllBlocks(t *testing.T) {
	rb := NewRingBuffer(2)
	done := make(chan int)

	go func() {
		done <- rb.WriteAll([]int16{1, 2, 3, 4})
	}()

	select {
	case <-done:
		t.Fatal("WriteAll returned before space was available")
	case <-time.After(20 * time.Millisecond):
	}

	out := make([]int16, 2)
	rb.Read(out)

	select {
	case n := <-done:
		if n != 4 {
			t.Errorf("expected 4 written, got %d", n)
		}
	case <-time.After(time.Second):
		t.Fatal("WriteAll did not complete after read")
	}
}

func TestRingBufferCloseUnblocksWriter(t *testing.T) {
	rb := NewRingBuffer(1)
	done := make(chan int)

	go func() {
		done <- rb.WriteAll([]int16{1, 2, 3})
	}()

	time.Sleep(10 * time.Millisecond)
	rb.Close()

	select {
	case n := <-done:
		if n != 1 {
			t.Errorf("expected 1 written before close, got %d", n)
		}
	case <-time.After(time.Second):
		t.Fatal("WriteAll did not return after Close")
	}
}
