package buf

import (
	"math"
	"testing"
)

func TestAddU64(t *testing.T) {
	if v, ok := AddU64(1, 2); !ok || v != 3 {
		t.Fatalf("AddU64(1,2) = %d, %v", v, ok)
	}
	if v, ok := AddU64(math.MaxUint64, 0); !ok || v != math.MaxUint64 {
		t.Fatalf("AddU64(max,0) = %d, %v", v, ok)
	}
	if _, ok := AddU64(math.MaxUint64, 1); ok {
		t.Fatal("expected overflow")
	}
}

func TestMulU64(t *testing.T) {
	if v, ok := MulU64(16, 4096); !ok || v != 65536 {
		t.Fatalf("MulU64(16,4096) = %d, %v", v, ok)
	}
	if v, ok := MulU64(0, math.MaxUint64); !ok || v != 0 {
		t.Fatalf("MulU64(0,max) = %d, %v", v, ok)
	}
	if _, ok := MulU64(math.MaxUint64/2, 3); ok {
		t.Fatal("expected overflow")
	}
}

func TestSlice(t *testing.T) {
	b := make([]byte, 64)
	if w, ok := Slice(b, 32, 32); !ok || len(w) != 32 {
		t.Fatalf("Slice(32,32) = len %d, %v", len(w), ok)
	}
	if _, ok := Slice(b, 33, 32); ok {
		t.Fatal("expected out of bounds")
	}
	if _, ok := Slice(b, -1, 4); ok {
		t.Fatal("expected negative offset rejection")
	}
	if _, ok := Slice(b, 4, -1); ok {
		t.Fatal("expected negative length rejection")
	}
	if !Has(b, 0, 64) || Has(b, 0, 65) {
		t.Fatal("Has bounds mismatch")
	}
}
