package types

import (
	"math"
	"testing"
)

func TestRegionClass_Usable(t *testing.T) {
	for c := ClassReserved; c <= ClassPersistent; c++ {
		want := c == ClassConventional
		if c.Usable() != want {
			t.Fatalf("%s.Usable() = %v, want %v", c, c.Usable(), want)
		}
	}
}

func TestRegionClass_String(t *testing.T) {
	tests := []struct {
		class    RegionClass
		expected string
	}{
		{ClassReserved, "Reserved"},
		{ClassConventional, "Conventional"},
		{ClassBootServicesData, "BootServicesData"},
		{ClassPersistent, "Persistent"},
		{RegionClass(99), "UNKNOWN_CLASS_99"},
	}
	for _, tt := range tests {
		if got := tt.class.String(); got != tt.expected {
			t.Fatalf("String() = %q, want %q", got, tt.expected)
		}
	}
}

func TestMemoryRegionBytes(t *testing.T) {
	r := MemoryRegion{Start: 0x100000, Pages: 16}
	size, ok := r.Bytes()
	if !ok || size != 65536 {
		t.Fatalf("Bytes() = %d, %v", size, ok)
	}
	end, ok := r.End()
	if !ok || end != 0x110000 {
		t.Fatalf("End() = %#x, %v", uint64(end), ok)
	}

	huge := MemoryRegion{Pages: math.MaxUint64 / PageSize * 2}
	if _, ok := huge.Bytes(); ok {
		t.Fatal("expected overflow for huge page count")
	}
	wrapped := MemoryRegion{Start: Addr(math.MaxUint64 - PageSize), Pages: 2}
	if _, ok := wrapped.End(); ok {
		t.Fatal("expected overflow for wrapping region end")
	}
}

func TestSummarize(t *testing.T) {
	regions := []MemoryRegion{
		{Class: ClassConventional, Start: 0, Pages: 256},
		{Class: ClassReserved, Start: 0x100000, Pages: 16},
		{Class: ClassConventional, Start: 0x200000, Pages: 256},
		{Class: ClassMMIO, Start: 0xF0000000, Pages: 64},
	}
	s := Summarize(regions)
	if s.UsablePages != 512 {
		t.Fatalf("UsablePages = %d, want 512", s.UsablePages)
	}
	if s.PagesByClass[ClassReserved] != 16 || s.PagesByClass[ClassMMIO] != 64 {
		t.Fatalf("per-class pages wrong: %+v", s.PagesByClass)
	}
	if got := s.UsableMiB(); got != 2 {
		t.Fatalf("UsableMiB = %d, want 2", got)
	}
}
