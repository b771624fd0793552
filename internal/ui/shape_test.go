package ui

import (
	"image"
	"testing"
)

func TestShapeSetterDamage(t *testing.T) {
	s := NewRect(image.Rect(10, 10, 0, 0), RGB24(0x0D2035), NoColor)
	if s.Bounds() != image.Rect(0, 0, 10, 10) {
		t.Fatalf("expected canonical bounds, got %v", s.Bounds())
	}
	if !s.Damaged() {
		t.Fatal("new shape should be damaged")
	}
	s.Clean()
	s.SetFill(RGB24(0x0D2035))
	if s.Damaged() {
		t.Fatal("writing the same fill should not damage")
	}
	s.SetOutline(RGB24(0xFFFFFF))
	if !s.Damaged() {
		t.Fatal("changing the outline should damage")
	}
}

func TestGroupStack(t *testing.T) {
	g := NewGroup()
	if g.Pop() != nil || g.Last() != nil {
		t.Fatal("empty group should have nothing to pop")
	}
	a := NewRect(image.Rect(0, 0, 5, 5), RGB24(1), NoColor)
	b := NewRect(image.Rect(10, 10, 20, 30), RGB24(2), NoColor)
	g.Append(a)
	g.Append(b)
	if g.Len() != 2 || g.Last() != Element(b) {
		t.Fatalf("unexpected group state: len=%d", g.Len())
	}
	if g.Bounds() != image.Rect(0, 0, 20, 30) {
		t.Fatalf("Bounds() = %v", g.Bounds())
	}
	if got := g.Pop(); got != Element(b) {
		t.Fatalf("Pop() = %v", got)
	}
	if g.Len() != 1 {
		t.Fatalf("Len() = %d", g.Len())
	}
}

func TestGroupDamageIsRecursive(t *testing.T) {
	inner := NewGroup()
	s := NewRect(image.Rect(0, 0, 5, 5), RGB24(1), NoColor)
	inner.Append(s)
	outer := NewGroup()
	outer.Append(inner)

	outer.Clean()
	if outer.Damaged() || s.Damaged() {
		t.Fatal("Clean should reach every element")
	}
	s.SetFill(RGB24(2))
	if !outer.Damaged() {
		t.Fatal("damage below should surface at the top")
	}
	outer.Clean()
	inner.SetHidden(true)
	if !outer.Damaged() {
		t.Fatal("hiding should damage")
	}
}

func TestLabelGeometry(t *testing.T) {
	l := NewLabel(fixedFont{}, "abcd")
	if l.Size() != image.Pt(24, 10) {
		t.Fatalf("Size() = %v", l.Size())
	}
	l.SetPos(image.Pt(10, 50))
	if got := l.Bounds(); got != image.Rect(10, 45, 34, 55) {
		t.Fatalf("Bounds() = %v", got)
	}
	// Box spans -8..2 around the baseline, so the center sits 3 above it.
	if got := l.Baseline(); got != image.Pt(10, 53) {
		t.Fatalf("Baseline() = %v", got)
	}
}

func TestIconPlacement(t *testing.T) {
	img := image.NewRGBA(image.Rect(3, 3, 19, 19))
	ic := NewIcon(img, image.Pt(100, 10))
	if ic.Bounds() != image.Rect(100, 10, 116, 26) {
		t.Fatalf("Bounds() = %v", ic.Bounds())
	}
}
