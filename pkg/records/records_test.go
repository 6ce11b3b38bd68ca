package records

import (
	"reflect"
	"testing"
)

func TestString(t *testing.T) {
	rec := Record{"name": "North", "count": 3, "empty": nil}

	if got := rec.String("name"); got != "North" {
		t.Fatalf("String(name) = %q", got)
	}
	if got := rec.String("count"); got != "3" {
		t.Fatalf("String(count) = %q", got)
	}
	if got := rec.String("empty"); got != "" {
		t.Fatalf("String(empty) = %q, want empty", got)
	}
	if got := rec.String("absent"); got != "" {
		t.Fatalf("String(absent) = %q, want empty", got)
	}
}

func TestHas(t *testing.T) {
	rec := Record{"name": "North", "empty": nil}
	if !rec.Has("name") {
		t.Fatal("Has() missed a present key")
	}
	if rec.Has("empty") {
		t.Fatal("Has() should treat a nil value as absent")
	}
	if rec.Has("absent") {
		t.Fatal("Has() reported an absent key")
	}
}

func TestClone(t *testing.T) {
	rec := Record{"name": "North"}
	clone := rec.Clone()

	if !reflect.DeepEqual(rec, clone) {
		t.Fatalf("clone = %v, want %v", clone, rec)
	}
	clone["name"] = "South"
	if rec.String("name") != "North" {
		t.Fatal("mutating the clone changed the original")
	}
}
