package record_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"swingadmin/internal/domain/record"
)

// TestRecord_UnmarshalPreservesOrder tests that key order survives decoding.
func TestRecord_UnmarshalPreservesOrder(t *testing.T) {
	src := `{"id":"1","zeta":"z","alpha":2,"active":true,"score":null}`
	var r record.Record
	if err := json.Unmarshal([]byte(src), &r); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	want := []string{"id", "zeta", "alpha", "active", "score"}
	if !reflect.DeepEqual(r.Keys(), want) {
		t.Errorf("keys = %v, want %v", r.Keys(), want)
	}
}

// TestRecord_MarshalRoundTrip tests that encoding reproduces the source order.
func TestRecord_MarshalRoundTrip(t *testing.T) {
	src := `{"id":"1","name":"Ana","active":true,"score":null}`
	var r record.Record
	if err := json.Unmarshal([]byte(src), &r); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	out, err := json.Marshal(&r)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != src {
		t.Errorf("round trip = %s, want %s", out, src)
	}
}

// TestRecord_UnmarshalRejectsNonObject tests that arrays and scalars are rejected.
func TestRecord_UnmarshalRejectsNonObject(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "array", src: `[1,2]`},
		{name: "string", src: `"hello"`},
		{name: "number", src: `42`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r record.Record
			if err := json.Unmarshal([]byte(tt.src), &r); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

// TestRecord_NestedValuesCarried tests that nested structures survive a round-trip.
func TestRecord_NestedValuesCarried(t *testing.T) {
	src := `{"id":"1","tags":["a","b"],"meta":{"k":"v"},"name":"Ana"}`
	var r record.Record
	if err := json.Unmarshal([]byte(src), &r); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	out, err := json.Marshal(&r)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != src {
		t.Errorf("round trip = %s, want %s", out, src)
	}
}

// TestRecord_SetNormalizesNumbers tests integer widening to float64.
func TestRecord_SetNormalizesNumbers(t *testing.T) {
	r := record.New()
	r.Set("count", int64(7))
	v, ok := r.Get("count")
	if !ok {
		t.Fatal("count missing")
	}
	if f, ok := v.(float64); !ok || f != 7 {
		t.Errorf("count = %#v, want float64(7)", v)
	}
}

// TestRecord_SetDeduplicatesKeys tests that re-setting a key keeps one entry.
func TestRecord_SetDeduplicatesKeys(t *testing.T) {
	r := record.New()
	r.Set("name", "Ana")
	r.Set("name", "Bea")
	if r.Len() != 1 {
		t.Errorf("len = %d, want 1", r.Len())
	}
	v, _ := r.Get("name")
	if v != "Bea" {
		t.Errorf("name = %v, want Bea", v)
	}
}

// TestRecord_ID tests the id accessor.
func TestRecord_ID(t *testing.T) {
	r := record.New()
	if r.ID() != "" {
		t.Errorf("empty record ID = %q, want empty", r.ID())
	}
	r.Set("id", "abc")
	if r.ID() != "abc" {
		t.Errorf("ID = %q, want abc", r.ID())
	}
}
