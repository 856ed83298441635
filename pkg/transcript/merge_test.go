package transcript

import (
	"testing"
	"time"
)

func ts(min int) time.Time {
	return time.Date(2024, 1, 1, 10, min, 0, 0, time.UTC)
}

func TestMergeByTime(t *testing.T) {
	a := &Result{Events: []Event{
		{Timestamp: ts(0), Sender: "Alice", Body: "a0"},
		{Timestamp: ts(2), Sender: "Alice", Body: "a2"},
		{Timestamp: ts(4), Sender: "Alice", Body: "a4"},
	}}
	b := &Result{Events: []Event{
		{Timestamp: ts(1), Sender: "Bob", Body: "b1"},
		{Timestamp: ts(3), Sender: "Bob", Body: "b3"},
	}}

	merged := MergeByTime(a, b)

	if len(merged) != 5 {
		t.Fatalf("got %d events, want 5", len(merged))
	}
	want := []string{"a0", "b1", "a2", "b3", "a4"}
	for i, body := range want {
		if merged[i].Body != body {
			t.Errorf("merged[%d].Body = %q, want %q", i, merged[i].Body, body)
		}
	}
}

func TestMergeByTime_EqualTimestampsStayInSourceOrder(t *testing.T) {
	a := &Result{Events: []Event{
		{Timestamp: ts(0), Body: "first-a"},
		{Timestamp: ts(0), Body: "second-a"},
	}}
	b := &Result{Events: []Event{
		{Timestamp: ts(0), Body: "first-b"},
	}}

	merged := MergeByTime(a, b)

	if len(merged) != 3 {
		t.Fatalf("got %d events, want 3", len(merged))
	}
	// Earlier argument wins ties; within one result, line order holds.
	want := []string{"first-a", "second-a", "first-b"}
	for i, body := range want {
		if merged[i].Body != body {
			t.Errorf("merged[%d].Body = %q, want %q", i, merged[i].Body, body)
		}
	}
}

func TestMergeByTime_EmptyInputs(t *testing.T) {
	if got := MergeByTime(); len(got) != 0 {
		t.Errorf("MergeByTime() = %v, want empty", got)
	}
	if got := MergeByTime(nil, &Result{}); len(got) != 0 {
		t.Errorf("MergeByTime(nil, empty) = %v, want empty", got)
	}
}
