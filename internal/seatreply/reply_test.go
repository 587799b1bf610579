package seatreply

import (
	"errors"
	"testing"
)

func TestCompleteInvokesCallbackOnce(t *testing.T) {
	var got []error
	r := New(func(err error) { got = append(got, err) })

	if ok := r.Complete(nil); !ok {
		t.Fatal("first Complete should report ok=true")
	}
	if ok := r.Complete(errors.New("too late")); ok {
		t.Fatal("second Complete should report ok=false")
	}
	if len(got) != 1 || got[0] != nil {
		t.Fatalf("callback invoked %d times, want 1 with nil error: %v", len(got), got)
	}
}

func TestCompleteWithError(t *testing.T) {
	var got error
	r := New(func(err error) { got = err })
	wantErr := errors.New("boom")
	r.Complete(wantErr)
	if got != wantErr {
		t.Errorf("callback error = %v, want %v", got, wantErr)
	}
}
