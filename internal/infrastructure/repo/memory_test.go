package repo

import (
	"testing"

	"rendezvous/internal/domain"
)

func TestMemorySessionStore(t *testing.T) {
	r := NewMemorySessionStore()
	if _, ok := r.Get(); ok {
		t.Fatalf("empty store returned a session")
	}
	s := &domain.OrderSession{CustomerName: "Customer Table 5", TableID: "table-5", QrType: domain.QrDineIn, IsAnonymous: true}
	if err := r.Put(s); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	s.CustomerName = "mutated"
	got, ok := r.Get()
	if !ok || got.CustomerName != "Customer Table 5" {
		t.Fatalf("Get = %+v, %v", got, ok)
	}
	got.TableID = "other"
	again, _ := r.Get()
	if again.TableID != "table-5" {
		t.Fatalf("store shares memory with callers")
	}
	if err := r.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if _, ok := r.Get(); ok {
		t.Fatalf("session survived Clear")
	}
}
