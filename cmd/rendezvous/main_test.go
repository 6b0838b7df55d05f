package main

import (
	"errors"
	"testing"

	"rendezvous/internal/config"
	"rendezvous/internal/infrastructure/repo"
)

func TestOpenStore_DatabaseNeedsKioskID(t *testing.T) {
	cfg := config.Default()
	cfg.DatabaseURL = "postgres://kiosk@127.0.0.1/rendezvous?sslmode=disable"
	if _, _, err := openStore(&cfg); !errors.Is(err, errNoKioskID) {
		t.Fatalf("err = %v, want errNoKioskID", err)
	}
	if cfg.KioskID != "" {
		t.Fatalf("kiosk id invented: %q", cfg.KioskID)
	}
}

func TestOpenStore_MemoryGetsKioskID(t *testing.T) {
	cfg := config.Default()
	store, closeStore, err := openStore(&cfg)
	if err != nil {
		t.Fatalf("openStore error: %v", err)
	}
	defer closeStore()
	if _, ok := store.(*repo.MemorySessionStore); !ok {
		t.Fatalf("store = %T, want memory", store)
	}
	if cfg.KioskID == "" {
		t.Fatalf("no kiosk id assigned")
	}
}
