package env

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, ".env")
	second := filepath.Join(dir, ".env.local")
	if err := os.WriteFile(first, []byte("RENDEZVOUS_T_A=from-env\nexport RENDEZVOUS_T_B=\"quoted\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(second, []byte("RENDEZVOUS_T_A=from-local\nRENDEZVOUS_T_C=local\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RENDEZVOUS_T_C", "preset")
	t.Setenv("RENDEZVOUS_T_A", "")
	os.Unsetenv("RENDEZVOUS_T_A")
	t.Setenv("RENDEZVOUS_T_B", "")
	os.Unsetenv("RENDEZVOUS_T_B")

	if err := Load(first, filepath.Join(dir, "missing"), second); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got := os.Getenv("RENDEZVOUS_T_A"); got != "from-env" {
		t.Fatalf("A = %q, want first file to win", got)
	}
	if got := os.Getenv("RENDEZVOUS_T_B"); got != "quoted" {
		t.Fatalf("B = %q", got)
	}
	if got := os.Getenv("RENDEZVOUS_T_C"); got != "preset" {
		t.Fatalf("C = %q, want preset value kept", got)
	}
}
