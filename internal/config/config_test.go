package config

import (
	"testing"
	"time"
)

func TestEnvDefaults(t *testing.T) {
	t.Setenv("RENDEZVOUS_PORT", "8081")
	t.Setenv("RENDEZVOUS_API_URL", "https://api.example.test")
	t.Setenv("RENDEZVOUS_LOG_JSON", "false")
	t.Setenv("RENDEZVOUS_RECONNECT_DELAY", "500ms")
	t.Setenv("RENDEZVOUS_HTTP_TIMEOUT", "nonsense")

	c := EnvDefaults()
	if c.Port != 8081 {
		t.Fatalf("port = %d", c.Port)
	}
	if c.APIURL != "https://api.example.test" || c.AuthURL != c.APIURL {
		t.Fatalf("api/auth url = %q %q", c.APIURL, c.AuthURL)
	}
	if c.Socket() != c.APIURL {
		t.Fatalf("socket = %q, want api url", c.Socket())
	}
	if c.LogJSON {
		t.Fatalf("log json still on")
	}
	if c.ReconnectDelay != 500*time.Millisecond {
		t.Fatalf("reconnect delay = %v", c.ReconnectDelay)
	}
	if c.HTTPTimeout != Default().HTTPTimeout {
		t.Fatalf("bad duration overrode default: %v", c.HTTPTimeout)
	}
}

func TestEnvDefaults_SeparateAuthAndSocket(t *testing.T) {
	t.Setenv("RENDEZVOUS_API_URL", "https://api.example.test")
	t.Setenv("RENDEZVOUS_AUTH_URL", "https://auth.example.test")
	t.Setenv("RENDEZVOUS_SOCKET_URL", "wss://rt.example.test/ws")

	c := EnvDefaults()
	if c.AuthURL != "https://auth.example.test" || c.Socket() != "wss://rt.example.test/ws" {
		t.Fatalf("config = %+v", c)
	}
}
