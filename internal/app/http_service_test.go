package app

import (
	"net/http"
	"testing"
	"time"

	"github.com/inventrack/inventrack/internal/config"
)

func TestNewHTTPServiceAppliesServerConfig(t *testing.T) {
	svc := NewHTTPService(config.ServerConfig{
		Host:                "127.0.0.1",
		Port:                "9090",
		ReadTimeoutSeconds:  15,
		WriteTimeoutSeconds: 30,
		IdleTimeoutSeconds:  60,
	}, http.NewServeMux())

	if svc.Name() != "http" {
		t.Fatalf("name want http got %s", svc.Name())
	}
	if svc.server.Addr != "127.0.0.1:9090" {
		t.Fatalf("addr want 127.0.0.1:9090 got %s", svc.server.Addr)
	}
	if svc.server.ReadTimeout != 15*time.Second {
		t.Fatalf("read timeout want 15s got %s", svc.server.ReadTimeout)
	}
	if svc.server.WriteTimeout != 30*time.Second {
		t.Fatalf("write timeout want 30s got %s", svc.server.WriteTimeout)
	}
	if svc.server.IdleTimeout != 60*time.Second {
		t.Fatalf("idle timeout want 60s got %s", svc.server.IdleTimeout)
	}
}

func TestNewHTTPServiceZeroTimeoutsStayUnset(t *testing.T) {
	svc := NewHTTPService(config.ServerConfig{Host: "0.0.0.0", Port: "8080"}, http.NewServeMux())
	if svc.server.ReadTimeout != 0 || svc.server.WriteTimeout != 0 || svc.server.IdleTimeout != 0 {
		t.Fatalf("timeouts should stay zero when unconfigured: %+v", svc.server)
	}
}
