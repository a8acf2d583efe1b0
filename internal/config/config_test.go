package config

import (
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_PORT", "STORE_DRIVER", "DB_DRIVER", "AUTH_MODE", "CORS_ORIGIN", "SHOP_NAME", "ALLOW_REGISTRATION"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.HTTPPort != "8080" || cfg.StoreDriver != StoreLocal || cfg.DBDriver != "sqlite" || cfg.AuthMode != AuthShared {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.ShopName != "Royal Abaya" || cfg.CountryCode != "91" || cfg.AllowRegistration {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STORE_DRIVER", "Remote")
	t.Setenv("CORS_ORIGIN", "https://a.example, https://b.example,")
	t.Setenv("ALLOW_REGISTRATION", "true")

	cfg := Load()
	if cfg.HTTPPort != "9090" || cfg.StoreDriver != StoreRemote || !cfg.AllowRegistration {
		t.Fatalf("cfg = %+v", cfg)
	}
	if want := []string{"https://a.example", "https://b.example"}; !reflect.DeepEqual(cfg.CORSOrigins, want) {
		t.Fatalf("origins = %v", cfg.CORSOrigins)
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("HTTP_PORT", "http")
	if cfg := Load(); cfg.HTTPPort != "8080" {
		t.Fatalf("port = %s", cfg.HTTPPort)
	}
}
