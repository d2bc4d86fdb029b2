package security

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *TLSConfig
		wantNil bool
		wantMin uint16
		wantErr bool
	}{
		{name: "nil", cfg: nil, wantNil: true},
		{name: "zero", cfg: &TLSConfig{}, wantNil: true},
		{name: "enabled", cfg: &TLSConfig{Enabled: true}, wantMin: tls.VersionTLS12},
		{name: "tls13", cfg: &TLSConfig{Enabled: true, MinVersion: "1.3"}, wantMin: tls.VersionTLS13},
		{name: "bad version", cfg: &TLSConfig{Enabled: true, MinVersion: "1.0"}, wantErr: true},
		{name: "cert without key", cfg: &TLSConfig{CertFile: "c.pem"}, wantErr: true},
		{name: "missing ca", cfg: &TLSConfig{CAFile: "/nonexistent/ca.pem"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.Build()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if (got == nil) != tt.wantNil {
				t.Fatalf("got = %v, wantNil %v", got, tt.wantNil)
			}
			if got != nil && got.MinVersion != tt.wantMin {
				t.Fatalf("MinVersion = %x", got.MinVersion)
			}
		})
	}
}

func TestBuildRejectsGarbageCA(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ca.pem")
	if err := os.WriteFile(path, []byte("not a certificate"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := (&TLSConfig{CAFile: path}).Build(); err == nil {
		t.Fatal("expected error for CA file without PEM blocks")
	}
}

func TestSkipVerifyAndServerName(t *testing.T) {
	got, err := (&TLSConfig{SkipVerify: true, ServerName: "redis.internal"}).Build()
	if err != nil {
		t.Fatal(err)
	}
	if !got.InsecureSkipVerify || got.ServerName != "redis.internal" {
		t.Fatalf("got %+v", got)
	}
}
