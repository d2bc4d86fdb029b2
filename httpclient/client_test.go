package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kbukum/speechturn/security"
)

func TestNewDefaults(t *testing.T) {
	c, err := New(Config{})
	if err != nil {
		t.Fatal(err)
	}
	if c.Timeout != 2*time.Minute {
		t.Fatalf("timeout = %v", c.Timeout)
	}
	tr := c.Transport.(*http.Transport)
	if tr.MaxIdleConnsPerHost != 16 || tr.TLSClientConfig != nil && tr.TLSClientConfig.InsecureSkipVerify {
		t.Fatalf("transport = %+v", tr)
	}
}

func TestNewWithTLSAndProxy(t *testing.T) {
	c, err := New(Config{
		ProxyURL: "http://proxy.internal:3128",
		TLS:      &security.TLSConfig{ServerName: "generativelanguage.googleapis.com"},
	})
	if err != nil {
		t.Fatal(err)
	}
	tr := c.Transport.(*http.Transport)
	if tr.TLSClientConfig.ServerName != "generativelanguage.googleapis.com" {
		t.Fatalf("tls = %+v", tr.TLSClientConfig)
	}
	req := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
	proxy, err := tr.Proxy(req)
	if err != nil || proxy.Host != "proxy.internal:3128" {
		t.Fatalf("proxy = %v, %v", proxy, err)
	}
}

func TestNewRejectsBadTLS(t *testing.T) {
	if _, err := New(Config{TLS: &security.TLSConfig{KeyFile: "k.pem"}}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestClientTalksToServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, err := New(Config{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	resp, err := c.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
