package utils

import (
	"net/http/httptest"
	"testing"
)

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"127.0.0.1/32", " ::1/128 ", "192.168.1.0/24", "10.0.0.7", "not-an-ip", ""})

	tests := []struct {
		ip   string
		want bool
	}{
		{ip: "127.0.0.1", want: true},
		{ip: "::ffff:127.0.0.1", want: true},
		{ip: "::1", want: true},
		{ip: "192.168.1.42", want: true},
		{ip: "192.168.2.1", want: false},
		{ip: "10.0.0.7", want: true},
		{ip: "10.0.0.8", want: false},
		{ip: "garbage", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			if got := m.Allow(tt.ip); got != tt.want {
				t.Errorf("Allow(%q) = %v, want %v", tt.ip, got, tt.want)
			}
		})
	}

	if !NewIPMatcher([]string{" ", "nope"}).IsEmpty() {
		t.Error("matcher with no valid rules should be empty")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remote     string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{name: "remote addr", remote: "127.0.0.1:5000", want: "127.0.0.1"},
		{name: "ipv6 remote", remote: "[::1]:5000", want: "::1"},
		{name: "headers ignored without trust", remote: "127.0.0.1:1", headers: map[string]string{"X-Forwarded-For": "8.8.8.8"}, want: "127.0.0.1"},
		{name: "left-most forwarded hop", remote: "127.0.0.1:1", headers: map[string]string{"X-Forwarded-For": "8.8.8.8, 10.0.0.1"}, trustProxy: true, want: "8.8.8.8"},
		{name: "cloudflare header first", remote: "127.0.0.1:1", headers: map[string]string{"CF-Connecting-IP": "1.1.1.1", "X-Real-IP": "9.9.9.9"}, trustProxy: true, want: "1.1.1.1"},
		{name: "bad header falls through", remote: "127.0.0.1:1", headers: map[string]string{"X-Forwarded-For": "unknown", "X-Real-IP": "9.9.9.9"}, trustProxy: true, want: "9.9.9.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
