package main

import (
	"testing"

	"github.com/seenimoa/cleanmind/internal/config"
)

func TestApplyServeFlags(t *testing.T) {
	tests := []struct {
		name        string
		gateway     string
		port        int
		wantErr     bool
		wantGateway string
	}{
		{"no override", "", 0, false, "http://127.0.0.1:8080/api/coingecko"},
		{"port moves derived gateway", "", 9090, false, "http://127.0.0.1:9090/api/coingecko"},
		{"explicit gateway kept", "http://gw.internal:7000/api/coingecko", 9090, false, "http://gw.internal:7000/api/coingecko"},
		{"out of range port rejected", "", 70000, true, ""},
		{"negative port rejected", "", -1, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := config.Default()
			c.Dashboard.GatewayURL = tt.gateway
			err := applyServeFlags(c, tt.port)
			if (err != nil) != tt.wantErr {
				t.Fatalf("applyServeFlags() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && c.GatewayURL() != tt.wantGateway {
				t.Errorf("GatewayURL() = %q, want %q", c.GatewayURL(), tt.wantGateway)
			}
		})
	}
}
