package stripe

import (
	"context"
	"testing"

	"github.com/brightloom/storefront-backend/pkg/config"
)

func TestNewClientValidatesKeyAgainstEnv(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.StripeConfig
		wantErr bool
	}{
		{name: "test env with test key", cfg: config.StripeConfig{APIKey: "sk_test_abc", WebhookSecret: "whsec_1", Env: "test"}},
		{name: "live env with live key", cfg: config.StripeConfig{APIKey: "sk_live_abc", WebhookSecret: "whsec_1", Env: "live"}},
		{name: "test env with live key", cfg: config.StripeConfig{APIKey: "sk_live_abc", WebhookSecret: "whsec_1", Env: "test"}, wantErr: true},
		{name: "missing api key", cfg: config.StripeConfig{WebhookSecret: "whsec_1", Env: "test"}, wantErr: true},
		{name: "missing webhook secret", cfg: config.StripeConfig{APIKey: "sk_test_abc", Env: "test"}, wantErr: true},
		{name: "unknown env", cfg: config.StripeConfig{APIKey: "sk_test_abc", WebhookSecret: "whsec_1", Env: "staging"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(context.Background(), tt.cfg, nil)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if client.SigningSecret() != "whsec_1" {
				t.Fatalf("unexpected signing secret %q", client.SigningSecret())
			}
			if client.API() == nil {
				t.Fatal("expected initialized api client")
			}
		})
	}
}
