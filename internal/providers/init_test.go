package providers

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/seenimoa/cleanmind/internal/config"
	"github.com/seenimoa/cleanmind/internal/provider"
)

func TestRegisterAllTo(t *testing.T) {
	reg := provider.NewRegistry()
	if err := RegisterAllTo(reg, config.Default(), zerolog.Nop()); err != nil {
		t.Fatalf("RegisterAllTo: %v", err)
	}

	cg, err := reg.Get("coingecko")
	if err != nil {
		t.Fatalf("coingecko not registered: %v", err)
	}
	if cg.Info().Name != "coingecko" {
		t.Error("wrong coingecko provider name")
	}
}

func TestRegisterAllToCoversEveryResource(t *testing.T) {
	reg := provider.NewRegistry()
	if err := RegisterAllTo(reg, config.Default(), zerolog.Nop()); err != nil {
		t.Fatalf("RegisterAllTo: %v", err)
	}

	coverage := reg.Coverage()
	for _, res := range provider.AllResources() {
		if names := coverage[res]; len(names) == 0 || names[0] != "coingecko" {
			t.Errorf("resource %s served by %v", res, names)
		}
	}
}
