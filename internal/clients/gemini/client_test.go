package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/MrSnakeDoc/harunode/internal/logger"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(context.Background(), Config{APIKey: "  "}, logger.Nop()); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("New() error = %v, want ErrNotConfigured", err)
	}
}
