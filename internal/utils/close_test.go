package utils

import (
	"errors"
	"testing"

	"github.com/MrSnakeDoc/harunode/internal/logger"
)

type closer struct {
	err    error
	closed int
}

func (c *closer) Close() error {
	c.closed++
	return c.err
}

func TestClose(t *testing.T) {
	for _, err := range []error{nil, errors.New("boom")} {
		c := &closer{err: err}
		Close(c)
		CloseLogged(c, logger.Nop(), "test")
		if c.closed != 2 {
			t.Errorf("closed %d times, want 2", c.closed)
		}
	}
}
