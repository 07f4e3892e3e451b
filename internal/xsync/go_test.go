package xsync

import (
	"errors"
	"testing"

	"github.com/Amila-Rukshan/envoy/websocket/internal/test/assert"
)

func TestGo(t *testing.T) {
	t.Parallel()

	exp := errors.New("frame lost")
	err := <-Go(func() error {
		return exp
	})
	assert.ErrorIs(t, exp, err)
}

func TestGoRecover(t *testing.T) {
	t.Parallel()

	errs := Go(func() error {
		panic("anmol")
	})

	err := <-errs
	assert.Contains(t, err, "anmol")
}
