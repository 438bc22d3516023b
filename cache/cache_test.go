package cache

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/dropbot/config"
)

func TestLoadOnce(t *testing.T) {
	is := is.New(t)
	CreateGlobalObjectCache()
	cfg := config.DefaultConfig()
	calls := 0
	f := func(cfg *config.Config, key string) (any, error) {
		calls++
		return key + "-value", nil
	}
	for i := 0; i < 3; i++ {
		obj, err := Load(cfg, "weightsfile:foo", f)
		is.NoErr(err)
		is.Equal(obj.(string), "weightsfile:foo-value")
	}
	is.Equal(calls, 1)
}

func TestFailedLoadNotCached(t *testing.T) {
	is := is.New(t)
	CreateGlobalObjectCache()
	cfg := config.DefaultConfig()
	calls := 0
	f := func(cfg *config.Config, key string) (any, error) {
		calls++
		return nil, errors.New("nope")
	}
	_, err := Load(cfg, "k", f)
	is.True(err != nil)
	_, err = Load(cfg, "k", f)
	is.True(err != nil)
	is.Equal(calls, 2)
}
