package equity

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/domino14/dropbot/cache"
	"github.com/domino14/dropbot/config"
)

const weightsKeyPrefix = "weightsfile:"

func loadWeights(strategyPath, filename string) (Weights, error) {
	path := filename
	if !filepath.IsAbs(path) {
		path = filepath.Join(strategyPath, filename)
	}
	bts, err := os.ReadFile(path)
	if err != nil {
		return Weights{}, err
	}
	// Unset keys keep the default.
	w := DefaultWeights()
	if err := yaml.Unmarshal(bts, &w); err != nil {
		return Weights{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	log.Debug().Str("path", path).Str("weights", w.String()).Msg("loaded-weights")
	return w, nil
}

// WeightsCacheLoadFunc loads a weight profile. Keys look like
// weightsfile:<filename>.
func WeightsCacheLoadFunc(cfg *config.Config, key string) (any, error) {
	fn, ok := strings.CutPrefix(key, weightsKeyPrefix)
	if !ok {
		return nil, errors.New("weightscacheloadfunc - bad cache key: " + key)
	}
	if fn == "" {
		return nil, errors.New("cache key missing filename")
	}
	return loadWeights(cfg.GetString(config.ConfigStrategyParamsPath), fn)
}

// LoadWeights returns the weight profile named by the weights-file setting,
// or the weights in the config when no profile is set.
func LoadWeights(cfg *config.Config) (Weights, error) {
	fn := cfg.GetString(config.ConfigWeightsFile)
	if fn == "" {
		return WeightsFromConfig(cfg), nil
	}
	obj, err := cache.Load(cfg, weightsKeyPrefix+fn, WeightsCacheLoadFunc)
	if err != nil {
		return Weights{}, err
	}
	return obj.(Weights), nil
}

// NewCalculatorFromConfig builds the heuristic calculator the config asks for.
func NewCalculatorFromConfig(cfg *config.Config) (*HeuristicCalculator, error) {
	w, err := LoadWeights(cfg)
	if err != nil {
		return nil, err
	}
	return NewHeuristicCalculator(w), nil
}
