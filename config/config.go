package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug                 = "debug"
	ConfigStrategyParamsPath    = "strategy-params-path"
	ConfigWeightsFile           = "weights-file"
	ConfigBoardRows             = "board-rows"
	ConfigBoardCols             = "board-cols"
	ConfigWeightAggregateHeight = "weight-aggregate-height"
	ConfigWeightCompleteLines   = "weight-complete-lines"
	ConfigWeightHoles           = "weight-holes"
	ConfigWeightBumpiness       = "weight-bumpiness"
	ConfigFillThreshold         = "fill-threshold"
	ConfigCellMargin            = "cell-margin"
	ConfigPollInterval          = "poll-interval"
	ConfigNatsURL               = "nats-url"
	ConfigBotChannel            = "bot-channel"
	ConfigDecisionLogPath       = "decision-log-path"
	ConfigCPUProfile            = "cpu-profile"
	ConfigAutoplaySeed          = "autoplay-seed"
	ConfigFile                  = "config-file"
)

type Config struct {
	*viper.Viper
	args []string
}

func newConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigStrategyParamsPath, "./data/strategy")
	c.SetDefault(ConfigWeightsFile, "")
	c.SetDefault(ConfigBoardRows, 20)
	c.SetDefault(ConfigBoardCols, 10)
	c.SetDefault(ConfigWeightAggregateHeight, -0.510066)
	c.SetDefault(ConfigWeightCompleteLines, 0.760666)
	c.SetDefault(ConfigWeightHoles, -0.35663)
	c.SetDefault(ConfigWeightBumpiness, -0.184483)
	c.SetDefault(ConfigFillThreshold, 100.0)
	c.SetDefault(ConfigCellMargin, 2)
	c.SetDefault(ConfigPollInterval, 200*time.Millisecond)
	c.SetDefault(ConfigNatsURL, "nats://localhost:4222")
	c.SetDefault(ConfigBotChannel, "dropbot.decide")
	c.SetDefault(ConfigDecisionLogPath, "")
	c.SetDefault(ConfigCPUProfile, "")
	c.SetDefault(ConfigAutoplaySeed, "")
	return c
}

// DefaultConfig returns a config with every setting at its default. Tests
// and library callers that do not parse a command line use this.
func DefaultConfig() *Config {
	return newConfig()
}

// Load reads settings from the command-line arguments, DROPBOT_ prefixed
// environment variables and, if given, a YAML config file. Flags win over
// the environment, which wins over the file. extraFlags lets a command
// register flags of its own on the same flag set.
func (c *Config) Load(args []string, extraFlags ...func(*pflag.FlagSet)) error {
	if c.Viper == nil {
		c.Viper = newConfig().Viper
	}
	fs := pflag.NewFlagSet("dropbot", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigStrategyParamsPath, "./data/strategy", "directory holding weight profiles")
	fs.String(ConfigWeightsFile, "", "weight profile to load from the strategy directory")
	fs.Int(ConfigBoardRows, 20, "number of rows on the play field")
	fs.Int(ConfigBoardCols, 10, "number of columns on the play field")
	fs.Float64(ConfigWeightAggregateHeight, -0.510066, "weight of the aggregate column height")
	fs.Float64(ConfigWeightCompleteLines, 0.760666, "weight of complete lines")
	fs.Float64(ConfigWeightHoles, -0.35663, "weight of holes")
	fs.Float64(ConfigWeightBumpiness, -0.184483, "weight of bumpiness")
	fs.Float64(ConfigFillThreshold, 100.0, "colour norm above which a captured cell counts as filled")
	fs.Int(ConfigCellMargin, 2, "pixels trimmed from each side of a captured cell")
	fs.Duration(ConfigPollInterval, 200*time.Millisecond, "time between worker cycles")
	fs.String(ConfigNatsURL, "nats://localhost:4222", "the NATS server URL")
	fs.String(ConfigBotChannel, "dropbot.decide", "the NATS subject the bot answers on")
	fs.String(ConfigDecisionLogPath, "", "sqlite file for the decision log; empty disables it")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	fs.String(ConfigAutoplaySeed, "", "seed for self-play piece generation")
	fs.String(ConfigFile, "", "optional YAML config file")
	for _, f := range extraFlags {
		f(fs)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.SetEnvPrefix("dropbot")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if cf := c.GetString(ConfigFile); cf != "" {
		c.SetConfigFile(cf)
		c.SetConfigType("yaml")
		if err := c.ReadInConfig(); err != nil {
			return err
		}
		log.Debug().Str("file", cf).Msg("read-config-file")
	}
	return nil
}

// Args returns the positional arguments left over after Load parsed the
// flags.
func (c *Config) Args() []string {
	return c.args
}

// AdjustRelativePaths makes relative data paths relative to basepath,
// normally the directory the executable lives in.
func (c *Config) AdjustRelativePaths(basepath string) {
	for _, key := range []string{ConfigStrategyParamsPath, ConfigDecisionLogPath} {
		p := c.GetString(key)
		if p == "" || filepath.IsAbs(p) {
			continue
		}
		c.Set(key, filepath.Join(basepath, p))
	}
}

// SanitizedSettings returns all settings without secrets, for logging.
func (c *Config) SanitizedSettings() map[string]any {
	all := c.AllSettings()
	out := make(map[string]any, len(all))
	for k, v := range all {
		if strings.Contains(k, "password") || strings.Contains(k, "token") {
			v = "********"
		}
		out[k] = v
	}
	if u, ok := out[ConfigNatsURL].(string); ok && strings.Contains(u, "@") {
		out[ConfigNatsURL] = u[:strings.Index(u, "://")+3] + "********" + u[strings.LastIndex(u, "@"):]
	}
	return out
}
