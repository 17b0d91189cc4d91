package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/urfave/cli/v2"

	"github.com/TheusHen/herradura/herradura/scheme"
)

// Config is the optional TOML file given with --config. Flags win over it.
type Config struct {
	Bits     int            `toml:"bits"`
	Verbose  bool           `toml:"verbose"`
	JSONLogs bool           `toml:"json_logs"`
	Selftest SelftestConfig `toml:"selftest"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

type SelftestConfig struct {
	Rounds  int   `toml:"rounds"`
	Workers int   `toml:"workers"`
	Widths  []int `toml:"widths"`
	Seed    int64 `toml:"seed"`
}

type MetricsConfig struct {
	Listen string `toml:"listen"`
}

func defaultConfig() Config {
	return Config{Bits: scheme.DefaultBits, Selftest: SelftestConfig{Rounds: 16}}
}

func loadConfig(path string) (Config, error) {
	conf := defaultConfig()
	md, err := toml.DecodeFile(path, &conf)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return conf, nil
}

// contextToConfig merges the config file and the command line.
func contextToConfig(c *cli.Context) (Config, error) {
	conf := defaultConfig()
	if path := c.String(configFlag.Name); path != "" {
		var err error
		if conf, err = loadConfig(path); err != nil {
			return Config{}, err
		}
	}
	if c.IsSet(bitsFlag.Name) {
		conf.Bits = c.Int(bitsFlag.Name)
	}
	if c.IsSet(verboseFlag.Name) {
		conf.Verbose = c.Bool(verboseFlag.Name)
	}
	if c.IsSet(jsonLogsFlag.Name) {
		conf.JSONLogs = c.Bool(jsonLogsFlag.Name)
	}
	if c.IsSet(metricsFlag.Name) {
		conf.Metrics.Listen = c.String(metricsFlag.Name)
	}
	if c.IsSet(roundsFlag.Name) {
		conf.Selftest.Rounds = c.Int(roundsFlag.Name)
	}
	if c.IsSet(workersFlag.Name) {
		conf.Selftest.Workers = c.Int(workersFlag.Name)
	}
	if c.IsSet(widthsFlag.Name) {
		conf.Selftest.Widths = c.IntSlice(widthsFlag.Name)
	}
	if c.IsSet(seedFlag.Name) {
		conf.Selftest.Seed = c.Int64(seedFlag.Name)
	}
	if _, err := scheme.NewParams(conf.Bits); err != nil {
		return Config{}, err
	}
	return conf, nil
}
