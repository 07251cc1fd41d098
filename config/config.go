// Package config loads solver, bootstrap and logging settings from a file
// and MOCURVE_* environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/meenmo/mocurve/bootstrap"
	"github.com/meenmo/mocurve/curve"
	"github.com/meenmo/mocurve/extrapolate"
	"github.com/meenmo/mocurve/internal/logger"
	"github.com/meenmo/mocurve/solver"
)

// EnvPrefix prefixes environment overrides, e.g. MOCURVE_SOLVER_TOLERANCE.
const EnvPrefix = "MOCURVE"

// Config holds solver and curve construction parameters.
type Config struct {
	Solver    Solver    `mapstructure:"solver"`
	Bootstrap Bootstrap `mapstructure:"bootstrap"`
	Log       Log       `mapstructure:"log"`
}

// Solver configures the per-pillar root finders.
type Solver struct {
	// Tolerance is the absolute residual at which Newton and Brent stop.
	Tolerance float64 `mapstructure:"tolerance"`
	// MaxIterations bounds each root search.
	MaxIterations int `mapstructure:"max_iterations"`
}

// Bootstrap configures the global bootstrapper.
type Bootstrap struct {
	// Interpolation is one of linear, log-linear, cubic-spline,
	// monotone-cubic or akima.
	Interpolation string `mapstructure:"interpolation"`

	// MaxIterations is the maximum number of global sweeps.
	MaxIterations int `mapstructure:"max_iterations"`

	// Tolerance bounds the sum of squared repricing residuals.
	Tolerance float64 `mapstructure:"tolerance"`

	// MinDiscountFactor is the floor for discount factors to prevent
	// numerical instability (division by near-zero).
	MinDiscountFactor float64 `mapstructure:"min_discount_factor"`
	MaxDiscountFactor float64 `mapstructure:"max_discount_factor"`

	DerivativeStep float64 `mapstructure:"derivative_step"`
	InitialRate    float64 `mapstructure:"initial_rate"`

	// UFR names a Smith-Wilson preset (EUR, GBP, USD, CHF); empty disables
	// long-end extrapolation.
	UFR string `mapstructure:"ufr"`
	// Horizon is the last tenor, in years, of an extrapolated curve.
	Horizon float64 `mapstructure:"horizon"`
}

// Log configures structured logging.
type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Default provides production-ready default values.
func Default() Config {
	b := bootstrap.DefaultConfig()
	s := solver.DefaultConfig()
	return Config{
		Solver: Solver{
			Tolerance:     s.Tolerance,
			MaxIterations: s.MaxIterations,
		},
		Bootstrap: Bootstrap{
			Interpolation:     b.Interpolation.String(),
			MaxIterations:     b.MaxIterations,
			Tolerance:         b.Tolerance,
			MinDiscountFactor: b.MinDiscountFactor,
			MaxDiscountFactor: b.MaxDiscountFactor,
			DerivativeStep:    b.DerivativeStep,
			InitialRate:       b.InitialRate,
			Horizon:           120,
		},
		Log: Log{Level: "info"},
	}
}

// Load reads the file at path, if any, over the defaults and applies
// MOCURVE_* environment overrides.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config file, %s", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return cfg, nil
}

// setDefaults registers every key so that environment overrides apply even
// without a config file.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("solver.tolerance", d.Solver.Tolerance)
	v.SetDefault("solver.max_iterations", d.Solver.MaxIterations)

	v.SetDefault("bootstrap.interpolation", d.Bootstrap.Interpolation)
	v.SetDefault("bootstrap.max_iterations", d.Bootstrap.MaxIterations)
	v.SetDefault("bootstrap.tolerance", d.Bootstrap.Tolerance)
	v.SetDefault("bootstrap.min_discount_factor", d.Bootstrap.MinDiscountFactor)
	v.SetDefault("bootstrap.max_discount_factor", d.Bootstrap.MaxDiscountFactor)
	v.SetDefault("bootstrap.derivative_step", d.Bootstrap.DerivativeStep)
	v.SetDefault("bootstrap.initial_rate", d.Bootstrap.InitialRate)
	v.SetDefault("bootstrap.ufr", d.Bootstrap.UFR)
	v.SetDefault("bootstrap.horizon", d.Bootstrap.Horizon)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.pretty", d.Log.Pretty)
}

// SolverConfig validates and converts the solver section.
func (c Config) SolverConfig() (solver.Config, error) {
	if !(c.Solver.Tolerance > 0) || c.Solver.MaxIterations <= 0 {
		return solver.Config{}, fmt.Errorf("config: solver tolerance and max_iterations must be positive")
	}
	return solver.NewConfig(c.Solver.Tolerance, c.Solver.MaxIterations), nil
}

// BootstrapConfig validates and converts the bootstrap section.
func (c Config) BootstrapConfig() (bootstrap.Config, error) {
	method, err := curve.ParseInterpolation(c.Bootstrap.Interpolation)
	if err != nil {
		return bootstrap.Config{}, fmt.Errorf("config: %w", err)
	}
	bc := bootstrap.Config{
		Interpolation:     method,
		MaxIterations:     c.Bootstrap.MaxIterations,
		Tolerance:         c.Bootstrap.Tolerance,
		MinDiscountFactor: c.Bootstrap.MinDiscountFactor,
		MaxDiscountFactor: c.Bootstrap.MaxDiscountFactor,
		DerivativeStep:    c.Bootstrap.DerivativeStep,
		InitialRate:       c.Bootstrap.InitialRate,
	}
	if err := bc.Validate(); err != nil {
		return bootstrap.Config{}, fmt.Errorf("config: %w", err)
	}
	return bc, nil
}

// Extrapolator returns the configured Smith-Wilson preset, or nil when none
// is set.
func (c Config) Extrapolator() (extrapolate.Extrapolator, error) {
	if strings.TrimSpace(c.Bootstrap.UFR) == "" {
		return nil, nil
	}
	sw, err := extrapolate.Preset(c.Bootstrap.UFR)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return sw, nil
}

// LoggerConfig converts the log section.
func (c Config) LoggerConfig() logger.Config {
	return logger.Config{Level: c.Log.Level, Pretty: c.Log.Pretty}
}
