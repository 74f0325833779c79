package cbmpi

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WitnessPolicy selects how primality witnesses are chosen.
type WitnessPolicy string

const (
	// WitnessRandom draws every witness from the injected random source.
	WitnessRandom WitnessPolicy = "random"
	// WitnessSequential uses 2, 3, 4, ... and exists to reproduce legacy
	// test vectors. It is weaker against adversarially chosen candidates.
	WitnessSequential WitnessPolicy = "sequential"
)

// DefaultPublicExponent is 65537 in the fixed-width hex form used by mpi.
const DefaultPublicExponent = "00010001"

// Config holds the tunables for prime and key generation. The zero value is
// not usable directly; call WithDefaults or start from DefaultConfig.
type Config struct {
	// PublicExponent is the RSA public exponent as hex text.
	PublicExponent string `json:"public_exponent"`

	// PrimeRounds is the number of strong-pseudoprime rounds a candidate must
	// survive before it is accepted.
	PrimeRounds int `json:"prime_rounds"`

	// Witnesses selects random or sequential witnesses.
	Witnesses WitnessPolicy `json:"witnesses"`

	// SieveWindow is the number of consecutive offsets sieved above each
	// random base.
	SieveWindow int `json:"sieve_window"`

	// MaxPrimeAttempts bounds the number of random bases drawn per prime.
	MaxPrimeAttempts int `json:"max_prime_attempts"`

	// MaxKeyAttempts bounds the number of (p, q) pairs tried per key.
	MaxKeyAttempts int `json:"max_key_attempts"`
}

// DefaultConfig returns the configuration used when callers supply none.
func DefaultConfig() Config {
	return Config{
		PublicExponent:   DefaultPublicExponent,
		PrimeRounds:      40,
		Witnesses:        WitnessRandom,
		SieveWindow:      4096,
		MaxPrimeAttempts: 4096,
		MaxKeyAttempts:   64,
	}
}

// WithDefaults returns c with every unset field replaced by its default.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.PublicExponent == "" {
		c.PublicExponent = d.PublicExponent
	}
	if c.PrimeRounds == 0 {
		c.PrimeRounds = d.PrimeRounds
	}
	if c.Witnesses == "" {
		c.Witnesses = d.Witnesses
	}
	if c.SieveWindow == 0 {
		c.SieveWindow = d.SieveWindow
	}
	if c.MaxPrimeAttempts == 0 {
		c.MaxPrimeAttempts = d.MaxPrimeAttempts
	}
	if c.MaxKeyAttempts == 0 {
		c.MaxKeyAttempts = d.MaxKeyAttempts
	}
	return c
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	const op = "Config.Validate"
	if c.PublicExponent == "" {
		return Errorf(KindInvalidArgument, op, "public_exponent is required")
	}
	if c.PrimeRounds < 1 {
		return Errorf(KindInvalidArgument, op, "prime_rounds must be positive, got %d", c.PrimeRounds)
	}
	switch c.Witnesses {
	case WitnessRandom, WitnessSequential:
	default:
		return Errorf(KindInvalidArgument, op, "unknown witness policy %q", c.Witnesses)
	}
	if c.SieveWindow < 2 {
		return Errorf(KindInvalidArgument, op, "sieve_window must be at least 2, got %d", c.SieveWindow)
	}
	if c.MaxPrimeAttempts < 1 {
		return Errorf(KindInvalidArgument, op, "max_prime_attempts must be positive, got %d", c.MaxPrimeAttempts)
	}
	if c.MaxKeyAttempts < 1 {
		return Errorf(KindInvalidArgument, op, "max_key_attempts must be positive, got %d", c.MaxKeyAttempts)
	}
	return nil
}

// LoadConfig reads a JSON configuration file. Missing fields take their
// defaults and the result is validated.
func LoadConfig(path string) (Config, error) {
	absPath, err := SecurePath(path)
	if err != nil {
		return Config{}, Wrap(KindInvalidArgument, "LoadConfig", err)
	}
	data, err := os.ReadFile(absPath) // #nosec G304 -- absPath validated by SecurePath
	if err != nil {
		return Config{}, Wrap(KindInvalidArgument, "LoadConfig", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, Wrap(KindParse, "LoadConfig", err)
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SecurePath validates that a file path doesn't escape the working directory.
func SecurePath(path string) (string, error) {
	clean := filepath.Clean(path)
	absPath, err := filepath.Abs(clean)
	if err != nil {
		return "", fmt.Errorf("absolute path: %w", err)
	}
	base, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	rel, err := filepath.Rel(base, absPath)
	if err != nil {
		return "", fmt.Errorf("relative path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("path %q escapes working directory", path)
	}
	return absPath, nil
}
