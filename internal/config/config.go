package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Addr        string
	RPCEndpoint string
	LogLevel    string
	LogFormat   string

	// MaxPoolTokens caps the number of reserves accepted per request.
	MaxPoolTokens int
	// DefaultFeeBps and DefaultAmplification apply when a request omits them.
	DefaultFeeBps        uint16
	DefaultAmplification uint64
}

// FromEnv reads the configuration from the environment. ETH_RPC_URL is
// optional; without it on-chain estimates are disabled.
func FromEnv() (*Config, error) {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":1337"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	logFormat := strings.ToLower(os.Getenv("LOG_FORMAT"))
	switch logFormat {
	case "":
		logFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidLogFormat, logFormat)
	}

	maxTokens, err := intFromEnv("MAX_POOL_TOKENS", 8)
	if err != nil {
		return nil, err
	}
	if maxTokens < 2 {
		return nil, fmt.Errorf("%w: MAX_POOL_TOKENS=%d", ErrInvalidValue, maxTokens)
	}

	feeBps, err := intFromEnv("DEFAULT_FEE_BPS", 30)
	if err != nil {
		return nil, err
	}
	if feeBps < 0 || feeBps > 10_000 {
		return nil, fmt.Errorf("%w: DEFAULT_FEE_BPS=%d", ErrInvalidValue, feeBps)
	}

	amp, err := intFromEnv("DEFAULT_AMPLIFICATION", 100)
	if err != nil {
		return nil, err
	}
	if amp < 1 {
		return nil, fmt.Errorf("%w: DEFAULT_AMPLIFICATION=%d", ErrInvalidValue, amp)
	}

	cfg := &Config{
		Addr:                 addr,
		RPCEndpoint:          os.Getenv("ETH_RPC_URL"),
		LogLevel:             logLevel,
		LogFormat:            logFormat,
		MaxPoolTokens:        maxTokens,
		DefaultFeeBps:        uint16(feeBps),
		DefaultAmplification: uint64(amp),
	}

	return cfg, nil
}

func intFromEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, raw)
	}
	return v, nil
}
