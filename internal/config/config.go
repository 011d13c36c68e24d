// Package config builds runtime configuration from the environment so main
// stays lean.
package config

import "os"

// Config captures everything the server needs at startup.
type Config struct {
	Addr         string
	RedisURL     string // empty selects the in-memory stores and pubsub
	AdminWallet  string // network authority wallet key
	IssuerWallet string // platform issuer used for KYC-driven issuance
	NetworkName  string
}

// FromEnv reads configuration from environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr:         os.Getenv("CREDENZA_ADDR"),
		RedisURL:     os.Getenv("REDIS_URL"),
		AdminWallet:  os.Getenv("CREDENZA_ADMIN_WALLET"),
		IssuerWallet: os.Getenv("CREDENZA_ISSUER_WALLET"),
		NetworkName:  os.Getenv("CREDENZA_NETWORK_NAME"),
	}
	if cfg.Addr == "" {
		cfg.Addr = ":9000"
	}
	if cfg.NetworkName == "" {
		cfg.NetworkName = "credenza-devnet"
	}
	return cfg
}
