package handlers

import (
	"hav-jeang-api/config"
	"hav-jeang-api/matching"
	"hav-jeang-api/pricing"
)

// Package-level collaborators, wired once at startup (and swapped for fakes
// in tests).
var (
	Cfg     *config.Config
	Pricer  *pricing.Calculator
	Matcher *matching.Matcher
)

// Init wires the handler package's collaborators.
func Init(cfg *config.Config, pricer *pricing.Calculator, matcher *matching.Matcher) {
	Cfg = cfg
	Pricer = pricer
	Matcher = matcher
}
