// Package rules holds the flat rule-table representation that both the rule
// compiler (walking a matcher-decorated expected value) and the rule engine
// (comparing an expected value to an actual one) share, plus the compiler
// itself.
package rules
