// Package providerstate puts the provider into the state an interaction's
// "given" clause declares before the Verifier Loop replays its request.
package providerstate
