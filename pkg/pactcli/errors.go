package pactcli

import "errors"

// verificationFailedError marks a run that completed cleanly but found at
// least one failing interaction, so Execute can exit 1 rather than the
// generic operational-error exit code of 2.
type verificationFailedError struct{}

func (verificationFailedError) Error() string { return "one or more interactions failed verification" }

// errVerificationFailed is returned by the verify command's RunE when the
// run completed but Summary.Passed() is false.
var errVerificationFailed error = verificationFailedError{}

// exitCodeFor maps a command error to the process exit code: 0 is handled by
// cobra itself (nil error), 1 means "ran fine, but verification failed", and
// 2 means something operational (bad flags, can't reach the provider/broker,
// malformed pact file) stopped the run before it could even produce a
// result.
func exitCodeFor(err error) int {
	var verificationErr verificationFailedError
	if errors.As(err, &verificationErr) {
		return 1
	}
	return 2
}
