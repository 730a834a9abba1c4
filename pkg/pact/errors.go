package pact

import "github.com/gopact/gopact/pkg/pacterr"

func errMultipleProviderStatesBelowV3(version SpecVersion) error {
	return pacterr.SpecViolation("multiple provider states require spec version 3, interaction targets %s", version)
}

func errRequestNotSet(description string) error {
	return pacterr.SpecViolation("WillRespondWith called before WithRequest for interaction %q", description)
}
