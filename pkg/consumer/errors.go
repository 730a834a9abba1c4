package consumer

import "github.com/gopact/gopact/pkg/pacterr"

func duplicateDescriptionError(description string) error {
	return pacterr.RuleCompileError("interaction description %q already registered in this pact", description)
}
