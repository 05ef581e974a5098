package di

import "github.com/kbukum/iocboot/errors"

// Sentinel errors. Returned errors are decorated copies; match them with
// errors.Is, which compares codes.
var (
	ErrAlreadyBuilt       = errors.AlreadyBuilt()
	ErrProviderNotFound   = errors.NotRegistered("")
	ErrCircularDependency = errors.CircularDependency("")
	ErrInvalidBinding     = errors.InvalidBinding("invalid binding")
	ErrConstructionFailed = errors.ConstructionFailed("", nil)
)

func notRegistered(contract string) error {
	return errors.NotRegistered(contract)
}

func invalid(contract, format string, args ...any) error {
	e := errors.InvalidBinding("").WithMessage(format, args...)
	if contract != "" {
		e = e.WithDetail("contract", contract)
	}
	return e
}
