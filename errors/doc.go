// Package errors provides the unified error type used across iocboot.
//
// Every failure the bootstrap, the container and the repository layer can
// report is an *AppError carrying a machine-readable ErrorCode. Sentinels such
// as ioc.ErrNotInitialized are AppErrors too, and AppError.Is matches on the
// code, so detailed copies still satisfy errors.Is:
//
//	if errors.Is(err, ioc.ErrNotInitialized) { ... }
package errors
