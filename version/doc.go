// Package version reports build information for iocboot binaries: the
// ldflags-stamped release identifiers and the module graph the binary was
// linked with.
//
//	go build -ldflags "-X github.com/kbukum/iocboot/version.Version=1.0.0"
//
// BuildModules feeds hosted module discovery, which limits scanning to the
// main module and the dependencies actually referenced by the application.
package version
