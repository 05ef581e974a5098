// Package module is the manifest that stands in for assembly scanning.
//
// Packages that contribute Registrars or ResolverSetters declare their
// capability-bearing types from init, using typed nil pointers as prototypes:
//
//	func init() {
//		module.Declare(module.Self(), (*Registrar)(nil), (*Resolver)(nil))
//	}
//
// At bootstrap a Source enumerates the declared modules (every module in the
// process, or only those referenced by the running application), and a Filter
// drops framework and vendor modules by name before any type is inspected.
package module
