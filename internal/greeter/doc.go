// Package greeter is a small application built on the container.
//
// The package declares itself as a module from init. Its Registrar binds a
// Greeter backed by a repository of Greeting rows; its ResolverHook keeps the
// built container so Default can serve callers that were not constructed by
// it. Other modules may override any binding, as the locale module does for
// the Phrasebook.
package greeter
