// Package locale adds greetings in more languages. Its Registrar runs after
// the greeter's, since this package imports it, and replaces the Phrasebook.
package locale

import (
	"github.com/kbukum/iocboot/di"
	"github.com/kbukum/iocboot/internal/greeter"
	"github.com/kbukum/iocboot/module"
)

func init() {
	module.Declare(module.Self(), (*Registrar)(nil))
}

// Phrases holds the additional languages.
var Phrases = greeter.Phrases{
	"de": "Hallo, %s!",
	"es": "¡Hola, %s!",
	"fr": "Bonjour, %s !",
	"it": "Ciao, %s!",
	"tr": "Merhaba, %s!",
}

// Registrar overrides the Phrasebook with every known language.
type Registrar struct{}

func (*Registrar) Register(_ []module.Module, b *di.Builder) error {
	return di.BindInstance[greeter.Phrasebook](b, greeter.English.Merge(Phrases))
}
