// Package testutil provides testing infrastructure for iocboot applications.
//
// Components with test-only reset support plug into the component lifecycle
// and are stopped automatically when the test ends:
//
//	func TestMyFeature(t *testing.T) {
//	    testutil.T(t).Setup(myComponent)
//	}
//
// Container tests declare fixtures as modules and build a private
// bootstrapper from them:
//
//	b := testutil.Bootstrap(t, testutil.ModuleOf("App.Domain", greeterRegistrar{}))
//	g, err := ioc.CreateFrom[IGreeter](b)
//
// The bootstrapper instantiates declared Registrar and ResolverSetter types
// itself, so fixtures report what happened through a shared Journal rather
// than through their own fields.
package testutil
