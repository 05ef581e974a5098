// Package testutil provides an in-memory sqlite database for tests and
// fixture helpers for loading and checking table contents.
//
//	db := testutil.Open(t, &Greeting{})
//	testutil.MustLoadFixture(t, db.GormDB, "greetings", []map[string]any{
//	    {"id": uuid.NewString(), "name": "alice"},
//	})
//	testutil.AssertRowCount(t, db.GormDB, "greetings", 1)
//
// Component implements testutil.TestComponent, so Reset clears every table
// between cases while keeping the schema.
package testutil
