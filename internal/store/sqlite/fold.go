package sqlite

import (
	"database/sql/driver"

	"golang.org/x/text/cases"
	modsqlite "modernc.org/sqlite"
)

// foldFunc is the SQL name of the Unicode case-fold function. SQLite's own
// LIKE and lower() only fold ASCII.
const foldFunc = "pressroom_fold"

func init() {
	modsqlite.MustRegisterDeterministicScalarFunction(foldFunc, 1, foldSQL)
}

func foldSQL(_ *modsqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return fold(v), nil
	case []byte:
		return fold(string(v)), nil
	default:
		return v, nil
	}
}

// fold applies full Unicode case folding. A Caser holds state, so each call
// gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}
