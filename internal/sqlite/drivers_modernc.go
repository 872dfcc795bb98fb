//go:build !todos_no_modernc

package sqlite

import (
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/todos/pkg/types"
)

func init() {
	sqliteDrivers[types.DriverModernc] = "sqlite"
}
