//go:build !todos_no_ncruces

package sqlite

import (
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/mesh-intelligence/todos/pkg/types"
)

func init() {
	sqliteDrivers[types.DriverNcruces] = "sqlite3"
}
