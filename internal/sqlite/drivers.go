package sqlite

// sqliteDrivers maps Config.Driver values to registered database/sql names.
// Each driver file adds its entry unless its build tag (todos_no_modernc,
// todos_no_ncruces) excludes it. A configured driver missing from the map
// makes Attach fall back to the inert store.
var sqliteDrivers = map[string]string{}
