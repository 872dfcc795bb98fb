// Package types defines the Store and ItemTable interfaces, the Item entity,
// backend configuration, and the standard errors for the todos storage layer.
//
// Implementations live in internal/sqlite; callers depend only on this package.
package types
