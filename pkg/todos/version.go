// Package todos holds build metadata for the todos binary.
package todos

// Version is the release version, overridden at build time with
// -ldflags "-X github.com/mesh-intelligence/todos/pkg/todos.Version=...".
var Version = "0.1.0"

// ModulePath is the Go module path.
const ModulePath = "github.com/mesh-intelligence/todos"
