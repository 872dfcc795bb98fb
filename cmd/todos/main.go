// Command todos is a minimal to-do list backed by a local SQLite database.
package main

import "github.com/mesh-intelligence/todos/internal/cli"

func main() {
	cli.Execute()
}
