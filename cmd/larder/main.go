// Command larder is the CLI front end for the larder storage engine.
package main

import "github.com/mesh-intelligence/larder/internal/cli"

func main() {
	cli.Execute()
}
