// Command ormtour runs a guided tour of object-relational mapping in Go.
package main

import "github.com/leapstack-labs/ormtour/internal/cli"

func main() {
	cli.Execute()
}
