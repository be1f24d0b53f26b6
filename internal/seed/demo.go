package seed

import (
	_ "embed"
)

//go:embed demo.yaml
var demoFixture []byte

// Demo returns the built-in demo workspace
func Demo() (*Fixture, error) {
	return ParseFixture(demoFixture)
}
