//go:build tools

package main

// Pins the swag CLI used to regenerate the swagger docs.
import (
	_ "github.com/swaggo/swag/cmd/swag"
)
