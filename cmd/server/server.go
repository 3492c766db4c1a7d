// Package main is the entry point of the bookstore server.
package main

import (
	"bookstore-server/internal"
)

func main() {
	internal.Init()
}
