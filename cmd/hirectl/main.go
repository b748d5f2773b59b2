// Command hirectl runs the question-generation pipeline locally and mints
// service tokens for the API.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
