// Command soracom is a small command line front end for the SORACOM API.
// Settings come from SORACOM_* environment variables and an optional .env file.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(DefaultIO()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
