// Command transpile translates programs with a language model, validating every
// candidate and retrying within a fixed budget.
package main

import "os"

func main() {
	os.Exit(Execute())
}
