// Command hash-generator prints the bcrypt hash for each password
// given on the command line. Useful for seeding development users
// directly in the database.
package main

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	args := os.Args[1:]
	cost := bcrypt.DefaultCost

	if len(args) > 1 {
		if c, err := strconv.Atoi(args[0]); err == nil && c >= bcrypt.MinCost && c <= bcrypt.MaxCost {
			cost = c
			args = args[1:]
		}
	}

	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: hash-generator [cost] password [password...]")
		os.Exit(2)
	}

	for _, password := range args {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error generating hash for %q: %v\n", password, err)
			continue
		}
		fmt.Printf("%s\n", hash)
	}
}
