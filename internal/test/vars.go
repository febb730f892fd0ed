package test

import (
	"fmt"
	"os"
	"strconv"
)

var (
	// TestSeed seeds the randomized property tests.
	TestSeed = getIntVar("CHUNKS_TEST_SEED", 23)
	// TestRounds is the number of randomized inputs per property test.
	TestRounds = getIntVar("CHUNKS_TEST_ROUNDS", 200)
)

func getIntVar(name string, defaultValue int) int {
	if e := os.Getenv(name); e != "" {
		v, err := strconv.Atoi(e)
		if err == nil {
			return v
		}
		fmt.Fprintf(os.Stderr, "invalid value for variable %q, using default\n", name)
	}

	return defaultValue
}
