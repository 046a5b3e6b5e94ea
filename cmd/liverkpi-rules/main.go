// Command liverkpi-rules validates a rule pack and an override file and
// prints the effective policy the API would load
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"liverkpi/internal/core/rulepack"
	"liverkpi/internal/platform/config"
)

func mustSetEnv(key, val string) {
	if val != "" {
		_ = os.Setenv(key, val)
	}
}

func must(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func main() {
	var (
		fPack  = flag.String("pack", "", "full rule pack replacing the embedded one")
		fRules = flag.String("rules", "", "override document merged on top of the pack")
		fNet   = flag.String("follower-net", "", "last_minus_first | sum_of_deltas")
		fQuiet = flag.Bool("q", false, "validate only, print nothing")
	)
	flag.Parse()

	// flags win over CORE_KPI_* already in the environment
	mustSetEnv("CORE_KPI_PACK_FILE", *fPack)
	mustSetEnv("CORE_KPI_RULES_FILE", *fRules)
	mustSetEnv("CORE_KPI_FOLLOWER_NET", *fNet)

	p, err := rulepack.FromConfig(config.New().Prefix("CORE_KPI_"))
	must(err)
	if *fQuiet {
		return
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	must(enc.Encode(p))
}
