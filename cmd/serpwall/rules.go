package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fwojciec/serpwall/yaml"
)

// Run executes the rules command.
func (c *RulesCmd) Run(deps *Dependencies) error {
	if !c.Table {
		return yaml.EncodeConfig(deps.Stdout, deps.Config)
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tSCOPE\tMODE\tPHRASES")
	for _, r := range deps.Config.Rules {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Category, r.Scope, r.Mode, strings.Join(r.Phrases, " | "))
	}
	return w.Flush()
}
