package main

import (
	"flag"
	"fmt"
)

type versionCmd struct{ root *root }

func (v *versionCmd) Program() string { return subProgram(v.root, "version") }

func (v *versionCmd) FlagSet() *flag.FlagSet { return nil }

func (v *versionCmd) Run() error {
	fmt.Fprintf(v.root.out(), "%s version %s\n", v.root.program, version)
	if commit != "" {
		fmt.Fprintf(v.root.out(), "commit %s\n", commit)
	}
	if date != "" {
		fmt.Fprintf(v.root.out(), "built %s\n", date)
	}
	return nil
}
