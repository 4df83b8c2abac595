package generator

import (
	"github.com/felicity-egtb/felicity/pkg/capability"
	"github.com/felicity-egtb/felicity/pkg/egtb/ferr"
	"github.com/felicity-egtb/felicity/pkg/egtb/material"
)

func errMissingSubTable(sig material.Signature, m capability.Move) error {
	return ferr.New(ferr.MissingSubTablebase, "move %v from material %q reaches a sub-table that was not built yet", m, sig.Name())
}
