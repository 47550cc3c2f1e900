package cmd

import (
	"io"

	"github.com/pterm/pterm"
	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/schema"
)

// reportError prints err, one line per independent failure, followed by
// any hints attached to it.
func reportError(w io.Writer, err error) {
	var ve *schema.ValidationError
	var multi errors.Multi
	switch {
	case errors.As(err, &ve):
		pterm.Error.WithWriter(w).Printfln("schema %s has %d violation(s)", ve.Source, len(ve.Violations))
		for _, v := range ve.Violations {
			pterm.Fprintln(w, "  "+v.String())
		}
	case errors.As(err, &multi):
		for _, e := range multi {
			pterm.Error.WithWriter(w).Println(e.Error())
		}
	default:
		pterm.Error.WithWriter(w).Println(err.Error())
	}

	seen := make(map[string]bool)
	for _, h := range errors.GetAllHints(err) {
		if !seen[h] {
			seen[h] = true
			pterm.Info.WithWriter(w).Println(h)
		}
	}
}
