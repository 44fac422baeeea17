// =============================================================================
// Register of Information Exporter - Main Entry Point
// =============================================================================
//
// Maps internal compliance records (vendors, contracts, functions,
// branches) onto the 15 ESA Register of Information templates, validates
// them, and emits DORA submissions as an xBRL-CSV package and/or an
// XBRL-XML instance document.
//
// All functionality lives in the cmd package and below; main only wires
// the CLI.
//
// =============================================================================

package main

import "github.com/regtechlabs/roi-exporter/cmd"

func main() {
	cmd.Execute()
}
