// Package module holds the composition helpers the api root uses to
// cross wire module ports
package module

import "liverkpi/internal/modkit"

// Module is the modkit contract, re-exported so composition code only
// imports this package
type Module = modkit.Module
