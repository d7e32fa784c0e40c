// Package cli implements the mimic command line.
//
// Commands:
//
//	mimic serve     run the server
//	mimic catalog   print the catalog a tenant would receive
//	mimic plugins   list the configured plugins
//	mimic config    print the effective configuration
//	mimic version   print version information
package cli
