// Command theramuse is the CLI surface over the recommendation engine.
// The run subcommand speaks the JSON pipe contract used by hosting
// applications; the remaining subcommands wrap the same actions behind
// flags for interactive use.
package main
