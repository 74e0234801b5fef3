// Package config loads framework configuration from environment variables.
//
// Load fills a tagged struct from the process environment, reading an
// optional .env file first. The Runtime struct covers the framework's own
// knobs; host applications define their own structs for theirs.
//
//	var cfg config.Runtime
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
package config
