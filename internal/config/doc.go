// Package config loads the mddpart configuration.
//
// A configuration file is TOML or YAML, chosen by extension. Keys missing
// from the file keep their defaults; unknown keys are parse errors.
//
//	# mddpart.toml
//	[logging]
//	level = "debug"
//	format = "json"
//
//	[syntax]
//	readOnlyOpen = "{{"
//	readOnlyClose = "}}"
//
//	[partition]
//	checkInvariants = true
//
//	[watch]
//	debounce = "250ms"
//
// The command line layers flags and MDDPART_* environment variables over
// the file.
//
// # Error Handling
//
//   - *ParseError: The file could not be decoded; Line/Column when known
//   - *ValidationError: A value is out of range; matches ErrInvalidConfig
//   - ErrUnsupportedFormat: The extension has no decoder
package config
