// Package config loads voxalign settings.
//
// Settings come from a YAML file (voxalign.yml, config.yml or an explicit
// --config path), an optional .env file, and VOXALIGN_ environment
// variables, in increasing order of precedence:
//
//	settings, err := config.Load(config.WithConfigFile("voxalign.yml"))
//
// Environment variables are matched against the settings keys, so
// VOXALIGN_ALIGNMENT_OVERLAP_WEIGHT sets alignment.overlap_weight and
// VOXALIGN_ASSIGNMENTS_0=Ann assigns mic 1 to Ann.
package config
