// Package config loads the settings of the planner binary from the environment.
//
// Values come from PLANNER_* environment variables, optionally supplemented by a
// dotenv file. Invalid values are reported together, each wrapped in ErrInvalidConfig.
//
// This package is part of the shell (infrastructure) layer.
package config
