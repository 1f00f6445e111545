// Package config loads and merges commitgate configuration from multiple
// sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (COMMITGATE_TYPES, COMMITGATE_WARN_ON_FAIL, etc.)
//  3. Config file: the nearest .commitgate.yaml above the working directory,
//     else $XDG_CONFIG_HOME/commitgate/config.yaml
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config] and [Config.Lint] to compile it into
// validator rules.
package config
