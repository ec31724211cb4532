// Package configs provides embedded configuration templates for bufwords.
//
// Templates are embedded at build time with //go:embed so they ship in
// every distribution (go install, binary releases). 'bufwords config init'
// writes the user template to ~/.config/bufwords/config.yaml.
package configs

import _ "embed"

// UserConfigTemplate is the template for user-level configuration.
// Created by `bufwords config init` at ~/.config/bufwords/config.yaml.
//
//go:embed user-config.example.yaml
var UserConfigTemplate string
