// Package config defines the settings shared by the hook server and the
// notify CLI and provides helpers to load, validate and save them as YAML.
//
// The notification endpoint itself is fixed and deliberately absent here.
package config
