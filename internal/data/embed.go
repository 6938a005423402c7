package data

import "embed"

// encounterFS carries the shipped encounter content so the binary needs no
// content directory at runtime.
//
//go:embed encounters/*.yaml
var encounterFS embed.FS
