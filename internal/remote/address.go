// Package remote maps logical script coordinates to the addresses the
// fetcher consumes. A project is laid out as <root>/<group>/<script>/
// with one shared helpers module at <root>/common/helpers.<ext>.
package remote

import (
	"fmt"
	"strings"
)

const (
	// entryFile is the file each requested script is bundled from.
	entryFile = "download"
	// siblingFile is the same-family script file referenced by
	// ".script" imports.
	siblingFile = "script"
	// helpersPath locates the shared helpers module under the root.
	helpersPath = "common/helpers"
)

// Set holds the addresses one requested script's resolution consumes.
// It is computed once per script and never mutates; recursive
// resolution passes it down unchanged.
type Set struct {
	// Entry is the address of the script being bundled.
	Entry string
	// Sibling is the address of the same-family script file.
	Sibling string
	// Helpers is the address of the shared helpers module.
	Helpers string
	// Root is the project root prefix used to build adjacent addresses.
	Root string
	// Ext is the script file extension, including the leading dot.
	Ext string
}

// Describe builds the address set for one requested script.
func Describe(root, group, script, ext string) Set {
	return Set{
		Entry:   fmt.Sprintf("%s/%s/%s/%s%s", root, group, script, entryFile, ext),
		Sibling: fmt.Sprintf("%s/%s/%s/%s%s", root, group, script, siblingFile, ext),
		Helpers: fmt.Sprintf("%s/%s%s", root, helpersPath, ext),
		Root:    root,
		Ext:     ext,
	}
}

// Adjacent resolves a dotted import path to a cross-group address.
// The path must carry at least three segments (group, script, file);
// extra segments are ignored. The address depends only on the dotted
// path and the project root, never on the requesting script's own
// group or script.
func Adjacent(root, dotted, ext string) (string, bool) {
	parts := strings.Split(dotted, ".")
	if len(parts) < 3 {
		return "", false
	}
	group, script, file := parts[0], parts[1], parts[2]
	if group == "" || script == "" || file == "" {
		return "", false
	}
	return fmt.Sprintf("%s/%s/%s/%s%s", root, group, script, file, ext), true
}
