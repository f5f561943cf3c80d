//go:build !unix

package calendar

import "os"

// Advisory locks are unix only; elsewhere concurrent cache writers from
// different processes are not serialized.

func lockExclusive(*os.File) error { return nil }
func unlock(*os.File) error        { return nil }
