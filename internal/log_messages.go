package internal

import (
	"fmt"
	"os"
)

// This file contains helper functions for generating standardized log warnings/errors. These are
// written directly to os.Stderr instead of using the ldlog.Loggers API because they are for
// conditions where no configured client instance (and therefore no configured logger) exists.

// LogErrorNilPointerMethod prints a message to os.Stderr to indicate that the application tried to call
// a method on a nil pointer receiver.
func LogErrorNilPointerMethod(typeName string) {
	fmt.Fprintf(os.Stderr, "[Amplitude] ERROR: tried to call a method on a nil pointer of type *%s\n", typeName)
}

// LogErrorNotInitialized prints a message to os.Stderr to indicate that one of the deprecated
// package-level entry points was called before Initialize.
func LogErrorNotInitialized(methodName string) {
	fmt.Fprintf(os.Stderr, "[Amplitude] ERROR: %s was called before Initialize\n", methodName)
}
