//go:build windows

package split

// defaultDelimiter is the platform line terminator.
const defaultDelimiter = "\r\n"
