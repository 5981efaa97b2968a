package utils

import "bytes"

// binarySniffLen matches the prefix git inspects when deciding a blob is binary.
const binarySniffLen = 8000

// LooksBinary reports whether data holds a NUL byte in its first 8000 bytes.
func LooksBinary(data []byte) bool {
	if len(data) > binarySniffLen {
		data = data[:binarySniffLen]
	}
	return bytes.IndexByte(data, 0) >= 0
}
