//go:build !ios && !android && (amd64 || arm64)

// Package platform provides platform detection and shared-library naming
// for the CPython bindings. It determines how libpython is named on the
// current operating system and which minor versions to probe for.
package platform

import (
	"fmt"
	"runtime"
	"unsafe"
)

// Is64Bit indicates whether the platform is 64-bit.
// shlublu-go only supports 64-bit platforms due to purego limitations.
const Is64Bit = unsafe.Sizeof(uintptr(0)) == 8

// LibraryExtension is the file extension for shared libraries on this platform.
var LibraryExtension string

// LibraryPrefix is the prefix for shared library names on this platform.
var LibraryPrefix string

func init() {
	switch runtime.GOOS {
	case "darwin":
		LibraryExtension = ".dylib"
		LibraryPrefix = "lib"
	case "windows":
		LibraryExtension = ".dll"
		LibraryPrefix = ""
	default: // linux, freebsd, etc.
		LibraryExtension = ".so"
		LibraryPrefix = "lib"
	}
}

// MinorVersions lists the CPython 3.x minor versions probed for, most
// recent first. Zero means the unversioned library name.
var MinorVersions = []int{13, 12, 11, 10, 9, 8}

// LibraryNames returns the platform-specific candidate filenames for
// libpython at a given 3.x minor version, most specific first.
// If minor is 0, the unversioned library names are returned.
//
// Examples:
//   - Linux:   LibraryNames(12) -> ["libpython3.12.so.1.0", "libpython3.12.so"]
//   - macOS:   LibraryNames(12) -> ["libpython3.12.dylib"]
//   - Windows: LibraryNames(12) -> ["python312.dll"]
func LibraryNames(minor int) []string {
	switch runtime.GOOS {
	case "darwin":
		if minor > 0 {
			return []string{fmt.Sprintf("%spython3.%d%s", LibraryPrefix, minor, LibraryExtension)}
		}
		return []string{fmt.Sprintf("%spython3%s", LibraryPrefix, LibraryExtension)}
	case "windows":
		if minor > 0 {
			return []string{fmt.Sprintf("python3%d%s", minor, LibraryExtension)}
		}
		return []string{fmt.Sprintf("python3%s", LibraryExtension)}
	default: // linux, freebsd
		if minor > 0 {
			return []string{
				fmt.Sprintf("%spython3.%d%s.1.0", LibraryPrefix, minor, LibraryExtension),
				fmt.Sprintf("%spython3.%d%s", LibraryPrefix, minor, LibraryExtension),
			}
		}
		return []string{fmt.Sprintf("%spython3%s", LibraryPrefix, LibraryExtension)}
	}
}

// GOOS returns the current operating system.
func GOOS() string {
	return runtime.GOOS
}

// GOARCH returns the current architecture.
func GOARCH() string {
	return runtime.GOARCH
}
