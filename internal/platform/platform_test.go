//go:build !ios && !android && (amd64 || arm64)

package platform

import (
	"runtime"
	"testing"
)

func TestIs64Bit(t *testing.T) {
	// We only support 64-bit platforms
	if !Is64Bit {
		t.Error("Platform should be 64-bit")
	}
}

func TestLibraryExtension(t *testing.T) {
	switch runtime.GOOS {
	case "darwin":
		if LibraryExtension != ".dylib" {
			t.Errorf("expected .dylib, got %s", LibraryExtension)
		}
	case "windows":
		if LibraryExtension != ".dll" {
			t.Errorf("expected .dll, got %s", LibraryExtension)
		}
	default:
		if LibraryExtension != ".so" {
			t.Errorf("expected .so, got %s", LibraryExtension)
		}
	}
}

func TestLibraryPrefix(t *testing.T) {
	switch runtime.GOOS {
	case "windows":
		if LibraryPrefix != "" {
			t.Errorf("expected empty prefix on Windows, got %s", LibraryPrefix)
		}
	default:
		if LibraryPrefix != "lib" {
			t.Errorf("expected 'lib' prefix, got %s", LibraryPrefix)
		}
	}
}

func TestLibraryNames(t *testing.T) {
	tests := []struct {
		minor int
		goos  string
		want  []string
	}{
		{12, "linux", []string{"libpython3.12.so.1.0", "libpython3.12.so"}},
		{0, "linux", []string{"libpython3.so"}},
		{12, "darwin", []string{"libpython3.12.dylib"}},
		{0, "darwin", []string{"libpython3.dylib"}},
		{12, "windows", []string{"python312.dll"}},
		{0, "windows", []string{"python3.dll"}},
	}

	for _, tt := range tests {
		if runtime.GOOS != tt.goos {
			continue
		}
		got := LibraryNames(tt.minor)
		if len(got) != len(tt.want) {
			t.Fatalf("LibraryNames(%d) = %v, want %v", tt.minor, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("LibraryNames(%d)[%d] = %q, want %q", tt.minor, i, got[i], tt.want[i])
			}
		}
	}
}

func TestMinorVersionsDescending(t *testing.T) {
	for i := 1; i < len(MinorVersions); i++ {
		if MinorVersions[i] >= MinorVersions[i-1] {
			t.Errorf("MinorVersions not descending at index %d: %v", i, MinorVersions)
		}
	}
}
