//go:build !ios && !android && (amd64 || arm64)

// Package cpython handles loading the CPython shared library and registering
// the C-API function bindings using purego.
//
// Only the function forms of the C API are bound (Py_IncRef rather than the
// Py_INCREF macro). Where a needed check only exists as a macro
// (Py_REFCNT, PyList_Check), the closest callable equivalent is used
// instead: the refcount is read straight from the object header, and list
// membership is probed with PyList_Size followed by PyErr_Clear.
package cpython

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/shlublu/shlublu-go/internal/platform"
)

// ErrNotLoaded is returned when CPython functions are called before Load().
var ErrNotLoaded = errors.New("cpython: libpython not loaded; call python.Init() first")

// ErrLibraryNotFound is returned when no libpython shared library can be found.
var ErrLibraryNotFound = errors.New("cpython: libpython shared library not found")

// EnvLibraryPath names the environment variable that, when set, points at the
// exact libpython shared library file to load, bypassing the search paths.
const EnvLibraryPath = "SHLUBLU_PYTHON_LIB"

var (
	libPython uintptr

	loaded   bool
	loadOnce sync.Once
	loadErr  error
)

// Function bindings - registered when Load() is called.
var (
	pyDecodeLocale          func(arg string, size uintptr) uintptr
	pyMemRawFree            func(p uintptr)
	pySetProgramName        func(name uintptr)
	pyInitializeEx          func(initsigs int32)
	pyIsInitialized         func() int32
	pyFinalizeEx            func() int32
	pyGetVersion            func() string
	pyRunSimpleString       func(command string) int32
	pyUnicodeDecodeFSDflt   func(s string) uintptr
	pyImportImport          func(name uintptr) uintptr
	pyObjectGetAttrString   func(o uintptr, attr string) uintptr
	pyCallableCheck         func(o uintptr) int32
	pyObjectCallObject      func(callable, args uintptr) uintptr
	pyObjectLength          func(o uintptr) int64
	pyTupleNew              func(length int64) uintptr
	pyTupleSetItem          func(t uintptr, pos int64, o uintptr) int32
	pyListNew               func(length int64) uintptr
	pyListSize              func(o uintptr) int64
	pyListAppend            func(l, item uintptr) int32
	pyUnicodeFromString     func(s string) uintptr
	pyUnicodeAsUTF8AndSize  func(o uintptr, size *int64) uintptr
	pyLongFromLongLong      func(v int64) uintptr
	pyLongAsLongLong        func(o uintptr) int64
	pyFloatFromDouble       func(v float64) uintptr
	pyFloatAsDouble         func(o uintptr) float64
	pyIncRef                func(o uintptr)
	pyDecRef                func(o uintptr)
	pyErrOccurred           func() uintptr
	pyErrPrint              func()
	pyErrClear              func()
)

// IsLoaded returns true if libpython has been successfully loaded.
func IsLoaded() bool {
	return loaded
}

// Load loads libpython and registers all function bindings.
// It is safe to call multiple times; subsequent calls are no-ops.
// Returns an error if no suitable library can be found or loaded.
func Load() error {
	loadOnce.Do(func() {
		loadErr = doLoad()
		if loadErr == nil {
			loaded = true
		}
	})
	return loadErr
}

func doLoad() error {
	lib, err := findAndOpen()
	if err != nil {
		return err
	}
	libPython = lib

	purego.RegisterLibFunc(&pyDecodeLocale, lib, "Py_DecodeLocale")
	purego.RegisterLibFunc(&pyMemRawFree, lib, "PyMem_RawFree")
	purego.RegisterLibFunc(&pySetProgramName, lib, "Py_SetProgramName")
	purego.RegisterLibFunc(&pyInitializeEx, lib, "Py_InitializeEx")
	purego.RegisterLibFunc(&pyIsInitialized, lib, "Py_IsInitialized")
	purego.RegisterLibFunc(&pyFinalizeEx, lib, "Py_FinalizeEx")
	purego.RegisterLibFunc(&pyGetVersion, lib, "Py_GetVersion")
	purego.RegisterLibFunc(&pyRunSimpleString, lib, "PyRun_SimpleString")
	purego.RegisterLibFunc(&pyUnicodeDecodeFSDflt, lib, "PyUnicode_DecodeFSDefault")
	purego.RegisterLibFunc(&pyImportImport, lib, "PyImport_Import")
	purego.RegisterLibFunc(&pyObjectGetAttrString, lib, "PyObject_GetAttrString")
	purego.RegisterLibFunc(&pyCallableCheck, lib, "PyCallable_Check")
	purego.RegisterLibFunc(&pyObjectCallObject, lib, "PyObject_CallObject")
	purego.RegisterLibFunc(&pyObjectLength, lib, "PyObject_Length")
	purego.RegisterLibFunc(&pyTupleNew, lib, "PyTuple_New")
	purego.RegisterLibFunc(&pyTupleSetItem, lib, "PyTuple_SetItem")
	purego.RegisterLibFunc(&pyListNew, lib, "PyList_New")
	purego.RegisterLibFunc(&pyListSize, lib, "PyList_Size")
	purego.RegisterLibFunc(&pyListAppend, lib, "PyList_Append")
	purego.RegisterLibFunc(&pyUnicodeFromString, lib, "PyUnicode_FromString")
	purego.RegisterLibFunc(&pyUnicodeAsUTF8AndSize, lib, "PyUnicode_AsUTF8AndSize")
	purego.RegisterLibFunc(&pyLongFromLongLong, lib, "PyLong_FromLongLong")
	purego.RegisterLibFunc(&pyLongAsLongLong, lib, "PyLong_AsLongLong")
	purego.RegisterLibFunc(&pyFloatFromDouble, lib, "PyFloat_FromDouble")
	purego.RegisterLibFunc(&pyFloatAsDouble, lib, "PyFloat_AsDouble")
	purego.RegisterLibFunc(&pyIncRef, lib, "Py_IncRef")
	purego.RegisterLibFunc(&pyDecRef, lib, "Py_DecRef")
	purego.RegisterLibFunc(&pyErrOccurred, lib, "PyErr_Occurred")
	purego.RegisterLibFunc(&pyErrPrint, lib, "PyErr_Print")
	purego.RegisterLibFunc(&pyErrClear, lib, "PyErr_Clear")

	return nil
}

func findAndOpen() (uintptr, error) {
	// Exact file from the environment wins.
	if path := os.Getenv(EnvLibraryPath); path != "" {
		lib, err := tryOpen(path)
		if err != nil {
			return 0, fmt.Errorf("cpython: opening %s from %s: %w", path, EnvLibraryPath, err)
		}
		return lib, nil
	}

	for _, searchPath := range LibrarySearchPaths() {
		for _, minor := range platform.MinorVersions {
			for _, libName := range platform.LibraryNames(minor) {
				lib, err := tryOpen(filepath.Join(searchPath, libName))
				if err == nil {
					return lib, nil
				}
			}
		}
		for _, libName := range platform.LibraryNames(0) {
			lib, err := tryOpen(filepath.Join(searchPath, libName))
			if err == nil {
				return lib, nil
			}
		}
	}

	// Bare names, letting the system loader find them.
	for _, minor := range platform.MinorVersions {
		for _, libName := range platform.LibraryNames(minor) {
			lib, err := tryOpen(libName)
			if err == nil {
				return lib, nil
			}
		}
	}
	for _, libName := range platform.LibraryNames(0) {
		lib, err := tryOpen(libName)
		if err == nil {
			return lib, nil
		}
	}

	return 0, ErrLibraryNotFound
}

// tryOpen attempts to open a library with RTLD_NOW | RTLD_GLOBAL.
// RTLD_GLOBAL is required: Python extension modules resolve interpreter
// symbols against the global namespace.
func tryOpen(path string) (uintptr, error) {
	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, err
	}
	return lib, nil
}

// FindLibrary searches for libpython and returns its full path.
// This is useful for diagnostics.
func FindLibrary() (string, error) {
	if path := os.Getenv(EnvLibraryPath); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	for _, searchPath := range LibrarySearchPaths() {
		for _, minor := range append(platform.MinorVersions, 0) {
			for _, libName := range platform.LibraryNames(minor) {
				fullPath := filepath.Join(searchPath, libName)
				if _, err := os.Stat(fullPath); err == nil {
					return fullPath, nil
				}
			}
		}
	}
	return "", ErrLibraryNotFound
}

// LibrarySearchPaths returns platform-specific library search paths.
func LibrarySearchPaths() []string {
	var paths []string

	switch runtime.GOOS {
	case "linux":
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		paths = append(paths,
			"/usr/lib/x86_64-linux-gnu",
			"/usr/lib/aarch64-linux-gnu",
			"/usr/local/lib",
			"/usr/lib",
			"/lib/x86_64-linux-gnu",
			"/lib",
		)

	case "darwin":
		if dyldPath := os.Getenv("DYLD_LIBRARY_PATH"); dyldPath != "" {
			paths = append(paths, filepath.SplitList(dyldPath)...)
		}
		paths = append(paths,
			"/opt/homebrew/lib",             // Apple Silicon
			"/usr/local/lib",                // Intel
			"/opt/homebrew/opt/python/libs", // Homebrew Python
			"/usr/local/opt/python/libs",
			"/Library/Frameworks/Python.framework/Versions/Current/lib",
		)

	case "windows":
		if winPath := os.Getenv("PATH"); winPath != "" {
			paths = append(paths, filepath.SplitList(winPath)...)
		}
		if exe, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Dir(exe))
		}

	case "freebsd":
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		paths = append(paths,
			"/usr/local/lib",
			"/usr/lib",
		)
	}

	return paths
}

// DecodeLocale decodes a locale-encoded string to a wchar_t buffer the
// interpreter can use as a program name. The result must be released with
// MemRawFree. Returns 0 on failure or when not loaded.
func DecodeLocale(s string) uintptr {
	if pyDecodeLocale == nil {
		return 0
	}
	return pyDecodeLocale(s, 0)
}

// MemRawFree releases memory obtained from the raw CPython allocator.
func MemRawFree(p uintptr) {
	if pyMemRawFree == nil || p == 0 {
		return
	}
	pyMemRawFree(p)
}

// SetProgramName sets the interpreter's program name from a decoded buffer.
func SetProgramName(w uintptr) {
	if pySetProgramName == nil {
		return
	}
	pySetProgramName(w)
}

// InitializeEx initializes the interpreter. initsigs false skips signal
// handler installation, which is what an embedding host wants.
func InitializeEx(initsigs bool) {
	if pyInitializeEx == nil {
		return
	}
	var flag int32
	if initsigs {
		flag = 1
	}
	pyInitializeEx(flag)
}

// IsInitialized reports whether the interpreter is initialized.
func IsInitialized() bool {
	return pyIsInitialized != nil && pyIsInitialized() != 0
}

// FinalizeEx finalizes the interpreter. Returns a negative value on error.
func FinalizeEx() int32 {
	if pyFinalizeEx == nil {
		return 0
	}
	return pyFinalizeEx()
}

// GetVersion returns the interpreter version string, or "" when not loaded.
func GetVersion() string {
	if pyGetVersion == nil {
		return ""
	}
	return pyGetVersion()
}

// RunSimpleString executes source code in the __main__ scope.
// Returns a negative value if the execution raised.
func RunSimpleString(src string) int32 {
	if pyRunSimpleString == nil {
		return -1
	}
	return pyRunSimpleString(src)
}

// UnicodeDecodeFSDefault builds a str object from a filesystem-encoded
// native string. New reference, or 0 on failure.
func UnicodeDecodeFSDefault(s string) uintptr {
	if pyUnicodeDecodeFSDflt == nil {
		return 0
	}
	return pyUnicodeDecodeFSDflt(s)
}

// ImportImport imports the module named by a str object. New reference,
// or 0 on failure.
func ImportImport(name uintptr) uintptr {
	if pyImportImport == nil {
		return 0
	}
	return pyImportImport(name)
}

// ObjectGetAttrString resolves an attribute by name. New reference,
// or 0 on failure.
func ObjectGetAttrString(o uintptr, name string) uintptr {
	if pyObjectGetAttrString == nil {
		return 0
	}
	return pyObjectGetAttrString(o, name)
}

// CallableCheck reports whether the object can be called.
func CallableCheck(o uintptr) bool {
	return pyCallableCheck != nil && pyCallableCheck(o) != 0
}

// ObjectCallObject calls a callable with an argument tuple (0 for no
// arguments). New reference to the result, or 0 on failure.
func ObjectCallObject(callable, args uintptr) uintptr {
	if pyObjectCallObject == nil {
		return 0
	}
	return pyObjectCallObject(callable, args)
}

// ObjectLength returns the length of a sized object, or -1 on failure.
func ObjectLength(o uintptr) int64 {
	if pyObjectLength == nil {
		return -1
	}
	return pyObjectLength(o)
}

// TupleNew creates a tuple of the given length. New reference, or 0 on failure.
func TupleNew(length int64) uintptr {
	if pyTupleNew == nil {
		return 0
	}
	return pyTupleNew(length)
}

// TupleSetItem stores an object at a tuple position. Steals the reference
// to o. Returns a negative value on failure.
func TupleSetItem(t uintptr, pos int64, o uintptr) int32 {
	if pyTupleSetItem == nil {
		return -1
	}
	return pyTupleSetItem(t, pos, o)
}

// ListNew creates a list of the given length. New reference, or 0 on failure.
func ListNew(length int64) uintptr {
	if pyListNew == nil {
		return 0
	}
	return pyListNew(length)
}

// ListSize returns the length of a list, or -1 with an interpreter error
// set when the object is not a list. PyList_Check is a macro; this is the
// callable probe for it - follow a negative result with ErrClear.
func ListSize(o uintptr) int64 {
	if pyListSize == nil {
		return -1
	}
	return pyListSize(o)
}

// ListAppend appends an item to a list. Does not steal the reference.
// Returns a negative value on failure.
func ListAppend(l, item uintptr) int32 {
	if pyListAppend == nil {
		return -1
	}
	return pyListAppend(l, item)
}

// UnicodeFromString builds a str object from UTF-8 text. New reference,
// or 0 on failure.
func UnicodeFromString(s string) uintptr {
	if pyUnicodeFromString == nil {
		return 0
	}
	return pyUnicodeFromString(s)
}

// UnicodeAsUTF8 returns the UTF-8 form of a str object. The second result
// is false with an interpreter error set when the object is not a str -
// follow it with ErrClear. The returned bytes are owned by the str object
// and are copied out before returning.
func UnicodeAsUTF8(o uintptr) (string, bool) {
	if pyUnicodeAsUTF8AndSize == nil {
		return "", false
	}
	var size int64
	data := pyUnicodeAsUTF8AndSize(o, &size)
	if data == 0 {
		return "", false
	}
	if size == 0 {
		return "", true
	}
	buf := unsafe.Slice((*byte)(unsafe.Pointer(data)), size)
	return string(buf), true
}

// LongFromInt64 builds an int object. New reference, or 0 on failure.
func LongFromInt64(v int64) uintptr {
	if pyLongFromLongLong == nil {
		return 0
	}
	return pyLongFromLongLong(v)
}

// LongAsInt64 converts an int object to an int64. A return of -1 may mean
// failure; check ErrOccurred to distinguish.
func LongAsInt64(o uintptr) int64 {
	if pyLongAsLongLong == nil {
		return -1
	}
	return pyLongAsLongLong(o)
}

// FloatFromFloat64 builds a float object. New reference, or 0 on failure.
func FloatFromFloat64(v float64) uintptr {
	if pyFloatFromDouble == nil {
		return 0
	}
	return pyFloatFromDouble(v)
}

// FloatAsFloat64 converts a float object to a float64. A return of -1.0
// may mean failure; check ErrOccurred to distinguish.
func FloatAsFloat64(o uintptr) float64 {
	if pyFloatAsDouble == nil {
		return -1
	}
	return pyFloatAsDouble(o)
}

// IncRef increments the reference count of an object.
func IncRef(o uintptr) {
	if pyIncRef == nil || o == 0 {
		return
	}
	pyIncRef(o)
}

// DecRef decrements the reference count of an object.
func DecRef(o uintptr) {
	if pyDecRef == nil || o == 0 {
		return
	}
	pyDecRef(o)
}

// RefCount reads ob_refcnt straight from the object header. Py_REFCNT is
// only available as a macro. Objects made immortal by the interpreter
// (small ints, interned strings on 3.12+) report a saturated count.
func RefCount(o uintptr) int64 {
	if o == 0 {
		return 0
	}
	return *(*int64)(unsafe.Pointer(o))
}

// ErrOccurred returns the currently raised exception type (borrowed
// reference), or 0 when none is set.
func ErrOccurred() uintptr {
	if pyErrOccurred == nil {
		return 0
	}
	return pyErrOccurred()
}

// ErrPrint prints the current exception traceback to stderr and clears it.
func ErrPrint() {
	if pyErrPrint == nil {
		return
	}
	pyErrPrint()
}

// ErrClear clears the current exception without printing it.
func ErrClear() {
	if pyErrClear == nil {
		return
	}
	pyErrClear()
}
