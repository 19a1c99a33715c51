//go:build !ios && !android && (amd64 || arm64)

// Package python embeds the CPython interpreter and makes its C API's
// manual reference counting safe to drive from Go, without CGO.
//
// Foreign objects are never exposed as raw pointers. Every producing
// operation (Import, Object, Call, Tuple, List, FromString) returns a
// Handle and records it in an ownership registry: the library holds one
// interpreter reference per registered handle, released by
// ForgetArgument or at Shutdown. Operations that hand references over to
// the interpreter (building a tuple, appending to a list, calling) take
// an explicit RefPolicy instead of consuming silently: Transfer gives the
// operation the caller's owned reference, Retain keeps the caller's
// handle valid at the cost of a reference-count increment.
//
// All operations serialize on one process-wide re-entrant lock, matching
// the interpreter's own global-interpreter constraint. A caller can hold
// the lock across a group of related operations with
// BeginCriticalSection/EndCriticalSection.
//
// The interpreter lifecycle is Init -> operations -> Shutdown. Both ends
// are idempotent: repeated Init calls only append new sys.path entries,
// and Shutdown when not initialized is a no-op. Go has no process-exit
// hook, so hosts should defer Shutdown from main.
package python

import (
	"sync/atomic"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/shlublu/shlublu-go/concurrent"
	"github.com/shlublu/shlublu-go/internal/cpython"
)

// RefPolicy states what happens to the reference owned for an argument
// handle when an operation hands it over to the interpreter.
type RefPolicy int

const (
	// Transfer gives the operation the caller's owned reference: the
	// argument is unregistered and must not be reused.
	Transfer RefPolicy = iota

	// Retain keeps the caller's handle registered and valid; the
	// operation works on an extra reference-count increment instead.
	Retain
)

// CacheMode states whether Callable may serve its resolution cache.
type CacheMode int

const (
	// Cached serves the previously resolved callable when one is known.
	Cached CacheMode = iota

	// Reload re-resolves the callable, releasing the cached reference.
	// Needed after the underlying definition changed, at the price of an
	// attribute lookup.
	Reload
)

// Module names always available once initialized.
const (
	MainModule     = "__main__"
	BuiltinsModule = "builtins"
)

// lock serializes every operation of this package. Re-entrancy is
// required: operations call each other while holding it, and callers may
// nest critical sections around groups of related calls.
var lock = concurrent.NewMutexLock(false)

type bindingState struct {
	argv0     atomic.Uintptr // decoded program name; nonzero while initialized
	modules   map[string]Handle
	callables map[uintptr]map[string]Handle
	values    *HandleRegistry
}

var st = bindingState{
	modules:   make(map[string]Handle),
	callables: make(map[uintptr]map[string]Handle),
	values:    NewHandleRegistry(),
}

// grab acquires the lock and checks the interpreter is initialized,
// releasing again on failure.
func grab(op string) error {
	lock.Lock()
	if st.argv0.Load() == 0 {
		release()
		return notInitialized(op)
	}
	return nil
}

// release drops one lock level. The caller owns the lock, so this cannot
// fail.
func release() {
	_ = lock.Unlock()
}

// decRefChecked decrements the foreign reference count after verifying it
// is still positive. A non-positive count means a reference this library
// thought it owned is already gone.
func decRefChecked(ptr uintptr, op string) error {
	if cpython.RefCount(ptr) <= 0 {
		return &LogicError{Op: op, Message: "references count is already zero"}
	}
	cpython.DecRef(ptr)
	return nil
}

// IsInitialized reports whether the interpreter is initialized.
func IsInitialized() bool {
	return st.argv0.Load() != 0
}

// Init initializes the interpreter under the given program name and
// appends the given entries to sys.path. It is idempotent: once
// initialized, further calls only register path entries that are not
// present yet.
func Init(programName string, paths ...string) error {
	lock.Lock()
	defer release()

	if st.argv0.Load() == 0 {
		if err := cpython.Load(); err != nil {
			return err
		}

		argv0 := cpython.DecodeLocale(programName)
		if argv0 == 0 {
			return &ExecError{Op: "Init", Detail: "cannot decode program name '" + programName + "'"}
		}

		cpython.SetProgramName(argv0)
		cpython.InitializeEx(false)
		st.argv0.Store(argv0)

		if err := ExecuteProgram([]string{"import sys", "sys.path.append('.')"}); err != nil {
			return err
		}
		if _, err := Import(MainModule); err != nil {
			return err
		}
		if _, err := Import(BuiltinsModule); err != nil {
			return err
		}

		Logger().Info("python interpreter initialized",
			zap.String("program", programName),
			zap.String("version", cpython.GetVersion()))
	}

	for _, entry := range paths {
		if err := Execute("if '" + entry + "' not in sys.path:\n\tsys.path.append('" + entry + "')"); err != nil {
			return err
		}
	}

	return nil
}

// Shutdown releases every cached callable, every registered value handle
// and every cached module, then finalizes the interpreter. It is
// idempotent: calling it when not initialized is a no-op. Release
// failures are aggregated; finalization runs regardless.
func Shutdown() error {
	lock.Lock()
	defer release()

	if st.argv0.Load() == 0 {
		return nil
	}

	var errs error
	var callables, values, modules int

	for _, scoped := range st.callables {
		for _, h := range scoped {
			errs = multierr.Append(errs, decRefChecked(h.Ptr(), "Shutdown"))
			callables++
		}
	}
	clear(st.callables)

	st.values.Each(func(h Handle) {
		errs = multierr.Append(errs, decRefChecked(h.Ptr(), "Shutdown"))
		values++
	})
	st.values.Clear()

	for _, h := range st.modules {
		errs = multierr.Append(errs, decRefChecked(h.Ptr(), "Shutdown"))
		modules++
	}
	clear(st.modules)

	cpython.FinalizeEx()
	cpython.MemRawFree(st.argv0.Load())
	st.argv0.Store(0)

	Logger().Info("python interpreter shut down",
		zap.Int("callables", callables),
		zap.Int("values", values),
		zap.Int("modules", modules))

	return errs
}

// Execute hands one instruction to the interpreter for execution in the
// __main__ scope.
func Execute(instruction string) error {
	if err := grab("Execute"); err != nil {
		return err
	}
	defer release()

	if cpython.RunSimpleString(instruction+"\n") < 0 {
		return &ExecError{Op: "Execute", Detail: "instruction '" + instruction + "' caused an error"}
	}
	return nil
}

// ExecuteProgram executes instructions one by one, stopping at the first
// failure.
func ExecuteProgram(instructions []string) error {
	for _, instruction := range instructions {
		if err := Execute(instruction); err != nil {
			return err
		}
	}
	return nil
}

// Import imports a module and caches it. Importing an already imported
// module returns the cached handle, so repeated imports of the same name
// are the same handle.
func Import(moduleName string) (Handle, error) {
	if err := grab("Import"); err != nil {
		return Handle{}, err
	}
	defer release()

	return importLocked(moduleName)
}

func importLocked(moduleName string) (Handle, error) {
	if h, ok := st.modules[moduleName]; ok {
		return h, nil
	}

	nameObj := cpython.UnicodeDecodeFSDefault(moduleName)
	if nameObj == 0 {
		cpython.ErrClear()
		return Handle{}, &ExecError{Op: "Import", Detail: "cannot decode module name '" + moduleName + "'"}
	}

	mod := cpython.ImportImport(nameObj)
	if err := decRefChecked(nameObj, "Import"); err != nil {
		return Handle{}, err
	}
	if mod == 0 {
		cpython.ErrClear()
		return Handle{}, &ExecError{Op: "Import", Detail: "cannot import module '" + moduleName + "'"}
	}

	h := NewHandle(mod)
	st.modules[moduleName] = h
	Logger().Debug("module imported", zap.String("module", moduleName))
	return h, nil
}

// Module retrieves an already imported module from the cache. Unlike
// Import it never triggers an interpreter import.
func Module(moduleName string) (Handle, error) {
	if err := grab("Module"); err != nil {
		return Handle{}, err
	}
	defer release()

	return moduleLocked(moduleName)
}

func moduleLocked(moduleName string) (Handle, error) {
	h, ok := st.modules[moduleName]
	if !ok {
		return Handle{}, &LogicError{Op: "Module", Message: "cannot retrieve '" + moduleName + "' in imported modules"}
	}
	return h, nil
}

// Object resolves an attribute of a scope (a module or any object). The
// result is registered: the library owns one reference on it until
// ForgetArgument or Shutdown.
func Object(scope Handle, name string) (Handle, error) {
	if err := grab("Object"); err != nil {
		return Handle{}, err
	}
	defer release()

	return objectLocked(scope, name)
}

// ObjectInModule resolves an attribute of an already imported module.
func ObjectInModule(moduleName, name string) (Handle, error) {
	if err := grab("Object"); err != nil {
		return Handle{}, err
	}
	defer release()

	scope, err := moduleLocked(moduleName)
	if err != nil {
		return Handle{}, err
	}
	return objectLocked(scope, name)
}

func objectLocked(scope Handle, name string) (Handle, error) {
	ptr := cpython.ObjectGetAttrString(scope.Ptr(), name)
	if ptr == 0 {
		cpython.ErrClear()
		return Handle{}, &ExecError{Op: "Object", Detail: "cannot access object '" + name + "'"}
	}
	return st.values.Register(NewHandle(ptr))
}

// Callable resolves a callable attribute of a scope and caches the
// resolution per (scope, name). With Cached, a second call serves the
// identical handle. With Reload, the entry is re-resolved and the stale
// cached reference released; necessary after the underlying definition
// changed. Resolving a non-callable attribute is a usage error.
func Callable(scope Handle, name string, mode CacheMode) (Handle, error) {
	if err := grab("Callable"); err != nil {
		return Handle{}, err
	}
	defer release()

	return callableLocked(scope, name, mode)
}

// CallableInModule resolves a callable in an already imported module.
func CallableInModule(moduleName, name string, mode CacheMode) (Handle, error) {
	if err := grab("Callable"); err != nil {
		return Handle{}, err
	}
	defer release()

	scope, err := moduleLocked(moduleName)
	if err != nil {
		return Handle{}, err
	}
	return callableLocked(scope, name, mode)
}

func callableLocked(scope Handle, name string, mode CacheMode) (Handle, error) {
	scoped := st.callables[scope.Ptr()]
	if mode == Cached && scoped != nil {
		if h, ok := scoped[name]; ok {
			return h, nil
		}
	}

	ptr := cpython.ObjectGetAttrString(scope.Ptr(), name)
	if ptr == 0 {
		cpython.ErrClear()
		return Handle{}, &ExecError{Op: "Callable", Detail: "cannot access callable '" + name + "'"}
	}
	if !cpython.CallableCheck(ptr) {
		cpython.DecRef(ptr)
		return Handle{}, &LogicError{Op: "Callable", Message: "'" + name + "' is not callable"}
	}

	if scoped == nil {
		scoped = make(map[string]Handle)
		st.callables[scope.Ptr()] = scoped
	}
	if stale, ok := scoped[name]; ok {
		if err := decRefChecked(stale.Ptr(), "Callable"); err != nil {
			cpython.DecRef(ptr)
			return Handle{}, err
		}
	}

	h := NewHandle(ptr)
	scoped[name] = h
	return h, nil
}

// stealItem prepares one element for a reference-stealing container
// insert. Transfer hands over the library's owned reference, so the
// element leaves the registry if it was there. Retain bumps the foreign
// count so the steal consumes the extra reference instead.
func stealItem(item Handle, policy RefPolicy) {
	if policy == Retain {
		cpython.IncRef(item.Ptr())
		return
	}
	if st.values.IsRegistered(item) {
		_ = st.values.Unregister(item)
	}
}

// Tuple builds a tuple from the given elements. The tuple handle is
// registered; the elements are consumed or kept per policy.
func Tuple(items []Handle, policy RefPolicy) (Handle, error) {
	if err := grab("Tuple"); err != nil {
		return Handle{}, err
	}
	defer release()

	return tupleLocked(items, policy, "Tuple")
}

func tupleLocked(items []Handle, policy RefPolicy, op string) (Handle, error) {
	t := cpython.TupleNew(int64(len(items)))
	if t == 0 {
		cpython.ErrClear()
		return Handle{}, &ExecError{Op: op, Detail: "cannot create tuple"}
	}

	for i, item := range items {
		stealItem(item, policy)
		if cpython.TupleSetItem(t, int64(i), item.Ptr()) < 0 {
			cpython.ErrClear()
			cpython.DecRef(t)
			return Handle{}, &ExecError{Op: op, Detail: "cannot store tuple item"}
		}
	}

	return st.values.Register(NewHandle(t))
}

// Call invokes a callable with the given arguments. The argument tuple is
// built and released around the call; each argument is consumed or kept
// per policy. The result is a registered handle.
func Call(callable Handle, args []Handle, policy RefPolicy) (Handle, error) {
	if err := grab("Call"); err != nil {
		return Handle{}, err
	}
	defer release()

	var argsTuple Handle
	if len(args) > 0 {
		t, err := tupleLocked(args, policy, "Call")
		if err != nil {
			return Handle{}, err
		}
		argsTuple = t
	}

	ret := cpython.ObjectCallObject(callable.Ptr(), argsTuple.Ptr())

	var result Handle
	if ret != 0 {
		h, err := st.values.Register(NewHandle(ret))
		if err != nil {
			return Handle{}, err
		}
		result = h
	}

	var forgetErr error
	if !argsTuple.IsZero() {
		forgetErr = forgetLocked(argsTuple, "Call")
	}

	if ret == 0 {
		cpython.ErrPrint()
		return Handle{}, multierr.Append(
			&ExecError{Op: "Call", Detail: "the callable raised an error"},
			forgetErr,
		)
	}
	if forgetErr != nil {
		return result, forgetErr
	}
	return result, nil
}

// List builds a list from the given elements. The list handle is
// registered; the elements are consumed or kept per policy.
func List(items []Handle, policy RefPolicy) (Handle, error) {
	if err := grab("List"); err != nil {
		return Handle{}, err
	}
	defer release()

	l := cpython.ListNew(0)
	if l == 0 {
		cpython.ErrClear()
		return Handle{}, &ExecError{Op: "List", Detail: "cannot create list"}
	}

	h, err := st.values.Register(NewHandle(l))
	if err != nil {
		cpython.DecRef(l)
		return Handle{}, err
	}

	for _, item := range items {
		if err := addListLocked(h, item, policy); err != nil {
			return Handle{}, err
		}
	}
	return h, nil
}

// AddList appends an item to a list. The item is consumed or kept per
// policy. Appending to a non-list is a usage error.
func AddList(list, item Handle, policy RefPolicy) error {
	if err := grab("AddList"); err != nil {
		return err
	}
	defer release()

	return addListLocked(list, item, policy)
}

func addListLocked(list, item Handle, policy RefPolicy) error {
	if cpython.ListSize(list.Ptr()) < 0 {
		cpython.ErrClear()
		return &LogicError{Op: "AddList", Message: "trying to add an item to an object that is not a list"}
	}
	if cpython.ListAppend(list.Ptr(), item.Ptr()) < 0 {
		cpython.ErrClear()
		return &ExecError{Op: "AddList", Detail: "cannot append item to list"}
	}

	// Append took its own reference; Transfer drops the caller's.
	if policy == Transfer {
		if err := decRefChecked(item.Ptr(), "AddList"); err != nil {
			return err
		}
		if st.values.IsRegistered(item) {
			_ = st.values.Unregister(item)
		}
	}
	return nil
}

// FromString builds an interpreter str object from UTF-8 text. The
// result is a registered handle.
func FromString(s string) (Handle, error) {
	if err := grab("FromString"); err != nil {
		return Handle{}, err
	}
	defer release()

	ptr := cpython.UnicodeFromString(s)
	if ptr == 0 {
		cpython.ErrClear()
		return Handle{}, &ExecError{Op: "FromString", Detail: "cannot create str object"}
	}
	return st.values.Register(NewHandle(ptr))
}

// ToString converts an interpreter str object back to a Go string.
// Converting a non-str object is a usage error. Transfer releases the
// caller's reference to the argument once converted.
func ToString(h Handle, policy RefPolicy) (string, error) {
	if err := grab("ToString"); err != nil {
		return "", err
	}
	defer release()

	s, ok := cpython.UnicodeAsUTF8(h.Ptr())
	if !ok {
		cpython.ErrClear()
		return "", &LogicError{Op: "ToString", Message: "trying to convert an object that is not a unicode string"}
	}

	if policy == Transfer {
		if err := decRefChecked(h.Ptr(), "ToString"); err != nil {
			return "", err
		}
		if st.values.IsRegistered(h) {
			_ = st.values.Unregister(h)
		}
	}
	return s, nil
}

// KeepArgument creates a second registered handle on the same pointer,
// backed by its own reference-count increment, so the original stays
// valid for reuse after a Transfer hands one reference over. The argument
// must be registered.
func KeepArgument(h Handle) (Handle, error) {
	if err := grab("KeepArgument"); err != nil {
		return Handle{}, err
	}
	defer release()

	if !st.values.IsRegistered(h) {
		return Handle{}, &LogicError{Op: "KeepArgument", Message: "object id " + utoa(h.ID()) + " is not under control"}
	}

	cpython.IncRef(h.Ptr())
	return st.values.Register(NewHandle(h.Ptr()))
}

// ControlArgument adopts a foreign pointer obtained outside this package
// into the registry without touching its reference count. Adopting a
// pointer that is already controlled is a usage error.
func ControlArgument(ptr uintptr) (Handle, error) {
	if err := grab("ControlArgument"); err != nil {
		return Handle{}, err
	}
	defer release()

	if ptr == 0 {
		return Handle{}, &LogicError{Op: "ControlArgument", Message: "trying to take control of a null pointer"}
	}

	controlled := false
	st.values.Each(func(e Handle) {
		if e.Ptr() == ptr {
			controlled = true
		}
	})
	if controlled {
		return Handle{}, &LogicError{Op: "ControlArgument", Message: "trying to take control of an object that is already under control"}
	}

	return st.values.Register(NewHandle(ptr))
}

// ForgetArgument releases the library's reference on a registered handle
// and removes it from the registry. Forgetting a handle that is not under
// control, or whose foreign count is already non-positive, is an error
// that leaves the registry unchanged.
func ForgetArgument(h Handle) error {
	if err := grab("ForgetArgument"); err != nil {
		return err
	}
	defer release()

	return forgetLocked(h, "ForgetArgument")
}

func forgetLocked(h Handle, op string) error {
	if !st.values.IsRegistered(h) {
		return &LogicError{Op: op, Message: "object id " + utoa(h.ID()) + " is not under control"}
	}
	if err := decRefChecked(h.Ptr(), op); err != nil {
		return err
	}
	return st.values.Unregister(h)
}

// IsRegistered reports whether the handle is currently under control.
func IsRegistered(h Handle) (bool, error) {
	if err := grab("IsRegistered"); err != nil {
		return false, err
	}
	defer release()

	return st.values.IsRegistered(h), nil
}

// RegisteredCount returns the number of handles currently under control.
func RegisteredCount() (int, error) {
	if err := grab("RegisteredCount"); err != nil {
		return 0, err
	}
	defer release()

	return st.values.Len(), nil
}

// RefCount returns the foreign reference count of the handle's object.
// Mostly useful to verify reference-count discipline in tests.
func RefCount(h Handle) (int64, error) {
	if err := grab("RefCount"); err != nil {
		return 0, err
	}
	defer release()

	return cpython.RefCount(h.Ptr()), nil
}

// BeginCriticalSection takes the package lock until the matching
// EndCriticalSection, keeping other goroutines from interleaving
// operations in between. Sections nest.
func BeginCriticalSection() error {
	return grab("BeginCriticalSection")
}

// EndCriticalSection releases one level of the package lock. Calling it
// from a goroutine that does not own the lock is an error.
func EndCriticalSection() error {
	if err := lock.Unlock(); err != nil {
		return &LogicError{Op: "EndCriticalSection", Err: err}
	}
	return nil
}
