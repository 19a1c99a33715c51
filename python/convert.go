//go:build !ios && !android && (amd64 || arm64)

package python

import "github.com/shlublu/shlublu-go/internal/cpython"

// FromInt64 builds an interpreter int object. The result is a registered
// handle.
func FromInt64(v int64) (Handle, error) {
	if err := grab("FromInt64"); err != nil {
		return Handle{}, err
	}
	defer release()

	ptr := cpython.LongFromInt64(v)
	if ptr == 0 {
		cpython.ErrClear()
		return Handle{}, &ExecError{Op: "FromInt64", Detail: "cannot create int object"}
	}
	return st.values.Register(NewHandle(ptr))
}

// ToInt64 converts an interpreter int object to an int64. Converting a
// non-int object is a usage error. Transfer releases the caller's
// reference to the argument once converted.
func ToInt64(h Handle, policy RefPolicy) (int64, error) {
	if err := grab("ToInt64"); err != nil {
		return 0, err
	}
	defer release()

	v := cpython.LongAsInt64(h.Ptr())
	if v == -1 && cpython.ErrOccurred() != 0 {
		cpython.ErrClear()
		return 0, &LogicError{Op: "ToInt64", Message: "trying to convert an object that is not an int"}
	}

	if policy == Transfer {
		if err := decRefChecked(h.Ptr(), "ToInt64"); err != nil {
			return 0, err
		}
		if st.values.IsRegistered(h) {
			_ = st.values.Unregister(h)
		}
	}
	return v, nil
}

// FromFloat64 builds an interpreter float object. The result is a
// registered handle.
func FromFloat64(v float64) (Handle, error) {
	if err := grab("FromFloat64"); err != nil {
		return Handle{}, err
	}
	defer release()

	ptr := cpython.FloatFromFloat64(v)
	if ptr == 0 {
		cpython.ErrClear()
		return Handle{}, &ExecError{Op: "FromFloat64", Detail: "cannot create float object"}
	}
	return st.values.Register(NewHandle(ptr))
}

// ToFloat64 converts an interpreter float object to a float64. Converting
// an object with no float value is a usage error. Transfer releases the
// caller's reference to the argument once converted.
func ToFloat64(h Handle, policy RefPolicy) (float64, error) {
	if err := grab("ToFloat64"); err != nil {
		return 0, err
	}
	defer release()

	v := cpython.FloatAsFloat64(h.Ptr())
	if v == -1 && cpython.ErrOccurred() != 0 {
		cpython.ErrClear()
		return 0, &LogicError{Op: "ToFloat64", Message: "trying to convert an object that has no float value"}
	}

	if policy == Transfer {
		if err := decRefChecked(h.Ptr(), "ToFloat64"); err != nil {
			return 0, err
		}
		if st.values.IsRegistered(h) {
			_ = st.values.Unregister(h)
		}
	}
	return v, nil
}
