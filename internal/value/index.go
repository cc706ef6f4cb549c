package value

import "github.com/soc-lang/soc/internal/errors"

// ResolveIndex applies §4.5.5 negative-wrapping (-1 is the last element) and
// bounds-checks the result against length, returning a KindIndex error if it
// is out of range after wrapping.
func ResolveIndex(i, length int) (int, error) {
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return 0, errors.New(errors.KindIndex, "index out of range")
	}
	return i, nil
}

// ResolveSlice applies half-open slice bounds `lo:hi` with missing
// endpoints defaulting to 0 and length, per §4.5.5. lo/hi of nil mean
// "missing". The result is clamped into [0, length] rather than erroring,
// since slice endpoints are conventionally permissive.
func ResolveSlice(lo, hi *int, length int) (int, int) {
	l := 0
	if lo != nil {
		l = *lo
		if l < 0 {
			l += length
		}
	}
	h := length
	if hi != nil {
		h = *hi
		if h < 0 {
			h += length
		}
	}
	if l < 0 {
		l = 0
	}
	if l > length {
		l = length
	}
	if h < 0 {
		h = 0
	}
	if h > length {
		h = length
	}
	if h < l {
		h = l
	}
	return l, h
}
