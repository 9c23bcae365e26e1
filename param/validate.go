package param

import (
	"cmp"
	"fmt"
	"regexp"
)

// Enum returns a validator accepting only the listed values. Used for
// parameters with a closed set of legal values, like serial baud rates.
func Enum[T comparable](allowed ...T) ValidatorFunc[T] {
	set := make(map[T]struct{}, len(allowed))
	for _, v := range allowed {
		set[v] = struct{}{}
	}
	return func(v T) error {
		if _, ok := set[v]; !ok {
			return fmt.Errorf("%v is not one of the allowed values %v", v, allowed)
		}
		return nil
	}
}

// Range returns a validator accepting values in [lo, hi].
func Range[T cmp.Ordered](lo, hi T) ValidatorFunc[T] {
	return func(v T) error {
		if v < lo || v > hi {
			return fmt.Errorf("%v outside range [%v, %v]", v, lo, hi)
		}
		return nil
	}
}

// Regex returns a validator for string parameters whose values must match the
// given pattern in full. The pattern is compiled at declaration time; a bad
// pattern is a programming error.
func Regex(pattern string) ValidatorFunc[string] {
	re := regexp.MustCompile(pattern)
	return func(v string) error {
		if !re.MatchString(v) {
			return fmt.Errorf("%q does not match %q", v, pattern)
		}
		return nil
	}
}
