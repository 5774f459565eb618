package substitutor

import (
	"fmt"

	"gopkg.in/errgo.v1"
)

// MissingPolicy decides what an unset variable turns into.
type MissingPolicy string

const (
	// MissingEmpty replaces the placeholder with the empty string.
	MissingEmpty MissingPolicy = "empty"
	// MissingKeep leaves the ${NAME} token in place.
	MissingKeep MissingPolicy = "keep"
	// MissingError fails the run.
	MissingError MissingPolicy = "error"
)

var ErrMissingVariable = errgo.New("environment variable not set")

// ParseMissingPolicy parses one of "empty", "keep" or "error". The empty
// string yields MissingEmpty.
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch p := MissingPolicy(s); p {
	case "":
		return MissingEmpty, nil
	case MissingEmpty, MissingKeep, MissingError:
		return p, nil
	}
	return "", fmt.Errorf("invalid missing variable policy %q", s)
}

// resolve returns the replacement for name under the policy. The returned
// bool reports whether the variable was set.
func (p MissingPolicy) resolve(env Environment, name string) (string, bool, error) {
	if v, ok := env.Lookup(name); ok {
		return v, true, nil
	}
	switch p {
	case MissingKeep:
		return Token(name), false, nil
	case MissingError:
		return "", false, errgo.WithCausef(nil, ErrMissingVariable, "environment variable %q is not set", name)
	}
	return "", false, nil
}
