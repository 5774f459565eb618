package substitutor

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/errgo.v1"
)

//go:generate mockgen -destination=mocks/environment_gen.go -package=mock github.com/ritvikPuranik/email-trading-bot/substitutor Environment

// Environment resolves placeholder names to values.
type Environment interface {
	// Lookup returns the value bound to name and whether it is set at all.
	Lookup(name string) (string, bool)
}

// OSEnvironment reads the process environment.
type OSEnvironment struct{}

// Lookup implements Environment.
func (OSEnvironment) Lookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// MapEnvironment is a fixed set of variables.
type MapEnvironment map[string]string

// Lookup implements Environment.
func (m MapEnvironment) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// LoadEnvironment copies variables from the given .env files into the
// process environment. Variables that are already set are left alone, so
// calling it more than once has no further effect. Files that do not exist
// are skipped.
func LoadEnvironment(paths ...string) error {
	for _, path := range paths {
		err := godotenv.Load(path)
		if err == nil {
			continue
		}
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return errgo.NoteMask(err, "cannot load environment file "+path, errgo.Any)
	}
	return nil
}
