package substitutor_test

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/ritvikPuranik/email-trading-bot/substitutor"
)

// unsetenv removes name for the duration of the test.
func unsetenv(c *qt.C, name string) {
	c.Setenv(name, "")
	os.Unsetenv(name)
}

func TestLoadEnvironment(t *testing.T) {
	c := qt.New(t)

	unsetenv(c, "CREDTMPL_TEST_NGROK_URL")
	unsetenv(c, "CREDTMPL_TEST_PROJECT_ID")
	c.Setenv("CREDTMPL_TEST_CLIENT_ID", "from-host")

	dir := c.TempDir()
	envFile := filepath.Join(dir, ".env")
	err := os.WriteFile(envFile, []byte(`# local overrides
CREDTMPL_TEST_NGROK_URL=https://f.ngrok.io
CREDTMPL_TEST_CLIENT_ID=from-file
export CREDTMPL_TEST_PROJECT_ID="alpha-trader"
`), 0o600)
	c.Assert(err, qt.IsNil)

	err = substitutor.LoadEnvironment(envFile, filepath.Join(dir, "missing.env"))
	c.Assert(err, qt.IsNil)

	env := substitutor.OSEnvironment{}
	v, ok := env.Lookup("CREDTMPL_TEST_NGROK_URL")
	c.Assert(ok, qt.IsTrue)
	c.Assert(v, qt.Equals, "https://f.ngrok.io")

	v, ok = env.Lookup("CREDTMPL_TEST_PROJECT_ID")
	c.Assert(ok, qt.IsTrue)
	c.Assert(v, qt.Equals, "alpha-trader")

	// The host environment wins over the file.
	v, _ = env.Lookup("CREDTMPL_TEST_CLIENT_ID")
	c.Assert(v, qt.Equals, "from-host")

	// Loading again changes nothing.
	err = substitutor.LoadEnvironment(envFile)
	c.Assert(err, qt.IsNil)
	v, _ = env.Lookup("CREDTMPL_TEST_NGROK_URL")
	c.Assert(v, qt.Equals, "https://f.ngrok.io")
}

func TestLoadEnvironmentNoFiles(t *testing.T) {
	c := qt.New(t)

	err := substitutor.LoadEnvironment()
	c.Assert(err, qt.IsNil)

	err = substitutor.LoadEnvironment(filepath.Join(c.TempDir(), ".env"))
	c.Assert(err, qt.IsNil)
}

func TestLoadEnvironmentBadFile(t *testing.T) {
	c := qt.New(t)

	// A directory cannot be parsed as a .env file.
	err := substitutor.LoadEnvironment(c.TempDir())
	c.Assert(err, qt.ErrorMatches, `cannot load environment file .*`)
}

func TestMapEnvironment(t *testing.T) {
	c := qt.New(t)

	env := substitutor.MapEnvironment{"SET": "", "FULL": "x"}
	v, ok := env.Lookup("SET")
	c.Assert(ok, qt.IsTrue)
	c.Assert(v, qt.Equals, "")

	v, ok = env.Lookup("FULL")
	c.Assert(ok, qt.IsTrue)
	c.Assert(v, qt.Equals, "x")

	_, ok = env.Lookup("UNSET")
	c.Assert(ok, qt.IsFalse)
}
