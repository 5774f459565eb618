package substitutor

import (
	"fmt"
	"regexp"
	"sort"

	"gopkg.in/errgo.v1"
)

const (
	// ProfileFull covers every variable of the Google OAuth web client
	// credentials template.
	ProfileFull = "full"
	// ProfileReduced only covers the public tunnel URL.
	ProfileReduced = "reduced"
)

var ErrUnknownProfile = errgo.New("unknown placeholder profile")

var profiles = map[string][]string{
	ProfileFull: {
		"NGROK_URL",
		"GOOGLE_CLIENT_ID",
		"GOOGLE_CLIENT_SECRET",
		"GOOGLE_PROJECT_ID",
	},
	ProfileReduced: {
		"NGROK_URL",
	},
}

var (
	placeholderRegex = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)
	nameRegex        = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Token returns the literal placeholder token for the given variable name.
func Token(name string) string {
	return "${" + name + "}"
}

// Profile returns a copy of the placeholder names of the named profile.
func Profile(name string) ([]string, error) {
	names, ok := profiles[name]
	if !ok {
		return nil, errgo.WithCausef(nil, ErrUnknownProfile, "unknown placeholder profile %q", name)
	}
	return append([]string(nil), names...), nil
}

// ProfileNames returns the names of all known profiles, sorted.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Placeholders returns the distinct variable names referenced as ${NAME}
// in buf, in order of first appearance.
func Placeholders(buf string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholderRegex.FindAllStringSubmatch(buf, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		names = append(names, m[1])
	}
	return names
}

// ResolvePlaceholders picks the placeholder list for a run: an explicit
// list wins over the profile.
func ResolvePlaceholders(profile string, explicit []string) ([]string, error) {
	if len(explicit) > 0 {
		for _, name := range explicit {
			if !nameRegex.MatchString(name) {
				return nil, fmt.Errorf("invalid placeholder name %q", name)
			}
		}
		return append([]string(nil), explicit...), nil
	}
	if profile == "" {
		profile = ProfileFull
	}
	return Profile(profile)
}
