package substitutor

import (
	"strings"

	"go.uber.org/zap"
	"gopkg.in/errgo.v1"
)

// Substitutor replaces a fixed list of ${NAME} placeholders in a template
// with environment values.
type Substitutor struct {
	// Environment resolves placeholder names. Defaults to the process
	// environment.
	Environment Environment
	// Placeholders is the ordered list of variable names to substitute.
	Placeholders []string
	// Missing decides what unset variables become.
	Missing MissingPolicy
	// ExpandAll expands every variable reference instead of only the
	// configured placeholders.
	ExpandAll bool
	// ValidateJSON rejects rendered output that is not a JSON document.
	ValidateJSON bool
	// Logger is used for logging Substitutor operations.
	Logger *zap.Logger
}

// Report summarises one substitution pass.
type Report struct {
	// Replaced counts the substituted occurrences per placeholder name.
	Replaced map[string]int
	// Missing lists the names that occurred in the template but were
	// not set.
	Missing []string
}

func newReport() *Report {
	return &Report{Replaced: make(map[string]int)}
}

// Total returns the number of substituted occurrences.
func (r *Report) Total() int {
	n := 0
	for _, c := range r.Replaced {
		n += c
	}
	return n
}

// New returns a Substitutor over the process environment.
func New(placeholders []string, missing MissingPolicy, logger *zap.Logger) *Substitutor {
	return &Substitutor{
		Environment:  OSEnvironment{},
		Placeholders: placeholders,
		Missing:      missing,
		Logger:       logger,
	}
}

// Substitute replaces every occurrence of ${name} in buf with the value of
// the named variable. The value is inserted as is.
func (s *Substitutor) Substitute(buf string, name string) (string, error) {
	out, _, _, err := s.substitute(buf, name)
	return out, err
}

func (s *Substitutor) substitute(buf string, name string) (string, int, bool, error) {
	token := Token(name)
	n := strings.Count(buf, token)
	if n == 0 {
		return buf, 0, true, nil
	}
	value, set, err := s.policy().resolve(s.environment(), name)
	if err != nil {
		return buf, 0, false, err
	}
	if !set {
		s.logWarn("environment variable not set", zap.String("name", name), zap.String("policy", string(s.policy())))
		if s.policy() == MissingKeep {
			return buf, 0, false, nil
		}
	}
	return strings.ReplaceAll(buf, token, value), n, set, nil
}

// SubstituteAll substitutes every configured placeholder in turn, or
// expands every reference when ExpandAll is set.
func (s *Substitutor) SubstituteAll(buf string) (string, *Report, error) {
	if s.ExpandAll {
		return s.expand(buf)
	}
	report := newReport()
	for _, name := range s.Placeholders {
		var (
			n   int
			set bool
			err error
		)
		buf, n, set, err = s.substitute(buf, name)
		if err != nil {
			return "", nil, err
		}
		if !set {
			report.Missing = append(report.Missing, name)
		}
		if n > 0 {
			report.Replaced[name] = n
		}
	}
	return buf, report, nil
}

// Render reads the template at path, substitutes it and writes the result
// to output, which may be the same path. Nothing is written when any step
// fails.
func (s *Substitutor) Render(path string, output string) (*Report, error) {
	buf, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	out, report, err := s.SubstituteAll(buf)
	if err != nil {
		return nil, errgo.NoteMask(err, "cannot render "+path, errgo.Any)
	}
	if s.ValidateJSON {
		if err := ValidateJSON(out); err != nil {
			return nil, errgo.NoteMask(err, "rendered "+path, errgo.Any)
		}
	}
	if err := WriteFile(output, out); err != nil {
		return nil, err
	}
	if left := Placeholders(out); len(left) > 0 {
		s.logWarn("placeholders left unresolved", zap.String("path", output), zap.Strings("names", left))
	}
	s.logInfo("rendered template",
		zap.String("template", path),
		zap.String("output", output),
		zap.Int("replaced", report.Total()),
		zap.Strings("missing", report.Missing),
	)
	return report, nil
}

// Run renders the template at path in place.
func (s *Substitutor) Run(path string) (*Report, error) {
	return s.Render(path, path)
}

func (s *Substitutor) environment() Environment {
	if s.Environment == nil {
		return OSEnvironment{}
	}
	return s.Environment
}

func (s *Substitutor) policy() MissingPolicy {
	if s.Missing == "" {
		return MissingEmpty
	}
	return s.Missing
}

func (s *Substitutor) logWarn(msg string, fields ...zap.Field) {
	if s.Logger != nil {
		s.Logger.Warn(msg, fields...)
	}
}

func (s *Substitutor) logInfo(msg string, fields ...zap.Field) {
	if s.Logger != nil {
		s.Logger.Info(msg, fields...)
	}
}
