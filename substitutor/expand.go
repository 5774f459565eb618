package substitutor

import (
	"github.com/drone/envsubst"
	"go.uber.org/zap"
	"gopkg.in/errgo.v1"
)

// expand substitutes every variable reference envsubst recognises, not
// just the configured placeholders. Defaults such as ${NAME:-x} are
// honoured by envsubst itself.
func (s *Substitutor) expand(buf string) (string, *Report, error) {
	report := newReport()
	env := s.environment()
	policy := s.policy()
	seen := make(map[string]bool)

	var firstErr error
	out, err := envsubst.Eval(buf, func(name string) string {
		value, set, err := policy.resolve(env, name)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return ""
		}
		if !set {
			if !seen[name] {
				seen[name] = true
				report.Missing = append(report.Missing, name)
				s.logWarn("environment variable not set", zap.String("name", name), zap.String("policy", string(policy)))
			}
			if policy == MissingKeep {
				return value
			}
		}
		report.Replaced[name]++
		return value
	})
	if firstErr != nil {
		return "", nil, firstErr
	}
	if err != nil {
		return "", nil, errgo.Notef(err, "cannot expand template")
	}
	return out, report, nil
}
