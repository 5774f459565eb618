package substitutor

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"gopkg.in/errgo.v1"
)

const (
	googleAuthURI     = "https://accounts.google.com/o/oauth2/auth"
	googleTokenURI    = "https://oauth2.googleapis.com/token"
	googleCertsURL    = "https://www.googleapis.com/oauth2/v1/certs"
	localOrigin       = "http://localhost:3000"
	oauthCallbackPath = "/oauth2callback"
)

var ErrInvalidJSON = errgo.New("invalid JSON document")

// field is one entry of the generated credentials document. Either env or
// value is set.
type field struct {
	path  string
	env   string
	value interface{}
}

// GenerateWebCredentials builds a Google OAuth web client credentials
// document from the full placeholder profile. The redirect URI and the
// first JavaScript origin derive from NGROK_URL. Unset variables are
// handled by the missing policy, where keep leaves the ${NAME} token.
func GenerateWebCredentials(env Environment, missing MissingPolicy) ([]byte, error) {
	if env == nil {
		env = OSEnvironment{}
	}
	lookup := func(name string) (string, error) {
		v, _, err := missing.resolve(env, name)
		return v, err
	}

	ngrokURL, err := lookup("NGROK_URL")
	if err != nil {
		return nil, err
	}
	redirect := strings.TrimSuffix(ngrokURL, "/") + oauthCallbackPath

	fields := []field{
		{path: "web.client_id", env: "GOOGLE_CLIENT_ID"},
		{path: "web.project_id", env: "GOOGLE_PROJECT_ID"},
		{path: "web.auth_uri", value: googleAuthURI},
		{path: "web.token_uri", value: googleTokenURI},
		{path: "web.auth_provider_x509_cert_url", value: googleCertsURL},
		{path: "web.client_secret", env: "GOOGLE_CLIENT_SECRET"},
		{path: "web.redirect_uris", value: []string{redirect}},
		{path: "web.javascript_origins", value: []string{ngrokURL, localOrigin}},
	}

	doc := []byte("{}")
	for _, f := range fields {
		value := f.value
		if f.env != "" {
			v, err := lookup(f.env)
			if err != nil {
				return nil, err
			}
			value = v
		}
		doc, err = sjson.SetBytes(doc, f.path, value)
		if err != nil {
			return nil, errgo.Notef(err, "cannot set %s", f.path)
		}
	}
	// Width 1 puts every array element on its own line.
	return pretty.PrettyOptions(doc, &pretty.Options{Indent: "    ", Width: 1}), nil
}

// ValidateJSON returns an error with cause ErrInvalidJSON when buf is not
// a single valid JSON document.
func ValidateJSON(buf string) error {
	if !gjson.Valid(buf) {
		return errgo.WithCausef(nil, ErrInvalidJSON, "output is not valid JSON")
	}
	return nil
}
