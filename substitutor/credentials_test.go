package substitutor_test

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/tidwall/gjson"
	"gopkg.in/errgo.v1"

	"github.com/ritvikPuranik/email-trading-bot/substitutor"
)

func TestGenerateWebCredentials(t *testing.T) {
	c := qt.New(t)

	doc, err := substitutor.GenerateWebCredentials(fullEnv, substitutor.MissingEmpty)
	c.Assert(err, qt.IsNil)
	c.Assert(gjson.ValidBytes(doc), qt.IsTrue)

	web := gjson.GetBytes(doc, "web")
	c.Assert(web.Get("client_id").String(), qt.Equals, "client-id.apps.googleusercontent.com")
	c.Assert(web.Get("project_id").String(), qt.Equals, "alpha-trader")
	c.Assert(web.Get("client_secret").String(), qt.Equals, "s3cr$t&1")
	c.Assert(web.Get("auth_uri").String(), qt.Equals, "https://accounts.google.com/o/oauth2/auth")
	c.Assert(web.Get("token_uri").String(), qt.Equals, "https://oauth2.googleapis.com/token")
	c.Assert(web.Get("redirect_uris.0").String(), qt.Equals, "https://example.ngrok.io/oauth2callback")
	c.Assert(web.Get("javascript_origins.#").Int(), qt.Equals, int64(2))
	c.Assert(web.Get("javascript_origins.0").String(), qt.Equals, "https://example.ngrok.io")
	c.Assert(web.Get("javascript_origins.1").String(), qt.Equals, "http://localhost:3000")

	var keys []string
	web.ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	c.Assert(keys, qt.DeepEquals, []string{
		"client_id",
		"project_id",
		"auth_uri",
		"token_uri",
		"auth_provider_x509_cert_url",
		"client_secret",
		"redirect_uris",
		"javascript_origins",
	})

	c.Assert(string(doc), qt.Contains, "\n        \"client_id\"")
	c.Assert(string(doc), qt.Contains, "\"redirect_uris\": [\n            \"https://example.ngrok.io/oauth2callback\"\n        ]")
	c.Assert(string(doc), qt.Contains, "\"javascript_origins\": [\n            \"https://example.ngrok.io\",\n            \"http://localhost:3000\"\n        ]")
}

func TestGenerateWebCredentialsTrailingSlash(t *testing.T) {
	c := qt.New(t)

	env := substitutor.MapEnvironment{"NGROK_URL": "https://i.ngrok.io/"}
	doc, err := substitutor.GenerateWebCredentials(env, substitutor.MissingEmpty)
	c.Assert(err, qt.IsNil)
	c.Assert(gjson.GetBytes(doc, "web.redirect_uris.0").String(), qt.Equals, "https://i.ngrok.io/oauth2callback")
	c.Assert(gjson.GetBytes(doc, "web.client_id").String(), qt.Equals, "")
}

func TestGenerateWebCredentialsMissing(t *testing.T) {
	c := qt.New(t)

	env := substitutor.MapEnvironment{"NGROK_URL": "https://j.ngrok.io"}
	_, err := substitutor.GenerateWebCredentials(env, substitutor.MissingError)
	c.Assert(err, qt.ErrorMatches, `environment variable "GOOGLE_CLIENT_ID" is not set`)
	c.Assert(errgo.Cause(err), qt.Equals, substitutor.ErrMissingVariable)

	doc, err := substitutor.GenerateWebCredentials(env, substitutor.MissingKeep)
	c.Assert(err, qt.IsNil)
	c.Assert(gjson.GetBytes(doc, "web.client_secret").String(), qt.Equals, "${GOOGLE_CLIENT_SECRET}")
	c.Assert(substitutor.Placeholders(string(doc)), qt.DeepEquals, []string{
		"GOOGLE_CLIENT_ID",
		"GOOGLE_PROJECT_ID",
		"GOOGLE_CLIENT_SECRET",
	})
}

func TestValidateJSON(t *testing.T) {
	c := qt.New(t)

	c.Assert(substitutor.ValidateJSON(`{"web": {"client_id": "x"}}`), qt.IsNil)
	c.Assert(substitutor.ValidateJSON(`[1, 2]`), qt.IsNil)

	for _, buf := range []string{``, `{"web": }`, `{"a": 1} trailing`, strings.Repeat("{", 3)} {
		err := substitutor.ValidateJSON(buf)
		c.Assert(err, qt.ErrorMatches, `output is not valid JSON`, qt.Commentf("buf %q", buf))
		c.Assert(errgo.Cause(err), qt.Equals, substitutor.ErrInvalidJSON)
	}
}
