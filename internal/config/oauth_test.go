package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOAuthClient() *OAuthClientConfig {
	return &OAuthClientConfig{
		Installed: OAuthInstalled{
			ClientID:                "test-client-id.apps.googleusercontent.com",
			ProjectID:               "test-project",
			AuthURI:                 "https://accounts.google.com/o/oauth2/auth",
			TokenURI:                "https://oauth2.googleapis.com/token",
			AuthProviderX509CertURL: "https://www.googleapis.com/oauth2/v1/certs",
			ClientSecret:            "test-secret",
			RedirectURIs:            []string{"http://localhost"},
		},
	}
}

func TestValidateOAuthClient(t *testing.T) {
	assert.NoError(t, ValidateOAuthClient(validOAuthClient()))

	missingID := validOAuthClient()
	missingID.Installed.ClientID = ""
	assert.ErrorContains(t, ValidateOAuthClient(missingID), "validation failed")

	badURL := validOAuthClient()
	badURL.Installed.AuthURI = "not-a-valid-url"
	assert.ErrorContains(t, ValidateOAuthClient(badURL), "validation failed")

	noRedirects := validOAuthClient()
	noRedirects.Installed.RedirectURIs = []string{}
	assert.ErrorContains(t, ValidateOAuthClient(noRedirects), "validation failed")
}

func TestLoadOAuthClientWithEnv_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.json")
	contents := `{
  "installed": {
    "client_id": "abc.apps.googleusercontent.com",
    "project_id": "weekday-rota",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "auth_provider_x509_cert_url": "https://www.googleapis.com/oauth2/v1/certs",
    "client_secret": "secret",
    "redirect_uris": ["http://localhost"]
  }
}`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	t.Setenv(OAuthClientFileEnv, path)

	cfg, err := LoadOAuthClientWithEnv("prod")
	require.NoError(t, err)
	assert.Equal(t, "weekday-rota", cfg.Installed.ProjectID)
}

func TestLoadOAuthClientFromPath_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := LoadOAuthClientFromPath(path)
	assert.ErrorContains(t, err, "failed to parse oauth client file")
}
