package google

import (
	"context"
	"errors"
	"testing"

	"obed/internal/config"
	ports "obed/internal/sheets"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

func TestNewRejectsMalformedKey(t *testing.T) {
	_, err := New(context.Background(), []byte("not json"), config.DefaultScopes)
	if err == nil {
		t.Fatal("expected error for malformed key")
	}
	if !errors.Is(err, ports.ErrCredentials) {
		t.Errorf("expected ErrCredentials, got: %v", err)
	}
}

func TestNewFromConfigRequiresKey(t *testing.T) {
	cfg := &config.Config{Scopes: config.DefaultScopes}
	_, err := NewFromConfig(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected error when no key is configured")
	}
	if !errors.Is(err, ports.ErrCredentials) {
		t.Errorf("expected ErrCredentials, got: %v", err)
	}
}

func TestNewFromConfigMissingKeyFile(t *testing.T) {
	cfg := &config.Config{
		ServiceAccountFile: "/nonexistent/key.json",
		Scopes:             config.DefaultScopes,
	}
	_, err := NewFromConfig(context.Background(), cfg)
	if !errors.Is(err, ports.ErrCredentials) {
		t.Errorf("expected ErrCredentials for unreadable file, got: %v", err)
	}
}

func TestIsAuthError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"retrieve error", &oauth2.RetrieveError{}, true},
		{"api 401", &googleapi.Error{Code: 401}, true},
		{"api 403", &googleapi.Error{Code: 403}, true},
		{"api 404", &googleapi.Error{Code: 404}, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, c := range cases {
		if got := isAuthError(c.err); got != c.want {
			t.Errorf("%s: isAuthError = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestLoadWorkbookWithoutService(t *testing.T) {
	c := &Client{}
	if _, err := c.LoadWorkbook(context.Background(), "id"); err == nil {
		t.Fatal("expected error when service is not initialized")
	}
	if _, err := c.LastModified(context.Background(), "id"); err == nil {
		t.Fatal("expected error when drive service is not initialized")
	}
}
