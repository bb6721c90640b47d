package awclient

import (
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// PasswordAuthProvider exchanges email/password for a session token on
// demand and caches it. Reauthenticate discards the cached token and logs in
// again.
type PasswordAuthProvider struct {
	mu       sync.Mutex
	resty    *resty.Client
	email    string
	password string
	token    string
}

func NewPasswordAuthProvider(baseURL, email, password string) *PasswordAuthProvider {
	return &PasswordAuthProvider{
		resty:    resty.New().SetBaseURL(baseURL),
		email:    email,
		password: password,
	}
}

func (p *PasswordAuthProvider) CurrentUser() string {
	return p.email
}

func (p *PasswordAuthProvider) Token() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token == "" {
		return "", ErrAuthRequired
	}

	return p.token, nil
}

func (p *PasswordAuthProvider) Reauthenticate() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.token = ""

	var result struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}

	resp, err := p.resty.R().
		SetBody(map[string]string{"email": p.email, "password": p.password}).
		SetResult(&result).
		Post("/api/login")
	if err != nil {
		return errors.Wrap(err, "failed to sign in")
	}

	if resp.IsError() {
		return toErrorFromResponse(resp)
	}

	p.token = result.Data.Token
	return nil
}
