package emailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

var ErrProvisionFailed = errors.New("test account provisioning failed")

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TestAccount is a disposable mailbox; messages sent through it are only
// viewable at WebURL and never delivered.
type TestAccount struct {
	User     string
	Password string
	SMTP     SMTPConfig
	WebURL   string
}

type provisionRequest struct {
	Requestor string `json:"requestor"`
	Version   string `json:"version"`
}

type provisionResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
	User   string `json:"user"`
	Pass   string `json:"pass"`
	SMTP   struct {
		Host   string `json:"host"`
		Port   int    `json:"port"`
		Secure bool   `json:"secure"`
	} `json:"smtp"`
	Web string `json:"web"`
}

type EtherealProvisioner struct {
	apiURL    string
	requestor string
	version   string
	client    HTTPClient
}

func NewEtherealProvisioner(apiURL, requestor, version string, client HTTPClient) *EtherealProvisioner {
	return &EtherealProvisioner{apiURL: apiURL, requestor: requestor, version: version, client: client}
}

func (p *EtherealProvisioner) CreateTestAccount(ctx context.Context) (TestAccount, error) {
	body, err := json.Marshal(provisionRequest{Requestor: p.requestor, Version: p.version})
	if err != nil {
		return TestAccount{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(body))
	if err != nil {
		return TestAccount{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return TestAccount{}, fmt.Errorf("%w: %w", ErrProvisionFailed, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return TestAccount{}, fmt.Errorf("%w: status %s", ErrProvisionFailed, resp.Status)
	}

	var out provisionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return TestAccount{}, fmt.Errorf("%w: decode: %w", ErrProvisionFailed, err)
	}
	if out.Status != "success" {
		return TestAccount{}, fmt.Errorf("%w: %s", ErrProvisionFailed, out.Error)
	}

	return TestAccount{
		User:     out.User,
		Password: out.Pass,
		SMTP: SMTPConfig{
			Host:     out.SMTP.Host,
			Port:     strconv.Itoa(out.SMTP.Port),
			User:     out.User,
			Password: out.Pass,
			Secure:   out.SMTP.Secure,
		},
		WebURL: out.Web,
	}, nil
}
