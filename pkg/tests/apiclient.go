// Package tests holds helpers for end-to-end API tests.
package tests

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"melidash/pkg/rest"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type APIClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func NewAPIClient(
	baseURL string,
	httpClient *http.Client,
) APIClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return APIClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// WithToken returns a copy that sends the bearer token.
func (a APIClient) WithToken(token string) APIClient {
	a.token = token
	return a
}

func (a APIClient) Get(ctx context.Context, endpoint string, dest any, errDest *rest.Error) (*http.Response, error) {
	return a.Do(ctx, http.MethodGet, endpoint, nil, dest, errDest)
}

func (a APIClient) Post(ctx context.Context, endpoint string, request, dest any, errDest *rest.Error) (*http.Response, error) {
	return a.Do(ctx, http.MethodPost, endpoint, request, dest, errDest)
}

func (a APIClient) Put(ctx context.Context, endpoint string, request, dest any, errDest *rest.Error) (*http.Response, error) {
	return a.Do(ctx, http.MethodPut, endpoint, request, dest, errDest)
}

func (a APIClient) Delete(ctx context.Context, endpoint string, dest any, errDest *rest.Error) (*http.Response, error) {
	return a.Do(ctx, http.MethodDelete, endpoint, nil, dest, errDest)
}

// Do sends request as JSON and unpacks the success envelope into dest or
// the error body into errDest.
func (a APIClient) Do(
	ctx context.Context,
	httpMethod string,
	endpoint string,
	request any,
	dest any,
	errDest *rest.Error,
) (*http.Response, error) {
	var payload io.Reader = http.NoBody

	if request != nil {
		b, err := json.Marshal(request)
		if err != nil {
			return nil, fmt.Errorf("json.Marshal: %w", err)
		}

		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, httpMethod, a.baseURL+endpoint, payload)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	if request != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpClient.Do: %w", err)
	}

	defer resp.Body.Close()

	if err = parseResponse(resp, dest, errDest); err != nil {
		return nil, fmt.Errorf("parseResponse: %w", err)
	}

	return resp, nil
}

func parseResponse(r *http.Response, dest any, errDest *rest.Error) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("io.ReadAll: %w", err)
	}

	if len(body) == 0 {
		return nil
	}

	if r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices {
		if dest == nil {
			return nil
		}

		envelope := struct {
			Success bool                `json:"success"`
			Data    jsoniter.RawMessage `json:"data"`
		}{}

		if err = json.Unmarshal(body, &envelope); err != nil {
			return fmt.Errorf("json.Unmarshal(envelope): %w", err)
		}

		if len(envelope.Data) == 0 {
			return nil
		}

		if err = json.Unmarshal(envelope.Data, dest); err != nil {
			return fmt.Errorf("json.Unmarshal(success destination): %w", err)
		}

		return nil
	}

	if errDest != nil {
		if err = json.Unmarshal(body, errDest); err != nil {
			return fmt.Errorf("json.Unmarshal(err destination): %w", err)
		}
	}

	return nil
}
