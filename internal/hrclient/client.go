// Package hrclient is a typed REST client for the HRMS leave API. Every call
// carries the session's bearer token and decodes the {ok, data, meta, error} envelope.
package hrclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	APIPrefix = "/api/v1/hrms"

	headerCompanyID      = "X-Company-ID"
	headerRequestID      = "X-Request-ID"
	headerIdempotencyKey = "Idempotency-Key"
)

var (
	ErrMissingBaseURL  = errors.New("hrclient: base url is required")
	ErrMissingCompany  = errors.New("hrclient: session company id is required")
	ErrCompanyMismatch = errors.New("hrclient: token company does not match session company")
)

// Session is the explicit tenant context a client is built from. There is no
// default company; an empty CompanyID is rejected by New.
type Session struct {
	BaseURL    string
	Token      string
	CompanyID  string
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	token      string
	companyID  string
	httpClient *http.Client
}

func New(s Session) (*Client, error) {
	baseURL := strings.TrimSuffix(strings.TrimSpace(s.BaseURL), "/")
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}
	companyID := strings.TrimSpace(s.CompanyID)
	if companyID == "" {
		return nil, ErrMissingCompany
	}
	if claimed := tokenCompany(s.Token); claimed != "" && claimed != companyID {
		return nil, ErrCompanyMismatch
	}

	httpClient := s.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		baseURL:    baseURL,
		token:      s.Token,
		companyID:  companyID,
		httpClient: httpClient,
	}, nil
}

// tokenCompany reads the company_id claim without verifying the signature;
// the server does the verification.
func tokenCompany(token string) string {
	if token == "" {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	companyID, _ := claims["company_id"].(string)
	return companyID
}

func (c *Client) CompanyID() string {
	return c.companyID
}

func (c *Client) Allocations() *AllocationsAPI { return &AllocationsAPI{c: c} }
func (c *Client) Policies() *PoliciesAPI       { return &PoliciesAPI{c: c} }
func (c *Client) Leaves() *LeavesAPI           { return &LeavesAPI{c: c} }
func (c *Client) LeaveTypes() *LeaveTypesAPI   { return &LeaveTypesAPI{c: c} }
func (c *Client) Employees() *EmployeesAPI     { return &EmployeesAPI{c: c} }
func (c *Client) Entitlement() *EntitlementAPI { return &EntitlementAPI{c: c} }

// APIError is a non-2xx response or an envelope with ok=false.
type APIError struct {
	Status  int             `json:"-"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hrclient: %d %s: %s", e.Status, e.Code, e.Message)
}

type Meta struct {
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
}

type envelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  *Meta           `json:"meta"`
	Error *APIError       `json:"error"`
}

type requestOption func(*http.Request)

func withIdempotencyKey(key string) requestOption {
	return func(r *http.Request) {
		if key != "" {
			r.Header.Set(headerIdempotencyKey, key)
		}
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, opts ...requestOption) (*Meta, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("hrclient encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+APIPrefix+path, reader)
	if err != nil {
		return nil, fmt.Errorf("hrclient build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set(headerCompanyID, c.companyID)
	req.Header.Set(headerRequestID, uuid.NewString())
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hrclient %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("hrclient read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 300 {
			return nil, &APIError{Status: resp.StatusCode, Code: "HTTP_ERROR", Message: http.StatusText(resp.StatusCode)}
		}
		return nil, fmt.Errorf("hrclient decode envelope: %w", err)
	}

	if resp.StatusCode >= 300 || !env.Ok {
		apiErr := env.Error
		if apiErr == nil {
			apiErr = &APIError{Code: "HTTP_ERROR", Message: http.StatusText(resp.StatusCode)}
		}
		apiErr.Status = resp.StatusCode
		return nil, apiErr
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("hrclient decode data: %w", err)
		}
	}
	return env.Meta, nil
}
