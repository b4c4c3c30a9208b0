package hrclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

const listPageSize = 100

// listAll walks a paginated list endpoint until meta.totalPages is reached.
// A response without meta is taken as the whole list.
func listAll[T any](ctx context.Context, c *Client, path string, q url.Values) ([]T, error) {
	if q == nil {
		q = url.Values{}
	}
	q.Set("page_size", strconv.Itoa(listPageSize))

	var all []T
	for page := 1; ; page++ {
		q.Set("page", strconv.Itoa(page))
		var batch []T
		meta, err := c.do(ctx, http.MethodGet, path+"?"+q.Encode(), nil, &batch)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if meta == nil || page >= meta.TotalPages || len(batch) == 0 {
			return all, nil
		}
	}
}

type AllocationsAPI struct{ c *Client }

// List returns every allocation, optionally filtered by status.
func (a *AllocationsAPI) List(ctx context.Context, status string) ([]Allocation, error) {
	path := "/leave/allocations"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var out []Allocation
	_, err := a.c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (a *AllocationsAPI) Get(ctx context.Context, id string) (Allocation, error) {
	var out Allocation
	_, err := a.c.do(ctx, http.MethodGet, "/leave/allocations/"+url.PathEscape(id), nil, &out)
	return out, err
}

// BulkApprove sends ids under idempotencyKey so a retried request is answered
// from the first result instead of being applied twice.
func (a *AllocationsAPI) BulkApprove(ctx context.Context, ids []string, idempotencyKey string) (BulkApproveResult, error) {
	var out BulkApproveResult
	body := map[string][]string{"ids": ids}
	_, err := a.c.do(ctx, http.MethodPost, "/leave/allocations/bulk-approve", body, &out, withIdempotencyKey(idempotencyKey))
	return out, err
}

type PoliciesAPI struct{ c *Client }

// List returns every policy, following the server's pages.
func (p *PoliciesAPI) List(ctx context.Context) ([]Policy, error) {
	return listAll[Policy](ctx, p.c, "/leave/policies", nil)
}

func (p *PoliciesAPI) Create(ctx context.Context, payload PolicyPayload) (Policy, error) {
	var out Policy
	_, err := p.c.do(ctx, http.MethodPost, "/leave/policies", payload, &out)
	return out, err
}

func (p *PoliciesAPI) Deactivate(ctx context.Context, id string) (Policy, error) {
	var out Policy
	_, err := p.c.do(ctx, http.MethodPost, "/leave/policies/"+url.PathEscape(id)+"/deactivate", nil, &out)
	return out, err
}

type LeavesAPI struct{ c *Client }

// List returns every leave request, optionally filtered by status.
func (l *LeavesAPI) List(ctx context.Context, status string) ([]Leave, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	return listAll[Leave](ctx, l.c, "/leave", q)
}

func (l *LeavesAPI) Create(ctx context.Context, payload LeavePayload) (Leave, error) {
	var out Leave
	_, err := l.c.do(ctx, http.MethodPost, "/leave", payload, &out)
	return out, err
}

func (l *LeavesAPI) Approve(ctx context.Context, id string) (Leave, error) {
	var out Leave
	_, err := l.c.do(ctx, http.MethodPost, "/leave/"+url.PathEscape(id)+"/approve", nil, &out)
	return out, err
}

func (l *LeavesAPI) Reject(ctx context.Context, id, reason string) (Leave, error) {
	var out Leave
	body := map[string]string{"rejection_reason": reason}
	_, err := l.c.do(ctx, http.MethodPost, "/leave/"+url.PathEscape(id)+"/reject", body, &out)
	return out, err
}

func (l *LeavesAPI) Cancel(ctx context.Context, id string) (Leave, error) {
	var out Leave
	_, err := l.c.do(ctx, http.MethodPost, "/leave/"+url.PathEscape(id)+"/cancel", nil, &out)
	return out, err
}

type LeaveTypesAPI struct{ c *Client }

func (t *LeaveTypesAPI) List(ctx context.Context) ([]LeaveType, error) {
	var out []LeaveType
	_, err := t.c.do(ctx, http.MethodGet, "/leave-types", nil, &out)
	return out, err
}

type EmployeesAPI struct{ c *Client }

// Options is the lightweight cached list used to fill pickers.
func (e *EmployeesAPI) Options(ctx context.Context) ([]Employee, error) {
	var out []Employee
	_, err := e.c.do(ctx, http.MethodGet, "/employees/options", nil, &out)
	return out, err
}

type EntitlementAPI struct{ c *Client }

// Run asks the server to compute drafts for the session company. The tenant is
// never sent in the body; the server takes it from the token.
func (e *EntitlementAPI) Run(ctx context.Context) (EntitlementRunResult, error) {
	var out EntitlementRunResult
	_, err := e.c.do(ctx, http.MethodPost, "/leave/entitlement-run", struct{}{}, &out)
	return out, err
}
