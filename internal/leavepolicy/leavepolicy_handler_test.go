package leavepolicy_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"adaptix-hrms/internal/leavepolicy"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakePolicyService struct {
	createCalls int
	got         leavepolicy.CreatePolicyCommand
}

func (f *fakePolicyService) Create(ctx context.Context, companyID, actorID string, cmd leavepolicy.CreatePolicyCommand) (leavepolicy.PolicyResponse, error) {
	f.createCalls++
	f.got = cmd
	return leavepolicy.PolicyResponse{ID: uuid.NewString(), Name: cmd.Name, CompanyID: companyID}, nil
}
func (f *fakePolicyService) GetAll(ctx context.Context, companyID string) ([]leavepolicy.PolicyResponse, error) {
	return []leavepolicy.PolicyResponse{{Name: "A", IsActive: true}, {Name: "B", IsActive: false}}, nil
}
func (f *fakePolicyService) GetByID(ctx context.Context, companyID, id string) (leavepolicy.PolicyResponse, error) {
	return leavepolicy.PolicyResponse{ID: id}, nil
}
func (f *fakePolicyService) Deactivate(ctx context.Context, companyID, id string) (leavepolicy.PolicyResponse, error) {
	return leavepolicy.PolicyResponse{ID: id}, nil
}
func (f *fakePolicyService) ListActive(ctx context.Context, companyID string) ([]leavepolicy.LeavePolicy, error) {
	return nil, nil
}

func postPolicy(h *leavepolicy.Handler, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/leave/policies", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("company_id", uuid.NewString())
	c.Set("employee_id", uuid.NewString())
	h.Create(c)
	return w
}

func TestLeavePolicyHandler_Create(t *testing.T) {
	t.Run("string numbers accepted", func(t *testing.T) {
		svc := &fakePolicyService{}
		body := `{"name":"Annual","leave_type":"` + uuid.NewString() + `","allocation_days":"14","tenure_months_required":6,"gender_requirement":"ALL"}`

		w := postPolicy(leavepolicy.NewHandler(svc), body)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, svc.createCalls)
		assert.Equal(t, 14, svc.got.AllocationDays)
		assert.Equal(t, 6, svc.got.TenureMonthsRequired)
	})

	t.Run("empty leave type never reaches service", func(t *testing.T) {
		svc := &fakePolicyService{}

		w := postPolicy(leavepolicy.NewHandler(svc), `{"name":"Annual","leave_type":"","allocation_days":1,"tenure_months_required":0}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 0, svc.createCalls)
		assert.Contains(t, w.Body.String(), leavepolicy.MsgSelectLeaveCategory)
		assert.Contains(t, w.Body.String(), `"field":"leave_type"`)
	})

	t.Run("negative allocation rejected", func(t *testing.T) {
		svc := &fakePolicyService{}
		body := `{"name":"Annual","leave_type":"` + uuid.NewString() + `","allocation_days":-3,"tenure_months_required":0}`

		w := postPolicy(leavepolicy.NewHandler(svc), body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 0, svc.createCalls)
	})
}

func TestLeavePolicyHandler_GetAllActiveFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := leavepolicy.NewHandler(&fakePolicyService{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/leave/policies?active=true", nil)

	h.GetAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"A"`)
	assert.NotContains(t, w.Body.String(), `"name":"B"`)
}
