package freee

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/payroll-check/internal/core/domain"
)

func newPayrollServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/1/payroll_statements", r.URL.Path)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		q := r.URL.Query()
		assert.Equal(t, "12345", q.Get("company_id"))
		assert.Equal(t, "2024", q.Get("target_year"))
		assert.Equal(t, "4", q.Get("target_month"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestListStatements_Success(t *testing.T) {
	srv := newPayrollServer(t, http.StatusOK, `{"payroll_statements":[
		{"id":1,"employee_name":"山田 太郎","total_salary":"300000","deductions":{"立替経費（交通費）":"1200"}},
		{"id":2,"total_salary":0,"pay_date":"2024-04-25"}
	]}`)

	c := NewPayrollClient(Config{APIURL: srv.URL + "/"})
	got, err := c.ListStatements(context.Background(), "token-1", "12345", domain.Period{Year: 2024, Month: 4})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "山田 太郎", got[0].EmployeeName)
	require.NotNil(t, got[0].TotalSalary)
	assert.Equal(t, 300000.0, *got[0].TotalSalary)
	assert.Equal(t, 1200.0, got[0].Deductions["立替経費（交通費）"])

	assert.Equal(t, int64(2), got[1].ID)
	assert.Contains(t, got[1].Extra, "pay_date")
}

func TestListStatements_Empty(t *testing.T) {
	srv := newPayrollServer(t, http.StatusOK, `{"payroll_statements":[]}`)

	c := NewPayrollClient(Config{APIURL: srv.URL})
	got, err := c.ListStatements(context.Background(), "token-1", "12345", domain.Period{Year: 2024, Month: 4})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListStatements_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantAuth bool
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"expired"}`, true},
		{"forbidden", http.StatusForbidden, `{"message":"no access"}`, true},
		{"server error", http.StatusInternalServerError, `oops`, false},
		{"missing key", http.StatusOK, `{"statements":[]}`, false},
		{"bad json", http.StatusOK, `{"payroll_statements":`, false},
		{"bad amount", http.StatusOK, `{"payroll_statements":[{"id":1,"total_salary":"abc"}]}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newPayrollServer(t, tt.status, tt.body)

			c := NewPayrollClient(Config{APIURL: srv.URL})
			_, err := c.ListStatements(context.Background(), "token-1", "12345", domain.Period{Year: 2024, Month: 4})
			require.Error(t, err)

			if tt.wantAuth {
				var authErr *domain.UpstreamAuthError
				require.ErrorAs(t, err, &authErr)
				assert.Equal(t, tt.status, authErr.StatusCode)
				return
			}
			var dataErr *domain.UpstreamDataError
			require.ErrorAs(t, err, &dataErr)
		})
	}
}

func TestListStatements_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewPayrollClient(Config{APIURL: srv.URL})
	_, err := c.ListStatements(ctx, "token-1", "12345", domain.Period{Year: 2024, Month: 4})

	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.ErrorIs(t, err, context.Canceled)
}
