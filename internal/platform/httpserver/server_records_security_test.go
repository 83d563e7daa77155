package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func executorHeaders(email string) map[string]string {
	return map[string]string{
		"X-User-Id":    "user_exec_1",
		"X-User-Role":  "executor",
		"X-User-Email": email,
	}
}

func getWithHeaders(h testHarness, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for name, value := range headers {
		req.Header.Set(name, value)
	}
	rr := httptest.NewRecorder()
	h.server.mux.ServeHTTP(rr, req)
	return rr
}

func TestRecordRoutesRequireUser(t *testing.T) {
	h := newTestServer()
	if rr := getWithHeaders(h, "/api/records/asset", nil); rr.Code != http.StatusUnauthorized {
		t.Fatalf("list: expected 401, got %d", rr.Code)
	}
	if rr := getWithHeaders(h, "/api/dashboard", nil); rr.Code != http.StatusUnauthorized {
		t.Fatalf("dashboard: expected 401, got %d", rr.Code)
	}
}

func TestCreateRecordInvalidType(t *testing.T) {
	h := newTestServer()
	rr := postJSON(h, "/api/records/vehicle", `{"name":"Sedan","amount":"12000"}`, ownerHeaders("user_principal_1"))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCreateRecordInvalidAmount(t *testing.T) {
	h := newTestServer()
	rr := postJSON(h, "/api/records/asset", `{"name":"Family Home","amount":"lots"}`, ownerHeaders("user_principal_1"))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestExecutorWithoutDelegationGetsForbidden(t *testing.T) {
	h := newTestServer()
	rr := getWithHeaders(h, "/api/records/asset", executorHeaders("morgan.exec@example.com"))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestExecutorSessionReadsPrincipalRecords(t *testing.T) {
	h := newTestServer()

	// Principal stores a record.
	rr := postJSON(h, "/api/records/asset", `{"name":"Family Home","amount":"450000"}`, ownerHeaders("user_principal_1"))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create record: expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	// Principal designates an executor who accepts.
	token := createInvite(t, h, "morgan.exec@example.com")
	if rr := postJSON(h, "/api/executors/invite", fmt.Sprintf(`{"action":"accept","token":"%s"}`, token), nil); rr.Code != http.StatusOK {
		t.Fatalf("accept: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	// The executor session now reads the principal's records transparently.
	list := getWithHeaders(h, "/api/records/asset", executorHeaders("morgan.exec@example.com"))
	if list.Code != http.StatusOK {
		t.Fatalf("executor list: expected 200, got %d body=%s", list.Code, list.Body.String())
	}
	var resp struct {
		Count int `json:"count"`
		Data  struct {
			Items []struct {
				Name string `json:"name"`
			} `json:"items"`
		} `json:"data"`
	}
	if err := json.Unmarshal(list.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.Count != 1 || resp.Data.Items[0].Name != "Family Home" {
		t.Fatalf("expected the principal's record, got %s", list.Body.String())
	}

	// The dashboard aggregates the same scoped data.
	dash := getWithHeaders(h, "/api/dashboard", executorHeaders("morgan.exec@example.com"))
	if dash.Code != http.StatusOK {
		t.Fatalf("executor dashboard: expected 200, got %d body=%s", dash.Code, dash.Body.String())
	}
	var dashboard struct {
		Data struct {
			NetTotal string `json:"net_total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(dash.Body.Bytes(), &dashboard); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if dashboard.Data.NetTotal != "450000.00" {
		t.Fatalf("expected net total 450000.00, got %s", dashboard.Data.NetTotal)
	}
}

func TestRecordsHiddenAcrossPrincipals(t *testing.T) {
	h := newTestServer()

	rr := postJSON(h, "/api/records/banking", `{"name":"Checking","amount":"1200.50"}`, ownerHeaders("user_principal_1"))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create record: expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var created struct {
		Data struct {
			RecordID string `json:"record_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	foreign := getWithHeaders(h, "/api/records/banking/"+created.Data.RecordID, ownerHeaders("user_principal_2"))
	if foreign.Code != http.StatusNotFound {
		t.Fatalf("foreign read: expected 404, got %d body=%s", foreign.Code, foreign.Body.String())
	}
}
