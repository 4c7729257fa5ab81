package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/intervention-backend/internal/data/aggregates"
	"github.com/yungbote/intervention-backend/internal/data/repos/testutil"
	apphttp "github.com/yungbote/intervention-backend/internal/http"
	httpH "github.com/yungbote/intervention-backend/internal/http/handlers"
	"github.com/yungbote/intervention-backend/internal/observability"
	"github.com/yungbote/intervention-backend/internal/services"
)

const createBody = `{
	"case": {"summary": "walk-in"},
	"referral": {"reasonCode": 1, "referralTimestamp": "2024-04-02T09:30:00Z"},
	"criminalEvent": {"attackerCount": 2, "crimeTypes": {"threats": "true"}},
	"primaryResponseAction": "listened",
	"sexualAbuse": {"simple": 0, "aggravated": 0},
	"victim": {"fullName": "Paula R", "address": {"districtId": 4}},
	"followUp": {"occurred": "no"}
}`

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	metrics := observability.NewMetrics()
	caseRepos := aggregates.NewCaseRepos(db, log)
	agg := aggregates.NewCaseAggregate(aggregates.CaseAggregateDeps{
		Base:  aggregates.BaseDeps{DB: db, Log: log, Hooks: aggregates.NewObservabilityHooks(metrics)},
		Repos: caseRepos,
	})
	svc := services.NewCaseService(log, agg, caseRepos.Cases, services.NewMemoryIdempotencyStore(time.Hour, nil), metrics, 1)
	return apphttp.NewRouter(apphttp.RouterConfig{
		Log:           log,
		Metrics:       metrics,
		SystemActorID: 1,
		CaseHandler:   httpH.NewCaseHandler(log, svc),
		HealthHandler: httpH.NewHealthHandler(db),
	})
}

func do(t *testing.T, r *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type createResponse struct {
	Code string `json:"code"`
	IDs  struct {
		CaseID uint `json:"caseId"`
	} `json:"ids"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func createCase(t *testing.T, r *gin.Engine, headers map[string]string) createResponse {
	t.Helper()
	rec := do(t, r, http.MethodPost, "/api/cases", createBody, headers)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status=%d body=%s", rec.Code, rec.Body.String())
	}
	var out createResponse
	decode(t, rec, &out)
	return out
}

func TestCaseLifecycleOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	created := createCase(t, r, map[string]string{"X-Actor-Id": "12"})
	if created.Code == "" || created.IDs.CaseID == 0 {
		t.Fatalf("create response: %+v", created)
	}
	path := "/api/cases/" + itoa(created.IDs.CaseID)

	rec := do(t, r, http.MethodGet, path, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status=%d body=%s", rec.Code, rec.Body.String())
	}
	var got struct {
		Case struct {
			Code                  string `json:"code"`
			PrimaryResponseAction struct {
				AuditUserID uint `json:"auditUserId"`
			} `json:"primaryResponseAction"`
			CriminalEvent struct {
				CrimeTypes struct {
					Threats bool `json:"threats"`
				} `json:"crimeTypes"`
			} `json:"criminalEvent"`
		} `json:"case"`
	}
	decode(t, rec, &got)
	if got.Case.Code != created.Code || got.Case.PrimaryResponseAction.AuditUserID != 12 || !got.Case.CriminalEvent.CrimeTypes.Threats {
		t.Fatalf("get body: %+v", got)
	}

	rec = do(t, r, http.MethodPatch, path, `{"criminalEvent": {"attackerCount": 5}, "followUpDetail": "x"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: status=%d body=%s", rec.Code, rec.Body.String())
	}
	var patched struct {
		Applied []string `json:"applied"`
	}
	decode(t, rec, &patched)
	if len(patched.Applied) != 2 {
		t.Fatalf("applied: %v", patched.Applied)
	}

	if rec = do(t, r, http.MethodPost, path+"/close", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("close: status=%d body=%s", rec.Code, rec.Body.String())
	}
	rec = do(t, r, http.MethodPost, path+"/archive", "", nil)
	var e errorResponse
	decode(t, rec, &e)
	if rec.Code != http.StatusConflict || e.Error.Code != "conflict" {
		t.Fatalf("archive closed: status=%d body=%s", rec.Code, rec.Body.String())
	}

	if rec = do(t, r, http.MethodDelete, path, "", nil); rec.Code != http.StatusOK {
		t.Fatalf("delete: status=%d body=%s", rec.Code, rec.Body.String())
	}
	if rec = do(t, r, http.MethodGet, path, "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted: status=%d", rec.Code)
	}
	if rec = do(t, r, http.MethodGet, path+"?includeDeleted=true", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("get deleted with flag: status=%d", rec.Code)
	}
	rec = do(t, r, http.MethodPost, path+"/reactivate", "", nil)
	decode(t, rec, &e)
	if rec.Code != http.StatusConflict || e.Error.Code != "invariant_violation" {
		t.Fatalf("reactivate deleted: status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCreateIdempotencyKeyReplay(t *testing.T) {
	r := newTestRouter(t)
	headers := map[string]string{"Idempotency-Key": "abc-123"}

	first := do(t, r, http.MethodPost, "/api/cases", createBody, headers)
	second := do(t, r, http.MethodPost, "/api/cases", createBody, headers)
	if first.Code != http.StatusCreated || second.Code != http.StatusCreated {
		t.Fatalf("statuses: %d %d", first.Code, second.Code)
	}
	if first.Header().Get("Idempotent-Replay") != "" || second.Header().Get("Idempotent-Replay") != "true" {
		t.Fatalf("replay headers: first=%q second=%q", first.Header().Get("Idempotent-Replay"), second.Header().Get("Idempotent-Replay"))
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("replayed body differs: %s vs %s", first.Body.String(), second.Body.String())
	}
	if next := createCase(t, r, nil); next.Code == "" {
		t.Fatalf("unkeyed create failed")
	}
}

func TestCaseErrorsOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	cases := []struct {
		name    string
		method  string
		path    string
		body    string
		headers map[string]string
		status  int
		code    string
	}{
		{"malformed json", http.MethodPost, "/api/cases", `{`, nil, http.StatusBadRequest, "validation"},
		{"missing victim name", http.MethodPost, "/api/cases", `{"referral": {"reasonCode": 1, "referralTimestamp": "2024-01-01"}}`, nil, http.StatusBadRequest, "validation"},
		{"bad timestamp", http.MethodPost, "/api/cases", `{"referral": {"reasonCode": 1, "referralTimestamp": "yesterday"}, "victim": {"fullName": "x"}}`, nil, http.StatusBadRequest, "validation"},
		{"unknown reason", http.MethodPost, "/api/cases", `{"referral": {"reasonCode": 99, "referralTimestamp": "2024-01-01"}, "victim": {"fullName": "x"}}`, nil, http.StatusPreconditionFailed, "precondition_failed"},
		{"bad actor", http.MethodPost, "/api/cases", createBody, map[string]string{"X-Actor-Id": "nope"}, http.StatusBadRequest, "validation"},
		{"bad id", http.MethodGet, "/api/cases/abc", "", nil, http.StatusBadRequest, "validation"},
		{"missing case", http.MethodGet, "/api/cases/404", "", nil, http.StatusNotFound, "not_found"},
		{"patch missing case", http.MethodPatch, "/api/cases/404", `{"case": {"summary": "x"}}`, nil, http.StatusNotFound, "not_found"},
		{"close missing case", http.MethodPost, "/api/cases/404/close", "", nil, http.StatusNotFound, "not_found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, r, tc.method, tc.path, tc.body, tc.headers)
			if rec.Code != tc.status {
				t.Fatalf("status: want=%d got=%d body=%s", tc.status, rec.Code, rec.Body.String())
			}
			var e errorResponse
			decode(t, rec, &e)
			if e.Error.Code != tc.code || e.Error.Message == "" {
				t.Fatalf("error body: %+v", e)
			}
		})
	}
}

func TestHealthcheck(t *testing.T) {
	r := newTestRouter(t)
	rec := do(t, r, http.MethodGet, "/healthcheck", "", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck: status=%d body=%q", rec.Code, rec.Body.String())
	}
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
