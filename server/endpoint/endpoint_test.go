package endpoint

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voxalign/config"
	"github.com/kbukum/voxalign/engine"
	apperrors "github.com/kbukum/voxalign/errors"
	"github.com/kbukum/voxalign/logger"
	"github.com/kbukum/voxalign/observability"
	"github.com/kbukum/voxalign/report"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T, opts ...engine.Option) *gin.Engine {
	t.Helper()
	opts = append([]engine.Option{engine.WithLogger(logger.NewNop())}, opts...)
	eng, err := engine.New(config.Default(), opts...)
	if err != nil {
		t.Fatal(err)
	}
	r := gin.New()
	Register(r, eng, logger.NewNop())
	return r
}

func post(t *testing.T, r http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rr, req)
	return rr
}

const session = `{
	"channels": [
		{"file_name": "MIX.WAV", "transcript": {"utterances": [
			{"start": 0, "end": 2000, "text": "hello there", "speaker": "C"},
			{"start": 10000, "end": 12000, "text": "yeah totally", "speaker": "A"}
		]}},
		{"file_name": "MIC1.WAV", "transcript": {"unit": "s", "utterances": [
			{"start": 0.1, "end": 2.1, "text": "hello there", "speaker": "A"}
		]}},
		{"file_name": "MIC2.WAV", "transcript": "not a payload"}
	],
	"assignments": {"0": "Bob"}
}`

func TestAttribute(t *testing.T) {
	rr := post(t, newRouter(t), "/v1/attribute", session)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var body struct {
		Data report.AttributionResult `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	res := body.Data
	if !res.Success {
		t.Fatalf("expected success, got %q", res.ErrorMessage)
	}
	want := "Bob: hello there\nUnknown Speaker: yeah totally"
	if res.OutputTranscript != want {
		t.Errorf("transcript = %q, want %q", res.OutputTranscript, want)
	}
	if res.TotalUtterances != 2 || res.MatchedUtterances != 1 || res.UnmatchedUtterances != 1 {
		t.Errorf("unexpected counts %+v", res)
	}
	if res.Analysis == nil || len(res.Analysis.Errors) != 1 {
		t.Errorf("expected the bad MIC2 payload to be reported, got %+v", res.Analysis)
	}
}

func TestAttribute_NoMasterIsStillOK(t *testing.T) {
	rr := post(t, newRouter(t), "/v1/attribute", `{"channels":[{"file_name":"MIC1.WAV","transcript":{"utterances":[{"text":"hi"}]}}]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body struct {
		Data report.AttributionResult `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Data.Success || body.Data.ErrorMessage != "no master transcript to attribute" {
		t.Errorf("unexpected result %+v", body.Data)
	}
	if len(body.Data.ChannelTranscripts) != 1 {
		t.Errorf("expected the mic to be attributed directly")
	}
}

func TestDiagnose(t *testing.T) {
	rr := post(t, newRouter(t), "/v1/diagnose", session)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var body struct {
		Data report.AnalysisReport `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !body.Data.MasterMixFound || body.Data.MasterMixUtteranceCount != 2 || body.Data.TotalMicFilesFound != 1 {
		t.Errorf("unexpected report %+v", body.Data)
	}
}

func TestAttribute_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{"channels":`},
		{"no channels", `{"channels":[]}`},
		{"missing file name", `{"channels":[{"transcript":{}}]}`},
		{"bad assignment key", `{"channels":[{"file_name":"MIX.WAV","transcript":{}}],"assignments":{"mic1":"Ann"}}`},
	}
	r := newRouter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := post(t, r, "/v1/attribute", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
			}
			var body apperrors.ErrorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Error.Code != apperrors.ErrCodeInvalidPayload {
				t.Errorf("code = %s", body.Error.Code)
			}
		})
	}
}

type fixedHealth observability.HealthStatus

func (f fixedHealth) CheckHealth(context.Context) observability.Health {
	return observability.Health{Name: "tone", Status: observability.HealthStatus(f)}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		checkers   []observability.HealthChecker
		wantCode   int
		wantStatus observability.HealthStatus
	}{
		{"no components", nil, http.StatusOK, observability.HealthStatusUp},
		{"degraded", []observability.HealthChecker{fixedHealth(observability.HealthStatusDegraded)}, http.StatusOK, observability.HealthStatusDegraded},
		{"down", []observability.HealthChecker{fixedHealth(observability.HealthStatusDown)}, http.StatusServiceUnavailable, observability.HealthStatusDown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", Health("voxalign", "1.0.0", tt.checkers...))
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
			if rr.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rr.Code)
			}
			var sh observability.ServiceHealth
			if err := json.Unmarshal(rr.Body.Bytes(), &sh); err != nil {
				t.Fatal(err)
			}
			if sh.Status != tt.wantStatus || sh.Service != "voxalign" {
				t.Errorf("unexpected health %+v", sh)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	rr := httptest.NewRecorder()
	newRouter(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/version", http.NoBody))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var info map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &info); err != nil {
		t.Fatal(err)
	}
	if info["name"] != "voxalign" || info["version"] == "" {
		t.Errorf("unexpected version body %v", info)
	}
}
