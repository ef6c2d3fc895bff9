package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mohammed-shakir/parkmap/internal/core/observability"
)

func TestProvider_MergesBuildInfoAndDefaultRegistry(t *testing.T) {
	p := Init(Config{Build: BuildInfo{Version: "test", Revision: "abc"}})
	observability.ObserveRebuild("startup", 0.0001)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	p.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	if !strings.Contains(body, `parkmap_build_info{build_date="",revision="abc",version="test"} 1`) {
		t.Fatalf("missing build info; got:\n%s", body)
	}
	if !strings.Contains(body, "parkmap_rebuilds_total") {
		t.Fatalf("missing default registry metrics; got:\n%s", body)
	}
}
