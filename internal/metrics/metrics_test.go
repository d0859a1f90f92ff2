package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveExtraction(t *testing.T) {
	before := testutil.ToFloat64(extractionsTotal.WithLabelValues("deep", "success"))
	failedBefore := testutil.ToFloat64(extractionsTotal.WithLabelValues("deep", "upstream_error"))

	ObserveExtraction("deep", "success", 3)
	ObserveExtraction("deep", "upstream_error", 0)

	if got := testutil.ToFloat64(extractionsTotal.WithLabelValues("deep", "success")) - before; got != 1 {
		t.Errorf("expected one successful deep extraction, got %f", got)
	}
	if got := testutil.ToFloat64(extractionsTotal.WithLabelValues("deep", "upstream_error")) - failedBefore; got != 1 {
		t.Errorf("expected one failed deep extraction, got %f", got)
	}
	if got := testutil.CollectAndCount(emailsPerExtraction); got == 0 {
		t.Error("expected emails histogram to be observed")
	}
}

func TestObserveUpstreamOutcome(t *testing.T) {
	ObserveUpstream("firecrawl", "scrape", nil, 10*time.Millisecond)
	ObserveUpstream("firecrawl", "scrape", errors.New("boom"), 10*time.Millisecond)

	if got := testutil.CollectAndCount(upstreamRequestDurationSeconds); got < 2 {
		t.Errorf("expected success and error series, got %d", got)
	}
}

func TestCountersIncrement(t *testing.T) {
	captchaBefore := testutil.ToFloat64(captchaVerificationsTotal.WithLabelValues("rejected"))
	limitBefore := testutil.ToFloat64(rateLimitRejectedTotal)
	historyBefore := testutil.ToFloat64(historyWritesTotal.WithLabelValues("error"))

	ObserveCaptcha("rejected")
	ObserveRateLimitRejected()
	ObserveHistoryWrite(errors.New("db down"))

	if got := testutil.ToFloat64(captchaVerificationsTotal.WithLabelValues("rejected")) - captchaBefore; got != 1 {
		t.Errorf("expected captcha counter +1, got %f", got)
	}
	if got := testutil.ToFloat64(rateLimitRejectedTotal) - limitBefore; got != 1 {
		t.Errorf("expected rate limit counter +1, got %f", got)
	}
	if got := testutil.ToFloat64(historyWritesTotal.WithLabelValues("error")) - historyBefore; got != 1 {
		t.Errorf("expected history error counter +1, got %f", got)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	ObserveCaptcha("success")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "extractor_captcha_verifications_total") {
		t.Fatal("expected captcha counter in exposition output")
	}
}
