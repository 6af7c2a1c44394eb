package firstcentral

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kobolend-backend/internal/domain/bureau"
)

// newServer routes /Login to a fixed ticket and everything else to
// reportHandler, so each test only supplies the report shape.
func newServer(t *testing.T, reportHandler http.HandlerFunc) *Gateway {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/Login", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]any
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Fatalf("decode login: %v", err)
		}
		if creds["Username"] != "fc-user" || creds["Password"] != "fc-pass" {
			t.Fatalf("wrong credentials: %v", creds)
		}
		_, _ = w.Write([]byte(`[{"DataTicket":"ticket-1"}]`))
	})
	mux.HandleFunc("/", reportHandler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return New(srv.URL, "fc-user", "fc-pass", 2*time.Second)
}

func TestLookup_Hit(t *testing.T) {
	var path string
	var body map[string]any
	g := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`[
			{"PersonalDetailsSummary": {"BirthDate":"1990-01-01"}},
			{"CreditAgreementSummary": [
				{"PerformanceStatus":"Performing","AccountStatus":"Open"},
				{"PerformanceStatus":"Delinquent 90 days","AccountStatus":"Open"},
				{"PerformanceStatus":"","AccountStatus":"Closed"}
			]},
			{"Score": [{"TotalConsumerScore":"735"}]}
		]`))
	})

	res, err := g.Lookup(context.Background(), "22298765432")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if path != "/ConsumerMatch" {
		t.Fatalf("path = %s, want /ConsumerMatch", path)
	}
	if body["DataTicket"] != "ticket-1" {
		t.Fatalf("login ticket not forwarded: %v", body)
	}
	if body["Identification"] != "22298765432" {
		t.Fatalf("bvn not sent: %v", body)
	}
	if res.Kind != bureau.Hit {
		t.Fatalf("kind = %v, want Hit", res.Kind)
	}
	if res.Delinquencies != 1 {
		t.Fatalf("delinquencies = %d, want 1", res.Delinquencies)
	}
	if res.Score == nil || *res.Score != 735 {
		t.Fatalf("score = %v, want 735", res.Score)
	}
	if len(res.Sections) == 0 {
		t.Fatal("raw sections not preserved")
	}
}

func TestLookup_NoHit(t *testing.T) {
	g := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	res, err := g.Lookup(context.Background(), "22298765432")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if res.Kind != bureau.NoHit {
		t.Fatalf("kind = %v, want NoHit", res.Kind)
	}
}

func TestLookup_MergeRequired(t *testing.T) {
	g := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"SearchOutput": [{"ConsumerID":"100"},{"ConsumerID":"200"}]}
		]`))
	})

	res, err := g.Lookup(context.Background(), "22298765432")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if res.Kind != bureau.MergeRequired {
		t.Fatalf("kind = %v, want MergeRequired", res.Kind)
	}
	if len(res.MergeCandidates) != 2 || res.MergeCandidates[0] != "100" || res.MergeCandidates[1] != "200" {
		t.Fatalf("candidates = %v", res.MergeCandidates)
	}
}

func TestLookup_SingleMatchReadsReport(t *testing.T) {
	g := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"SearchOutput": [{"ConsumerID":"100"}]},
			{"CreditAgreementSummary": []}
		]`))
	})

	res, err := g.Lookup(context.Background(), "22298765432")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if res.Kind != bureau.Hit || res.Delinquencies != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestLookup_AgreementsAbsent(t *testing.T) {
	g := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"PersonalDetailsSummary": {"BirthDate":"1990-01-01"}}]`))
	})

	if _, err := g.Lookup(context.Background(), "22298765432"); !errors.Is(err, bureau.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestLookup_LoginFailure(t *testing.T) {
	reportCalled := false
	mux := http.NewServeMux()
	mux.HandleFunc("/Login", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"DataTicket":""}]`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		reportCalled = true
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	g := New(srv.URL, "fc-user", "bad-pass", time.Second)

	if _, err := g.Lookup(context.Background(), "22298765432"); !errors.Is(err, bureau.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if reportCalled {
		t.Fatal("report endpoint reached without a login ticket")
	}
}

func TestLookup_ServerError(t *testing.T) {
	g := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	if _, err := g.Lookup(context.Background(), "22298765432"); !errors.Is(err, bureau.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestMerge_Success(t *testing.T) {
	var path string
	var body map[string]any
	g := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`[
			{"CreditAgreementSummary": [{"PerformanceStatus":"Performing"}]},
			{"Score": [{"TotalConsumerScore":"540"}]}
		]`))
	})

	res, err := g.Merge(context.Background(), "22298765432", []string{"100", "200"})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if path != "/ConsumerMergeReport" {
		t.Fatalf("path = %s, want /ConsumerMergeReport", path)
	}
	ids, _ := body["ConsumerIDs"].([]any)
	if len(ids) != 2 || ids[0] != "100" || ids[1] != "200" {
		t.Fatalf("consumer ids = %v", body["ConsumerIDs"])
	}
	if res.Kind != bureau.Hit || res.Delinquencies != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Score == nil || *res.Score != 540 {
		t.Fatalf("score = %v, want 540", res.Score)
	}
}

func TestMerge_LoopRejected(t *testing.T) {
	g := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"SearchOutput": [{"ConsumerID":"300"},{"ConsumerID":"400"}]}]`))
	})

	if _, err := g.Merge(context.Background(), "22298765432", []string{"100"}); !errors.Is(err, bureau.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}
