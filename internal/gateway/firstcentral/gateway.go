package firstcentral

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"kobolend-backend/internal/domain/bureau"
)

// FirstCentral replies with an array of single-key section objects. The
// set of sections present tells hit from no-hit from duplicate-match.
const (
	sectionPersonal    = "PersonalDetailsSummary"
	sectionCreditAgmts = "CreditAgreementSummary"
	sectionScore       = "Score"
	sectionSearchList  = "SearchOutput"
)

type Gateway struct {
	baseURL  string
	username string
	password string
	client   *http.Client
}

func New(baseURL, username, password string, timeout time.Duration) *Gateway {
	return &Gateway{baseURL: baseURL, username: username, password: password,
		client: &http.Client{Timeout: timeout}}
}

func (g *Gateway) Name() bureau.Name { return bureau.FirstCentral }

func (g *Gateway) Lookup(ctx context.Context, bvn string) (bureau.LookupResult, error) {
	token, err := g.login(ctx)
	if err != nil {
		return bureau.LookupResult{}, err
	}
	sections, err := g.post(ctx, "/ConsumerMatch", map[string]any{
		"DataTicket":     token,
		"Identification": bvn,
		"ConsumerName":   "",
		"EnquiryReason":  "Application for credit or amendment of credit terms",
		"ProductID":      "62",
	})
	if err != nil {
		return bureau.LookupResult{}, err
	}
	return normalize(sections)
}

func (g *Gateway) Merge(ctx context.Context, bvn string, candidates []string) (bureau.LookupResult, error) {
	token, err := g.login(ctx)
	if err != nil {
		return bureau.LookupResult{}, err
	}
	sections, err := g.post(ctx, "/ConsumerMergeReport", map[string]any{
		"DataTicket":     token,
		"Identification": bvn,
		"ConsumerIDs":    candidates,
		"ProductID":      "62",
	})
	if err != nil {
		return bureau.LookupResult{}, err
	}
	res, err := normalize(sections)
	if err != nil {
		return bureau.LookupResult{}, err
	}
	if res.Kind == bureau.MergeRequired {
		return bureau.LookupResult{}, fmt.Errorf("%w: merge loop", bureau.ErrUnavailable)
	}
	return res, nil
}

func (g *Gateway) login(ctx context.Context) (string, error) {
	raw, err := g.postRaw(ctx, "/Login", map[string]any{
		"Username": g.username,
		"Password": g.password,
	})
	if err != nil {
		return "", err
	}
	var out []struct {
		DataTicket string `json:"DataTicket"`
	}
	if err := json.Unmarshal(raw, &out); err != nil || len(out) == 0 || out[0].DataTicket == "" {
		return "", fmt.Errorf("%w: login ticket missing", bureau.ErrUnavailable)
	}
	return out[0].DataTicket, nil
}

func (g *Gateway) post(ctx context.Context, path string, body map[string]any) ([]map[string]json.RawMessage, error) {
	raw, err := g.postRaw(ctx, path, body)
	if err != nil {
		return nil, err
	}
	var sections []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &sections); err != nil {
		return nil, fmt.Errorf("%w: malformed report: %v", bureau.ErrUnavailable, err)
	}
	return sections, nil
}

func (g *Gateway) postRaw(ctx context.Context, path string, body map[string]any) ([]byte, error) {
	payload, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", bureau.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", bureau.ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", bureau.ErrUnavailable, resp.StatusCode)
	}
	return raw, nil
}

func normalize(sections []map[string]json.RawMessage) (bureau.LookupResult, error) {
	merged := map[string]json.RawMessage{}
	for _, s := range sections {
		for k, v := range s {
			merged[k] = v
		}
	}
	if len(merged) == 0 {
		return bureau.LookupResult{Kind: bureau.NoHit}, nil
	}
	if body, ok := merged[sectionSearchList]; ok {
		refs, err := searchReferences(body)
		if err != nil {
			return bureau.LookupResult{}, err
		}
		if len(refs) > 1 {
			return bureau.LookupResult{Kind: bureau.MergeRequired, MergeCandidates: refs}, nil
		}
	}
	agmts, ok := merged[sectionCreditAgmts]
	if !ok {
		if _, personal := merged[sectionPersonal]; !personal {
			return bureau.LookupResult{Kind: bureau.NoHit}, nil
		}
		return bureau.LookupResult{}, fmt.Errorf("%w: credit agreement section absent", bureau.ErrUnavailable)
	}

	delinq, err := countDelinquencies(agmts)
	if err != nil {
		return bureau.LookupResult{}, err
	}
	var score *int
	if rawScore, ok := merged[sectionScore]; ok {
		score = parseScore(rawScore)
	}

	raw, _ := json.Marshal(merged)
	return bureau.LookupResult{
		Kind:          bureau.Hit,
		Sections:      raw,
		Delinquencies: delinq,
		Score:         score,
	}, nil
}

func countDelinquencies(agmts json.RawMessage) (int, error) {
	var list []struct {
		PerformanceStatus string `json:"PerformanceStatus"`
		AccountStatus     string `json:"AccountStatus"`
	}
	if err := json.Unmarshal(agmts, &list); err != nil {
		return 0, fmt.Errorf("%w: credit agreement section: %v", bureau.ErrUnavailable, err)
	}
	delinq := 0
	for _, a := range list {
		if a.PerformanceStatus != "" && a.PerformanceStatus != "Performing" {
			delinq++
		}
	}
	return delinq, nil
}

func searchReferences(body json.RawMessage) ([]string, error) {
	var matches []struct {
		ConsumerID string `json:"ConsumerID"`
	}
	if err := json.Unmarshal(body, &matches); err != nil {
		return nil, fmt.Errorf("%w: search output: %v", bureau.ErrUnavailable, err)
	}
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.ConsumerID != "" {
			refs = append(refs, m.ConsumerID)
		}
	}
	return refs, nil
}

func parseScore(raw json.RawMessage) *int {
	var scores []struct {
		TotalConsumerScore int `json:"TotalConsumerScore,string"`
	}
	if err := json.Unmarshal(raw, &scores); err != nil || len(scores) == 0 {
		return nil
	}
	v := scores[0].TotalConsumerScore
	return &v
}
