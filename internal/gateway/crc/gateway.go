package crc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"kobolend-backend/internal/domain/bureau"
)

// CRC response section names. The report body is otherwise opaque.
const (
	sectionNoHit      = "NOMATCHRESPONSE"
	sectionConsumer   = "CONSCOMMDETAILS"
	sectionSearchList = "BODY"
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

func (g *Gateway) Name() bureau.Name { return bureau.CRC }

func (g *Gateway) Lookup(ctx context.Context, bvn string) (bureau.LookupResult, error) {
	raw, err := g.post(ctx, map[string]any{
		"Request":    fmt.Sprintf(`{"@REQUEST_ID":"1","REQUEST_PARAMETERS":{"REPORT_PARAMETERS":{"@REPORT_ID":"2","@SUBJECT_TYPE":"1","@RESPONSE_TYPE":"5"},"INQUIRY_REASON":{"@CODE":"1"},"APPLICATION":{"@PRODUCT":"017","@NUMBER":"1","@AMOUNT":"0","@CURRENCY":"NGN"}},"SEARCH_PARAMETERS":{"@SEARCH-TYPE":"4","BVN_NO":"%s"}}`, bvn),
		"UserName":   g.username,
		"Password":   g.password,
	})
	if err != nil {
		return bureau.LookupResult{}, err
	}
	return normalize(raw)
}

func (g *Gateway) Merge(ctx context.Context, bvn string, candidates []string) (bureau.LookupResult, error) {
	refs, _ := json.Marshal(candidates)
	raw, err := g.post(ctx, map[string]any{
		"Request":  fmt.Sprintf(`{"@REQUEST_ID":"1","REQUEST_PARAMETERS":{"REPORT_PARAMETERS":{"@REPORT_ID":"2","@SUBJECT_TYPE":"1","@RESPONSE_TYPE":"5"}},"MERGE_REPORT":{"BVN_NO":"%s","REFERENCES":%s}}`, bvn, refs),
		"UserName": g.username,
		"Password": g.password,
	})
	if err != nil {
		return bureau.LookupResult{}, err
	}
	res, err := normalize(raw)
	if err != nil {
		return bureau.LookupResult{}, err
	}
	if res.Kind == bureau.MergeRequired {
		// A merge reply must not ask for another merge.
		return bureau.LookupResult{}, fmt.Errorf("%w: merge loop", bureau.ErrUnavailable)
	}
	return res, nil
}

func (g *Gateway) post(ctx context.Context, body map[string]any) (map[string]json.RawMessage, error) {
	payload, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL, bytes.NewReader(payload))
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
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: malformed report: %v", bureau.ErrUnavailable, err)
	}
	return doc, nil
}

// normalize maps CRC's three response shapes onto LookupResult: a
// no-match section means no hit, a consumer section means a hit, and a
// bare search-list body means duplicate records needing a merge.
func normalize(doc map[string]json.RawMessage) (bureau.LookupResult, error) {
	if _, ok := doc[sectionNoHit]; ok {
		return bureau.LookupResult{Kind: bureau.NoHit}, nil
	}
	if consumer, ok := doc[sectionConsumer]; ok {
		sections, _ := json.Marshal(doc)
		delinq, score, err := evaluateConsumer(consumer)
		if err != nil {
			return bureau.LookupResult{}, err
		}
		return bureau.LookupResult{
			Kind:          bureau.Hit,
			Sections:      sections,
			Delinquencies: delinq,
			Score:         score,
		}, nil
	}
	if body, ok := doc[sectionSearchList]; ok {
		refs, err := searchReferences(body)
		if err != nil {
			return bureau.LookupResult{}, err
		}
		return bureau.LookupResult{Kind: bureau.MergeRequired, MergeCandidates: refs}, nil
	}
	// Expected section absent is a hard failure, not a default.
	return bureau.LookupResult{}, fmt.Errorf("%w: unrecognized report shape", bureau.ErrUnavailable)
}

func evaluateConsumer(consumer json.RawMessage) (int, *int, error) {
	var section struct {
		Summary struct {
			Facilities []struct {
				AssetClass string `json:"ASSET_CLASSIFICATION"`
				Status     string `json:"ACCOUNT_STATUS"`
			} `json:"CREDIT_NANO_SUMMARY"`
		} `json:"SUMMARY"`
		Score struct {
			Value string `json:"SCORE_VALUE"`
		} `json:"SCORE_DETAILS"`
	}
	if err := json.Unmarshal(consumer, &section); err != nil {
		return 0, nil, fmt.Errorf("%w: consumer section: %v", bureau.ErrUnavailable, err)
	}
	delinq := 0
	for _, f := range section.Summary.Facilities {
		if f.AssetClass != "" && f.AssetClass != "performing" && f.AssetClass != "PERFORMING" {
			delinq++
		}
	}
	var score *int
	if section.Score.Value != "" {
		if v, err := strconv.Atoi(section.Score.Value); err == nil {
			score = &v
		}
	}
	return delinq, score, nil
}

func searchReferences(body json.RawMessage) ([]string, error) {
	var list struct {
		SearchResults []struct {
			Reference string `json:"REFERENCE_NO"`
		} `json:"SEARCHRESULTLIST"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: search list: %v", bureau.ErrUnavailable, err)
	}
	refs := make([]string, 0, len(list.SearchResults))
	for _, s := range list.SearchResults {
		refs = append(refs, s.Reference)
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("%w: empty search list", bureau.ErrUnavailable)
	}
	return refs, nil
}
