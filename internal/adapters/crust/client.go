package crust

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mikey/icp-outreach/internal/core"
	"go.uber.org/zap"
)

// growthSignalThreshold is the headcount growth percentage above which a
// company counts as carrying an explicit high-growth signal.
const growthSignalThreshold = 10.0

// companyFields are the attribute fields requested per candidate batch.
var companyFields = []string{
	"company_name",
	"company_website_domain",
	"headcount",
	"estimated_revenue_lower_bound_usd",
	"headquarters",
	"hq_country",
	"taxonomy",
	"year_founded",
}

// decisionMakerTitles is the CURRENT_TITLE filter sent to the people
// search endpoint so upstream pre-filters to likely decision-makers.
var decisionMakerTitles = []string{
	"CEO", "Chief Executive Officer", "CTO", "Chief Technology Officer",
	"CFO", "Chief Financial Officer", "CMO", "Chief Marketing Officer",
	"COO", "Chief Operating Officer", "President", "VP", "Vice President",
	"Director", "Head", "Manager",
}

// Client talks to the Crust-style company-data provider. It implements
// both the CompanyDataClient and PeopleClient interfaces: the provider
// serves company enrichment and people search from the same API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

// NewClient creates a new company-data client.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger,
	}
}

// companyPayload is the upstream company enrichment shape. Optional and
// nested fields are mapped through toCandidate, which defaults cleanly on
// anything missing.
type companyPayload struct {
	CompanyName          string `json:"company_name"`
	CompanyWebsiteDomain string `json:"company_website_domain"`
	Headcount            struct {
		LinkedinHeadcount              int     `json:"linkedin_headcount"`
		LinkedinHeadcountGrowthPercent float64 `json:"linkedin_headcount_growth_percent"`
	} `json:"headcount"`
	EstimatedRevenueLowerBoundUSD int    `json:"estimated_revenue_lower_bound_usd"`
	Headquarters                  string `json:"headquarters"`
	HQCountry                     string `json:"hq_country"`
	Taxonomy                      struct {
		LinkedinIndustries   []string `json:"linkedin_industries"`
		CrunchbaseCategories []string `json:"crunchbase_categories"`
	} `json:"taxonomy"`
	YearFounded string `json:"year_founded"`
}

// personPayload is the upstream person search shape.
type personPayload struct {
	Name                 string   `json:"name"`
	DefaultPositionTitle string   `json:"default_position_title"`
	CurrentTitle         string   `json:"current_title"`
	Emails               []string `json:"emails"`
	FlagshipProfileURL   string   `json:"flagship_profile_url"`
	LinkedinProfileURL   string   `json:"linkedin_profile_url"`
	Location             string   `json:"location"`
}

// FetchCompanies requests attribute data for a batch of company domains.
// Identifiers the provider has no data for are simply absent from the
// result.
func (c *Client) FetchCompanies(ctx context.Context, domains []string) ([]core.CompanyCandidate, error) {
	body := map[string]interface{}{
		"company_domains": domains,
		"fields":          companyFields,
	}

	data, err := c.doRequest(ctx, http.MethodPost, "/screener/company", body)
	if err != nil {
		return nil, err
	}

	var payloads []companyPayload
	if err := json.Unmarshal(data, &payloads); err != nil {
		return nil, fmt.Errorf("failed to decode company payload: %w", err)
	}

	candidates := make([]core.CompanyCandidate, 0, len(payloads))
	for _, p := range payloads {
		candidate, ok := toCandidate(p)
		if !ok {
			c.logger.Debug("Skipping company payload without identifier",
				zap.String("name", p.CompanyName))
			continue
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

// FetchPeople searches for people at a company, pre-filtered upstream to
// decision-maker titles. Zero results is a valid outcome.
func (c *Client) FetchPeople(ctx context.Context, companyDomain string) ([]core.Person, error) {
	body := map[string]interface{}{
		"filters": []map[string]interface{}{
			{
				"filter_type": "CURRENT_COMPANY",
				"type":        "in",
				"value":       []string{companyDomain},
			},
			{
				"filter_type": "CURRENT_TITLE",
				"type":        "in",
				"value":       decisionMakerTitles,
			},
		},
		"page": 1,
	}

	data, err := c.doRequest(ctx, http.MethodPost, "/screener/person/search/", body)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Profiles []personPayload `json:"profiles"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode people payload: %w", err)
	}

	people := make([]core.Person, 0, len(resp.Profiles))
	for _, p := range resp.Profiles {
		person, ok := toPerson(p)
		if !ok {
			continue
		}
		people = append(people, person)
	}
	return people, nil
}

// doRequest issues one API call and classifies failures: network errors,
// 429 and 5xx are transient, other non-2xx statuses are permanent.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.Transient(fmt.Errorf("request to %s failed: %w", path, err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, core.Transient(fmt.Errorf("failed to read response from %s: %w", path, err))
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, nil
	}

	statusErr := fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, core.Transient(statusErr)
	}
	return nil, statusErr
}

// toCandidate maps an upstream payload to a candidate. It fails closed on
// a missing domain (the candidate identifier) and defaults cleanly on
// every optional field.
func toCandidate(p companyPayload) (core.CompanyCandidate, bool) {
	if p.CompanyWebsiteDomain == "" {
		return core.CompanyCandidate{}, false
	}

	industries := dedupe(append(
		append([]string{}, p.Taxonomy.LinkedinIndustries...),
		p.Taxonomy.CrunchbaseCategories...))

	headquarters := p.Headquarters
	if headquarters == "" {
		headquarters = p.HQCountry
	}

	name := p.CompanyName
	if name == "" {
		name = p.CompanyWebsiteDomain
	}

	return core.CompanyCandidate{
		Domain:       p.CompanyWebsiteDomain,
		Name:         name,
		Headcount:    p.Headcount.LinkedinHeadcount,
		RevenueLower: p.EstimatedRevenueLowerBoundUSD,
		Headquarters: headquarters,
		Industries:   industries,
		FoundedYear:  p.YearFounded,
		GrowthSignal: p.Headcount.LinkedinHeadcountGrowthPercent >= growthSignalThreshold,
	}, true
}

// toPerson maps an upstream person payload, failing closed on a missing
// name or title.
func toPerson(p personPayload) (core.Person, bool) {
	title := p.DefaultPositionTitle
	if title == "" {
		title = p.CurrentTitle
	}
	if p.Name == "" || title == "" {
		return core.Person{}, false
	}

	email := ""
	if len(p.Emails) > 0 {
		email = p.Emails[0]
	}
	profileURL := p.FlagshipProfileURL
	if profileURL == "" {
		profileURL = p.LinkedinProfileURL
	}

	return core.Person{
		Name:       p.Name,
		Title:      title,
		Email:      email,
		ProfileURL: profileURL,
		Location:   p.Location,
	}, true
}

// dedupe removes duplicate strings preserving first occurrence.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
