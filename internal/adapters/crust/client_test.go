package crust_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/icp-outreach/internal/adapters/crust"
	"github.com/mikey/icp-outreach/internal/core"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *crust.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return crust.NewClient(srv.URL, "test-key", 5*time.Second, zap.NewNop())
}

func TestClient_FetchCompanies(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/screener/company", r.URL.Path)
		require.Equal(t, "Token test-key", r.Header.Get("Authorization"))

		var req struct {
			CompanyDomains []string `json:"company_domains"`
			Fields         []string `json:"fields"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, []string{"acme.example", "ghost.example"}, req.CompanyDomains)
		require.Contains(t, req.Fields, "taxonomy")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{
				"company_name": "Acme",
				"company_website_domain": "acme.example",
				"headcount": {"linkedin_headcount": 120, "linkedin_headcount_growth_percent": 14.2},
				"estimated_revenue_lower_bound_usd": 2000000,
				"headquarters": "Berlin",
				"taxonomy": {
					"linkedin_industries": ["Fintech", "Payments"],
					"crunchbase_categories": ["Payments", "B2B"]
				},
				"year_founded": "2016"
			},
			{
				"company_name": "No Domain Inc"
			}
		]`))
	})

	candidates, err := client.FetchCompanies(context.Background(), []string{"acme.example", "ghost.example"})
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	acme := candidates[0]
	require.Equal(t, "acme.example", acme.Domain)
	require.Equal(t, "Acme", acme.Name)
	require.Equal(t, 120, acme.Headcount)
	require.Equal(t, 2_000_000, acme.RevenueLower)
	require.Equal(t, "Berlin", acme.Headquarters)
	require.Equal(t, []string{"Fintech", "Payments", "B2B"}, acme.Industries)
	require.Equal(t, "2016", acme.FoundedYear)
	require.True(t, acme.GrowthSignal)
}

func TestClient_FetchCompanies_GrowthSignalThreshold(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"company_website_domain": "slow.example", "headcount": {"linkedin_headcount_growth_percent": 9.9}},
			{"company_website_domain": "fast.example", "headcount": {"linkedin_headcount_growth_percent": 10.0}}
		]`))
	})

	candidates, err := client.FetchCompanies(context.Background(), []string{"slow.example", "fast.example"})
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	require.False(t, candidates[0].GrowthSignal)
	require.True(t, candidates[1].GrowthSignal)
}

func TestClient_FetchCompanies_DomainFallbacks(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"company_website_domain": "bare.example", "hq_country": "DE"}
		]`))
	})

	candidates, err := client.FetchCompanies(context.Background(), []string{"bare.example"})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.Equal(t, "bare.example", candidates[0].Name)
	require.Equal(t, "DE", candidates[0].Headquarters)
	require.Zero(t, candidates[0].Headcount)
	require.Zero(t, candidates[0].RevenueLower)
}

func TestClient_FetchPeople(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/screener/person/search/", r.URL.Path)

		var req struct {
			Filters []struct {
				FilterType string   `json:"filter_type"`
				Type       string   `json:"type"`
				Value      []string `json:"value"`
			} `json:"filters"`
			Page int `json:"page"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, 1, req.Page)
		require.Len(t, req.Filters, 2)
		require.Equal(t, "CURRENT_COMPANY", req.Filters[0].FilterType)
		require.Equal(t, []string{"acme.example"}, req.Filters[0].Value)
		require.Equal(t, "CURRENT_TITLE", req.Filters[1].FilterType)

		w.Write([]byte(`{
			"profiles": [
				{
					"name": "Alice",
					"default_position_title": "VP of Engineering",
					"emails": ["alice@acme.example", "alice@other.example"],
					"flagship_profile_url": "https://example.com/alice",
					"location": "Berlin"
				},
				{
					"name": "Bob",
					"current_title": "Engineering Manager",
					"linkedin_profile_url": "https://example.com/bob"
				},
				{
					"name": "No Title"
				}
			]
		}`))
	})

	people, err := client.FetchPeople(context.Background(), "acme.example")
	require.NoError(t, err)
	require.Len(t, people, 2)

	require.Equal(t, "Alice", people[0].Name)
	require.Equal(t, "VP of Engineering", people[0].Title)
	require.Equal(t, "alice@acme.example", people[0].Email)
	require.Equal(t, "https://example.com/alice", people[0].ProfileURL)

	require.Equal(t, "Bob", people[1].Name)
	require.Equal(t, "Engineering Manager", people[1].Title)
	require.Empty(t, people[1].Email)
	require.Equal(t, "https://example.com/bob", people[1].ProfileURL)
}

func TestClient_ServerErrorsAreTransient(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})

		_, err := client.FetchCompanies(context.Background(), []string{"acme.example"})
		require.Error(t, err)
		require.True(t, core.IsTransient(err), "status %d must be transient", status)
	}
}

func TestClient_ClientErrorsArePermanent(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})

		_, err := client.FetchCompanies(context.Background(), []string{"acme.example"})
		require.Error(t, err)
		require.False(t, core.IsTransient(err), "status %d must be permanent", status)
	}
}

func TestClient_NetworkFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	client := crust.NewClient(srv.URL, "test-key", time.Second, zap.NewNop())

	_, err := client.FetchCompanies(context.Background(), []string{"acme.example"})
	require.Error(t, err)
	require.True(t, core.IsTransient(err))
}
