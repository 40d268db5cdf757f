package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/icp-outreach/internal/core"
)

type peopleFunc func(ctx context.Context, companyDomain string) ([]core.Person, error)

func (f peopleFunc) FetchPeople(ctx context.Context, companyDomain string) ([]core.Person, error) {
	return f(ctx, companyDomain)
}

func TestPeopleService_RanksByTierPreservingUpstreamOrder(t *testing.T) {
	client := peopleFunc(func(ctx context.Context, companyDomain string) ([]core.Person, error) {
		return []core.Person{
			{Name: "Eve", Title: "Software Engineer"},
			{Name: "Mallory", Title: "Engineering Manager"},
			{Name: "Alice", Title: "VP of Engineering"},
			{Name: "Bob", Title: "Director of Product"},
			{Name: "Carol", Title: "Tech Lead"},
		}, nil
	})
	svc := core.NewPeopleService(client, quickRetry(1), zap.NewNop(), 5)

	makers, err := svc.Resolve(context.Background(), "acme.example", 5)
	require.NoError(t, err)

	names := make([]string, 0, len(makers))
	for _, m := range makers {
		names = append(names, m.Name)
	}
	require.Equal(t, []string{"Alice", "Bob", "Mallory", "Carol", "Eve"}, names)
	require.Equal(t, core.TierExecutive, makers[0].Tier)
	require.Equal(t, "acme.example", makers[0].CompanyDomain)
}

func TestPeopleService_TruncatesToTarget(t *testing.T) {
	client := peopleFunc(func(ctx context.Context, companyDomain string) ([]core.Person, error) {
		return []core.Person{
			{Name: "Alice", Title: "CEO"},
			{Name: "Bob", Title: "CTO"},
			{Name: "Carol", Title: "Engineering Manager"},
		}, nil
	})
	svc := core.NewPeopleService(client, quickRetry(1), zap.NewNop(), 5)

	makers, err := svc.Resolve(context.Background(), "acme.example", 2)
	require.NoError(t, err)
	require.Len(t, makers, 2)
	require.Equal(t, "Alice", makers[0].Name)
	require.Equal(t, "Bob", makers[1].Name)
}

func TestPeopleService_EmptyResultIsValid(t *testing.T) {
	client := peopleFunc(func(ctx context.Context, companyDomain string) ([]core.Person, error) {
		return nil, nil
	})
	svc := core.NewPeopleService(client, quickRetry(1), zap.NewNop(), 5)

	makers, err := svc.Resolve(context.Background(), "ghost.example", 5)
	require.NoError(t, err)
	require.Empty(t, makers)
}

func TestPeopleService_PermanentProviderErrorSurfacesAsIs(t *testing.T) {
	calls := 0
	rejected := errors.New("invalid API key")
	client := peopleFunc(func(ctx context.Context, companyDomain string) ([]core.Person, error) {
		calls++
		return nil, rejected
	})
	svc := core.NewPeopleService(client, quickRetry(3), zap.NewNop(), 5)

	_, err := svc.Resolve(context.Background(), "acme.example", 5)
	require.ErrorIs(t, err, rejected)
	var unavailable *core.UpstreamUnavailableError
	require.False(t, errors.As(err, &unavailable))
	require.Equal(t, 1, calls)
}

func TestPeopleService_RetriesExhaustedIsUpstreamFailure(t *testing.T) {
	calls := 0
	client := peopleFunc(func(ctx context.Context, companyDomain string) ([]core.Person, error) {
		calls++
		return nil, core.Transient(errors.New("rate limited"))
	})
	svc := core.NewPeopleService(client, quickRetry(3), zap.NewNop(), 5)

	_, err := svc.Resolve(context.Background(), "acme.example", 5)
	var unavailable *core.UpstreamUnavailableError
	require.ErrorAs(t, err, &unavailable)
	require.Equal(t, "people", unavailable.Collaborator)
	require.Equal(t, 3, calls)
}
