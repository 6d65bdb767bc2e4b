package routing_test

import (
	"context"
	"net/http"
	"testing"

	"pickupoint/internal/adapters/out/routing"
	"pickupoint/internal/core/domain/model/kernel"

	"github.com/cenkalti/backoff/v4"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const directionsURL = `=~^http://ors\.test/v2/directions/driving-car`

func newClient(t *testing.T) *routing.ORSClient {
	t.Helper()
	session := &http.Client{}
	httpmock.ActivateNonDefault(session)
	t.Cleanup(httpmock.DeactivateAndReset)

	client, err := routing.NewORSClient("secret",
		routing.WithBaseURL("http://ors.test/"),
		routing.WithHTTPClient(session),
		routing.WithBackOff(func() backoff.BackOff {
			return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 2)
		}),
	)
	require.NoError(t, err)
	return client
}

func points(t *testing.T) (kernel.GeoPoint, kernel.GeoPoint) {
	t.Helper()
	from, err := kernel.NewGeoPoint(6.1319, 1.2228)
	require.NoError(t, err)
	to, err := kernel.NewGeoPoint(6.1725, 1.2314)
	require.NoError(t, err)
	return from, to
}

func Test_ORSClient_DurationSeconds(t *testing.T) {
	client := newClient(t)
	from, to := points(t)

	httpmock.RegisterResponder(http.MethodGet, directionsURL,
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "secret", req.Header.Get("Authorization"))
			assert.Equal(t, "1.222800,6.131900", req.URL.Query().Get("start"))
			assert.Equal(t, "1.231400,6.172500", req.URL.Query().Get("end"))
			return httpmock.NewStringResponse(200, `{"features":[{"properties":{"summary":{"distance":5120.3,"duration":612.6}}}]}`), nil
		})

	seconds, err := client.DurationSeconds(context.Background(), from, to)

	require.NoError(t, err)
	assert.Equal(t, 613, seconds)
}

func Test_ORSClient_RetriesTransientFailures(t *testing.T) {
	client := newClient(t)
	from, to := points(t)

	httpmock.RegisterResponder(http.MethodGet, directionsURL,
		httpmock.NewStringResponder(503, "busy").
			Then(httpmock.NewStringResponder(200, `{"features":[{"properties":{"summary":{"duration":60}}}]}`)))

	seconds, err := client.DurationSeconds(context.Background(), from, to)

	require.NoError(t, err)
	assert.Equal(t, 60, seconds)
	assert.Equal(t, 2, httpmock.GetTotalCallCount())
}

func Test_ORSClient_ClientErrorIsNotRetried(t *testing.T) {
	client := newClient(t)
	from, to := points(t)

	httpmock.RegisterResponder(http.MethodGet, directionsURL, httpmock.NewStringResponder(403, "bad key"))

	_, err := client.DurationSeconds(context.Background(), from, to)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func Test_ORSClient_NoRoute(t *testing.T) {
	client := newClient(t)
	from, to := points(t)

	httpmock.RegisterResponder(http.MethodGet, directionsURL, httpmock.NewStringResponder(200, `{"features":[]}`))

	_, err := client.DurationSeconds(context.Background(), from, to)

	assert.ErrorIs(t, err, routing.ErrNoRoute)
}

func Test_NewORSClient_RequiresKey(t *testing.T) {
	_, err := routing.NewORSClient("")
	assert.Error(t, err)
}
