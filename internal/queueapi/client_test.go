package queueapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchCompanies_RetriesThenSucceeds(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[{"id": 1, "name": "Walt Disney Attractions", "parks": [{"id": 6, "name": "Magic Kingdom Park"}]}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, "")
	client.SetRetryDelay(time.Millisecond)

	companies, err := client.FetchCompanies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, calls, "should succeed on the 4th attempt")
	require.Len(t, companies, 1)
	assert.Equal(t, "Walt Disney Attractions", companies[0].Name)
	require.Len(t, companies[0].Parks, 1)
	assert.Equal(t, int64(6), companies[0].Parks[0].ID)
}

func TestFetchCompanies_ExhaustsRetries(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, "")
	client.SetRetryDelay(time.Millisecond)

	_, err := client.FetchCompanies(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 4, calls, "should stop after 4 attempts")
}

func TestFetchParkQueue_DecodesLandsAndRides(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/parks/6/queue_times.json", r.URL.Path)
		w.Write([]byte(`{
			"lands": [
				{"id": 10, "name": "Tomorrowland", "rides": [
					{"id": 100, "name": "Space Mountain", "wait_time": 45, "is_open": true,
					 "return_start": "2:40 PM", "meta": {"min_height_cm": 112}}
				]}
			],
			"rides": [
				{"id": 200, "name": "Main Street Vehicles"}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, "")
	client.SetRetryDelay(time.Millisecond)

	queue, err := client.FetchParkQueue(context.Background(), 6)
	require.NoError(t, err)
	require.Len(t, queue.Lands, 1)
	require.Len(t, queue.Lands[0].Rides, 1)

	ride := queue.Lands[0].Rides[0]
	require.NotNil(t, ride.WaitTime)
	assert.Equal(t, 45, *ride.WaitTime)
	require.NotNil(t, ride.IsOpen)
	assert.True(t, *ride.IsOpen)
	assert.Equal(t, "2:40 PM", ride.ReturnStart)
	require.NotNil(t, ride.Meta)
	assert.Equal(t, 112, ride.Meta.MinHeightCM)

	// Top-level ride with every optional field omitted.
	require.Len(t, queue.Rides, 1)
	assert.Nil(t, queue.Rides[0].WaitTime)
	assert.Nil(t, queue.Rides[0].IsOpen)
}

func TestFetchParkQueue_ContextCancelDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, "")
	client.SetRetryDelay(time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.FetchParkQueue(ctx, 6)
	assert.Error(t, err)
}
