package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	gorillaWS "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theo/champion-teams-website/internal/scoring"
	"github.com/theo/champion-teams-website/internal/testutil"
)

// startSearch launches an optimization over HTTP and returns the job ID.
func startSearch(t *testing.T, ts *testutil.TestServer, token string) string {
	t.Helper()

	req := testutil.CreateAuthenticatedRequest(t, "POST", ts.APIURL("/optimize"), nil, token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var started jobResult
	testutil.AssertJSONResponse(t, resp, &started)
	require.NotEmpty(t, started.ID)
	return started.ID
}

func TestWebSocketHandler_Authentication(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"garbage token", "not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, resp, err := gorillaWS.DefaultDialer.Dial(ts.WebSocketURL(tt.token), nil)
			require.Error(t, err)
			if conn != nil {
				conn.Close()
			}
			require.NotNil(t, resp)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestWebSocketHandler_OptimizeStream(t *testing.T) {
	ts := testutil.NewTestServer(t)

	refs := testutil.SeedReferenceData(t, ts.DB.DB)
	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	testutil.SeedRoster(t, ts.DB.DB, user.ID, refs, scoring.TierUnlocked)

	// Enough filler champions that the search spans many progress batches
	for i := 0; i < 30; i++ {
		id := fmt.Sprintf("bench-%02d", i)
		testutil.NewChampionBuilder().WithID(id).WithTags().Build(t, ts.DB.DB)
		testutil.NewRosterEntryBuilder(user.ID, id).Build(t, ts.DB.DB)
	}

	t.Run("streams progress and completion", func(t *testing.T) {
		client := testutil.NewWSClient(t, ts.WebSocketURL(token))

		jobID := startSearch(t, ts, token)
		client.SubscribeJob(jobID)

		sub := client.ExpectSubscribed(2 * time.Second)
		assert.Equal(t, jobID, sub.JobID)

		progress := client.ExpectProgress(10 * time.Second)
		assert.Equal(t, jobID, progress.JobID)
		assert.GreaterOrEqual(t, progress.Percent, 5.0)
		assert.NotEmpty(t, progress.Status)

		complete := client.ExpectComplete(30 * time.Second)
		assert.Equal(t, jobID, complete.JobID)

		// The filler champions carry no tags, so the seeded core still wins
		result, ok := complete.Result.(map[string]interface{})
		require.True(t, ok, "complete payload carries the evaluation")
		total, ok := result["totalScore"].(float64)
		require.True(t, ok)
		assert.InDelta(t, 1260.6, total, 0.001)
	})

	t.Run("unsubscribe stops the stream", func(t *testing.T) {
		client := testutil.NewWSClient(t, ts.WebSocketURL(token))

		jobID := startSearch(t, ts, token)
		client.SubscribeJob(jobID)
		client.ExpectSubscribed(2 * time.Second)
		client.ExpectProgress(10 * time.Second)

		client.UnsubscribeJob(jobID)
		client.DrainMessages()
		client.ExpectNoMessage(300 * time.Millisecond)

		// Stop the now-unwatched search
		req := testutil.CreateAuthenticatedRequest(t, "DELETE", ts.APIURL("/optimize/"+jobID), nil, token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("cancellation broadcasts an error", func(t *testing.T) {
		client := testutil.NewWSClient(t, ts.WebSocketURL(token))

		jobID := startSearch(t, ts, token)
		client.SubscribeJob(jobID)
		client.ExpectSubscribed(2 * time.Second)

		req := testutil.CreateAuthenticatedRequest(t, "DELETE", ts.APIURL("/optimize/"+jobID), nil, token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		errPayload := client.ExpectOptimizeError(10 * time.Second)
		assert.Equal(t, jobID, errPayload.JobID)
		assert.Contains(t, errPayload.Error, "cancelled")

		job := pollJob(t, ts, token, jobID)
		assert.Equal(t, "cancelled", job.Status)
	})

	t.Run("invalid subscribe payload", func(t *testing.T) {
		client := testutil.NewWSClient(t, ts.WebSocketURL(token))

		client.SubscribeJob("")
		errPayload := client.ExpectError(2 * time.Second)
		assert.Equal(t, "INVALID_PAYLOAD", errPayload.Code)
	})

	t.Run("job query parameter subscribes immediately", func(t *testing.T) {
		other, otherToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
		testutil.SeedRoster(t, ts.DB.DB, other.ID, refs, scoring.TierUnlocked)

		jobID := startSearch(t, ts, otherToken)
		client := testutil.NewWSClient(t, ts.WebSocketURL(otherToken)+"&job="+jobID)

		sub := client.ExpectSubscribed(2 * time.Second)
		assert.Equal(t, jobID, sub.JobID)

		job := pollJob(t, ts, otherToken, jobID)
		assert.Equal(t, "complete", job.Status)
	})
}
