package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theo/champion-teams-website/internal/testutil"
)

func TestShareHandler_CreateAndResolve(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := seedTeamFixtures(t, ts)

	// Save a team to share
	body := map[string]interface{}{"name": "Main Squad", "memberIds": justiceLeagueFive}
	req := testutil.CreateAuthenticatedRequest(t, "POST", ts.APIURL("/teams"), body, token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var team teamResult
	testutil.AssertJSONResponse(t, resp, &team)

	var shareCode string

	t.Run("create share", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, "POST", ts.APIURL("/teams/"+team.ID+"/share"), nil, token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result struct {
			ShareCode string `json:"shareCode"`
			URL       string `json:"url"`
		}
		testutil.AssertJSONResponse(t, resp, &result)

		assert.Len(t, result.ShareCode, 8)
		assert.Equal(t, "/api/v1/share/"+result.ShareCode, result.URL)
		shareCode = result.ShareCode
	})

	t.Run("resolve without authentication", func(t *testing.T) {
		resp, err := http.Get(ts.APIURL("/share/" + shareCode))
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var shared struct {
			ShareCode string `json:"shareCode"`
			Snapshot  struct {
				TeamName   string `json:"teamName"`
				Evaluation struct {
					TotalScore float64 `json:"totalScore"`
					Members    []struct {
						ID string `json:"id"`
					} `json:"members"`
				} `json:"evaluation"`
			} `json:"snapshot"`
		}
		testutil.AssertJSONResponse(t, resp, &shared)

		assert.Equal(t, shareCode, shared.ShareCode)
		assert.Equal(t, "Main Squad", shared.Snapshot.TeamName)
		assert.InDelta(t, 1216.6, shared.Snapshot.Evaluation.TotalScore, 0.001)
		assert.Len(t, shared.Snapshot.Evaluation.Members, 5)
	})

	t.Run("resolve is case-insensitive", func(t *testing.T) {
		resp, err := http.Get(ts.APIURL("/share/" + strings.ToUpper(shareCode)))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unknown code", func(t *testing.T) {
		resp, err := http.Get(ts.APIURL("/share/00000000"))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("sharing someone else's team", func(t *testing.T) {
		_, otherToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

		req := testutil.CreateAuthenticatedRequest(t, "POST", ts.APIURL("/teams/"+team.ID+"/share"), nil, otherToken)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
