package handlers_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theo/champion-teams-website/internal/scoring"
	"github.com/theo/champion-teams-website/internal/testutil"
)

var justiceLeagueFive = []string{"superman", "batman", "wonder-woman", "flash", "zatanna"}

type teamResult struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	MemberIDs []string `json:"memberIds"`
}

// seedTeamFixtures registers a user and fills their roster with every
// reference champion at the base tier.
func seedTeamFixtures(t *testing.T, ts *testutil.TestServer) (userID uuid.UUID, token string) {
	t.Helper()

	refs := testutil.SeedReferenceData(t, ts.DB.DB)
	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	testutil.SeedRoster(t, ts.DB.DB, user.ID, refs, scoring.TierUnlocked)
	return user.ID, token
}

func TestTeamHandler_Evaluate(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := seedTeamFixtures(t, ts)

	tests := []struct {
		name           string
		request        map[string]interface{}
		token          string
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name:           "full evaluation",
			request:        map[string]interface{}{"memberIds": justiceLeagueFive},
			token:          token,
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var eval struct {
					TotalScore       float64 `json:"totalScore"`
					ComparisonScore  float64 `json:"comparisonScore"`
					UniqueClassCount int     `json:"uniqueClassCount"`
					DiversityApplied bool    `json:"diversityApplied"`
					ActiveSynergies  []struct {
						Name            string  `json:"name"`
						MemberCount     int     `json:"memberCount"`
						CalculatedBonus float64 `json:"calculatedBonus"`
						DepthBonus      float64 `json:"depthBonus"`
					} `json:"activeSynergies"`
					Breakdown struct {
						BaseScoreSum   float64 `json:"baseScoreSum"`
						Subtotal       float64 `json:"subtotal"`
						DiversityBonus float64 `json:"diversityBonus"`
					} `json:"breakdown"`
				}
				testutil.AssertJSONResponse(t, resp, &eval)

				assert.InDelta(t, 1216.6, eval.TotalScore, 0.001)
				assert.InDelta(t, 1320.2, eval.ComparisonScore, 0.001)
				assert.Equal(t, 5, eval.UniqueClassCount)
				assert.True(t, eval.DiversityApplied)

				require.Len(t, eval.ActiveSynergies, 1)
				assert.Equal(t, "Justice League", eval.ActiveSynergies[0].Name)
				assert.Equal(t, 4, eval.ActiveSynergies[0].MemberCount)

				assert.InDelta(t, 1036.0, eval.Breakdown.BaseScoreSum, 0.001)
				assert.InDelta(t, eval.TotalScore, eval.Breakdown.Subtotal+eval.Breakdown.DiversityBonus, 0.001)
			},
		},
		{
			name:           "too few members",
			request:        map[string]interface{}{"memberIds": []string{"superman", "batman"}},
			token:          token,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate members",
			request: map[string]interface{}{
				"memberIds": []string{"superman", "superman", "batman", "wonder-woman", "flash"},
			},
			token:          token,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "member not in roster",
			request: map[string]interface{}{
				"memberIds": []string{"darkseid", "batman", "wonder-woman", "flash", "zatanna"},
			},
			token:          token,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unauthorized",
			request:        map[string]interface{}{"memberIds": justiceLeagueFive},
			token:          "",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.CreateAuthenticatedRequest(t, "POST", ts.APIURL("/teams/evaluate"), tt.request, tt.token)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestTeamHandler_SaveListGetDelete(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := seedTeamFixtures(t, ts)

	var savedID string

	t.Run("save", func(t *testing.T) {
		body := map[string]interface{}{"name": "A-Team", "memberIds": justiceLeagueFive}
		req := testutil.CreateAuthenticatedRequest(t, "POST", ts.APIURL("/teams"), body, token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var team teamResult
		testutil.AssertJSONResponse(t, resp, &team)
		assert.Equal(t, "A-Team", team.Name)
		assert.Equal(t, justiceLeagueFive, team.MemberIDs)
		_, err = uuid.Parse(team.ID)
		require.NoError(t, err)
		savedID = team.ID
	})

	t.Run("save without a name gets a default", func(t *testing.T) {
		body := map[string]interface{}{"memberIds": justiceLeagueFive}
		req := testutil.CreateAuthenticatedRequest(t, "POST", ts.APIURL("/teams"), body, token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var team teamResult
		testutil.AssertJSONResponse(t, resp, &team)
		assert.Equal(t, "Saved Team", team.Name)
	})

	t.Run("list", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, "GET", ts.APIURL("/teams"), nil, token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result struct {
			Teams []teamResult `json:"teams"`
		}
		testutil.AssertJSONResponse(t, resp, &result)
		assert.Len(t, result.Teams, 2)
	})

	t.Run("get", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, "GET", ts.APIURL("/teams/"+savedID), nil, token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var team teamResult
		testutil.AssertJSONResponse(t, resp, &team)
		assert.Equal(t, savedID, team.ID)
	})

	t.Run("get with malformed id", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, "GET", ts.APIURL("/teams/not-a-uuid"), nil, token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Invalid team ID")
	})

	t.Run("get unknown team", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, "GET", ts.APIURL("/teams/"+uuid.New().String()), nil, token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("delete", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, "DELETE", ts.APIURL("/teams/"+savedID), nil, token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		// Deleting again reports not found
		req = testutil.CreateAuthenticatedRequest(t, "DELETE", ts.APIURL("/teams/"+savedID), nil, token)
		resp, err = http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestTeamHandler_Swap(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := seedTeamFixtures(t, ts)

	// Save a starting team
	body := map[string]interface{}{"name": "Swappable", "memberIds": justiceLeagueFive}
	req := testutil.CreateAuthenticatedRequest(t, "POST", ts.APIURL("/teams"), body, token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var team teamResult
	testutil.AssertJSONResponse(t, resp, &team)

	t.Run("swap persists and rescores", func(t *testing.T) {
		swap := map[string]interface{}{"index": 3, "replacementId": "nightwing"}
		req := testutil.CreateAuthenticatedRequest(t, "POST", ts.APIURL("/teams/"+team.ID+"/swap"), swap, token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result struct {
			Team       teamResult `json:"team"`
			Evaluation struct {
				TotalScore       float64 `json:"totalScore"`
				UniqueClassCount int     `json:"uniqueClassCount"`
			} `json:"evaluation"`
		}
		testutil.AssertJSONResponse(t, resp, &result)

		assert.Equal(t, []string{"superman", "batman", "wonder-woman", "nightwing", "zatanna"}, result.Team.MemberIDs)
		assert.InDelta(t, 1178.1, result.Evaluation.TotalScore, 0.001)
		assert.Equal(t, 4, result.Evaluation.UniqueClassCount)
	})

	t.Run("index out of range", func(t *testing.T) {
		swap := map[string]interface{}{"index": 7, "replacementId": "batgirl"}
		req := testutil.CreateAuthenticatedRequest(t, "POST", ts.APIURL("/teams/"+team.ID+"/swap"), swap, token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing replacement", func(t *testing.T) {
		swap := map[string]interface{}{"index": 0}
		req := testutil.CreateAuthenticatedRequest(t, "POST", ts.APIURL("/teams/"+team.ID+"/swap"), swap, token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed team id", func(t *testing.T) {
		swap := map[string]interface{}{"index": 0, "replacementId": "batgirl"}
		req := testutil.CreateAuthenticatedRequest(t, "POST", ts.APIURL("/teams/oops/swap"), swap, token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Invalid team ID")
	})
}
