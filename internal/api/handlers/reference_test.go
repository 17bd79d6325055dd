package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theo/champion-teams-website/internal/testutil"
)

type ChampionResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Class      string   `json:"class"`
	BaseRarity string   `json:"baseRarity"`
	Healer     bool     `json:"healer"`
	Tags       []string `json:"synergyTags"`
}

type ChampionsListResponse struct {
	Champions []ChampionResponse `json:"champions"`
}

func TestReferenceHandler_GetChampions(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name           string
		setup          func()
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name:           "empty database",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result ChampionsListResponse
				testutil.AssertJSONResponse(t, resp, &result)
				assert.Empty(t, result.Champions)
			},
		},
		{
			name: "with champions",
			setup: func() {
				testutil.SeedReferenceData(t, ts.DB.DB)
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result ChampionsListResponse
				testutil.AssertJSONResponse(t, resp, &result)
				require.Len(t, result.Champions, 8)
				// Sorted by name
				assert.Equal(t, "Batgirl", result.Champions[0].Name)
				assert.Equal(t, "Zatanna", result.Champions[7].Name)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.DB.Truncate(t)

			if tt.setup != nil {
				tt.setup()
			}

			resp, err := http.Get(ts.APIURL("/champions"))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestReferenceHandler_GetChampion(t *testing.T) {
	ts := testutil.NewTestServer(t)
	testutil.SeedReferenceData(t, ts.DB.DB)

	tests := []struct {
		name           string
		id             string
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name:           "existing champion",
			id:             "zatanna",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result ChampionResponse
				testutil.AssertJSONResponse(t, resp, &result)
				assert.Equal(t, "zatanna", result.ID)
				assert.Equal(t, "Zatanna", result.Name)
				assert.Equal(t, "Mystic", result.Class)
				assert.True(t, result.Healer)
				assert.Equal(t, []string{"Magic Users"}, result.Tags)
			},
		},
		{
			name:           "non-existent champion",
			id:             "darkseid",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.APIURL("/champions/" + tt.id))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestReferenceHandler_GetSynergiesAndLegacyPieces(t *testing.T) {
	ts := testutil.NewTestServer(t)
	testutil.SeedReferenceData(t, ts.DB.DB)

	t.Run("synergies", func(t *testing.T) {
		resp, err := http.Get(ts.APIURL("/synergies"))
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result struct {
			Synergies []struct {
				Name       string  `json:"name"`
				BonusType  string  `json:"bonusType"`
				BonusValue float64 `json:"bonusValue"`
			} `json:"synergies"`
		}
		testutil.AssertJSONResponse(t, resp, &result)
		require.Len(t, result.Synergies, 3)

		byName := map[string]string{}
		for _, s := range result.Synergies {
			byName[s.Name] = s.BonusType
		}
		assert.Equal(t, "percentage", byName["Justice League"])
		assert.Equal(t, "flat", byName["Gotham Knights"])
	})

	t.Run("legacy pieces", func(t *testing.T) {
		resp, err := http.Get(ts.APIURL("/legacy-pieces"))
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result struct {
			LegacyPieces []struct {
				ID         string `json:"id"`
				BaseRarity string `json:"baseRarity"`
			} `json:"legacyPieces"`
		}
		testutil.AssertJSONResponse(t, resp, &result)
		require.Len(t, result.LegacyPieces, 2)
	})
}

func TestReferenceHandler_Seed(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	seedBody := map[string]interface{}{
		"champions": []map[string]interface{}{
			{
				"id":          "aquaman",
				"name":        "Aquaman",
				"class":       "Tank",
				"baseRarity":  "Legendary",
				"synergyTags": []string{"Justice League"},
			},
		},
		"synergies": []map[string]interface{}{
			{
				"id":         "atlantean",
				"name":       "Atlantean",
				"bonusType":  "flat",
				"bonusValue": 30,
			},
		},
	}

	t.Run("requires authentication", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, "POST", ts.APIURL("/admin/reference"), seedBody, "")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("seeds and reports counts", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, "POST", ts.APIURL("/admin/reference"), seedBody, token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result struct {
			Champions    int `json:"champions"`
			Synergies    int `json:"synergies"`
			LegacyPieces int `json:"legacyPieces"`
		}
		testutil.AssertJSONResponse(t, resp, &result)
		assert.Equal(t, 1, result.Champions)
		assert.Equal(t, 1, result.Synergies)
		assert.Equal(t, 0, result.LegacyPieces)

		// Seeded champion is now served publicly
		getResp, err := http.Get(ts.APIURL("/champions/aquaman"))
		require.NoError(t, err)
		defer getResp.Body.Close()
		assert.Equal(t, http.StatusOK, getResp.StatusCode)
	})
}
