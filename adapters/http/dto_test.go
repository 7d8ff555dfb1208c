package http

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-02-29"`), &d))
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d.Time)

	require.NoError(t, json.Unmarshal([]byte(`"2024-02-29T18:30:00Z"`), &d))
	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-02-29"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`"29/02/2024"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20240229`), &d))
}

func TestPatchProjectRequest_AbsentNullAndValue(t *testing.T) {
	var req PatchProjectRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"New","demo_url":null,"technologies":null}`), &req))

	p := req.ToPatch()
	require.NotNil(t, p.Title)
	assert.Equal(t, "New", *p.Title)
	assert.Nil(t, p.Description, "absent fields stay untouched")
	require.NotNil(t, p.DemoURL)
	assert.Empty(t, *p.DemoURL, "null clears")
	require.NotNil(t, p.Technologies)
	assert.Empty(t, *p.Technologies)
	assert.Nil(t, p.Featured)
}

func TestPatchExperienceRequest_NullEndDateClears(t *testing.T) {
	var req PatchExperienceRequest
	require.NoError(t, json.Unmarshal([]byte(`{"end_date":null}`), &req))
	assert.True(t, req.ToPatch().ClearEndDate)

	req = PatchExperienceRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"end_date":"2024-05-01","current":true}`), &req))
	p := req.ToPatch()
	assert.Nil(t, p.EndDate, "current wins over an end date")
	assert.True(t, p.ClearEndDate)
}

func TestPatchSkillRequest_Category(t *testing.T) {
	var req PatchSkillRequest
	require.NoError(t, json.Unmarshal([]byte(`{"category":"frontend"}`), &req))
	p, err := req.ToPatch()
	require.NoError(t, err)
	assert.Equal(t, "Frontend", string(*p.Category))

	require.NoError(t, json.Unmarshal([]byte(`{"category":"Gardening"}`), &req))
	_, err = req.ToPatch()
	assert.Error(t, err)
}

func TestExperienceRequest_ToDraft(t *testing.T) {
	var req ExperienceRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"company":"Acme","position":"Dev","start_date":"2022-01-01",
		"end_date":"2023-01-01","current":true,"technologies":["Go","go"]
	}`), &req))

	d := req.ToDraft()
	assert.Nil(t, d.EndDate)
	assert.Equal(t, []string{"Go"}, d.Technologies)
}
