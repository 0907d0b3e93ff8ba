package controller_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/models"
)

func TestCreateTeamCreatorBecomesAdmin(t *testing.T) {
	app, db := newTestApp(t)

	token, _, aliceID := registerUser(t, app, "Alice", "a@x.com")

	resp, body := doRequest(t, app, http.MethodPost, "/api/v1/teams", token, fiber.Map{
		"name":        "Eng",
		"description": "Engineering team",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data := dataOf(t, body)
	assert.Equal(t, "Eng", data["name"])
	assert.Equal(t, float64(aliceID), data["creatorId"])

	members := data["members"].([]interface{})
	require.Len(t, members, 1, "creator must be the sole initial member")
	member := members[0].(map[string]interface{})
	assert.Equal(t, "admin", member["role"])
	assert.Equal(t, float64(aliceID), member["userId"])

	// the membership row exists exactly once
	var count int64
	require.NoError(t, db.Model(&models.TeamMember{}).
		Where("user_id = ?", aliceID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetMyTeams(t *testing.T) {
	app, _ := newTestApp(t)

	aliceToken, _, _ := registerUser(t, app, "Alice", "a@x.com")
	bobToken, _, _ := registerUser(t, app, "Bob", "b@x.com")

	createTeam(t, app, aliceToken, "Eng")
	createTeam(t, app, aliceToken, "Design")
	createTeam(t, app, bobToken, "Marketing")

	resp, body := doRequest(t, app, http.MethodGet, "/api/v1/teams", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["count"])

	teams := body["data"].([]interface{})
	require.Len(t, teams, 2)
	names := []string{
		teams[0].(map[string]interface{})["name"].(string),
		teams[1].(map[string]interface{})["name"].(string),
	}
	assert.ElementsMatch(t, []string{"Eng", "Design"}, names)
}

func TestGetTeamMembershipGate(t *testing.T) {
	app, _ := newTestApp(t)

	aliceToken, _, _ := registerUser(t, app, "Alice", "a@x.com")
	outsiderToken, _, _ := registerUser(t, app, "Carol", "c@x.com")

	teamID := createTeam(t, app, aliceToken, "Eng")

	resp, _ := doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/v1/teams/%d", teamID), aliceToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/v1/teams/%d", teamID), outsiderToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// a missing team is 404, not 403
	resp, _ = doRequest(t, app, http.MethodGet, "/api/v1/teams/9999", outsiderToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateTeamPermissions(t *testing.T) {
	app, _ := newTestApp(t)

	aliceToken, _, _ := registerUser(t, app, "Alice", "a@x.com")
	bobToken, _, bobID := registerUser(t, app, "Bob", "b@x.com")

	teamID := createTeam(t, app, aliceToken, "Eng")
	addMember(t, app, aliceToken, teamID, bobID, "member")

	// a plain member may not rename the team
	resp, _ := doRequest(t, app, http.MethodPut, fmt.Sprintf("/api/v1/teams/%d", teamID), bobToken, fiber.Map{
		"name": "Bob's Team",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// the creator may
	resp, body := doRequest(t, app, http.MethodPut, fmt.Sprintf("/api/v1/teams/%d", teamID), aliceToken, fiber.Map{
		"name": "Engineering",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Engineering", dataOf(t, body)["name"])
}

func TestAddMember(t *testing.T) {
	app, _ := newTestApp(t)

	aliceToken, _, _ := registerUser(t, app, "Alice", "a@x.com")
	bobToken, _, bobID := registerUser(t, app, "Bob", "b@x.com")
	_, _, carolID := registerUser(t, app, "Carol", "c@x.com")

	teamID := createTeam(t, app, aliceToken, "Eng")
	membersPath := fmt.Sprintf("/api/v1/teams/%d/members", teamID)

	resp, body := doRequest(t, app, http.MethodPost, membersPath, aliceToken, fiber.Map{
		"userId": bobID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	members := dataOf(t, body)["members"].([]interface{})
	require.Len(t, members, 2)
	assert.Equal(t, "member", members[1].(map[string]interface{})["role"], "role defaults to member")

	// adding the same user twice is rejected
	resp, _ = doRequest(t, app, http.MethodPost, membersPath, aliceToken, fiber.Map{
		"userId": bobID,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// only admins may add members
	resp, _ = doRequest(t, app, http.MethodPost, membersPath, bobToken, fiber.Map{
		"userId": carolID,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// the target user must exist
	resp, _ = doRequest(t, app, http.MethodPost, membersPath, aliceToken, fiber.Map{
		"userId": 9999,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRemoveMember(t *testing.T) {
	app, _ := newTestApp(t)

	aliceToken, _, aliceID := registerUser(t, app, "Alice", "a@x.com")
	bobToken, _, bobID := registerUser(t, app, "Bob", "b@x.com")

	teamID := createTeam(t, app, aliceToken, "Eng")
	addMember(t, app, aliceToken, teamID, bobID, "member")

	// a plain member may not remove anyone
	resp, _ := doRequest(t, app, http.MethodDelete,
		fmt.Sprintf("/api/v1/teams/%d/members/%d", teamID, aliceID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// the creator can never be removed, by anyone
	resp, _ = doRequest(t, app, http.MethodDelete,
		fmt.Sprintf("/api/v1/teams/%d/members/%d", teamID, aliceID), aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := doRequest(t, app, http.MethodDelete,
		fmt.Sprintf("/api/v1/teams/%d/members/%d", teamID, bobID), aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, dataOf(t, body)["members"].([]interface{}), 1)
}

func TestDeleteTeamCreatorOnly(t *testing.T) {
	app, _ := newTestApp(t)

	aliceToken, _, _ := registerUser(t, app, "Alice", "a@x.com")
	bobToken, _, bobID := registerUser(t, app, "Bob", "b@x.com")

	teamID := createTeam(t, app, aliceToken, "Eng")
	// even another admin cannot delete the team
	addMember(t, app, aliceToken, teamID, bobID, "admin")

	resp, _ := doRequest(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/teams/%d", teamID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/teams/%d", teamID), aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/v1/teams/%d", teamID), aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
