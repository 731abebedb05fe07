package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAuditLogsRejectsBadSince(t *testing.T) {
	app := fiber.New()
	app.Get("/audit-logs", NewAuditHandler(nil).ListAuditLogs)

	resp, err := app.Test(httptest.NewRequest("GET", "/audit-logs?since=yesterday", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUserHistoryRejectsBadUID(t *testing.T) {
	app := fiber.New()
	app.Get("/audit-logs/users/:uid", NewAuditHandler(nil).UserHistory)

	resp, err := app.Test(httptest.NewRequest("GET", "/audit-logs/users/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
