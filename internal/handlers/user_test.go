package handlers

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/mertcakir/rigcheck/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestStatusForCode(t *testing.T) {
	cases := map[services.ErrorCode]int{
		services.CodeUnauthenticated:    fiber.StatusUnauthorized,
		services.CodePermissionDenied:   fiber.StatusForbidden,
		services.CodeInvalidArgument:    fiber.StatusBadRequest,
		services.CodeFailedPrecondition: fiber.StatusPreconditionFailed,
		services.CodeNotFound:           fiber.StatusNotFound,
		services.CodeInternal:           fiber.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, statusForCode(code), "code %s", code)
	}
}
