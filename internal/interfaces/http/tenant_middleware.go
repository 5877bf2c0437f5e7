package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/windassist/windpark-api/internal/application/dto"
)

// LocalTenantID is the Locals key holding the resolved tenant.
const LocalTenantID = "tenant_id"

// TenantMiddleware resolves the tenant from the X-Tenant-ID header. Every
// settlement and archive operation is tenant-scoped; requests without a
// tenant are rejected.
func TenantMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID := c.Get("X-Tenant-ID")
		if tenantID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code: "MISSING_TENANT", Message: "X-Tenant-ID header required",
			})
		}
		c.Locals(LocalTenantID, tenantID)
		return c.Next()
	}
}

// GetTenantID returns the tenant resolved by TenantMiddleware.
func GetTenantID(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocalTenantID).(string); ok {
		return v
	}
	return ""
}
