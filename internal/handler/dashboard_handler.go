package handler

import (
	"go-resale-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetStats returns the 30-day overview with period-over-period changes
// GET /api/v1/dashboard/stats
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.GetStats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}
	return c.JSON(stats)
}

// GetSalesOverTime returns daily revenue and sale counts for the chart
// GET /api/v1/dashboard/sales-over-time
func (h *DashboardHandler) GetSalesOverTime(c *fiber.Ctx) error {
	data, err := h.service.GetSalesOverTime()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch sales data"})
	}
	return c.JSON(fiber.Map{"data": data})
}

// GetRecentSales returns the last 10 sales with item counts
// GET /api/v1/dashboard/recent-sales
func (h *DashboardHandler) GetRecentSales(c *fiber.Ctx) error {
	sales, err := h.service.GetRecentSales()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch recent sales"})
	}
	return c.JSON(sales)
}
