package handler

import (
	"errors"

	"go-resale-pos/internal/repository"
	"go-resale-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CheckoutHandler struct {
	service service.CheckoutService
}

func NewCheckoutHandler(s service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{service: s}
}

// CompleteSale runs the checkout flow
// POST /api/v1/checkout
func (h *CheckoutHandler) CompleteSale(c *fiber.Ctx) error {
	var req service.CompleteSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.service.CompleteSale(&req)
	if err != nil {
		var shortfall *service.PaymentShortfallError
		switch {
		case errors.As(err, &shortfall):
			return c.Status(400).JSON(fiber.Map{
				"error":     err.Error(),
				"shortfall": shortfall.Shortfall,
			})
		case errors.Is(err, service.ErrEmptyCart),
			errors.Is(err, service.ErrAmountPaidMissing),
			errors.Is(err, repository.ErrInsufficientStock):
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to complete purchase. Please try again."})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Sale completed", "data": result})
}

func (h *CheckoutHandler) GetSales(c *fiber.Ctx) error {
	sales, err := h.service.GetSales()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(sales)
}

func (h *CheckoutHandler) GetSale(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	sale, err := h.service.GetSale(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Sale not found"})
	}
	return c.JSON(sale)
}
