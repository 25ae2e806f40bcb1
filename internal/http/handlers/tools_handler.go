package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"realtydesk/internal/money"
	"realtydesk/internal/validate"
)

// ToolsHandler serves the agent-side calculators: currency conversion and the
// loan simulator.
type ToolsHandler struct{}

func (h *ToolsHandler) Convert(c *fiber.Ctx) error {
	if usd := c.Query("usd"); usd != "" {
		n, err := strconv.Atoi(usd)
		if err != nil || n < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid usd amount"})
		}
		return c.JSON(fiber.Map{"usd": n, "eur": money.DollarToEuro(n)})
	}
	if eur := c.Query("eur"); eur != "" {
		n, err := strconv.Atoi(eur)
		if err != nil || n < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid eur amount"})
		}
		return c.JSON(fiber.Map{"eur": n, "usd": money.EuroToDollar(n)})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "usd or eur amount required"})
}

func (h *ToolsHandler) SimulateLoan(c *fiber.Ctx) error {
	price, ok1 := validate.Amount(c.Query("price"))
	down, ok2 := validate.Amount(c.Query("downPayment"))
	rate, ok3 := validate.Amount(c.Query("rate"))
	years, ok4 := validate.Count(c.Query("years"))
	if !ok1 || !ok2 || !ok3 || !ok4 || price == 0 || years == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "price, downPayment, rate and years required"})
	}

	loan, err := money.Simulate(price, down, rate, years)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(loan)
}
