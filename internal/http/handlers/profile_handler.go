package handlers

import (
	"github.com/gofiber/fiber/v2"

	"growlokal/internal/domain"
	applog "growlokal/internal/log"
	"growlokal/internal/repos"
	"growlokal/internal/validate"
)

type ProfileHandler struct {
	Users *repos.UserRepo
}

func (h *ProfileHandler) Page(c *fiber.Ctx) error {
	return render(c, "profile", fiber.Map{})
}

type profileUpdateReq struct {
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postalCode"`
	Gender     string `json:"gender"`
	Picture    string `json:"picture"`
}

// Update handles PUT /api/user/profile.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return jsonError(c, fiber.StatusUnauthorized, "Please sign in")
	}

	var req profileUpdateReq
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.FullName != "" {
		if _, ok := validate.Name(req.FullName); !ok {
			return jsonError(c, fiber.StatusBadRequest, "full name is too long")
		}
	}
	if req.Phone != "" && !validate.Phone(req.Phone) {
		return jsonError(c, fiber.StatusBadRequest, "invalid phone number")
	}
	switch req.Gender {
	case "", "male", "female", "other", "prefer_not_to_say":
	default:
		return jsonError(c, fiber.StatusBadRequest, "invalid gender value")
	}

	u.FullName = req.FullName
	u.Phone = req.Phone
	u.Street = req.Street
	u.City = req.City
	u.Province = req.Province
	u.PostalCode = req.PostalCode
	u.Gender = req.Gender
	u.Picture = req.Picture

	if err := h.Users.UpdateProfile(u.ID, *u); err != nil {
		applog.Error(c, "profile.update.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Could not update profile")
	}
	applog.Audit(c, "profile.update", nil)
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"fullName":   u.FullName,
		"phone":      u.Phone,
		"street":     u.Street,
		"city":       u.City,
		"province":   u.Province,
		"postalCode": u.PostalCode,
		"gender":     u.Gender,
		"picture":    u.Picture,
	}})
}
