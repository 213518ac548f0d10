package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	applog "growlokal/internal/log"
	"growlokal/internal/services"
	"growlokal/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

// ---------- Pages ----------

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": ""})
}

func (h *AuthHandler) SignupForm(c *fiber.Ctx) error {
	return render(c, "signup", fiber.Map{})
}

func (h *AuthHandler) ForgotForm(c *fiber.Ctx) error {
	return render(c, "forgot_password", fiber.Map{})
}

func (h *AuthHandler) ResetForm(c *fiber.Ctx) error {
	return render(c, "reset_password", fiber.Map{
		"Token": c.Query("token"),
		"Email": c.Query("email"),
	})
}

// VerifyEmail consumes the emailed magic link.
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	email, ok := validate.Email(c.Query("email"))
	token := c.Query("token")
	if !ok || token == "" {
		return c.Status(fiber.StatusBadRequest).Render("verify_email", fiber.Map{"Err": "Invalid verification link"})
	}
	if err := h.Auth.VerifyEmail(email, token); err != nil {
		applog.Security(c, "auth.verify.fail", map[string]any{"email": email})
		return c.Status(fiber.StatusBadRequest).Render("verify_email", fiber.Map{"Err": "Invalid or expired verification link"})
	}
	applog.Audit(c, "auth.verify.success", map[string]any{"email": email})
	return render(c, "verify_email", fiber.Map{"Verified": true})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	email := c.FormValue("email")
	pass := c.FormValue("password")
	if _, ok := validate.Email(email); !ok || !validate.Password(pass) {
		applog.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_format"})
		return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{"Err": "Invalid email or password", "CSRFToken": c.Cookies("csrf_")})
	}

	_, err := h.Auth.Login(sid, email, pass)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": email})
		return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{"Err": "Invalid email or password", "CSRFToken": c.Cookies("csrf_")})
	}

	applog.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.Redirect("/")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Auth.Logout(sid)
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	applog.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.Redirect("/")
}

// ---------- JSON API ----------

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerReq
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	name, okName := validate.Name(req.Name)
	email, okEmail := validate.Email(req.Email)
	if !okName || !okEmail || !validate.Password(req.Password) {
		applog.Security(c, "auth.register.fail", map[string]any{"email": req.Email, "reason": "validation"})
		return jsonError(c, fiber.StatusBadRequest, "Please provide a valid name, email, and password (at least 6 characters)")
	}

	u, err := h.Auth.Register(name, email, req.Password)
	if err == services.ErrEmailTaken {
		return jsonError(c, fiber.StatusConflict, "User with this email already exists")
	}
	if err != nil {
		applog.Error(c, "auth.register.fail", err, map[string]any{"email": email})
		return jsonError(c, fiber.StatusInternalServerError, "Could not create account")
	}

	applog.Audit(c, "auth.register.success", map[string]any{"email": email})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Account created successfully! Please check your email for a verification link.",
		"user": fiber.Map{
			"id":            u.ID,
			"name":          u.Name,
			"email":         u.Email,
			"emailVerified": u.EmailVerified,
		},
	})
}

// ForgotPassword always answers 200 with a generic message so the endpoint
// cannot be used to probe for accounts.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "Email is required")
	}

	if err := h.Auth.ForgotPassword(email); err != nil {
		applog.Error(c, "auth.forgot.fail", err, map[string]any{"email": email})
		return jsonError(c, fiber.StatusInternalServerError, "Failed to send password reset email")
	}
	applog.Audit(c, "auth.forgot", map[string]any{"email": email})
	return c.JSON(fiber.Map{
		"success": true,
		"message": "If an account with that email exists, you will receive a password reset link.",
	})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req struct {
		Token       string `json:"token"`
		Email       string `json:"email"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	email, ok := validate.Email(req.Email)
	if !ok || req.Token == "" {
		return jsonError(c, fiber.StatusBadRequest, "Token, email, and new password are required")
	}
	if !validate.Password(req.NewPassword) {
		return jsonError(c, fiber.StatusBadRequest, "Password must be at least 6 characters long")
	}

	err := h.Auth.ResetPassword(email, req.Token, req.NewPassword)
	if err == services.ErrBadToken {
		applog.Security(c, "auth.reset.fail", map[string]any{"email": email})
		return jsonError(c, fiber.StatusBadRequest, "Invalid or expired password reset token")
	}
	if err != nil {
		applog.Error(c, "auth.reset.fail", err, map[string]any{"email": email})
		return jsonError(c, fiber.StatusInternalServerError, "Failed to reset password")
	}

	applog.Audit(c, "auth.reset.success", map[string]any{"email": email})
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password has been reset successfully. You can now log in with your new password.",
	})
}

// OAuthSignIn exchanges a provider access token for a local session.
func (h *AuthHandler) OAuthSignIn(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req struct {
		Provider    string `json:"provider"`
		AccessToken string `json:"accessToken"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Provider != "google" && req.Provider != "facebook" {
		return jsonError(c, fiber.StatusBadRequest, "Unsupported provider")
	}

	u, err := h.Auth.SignIn(c.Context(), sid, req.Provider, services.Credential{AccessToken: req.AccessToken})
	if err != nil {
		applog.Security(c, "auth.oauth.fail", map[string]any{"provider": req.Provider})
		return jsonError(c, fiber.StatusUnauthorized, "Could not sign in with "+req.Provider)
	}
	applog.Audit(c, "auth.oauth.success", map[string]any{"provider": req.Provider, "email": u.Email})
	return c.JSON(fiber.Map{
		"success": true,
		"user":    fiber.Map{"id": u.ID, "name": u.Name, "email": u.Email},
	})
}
