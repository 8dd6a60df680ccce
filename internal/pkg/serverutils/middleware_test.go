package serverutils

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"curamind-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signUpProbe struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(nil))

	secured := app.Group("/secure", JwtMiddleware)
	secured.Get("/me", func(ctx *fiber.Ctx) error {
		id, err := CurrentAccountId(ctx)
		if err != nil {
			return err
		}
		return ctx.JSON(SuccessResponse("me", id.String()))
	})
	secured.Get("/admin", RequireRole("admin"), func(ctx *fiber.Ctx) error {
		return ctx.JSON(SuccessResponse[any]("ok", nil))
	})

	app.Get("/missing", func(ctx *fiber.Ctx) error {
		return apperror.NotFound("patient not found")
	})
	app.Get("/boom", func(ctx *fiber.Ctx) error {
		return errors.New("pq: connection refused")
	})
	app.Post("/validate", func(ctx *fiber.Ctx) error {
		var req signUpProbe
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
		if err := ValidateRequest(req); err != nil {
			return err
		}
		return ctx.JSON(SuccessResponse[any]("valid", nil))
	})
	return app
}

func decode(t *testing.T, app *fiber.App, method, path, token, body string) (int, BaseResponse[any]) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var out BaseResponse[any]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := newTestApp()

	code, res := decode(t, app, "GET", "/missing", "", "")
	assert.Equal(t, 404, code)
	assert.False(t, res.Success)
	assert.Equal(t, "patient not found", res.Message)

	code, res = decode(t, app, "GET", "/boom", "", "")
	assert.Equal(t, 500, code)
	assert.Equal(t, "internal server error", res.Message, "raw driver errors must not leak")
}

func TestValidateRequest(t *testing.T) {
	app := newTestApp()

	code, res := decode(t, app, "POST", "/validate", "", `{"email":"nope","password":"short"}`)
	assert.Equal(t, 400, code)
	assert.Contains(t, res.Message, "email must be a valid email")
	assert.Contains(t, res.Message, "password must be at least 8 characters")

	code, _ = decode(t, app, "POST", "/validate", "", `{"email":"a@b.co","password":"longenough"}`)
	assert.Equal(t, 200, code)
}

func TestJwtMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")
	app := newTestApp()
	accountId := uuid.New()

	code, _ := decode(t, app, "GET", "/secure/me", "", "")
	assert.Equal(t, 401, code)

	code, _ = decode(t, app, "GET", "/secure/me", "garbage", "")
	assert.Equal(t, 401, code)

	token, err := GenerateToken(accountId, "patient", time.Hour)
	require.NoError(t, err)

	code, res := decode(t, app, "GET", "/secure/me", token, "")
	assert.Equal(t, 200, code)
	assert.Equal(t, accountId.String(), res.Data)

	code, _ = decode(t, app, "GET", "/secure/admin", token, "")
	assert.Equal(t, 403, code)

	adminToken, _ := GenerateToken(uuid.New(), "admin", time.Hour)
	code, _ = decode(t, app, "GET", "/secure/admin", adminToken, "")
	assert.Equal(t, 200, code)

	expired, _ := GenerateToken(accountId, "patient", -time.Minute)
	code, _ = decode(t, app, "GET", "/secure/me", expired, "")
	assert.Equal(t, 401, code)
}

func TestResetToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")
	app := newTestApp()

	token, _, err := GenerateResetToken("p@example.com", "stamp-1", 10*time.Minute)
	require.NoError(t, err)

	email, stamp, err := ParseResetToken(token)
	require.NoError(t, err)
	assert.Equal(t, "p@example.com", email)
	assert.Equal(t, "stamp-1", stamp)

	code, _ := decode(t, app, "GET", "/secure/me", token, "")
	assert.Equal(t, 401, code, "reset tokens must not authenticate requests")

	access, _ := GenerateToken(uuid.New(), "patient", time.Hour)
	_, _, err = ParseResetToken(access)
	assert.Error(t, err)
}
