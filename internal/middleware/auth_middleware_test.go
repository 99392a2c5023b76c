package middleware

import (
	"net/http/httptest"
	"testing"

	"go-resale-pos/internal/model"
	"go-resale-pos/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	user *model.User
}

func (f *fakeUserRepo) FindByEmail(email string) (*model.User, error) { return f.byID() }
func (f *fakeUserRepo) FindByID(id uuid.UUID) (*model.User, error)    { return f.byID() }
func (f *fakeUserRepo) Create(*model.User) error                      { return nil }
func (f *fakeUserRepo) UpdatePassword(uuid.UUID, string) error        { return nil }
func (f *fakeUserRepo) UpdateTokenVersion(uuid.UUID, string) error    { return nil }
func (f *fakeUserRepo) UpdateLastSeen(uuid.UUID) error                { return nil }

func (f *fakeUserRepo) byID() (*model.User, error) {
	if f.user == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.user, nil
}

func newTestApp(repo *fakeUserRepo) *fiber.App {
	app := fiber.New()
	app.Get("/inventory", RequireAuth(repo), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("user_id")})
	})
	return app
}

func TestRequireAuthMissingToken(t *testing.T) {
	app := newTestApp(&fakeUserRepo{})

	req := httptest.NewRequest("GET", "/inventory", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAuthGarbledHeader(t *testing.T) {
	app := newTestApp(&fakeUserRepo{})

	req := httptest.NewRequest("GET", "/inventory", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAuthBrowserRedirectsWithCallback(t *testing.T) {
	app := newTestApp(&fakeUserRepo{})

	req := httptest.NewRequest("GET", "/inventory", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?callbackUrl=%2Finventory", resp.Header.Get("Location"))
}

func TestRequireAuthValidToken(t *testing.T) {
	user := &model.User{
		Email:        "operator@example.com",
		FullName:     "Shop Operator",
		IsActive:     true,
		TokenVersion: "v1",
	}
	user.ID = uuid.New()

	token, err := jwt.GenerateToken(user.ID, user.Email, user.FullName, user.TokenVersion)
	require.NoError(t, err)

	app := newTestApp(&fakeUserRepo{user: user})

	req := httptest.NewRequest("GET", "/inventory", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAuthStaleTokenVersion(t *testing.T) {
	user := &model.User{TokenVersion: "v2"}
	user.ID = uuid.New()

	// Token minted before the version rotated.
	token, err := jwt.GenerateToken(user.ID, "operator@example.com", "Shop Operator", "v1")
	require.NoError(t, err)

	app := newTestApp(&fakeUserRepo{user: user})

	req := httptest.NewRequest("GET", "/inventory", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
