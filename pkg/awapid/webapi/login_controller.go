package webapi

import (
	"net/http"

	"github.com/assetworks/gantry/pkg/awauth"
	"github.com/assetworks/gantry/pkg/awdb/stor"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

type LoginController struct {
	userStor  stor.UserStor
	jwtSecret string
}

func NewLoginController(userStor stor.UserStor, jwtSecret string) *LoginController {
	return &LoginController{userStor: userStor, jwtSecret: jwtSecret}
}

// Login exchanges email and password for a session token.
func (c *LoginController) Login(ctx echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}

	user, err := c.userStor.GetUserByEmail(req.Email)
	if err != nil {
		return echo.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.ErrUnauthorized
	}

	token, err := awauth.GenerateToken(c.jwtSecret, user.ID, user.Email)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, DataResponse{Data: map[string]interface{}{
		"token": token,
		"user":  user,
	}})
}
