package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Br01t/feedback-fort/core"
	"github.com/Br01t/feedback-fort/core/user"
)

const passwordResetRequested = "Se l'indirizzo email è associato a un account attivo, " +
	"riceverai a breve un messaggio con le istruzioni per reimpostare la password."

type authApi struct {
	conf     *core.Config
	logger   core.Logger
	svc      user.Service
	validate *validator.Validate
}

func registerAuthAPI(g *echo.Group, jwt, queryJWT echo.MiddlewareFunc, deps Deps) {
	api := authApi{
		conf:     deps.Conf,
		logger:   deps.Logger,
		svc:      deps.UserSvc,
		validate: deps.Validate,
	}

	ag := g.Group("/auth")

	// un-authed endpoints
	ag.POST("/signup", api.signup)
	ag.POST("/login", api.login)
	ag.POST("/password-reset", api.resetPassword)
	ag.POST("/password-reset-confirm", api.confirmPasswordReset)

	// authed endpoints
	ag.POST("/logout", api.logout, jwt)
	ag.POST("/token-refresh", api.refreshToken, jwt)
	ag.GET("/me", api.me, jwt)
	ag.GET("/events", api.events, queryJWT)

	g.GET("/users", api.queryUsers, jwt, superAdminMiddleware())
	g.GET("/users/roles", api.queryRoles, jwt, superAdminMiddleware())
}

type (
	AuthResponse struct {
		Token        string        `json:"token"`
		User         user.User     `json:"user"`
		Profile      *user.Profile `json:"profile"`
		IsSuperAdmin bool          `json:"isSuperAdmin"`
	}

	MeResponse struct {
		User         user.User     `json:"user"`
		Profile      *user.Profile `json:"profile"`
		IsSuperAdmin bool          `json:"isSuperAdmin"`
	}

	PasswordResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

func (pr *PasswordResetRequest) Validate(validate *validator.Validate) error {
	pr.Email = core.CleanString(pr.Email, true /* lower */)
	return validate.Struct(pr)
}

func (api *authApi) authResponse(usr user.User, profile *user.Profile, origIat ...int64) (AuthResponse, error) {
	token, err := GenerateToken(api.conf, GetUserClaims(api.conf, usr, profile, origIat...))
	if err != nil {
		return AuthResponse{}, errors.Wrap(err, "generating token")
	}
	return AuthResponse{
		Token:        token,
		User:         usr,
		Profile:      profile,
		IsSuperAdmin: profile != nil && profile.IsSuperAdmin(),
	}, nil
}

// Handlers

func (api *authApi) signup(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}

	usr, profile, err := api.svc.Signup(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	resp, err := api.authResponse(usr, profile)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, resp)
}

func (api *authApi) login(ctx echo.Context) error {
	var data user.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}

	usr, profile, err := api.svc.Authenticate(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	resp, err := api.authResponse(usr, profile)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *authApi) logout(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return err
	}
	api.svc.Logout(ctx.Request().Context(), usr)
	return ctx.NoContent(http.StatusNoContent)
}

func (api *authApi) refreshToken(ctx echo.Context) error {
	token, usr, profile, err := refreshToken(ctx, api.conf, api.svc)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, AuthResponse{
		Token:        token,
		User:         usr,
		Profile:      profile,
		IsSuperAdmin: profile != nil && profile.IsSuperAdmin(),
	})
}

func (api *authApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return err
	}
	profile := api.svc.Profile(ctx.Request().Context(), usr)
	return ctx.JSON(http.StatusOK, MeResponse{
		User:         usr,
		Profile:      profile,
		IsSuperAdmin: profile != nil && profile.IsSuperAdmin(),
	})
}

func (api *authApi) resetPassword(ctx echo.Context) error {
	var data PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	err := api.svc.RequestPasswordReset(ctx.Request().Context(), data.Email)
	if err != nil && errors.Cause(err) != user.ErrNotFound {
		// do not return errors to attackers
		api.logger.Error("requesting password reset", errors.Wrap(err, "requesting password reset"))
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: passwordResetRequested})
}

func (api *authApi) confirmPasswordReset(ctx echo.Context) error {
	var data user.ResetUserPassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetUserPassword")
	}

	if err := api.svc.ResetPassword(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "La password è stata aggiornata."})
}

func (api *authApi) queryUsers(ctx echo.Context) error {
	filter := new(user.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []user.Profile{})
	}

	profiles, err := api.svc.QueryProfiles(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying profiles")
	}
	if profiles == nil {
		profiles = []user.Profile{}
	}
	return ctx.JSON(http.StatusOK, profiles)
}

func (api *authApi) queryRoles(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, user.Roles)
}
