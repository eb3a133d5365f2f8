package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/nutridry/storefront-backend/internal/auth"
	"github.com/nutridry/storefront-backend/internal/validation"
)

// rememberMeMaxAge keeps the session cookie for 5 days; otherwise it is a
// session cookie.
const rememberMeMaxAge = 5 * 24 * 60 * 60

func registerAuthRoutes(r *gin.Engine, cfg HandlerConfig, v *validatorv10.Validate) {
	r.POST("/auth/sign-in", func(c *gin.Context) {
		var req validation.SignInRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		sess, err := cfg.Auth.SignIn(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "sign_in_failed"})
			return
		}

		setSessionCookie(c, sess, req.RememberMe)
		c.JSON(http.StatusOK, gin.H{"expiresIn": sess.ExpiresIn})
	})

	r.POST("/auth/sign-up", func(c *gin.Context) {
		var req validation.SignUpRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		sess, err := cfg.Auth.SignUp(c.Request.Context(), auth.SignUpInput{
			FirstName:      req.FirstName,
			LastName:       req.LastName,
			Email:          req.Email,
			Password:       req.Password,
			Phone:          req.Phone,
			Address:        req.Address,
			ReceiveUpdates: req.ReceiveUpdates,
		})
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sign_up_failed", "msg": err.Error()})
			return
		}

		setSessionCookie(c, sess, req.RememberMe)
		c.JSON(http.StatusCreated, gin.H{"expiresIn": sess.ExpiresIn})
	})

	r.GET("/auth/me", func(c *gin.Context) {
		user, err := cfg.Auth.Profile(c.Request.Context(), sessionToken(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	})
}

func setSessionCookie(c *gin.Context, sess *auth.Session, rememberMe bool) {
	maxAge := 0
	if rememberMe {
		maxAge = rememberMeMaxAge
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookie, sess.IDToken, maxAge, "/", "", true, true)
}
