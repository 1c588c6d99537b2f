package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/staffkeeper/internal/common"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadRequest})
		return
	}

	if _, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, msgAlreadyRegistered)
			return
		}
		if errors.Is(err, common.ErrPasswordTooLong) {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgPasswordTooLong})
			return
		}
		h.abortWithError(c, err, msgServerError)
		return
	}

	c.JSON(http.StatusOK, msgSuccess)
}

// login answers 200 for every credential outcome; the body tells them apart.
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadRequest})
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, common.ErrNoRecord):
		c.JSON(http.StatusOK, msgNoRecord)
		return
	case errors.Is(err, common.ErrPasswordIncorrect):
		c.JSON(http.StatusOK, msgPasswordIncorrect)
		return
	case err != nil:
		h.abortWithError(c, err, msgServerError)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.SessionCookieName, res.Token, int(h.tokenTTL.Seconds()), "/", "", h.cookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"Status": msgSuccess, "role": res.Role})
}

func (h *Handler) dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, msgSuccess)
}
