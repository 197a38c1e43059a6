package payments

import (
	"net/http"

	"github.com/MandaAlmeida/listener-pay/internal/apperr"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) CreateCustomer(c *gin.Context) {
	var body struct {
		Email string `json:"email" binding:"required,email"`
		Name  string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid email"})
		return
	}

	cus, err := h.svc.FindOrCreateCustomer(body.Email, body.Name)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, cus)
}

func (h *Handler) GenerateCheckout(c *gin.Context) {
	userID := c.Param("id")
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing email query parameter"})
		return
	}

	url, err := h.svc.GenerateCheckout(userID, email)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *Handler) CreatePortalSession(c *gin.Context) {
	session, err := h.svc.CreatePortalSession(c.Param("id"))
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *Handler) CancelSubscription(c *gin.Context) {
	sub, err := h.svc.CancelSubscription(c.Param("id"))
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, sub)
}
