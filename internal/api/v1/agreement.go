package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sendwell/sendwell/internal/api/dto"
	ierr "github.com/sendwell/sendwell/internal/errors"
	"github.com/sendwell/sendwell/internal/logger"
	"github.com/sendwell/sendwell/internal/service"
	"github.com/sendwell/sendwell/internal/types"
)

type AgreementHandler struct {
	agreementService service.AgreementService
	log              *logger.Logger
}

func NewAgreementHandler(agreementService service.AgreementService, log *logger.Logger) *AgreementHandler {
	return &AgreementHandler{
		agreementService: agreementService,
		log:              log,
	}
}

// CreateAgreement handles POST /v1/accounts/:id/agreements
func (h *AgreementHandler) CreateAgreement(c *gin.Context) {
	accountID := c.Param("id")
	if accountID == "" {
		c.Error(ierr.NewError("account id is required").
			WithHint("Account ID must be present in the URL").
			Mark(ierr.ErrValidation))
		return
	}

	// Tag the request context so downstream logs carry the account id
	ctx := types.SetAccountID(c.Request.Context(), accountID)
	c.Request = c.Request.WithContext(ctx)

	var req dto.CreateAgreementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.agreementService.CreateAgreement(c.Request.Context(), accountID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
