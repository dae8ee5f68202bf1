package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type initializePaymentRequest struct {
	RequestID int64   `json:"request_id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
}

// POST /api/payments/chapa/create (visitor)
func InitializePayment(c *gin.Context) {
	if _, ok := mustPrincipal(c); !ok {
		return
	}
	var in initializePaymentRequest
	if !BindJSONOrError(c, &in) {
		return
	}
	res, err := svc.Payments.Initialize(c.Request.Context(), in.RequestID, in.Amount, in.Currency)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	status := http.StatusCreated
	if !res.Routed {
		status = http.StatusAccepted
	}
	c.JSON(status, res)
}

// GET /api/payments/chapa/verify/:reference
func VerifyPaymentByReference(c *gin.Context) {
	ref := c.Param("reference")
	if ref == "" {
		respondError(c, http.StatusBadRequest, "invalid_reference", "payment reference is required", nil)
		return
	}
	res, err := svc.Payments.VerifyByReference(c.Request.Context(), ref)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	status := http.StatusOK
	if !res.Confirmed && res.Message != "" {
		status = http.StatusAccepted
	}
	c.JSON(status, res)
}

// PATCH /api/payments/:id/verify (admin)
func VerifyPaymentByID(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	payment, err := svc.Payments.VerifyByID(id, p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

// POST /api/payments/:id/proof and POST /api/payments/proof (visitor).
// Multipart upload; the second form carries payment_id as a form field.
func UploadPaymentProof(c *gin.Context) {
	if _, ok := mustPrincipal(c); !ok {
		return
	}
	var id int64
	if c.Param("id") != "" {
		var ok bool
		if id, ok = pathID(c, "id"); !ok {
			return
		}
	} else {
		id, _ = strconv.ParseInt(c.PostForm("payment_id"), 10, 64)
		if id <= 0 {
			respondError(c, http.StatusBadRequest, "validation_error", "payment_id is required", nil)
			return
		}
	}

	fh, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "proof file is required", err)
		return
	}
	storedPath, err := svc.Files.SavePaymentProof(id, fh)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	amount, _ := strconv.ParseFloat(c.PostForm("amount_paid"), 64)
	proof, err := svc.Payments.AttachProof(id, storedPath, c.PostForm("transaction_id"), amount)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"proof": proof})
}

// GET /api/payments (admin; optional ?request_id=)
func GetPayments(c *gin.Context) {
	var requestID int64
	if raw := c.Query("request_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respondError(c, http.StatusBadRequest, "invalid_id", "invalid request_id", err)
			return
		}
		requestID = id
	}
	payments, err := svc.Payments.List(requestID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// GET /api/payments/:id/receipt
func GetPaymentReceipt(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	payment, err := svc.Payments.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if !p.IsAdmin() && payment.VisitorID != p.UserID {
		respondError(c, http.StatusForbidden, "forbidden", "not your payment", nil)
		return
	}

	pdfBytes, filename, err := svc.Receipts.GenerateReceipt(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
