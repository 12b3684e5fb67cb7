package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopbill/shopbill-api/internal/application/service"
	"github.com/shopbill/shopbill-api/internal/presentation/http/dto/request"
	"github.com/shopbill/shopbill-api/internal/presentation/http/dto/response"
	"github.com/shopbill/shopbill-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// NextInvoiceID returns the display number a new invoice for the shop would
// receive today.
func (h *InvoiceHandler) NextInvoiceID(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Could not validate credentials")
		return
	}

	shopID, err := strconv.ParseUint(c.Query("shop_id"), 10, 32)
	if err != nil {
		response.ValidationError(c, "shop_id must be a positive integer")
		return
	}

	next, err := h.invoiceService.AllocateInvoiceNumber(c.Request.Context(), user, uint(shopID))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, next)
}

// Create handles invoice creation
func (h *InvoiceHandler) Create(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Could not validate credentials")
		return
	}

	var req request.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	input := &service.CreateInvoiceInput{
		ShopID:         req.ShopID,
		ContactInfo:    req.ContactInfo,
		AdditionalInfo: req.AdditionalInfo,
		TotalAmount:    req.TotalAmount,
		IsPaid:         req.IsPaid,
		Items:          toItemInputs(req.Items),
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), user, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, invoice)
}

// List handles multi-criteria filtered listing
func (h *InvoiceHandler) List(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Could not validate credentials")
		return
	}

	filters := &service.InvoiceFilters{}

	if v := c.Query("shop_id"); v != "" {
		shopID, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			response.ValidationError(c, "shop_id must be a positive integer")
			return
		}
		id := uint(shopID)
		filters.ShopID = &id
	}

	if v := c.Query("is_paid"); v != "" {
		isPaid, err := strconv.ParseBool(v)
		if err != nil {
			response.ValidationError(c, "is_paid must be a boolean")
			return
		}
		filters.IsPaid = &isPaid
	}

	if v := c.Query("created_after"); v != "" {
		t, err := parseTimeQuery(v)
		if err != nil {
			response.ValidationError(c, "created_after must be a date or timestamp")
			return
		}
		filters.CreatedAfter = &t
	}

	if v := c.Query("created_before"); v != "" {
		t, err := parseTimeQuery(v)
		if err != nil {
			response.ValidationError(c, "created_before must be a date or timestamp")
			return
		}
		filters.CreatedBefore = &t
	}

	if v := c.Query("min_amount"); v != "" {
		amount, err := decimal.NewFromString(v)
		if err != nil {
			response.ValidationError(c, "min_amount must be a number")
			return
		}
		filters.MinAmount = &amount
	}

	if v := c.Query("max_amount"); v != "" {
		amount, err := decimal.NewFromString(v)
		if err != nil {
			response.ValidationError(c, "max_amount must be a number")
			return
		}
		filters.MaxAmount = &amount
	}

	page, ok := h.bindPagination(c)
	if !ok {
		return
	}

	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), user, filters, page)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, invoices)
}

// bindPagination validates skip/limit at the boundary: skip >= 0, limit
// capped at 100. Requests above the cap are rejected, not truncated.
func (h *InvoiceHandler) bindPagination(c *gin.Context) (pagination.Params, bool) {
	page := pagination.Default()

	if v := c.Query("skip"); v != "" {
		skip, err := strconv.Atoi(v)
		if err != nil || skip < 0 {
			response.ValidationError(c, "skip must be a non-negative integer")
			return page, false
		}
		page.Skip = skip
	}

	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > pagination.MaxLimit {
			response.ValidationError(c, "limit must be between 1 and 100")
			return page, false
		}
		page.Limit = limit
	}

	return page, true
}

// Get handles fetching a single invoice
func (h *InvoiceHandler) Get(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Could not validate credentials")
		return
	}

	id, ok := parseUintParam(c, "id")
	if !ok {
		response.ValidationError(c, "invoice id must be a positive integer")
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), user, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, invoice)
}

// Update handles partial invoice updates
func (h *InvoiceHandler) Update(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Could not validate credentials")
		return
	}

	id, ok := parseUintParam(c, "id")
	if !ok {
		response.ValidationError(c, "invoice id must be a positive integer")
		return
	}

	var req request.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	patch := &service.UpdateInvoiceInput{
		ContactInfo:    req.ContactInfo,
		AdditionalInfo: req.AdditionalInfo,
		IsPaid:         req.IsPaid,
		Items:          toItemInputs(req.Items),
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), user, id, patch)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, invoice)
}

// UpdateStatus is a convenience wrapper that only toggles the paid flag
func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Could not validate credentials")
		return
	}

	id, ok := parseUintParam(c, "id")
	if !ok {
		response.ValidationError(c, "invoice id must be a positive integer")
		return
	}

	var req request.UpdateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "is_paid is required")
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), user, id, &service.UpdateInvoiceInput{
		IsPaid: req.IsPaid,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, invoice)
}

// Delete handles invoice deletion
func (h *InvoiceHandler) Delete(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Could not validate credentials")
		return
	}

	id, ok := parseUintParam(c, "id")
	if !ok {
		response.ValidationError(c, "invoice id must be a positive integer")
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), user, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// StatsSummary returns aggregate statistics over a filtered invoice set
func (h *InvoiceHandler) StatsSummary(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Could not validate credentials")
		return
	}

	var shopID *uint
	if v := c.Query("shop_id"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			response.ValidationError(c, "shop_id must be a positive integer")
			return
		}
		id := uint(parsed)
		shopID = &id
	}

	var startDate, endDate *time.Time
	if v := c.Query("start_date"); v != "" {
		t, err := parseTimeQuery(v)
		if err != nil {
			response.ValidationError(c, "start_date must be a date or timestamp")
			return
		}
		startDate = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := parseTimeQuery(v)
		if err != nil {
			response.ValidationError(c, "end_date must be a date or timestamp")
			return
		}
		endDate = &t
	}

	stats, err := h.invoiceService.SummarizeInvoices(c.Request.Context(), user, shopID, startDate, endDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, stats)
}

func toItemInputs(items []request.InvoiceItemRequest) []service.InvoiceItemInput {
	if len(items) == 0 {
		return nil
	}
	out := make([]service.InvoiceItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, service.InvoiceItemInput{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
			Total:    it.Total,
		})
	}
	return out
}
