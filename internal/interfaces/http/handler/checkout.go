package handler

import (
	"sync"

	appcart "github.com/Igorseven/Ecommerce-Web/internal/application/cart"
	appcheckout "github.com/Igorseven/Ecommerce-Web/internal/application/checkout"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/checkout"
	"github.com/gin-gonic/gin"
)

// AddressRequest is the delivery address entered at checkout
type AddressRequest struct {
	PostalCode string `json:"cep" binding:"max=16"`
	Number     string `json:"number" binding:"max=20"`
	Complement string `json:"complement" binding:"max=100"`
}

// SubmitOrderRequest is the checkout form. Field presence and the email
// shape are checked by the order model so that an empty cart is always
// reported first.
type SubmitOrderRequest struct {
	CustomerName  string         `json:"customer_name" binding:"max=200"`
	CustomerEmail string         `json:"customer_email" binding:"max=200"`
	CustomerPhone string         `json:"customer_phone" binding:"max=30"`
	Address       AddressRequest `json:"address"`
}

// AddressFormRequest replaces the fields of the address form being edited
type AddressFormRequest struct {
	PostalCode   string `json:"cep" binding:"max=16"`
	Street       string `json:"street" binding:"max=200"`
	Number       string `json:"number" binding:"max=20"`
	Complement   string `json:"complement" binding:"max=100"`
	Neighborhood string `json:"neighborhood" binding:"max=100"`
	City         string `json:"city" binding:"max=100"`
	State        string `json:"state" binding:"max=2"`
}

// AddressLookupResponse is a postal code resolution with the form after autofill
type AddressLookupResponse struct {
	*checkout.AddressResolution
	Form checkout.AddressForm `json:"form"`
}

// OrderSubmissionResponse is the created order with the session outcome
type OrderSubmissionResponse struct {
	Order *checkout.OrderRecord    `json:"order"`
	State checkout.SubmissionState `json:"state"`
}

// CheckoutHandler handles the checkout endpoints. It keeps the address form
// of the single storefront session.
type CheckoutHandler struct {
	BaseHandler
	orchestrator *appcheckout.Orchestrator
	store        *appcart.Store
	policy       checkout.AutofillPolicy

	mu   sync.Mutex
	form checkout.AddressForm
}

// NewCheckoutHandler creates a new CheckoutHandler. An invalid policy falls
// back to overwrite.
func NewCheckoutHandler(orchestrator *appcheckout.Orchestrator, store *appcart.Store, policy checkout.AutofillPolicy) *CheckoutHandler {
	if !policy.IsValid() {
		policy = checkout.AutofillOverwrite
	}
	return &CheckoutHandler{
		orchestrator: orchestrator,
		store:        store,
		policy:       policy,
	}
}

// ResolveAddress looks a postal code up and fills the address form from the
// result. An unknown postal code answers 200 with found=false.
func (h *CheckoutHandler) ResolveAddress(c *gin.Context) {
	res, err := h.orchestrator.ResolveAddress(c.Request.Context(), c.Param("cep"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.mu.Lock()
	h.form.Autofill(res, h.policy)
	form := h.form
	h.mu.Unlock()

	h.Success(c, AddressLookupResponse{AddressResolution: res, Form: form})
}

// GetAddressForm returns the current address form
func (h *CheckoutHandler) GetAddressForm(c *gin.Context) {
	h.mu.Lock()
	form := h.form
	h.mu.Unlock()
	h.Success(c, form)
}

// UpdateAddressForm replaces the address form with the user's edits.
func (h *CheckoutHandler) UpdateAddressForm(c *gin.Context) {
	var req AddressFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	form := checkout.AddressForm{
		PostalCode:   req.PostalCode,
		Street:       req.Street,
		Number:       req.Number,
		Complement:   req.Complement,
		Neighborhood: req.Neighborhood,
		City:         req.City,
		State:        req.State,
	}
	h.mu.Lock()
	h.form = form
	h.mu.Unlock()

	h.Success(c, form)
}

// GetSummary returns subtotal, shipping and total for the current cart.
func (h *CheckoutHandler) GetSummary(c *gin.Context) {
	h.Success(c, h.orchestrator.Summarize(h.store.Items()))
}

// SubmitOrder submits the cart as an order. A second submission while one is
// in flight answers 409. When the request carries no postal code the address
// form is used.
func (h *CheckoutHandler) SubmitOrder(c *gin.Context) {
	var req SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	customer := checkout.CustomerInfo{
		Name:  req.CustomerName,
		Email: req.CustomerEmail,
		Phone: req.CustomerPhone,
	}
	address := checkout.ShippingAddress{
		PostalCode: req.Address.PostalCode,
		Number:     req.Address.Number,
		Complement: req.Address.Complement,
	}
	if address.PostalCode == "" {
		h.mu.Lock()
		address = h.form.ShippingAddress()
		h.mu.Unlock()
	}

	session := h.orchestrator.Session()
	if err := session.Begin(); err != nil {
		h.HandleError(c, err)
		return
	}
	record, err := h.orchestrator.SubmitOrder(c.Request.Context(), customer, address, h.store.Snapshot())
	_ = session.Finish(err)
	state, _ := session.Acknowledge()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.mu.Lock()
	h.form = checkout.AddressForm{}
	h.mu.Unlock()

	h.Created(c, OrderSubmissionResponse{Order: record, State: state})
}
