package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mintgate/merchant-gateway/internal/auth"
	"github.com/mintgate/merchant-gateway/internal/model"
	"github.com/mintgate/merchant-gateway/internal/queue"
	"github.com/mintgate/merchant-gateway/internal/repository"
	"github.com/mintgate/merchant-gateway/internal/utils"
)

// MerchantHandler implements the admin-gated merchant CRUD endpoints.
type MerchantHandler struct {
	Merchants  MerchantStore
	Providers  ProviderStore
	Resolver   *auth.Resolver
	Publisher  EventPublisher
	BcryptCost int
}

func NewMerchantHandler(m MerchantStore, p ProviderStore, r *auth.Resolver, pub EventPublisher, bcryptCost int) *MerchantHandler {
	return &MerchantHandler{Merchants: m, Providers: p, Resolver: r, Publisher: pub, BcryptCost: bcryptCost}
}

type registerMerchantReq struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Password string   `json:"password"`
	Wallet   string   `json:"wallet"`
	AdminFee *float64 `json:"adminFee"`
}

type updateMerchantReq struct {
	Name             *string  `json:"name"`
	Email            *string  `json:"email"`
	Password         *string  `json:"password"`
	PhoneNumber      *string  `json:"phone_number"`
	Wallet           *string  `json:"wallet"`
	MerchantFee      *float64 `json:"merchant_fee"`
	AdminFee         *float64 `json:"admin_fee"`
	PaymentProviders []string `json:"payment_providers"`
}

// Register creates a merchant. The merchant's own shareable code is
// generated here with the same bounded collision retry the UID endpoints
// use.
func (h *MerchantHandler) Register(c echo.Context) error {
	var req registerMerchantReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Wallet == "" || req.AdminFee == nil {
		return fail(c, http.StatusBadRequest, "All required fields must be provided")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hash, err := utils.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Something went wrong while registering the merchant")
	}

	m := &model.Merchant{
		ID:           model.NewID(),
		Name:         strings.ToLower(req.Name),
		Email:        strings.ToLower(req.Email),
		Phone:        req.Phone,
		PasswordHash: hash,
		Wallet:       strings.ToLower(req.Wallet),
		AdminFee:     *req.AdminFee,
		MerchantFee:  0,
		Status:       0,
	}

	for attempt := 0; ; attempt++ {
		m.UniqueID = model.NewUIDCode()
		err = h.Merchants.Create(ctx, m)
		if errors.Is(err, repository.ErrUIDExists) && attempt < maxCodeAttempts-1 {
			continue
		}
		break
	}
	if errors.Is(err, repository.ErrEmailExists) {
		return fail(c, http.StatusConflict, "Merchant with this email already exists")
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Something went wrong while registering the merchant")
	}

	created, err := h.Merchants.GetByID(ctx, m.ID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Something went wrong while registering the merchant")
	}
	return respond(c, http.StatusCreated, formatMerchant(created, nil), "Merchant registered successfully")
}

// List returns all merchants newest first with their provider details.
func (h *MerchantHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	merchants, err := h.Merchants.List(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	providers, err := providerIndex(ctx, h.Providers)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "query failed")
	}

	out := make([]merchantResponse, 0, len(merchants))
	for i := range merchants {
		out = append(out, formatMerchant(&merchants[i], providers))
	}
	return respond(c, http.StatusOK, out, "Merchants retrieved successfully")
}

// Get resolves :id as either a 24-hex primary key or an 8-char UID.
func (h *MerchantHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Resolver.Resolve(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Merchant not found")
		}
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	providers, err := providerIndex(ctx, h.Providers)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	return respond(c, http.StatusOK, formatMerchant(m, providers), "Merchant retrieved successfully")
}

// Update targets a specific row, so :id must be a primary key, never a
// UID. When only one side of the fee split is supplied, the other side is
// set to the complement of 100.
func (h *MerchantHandler) Update(c echo.Context) error {
	id := c.Param("id")
	if !auth.IsObjectID(id) {
		return fail(c, http.StatusBadRequest, "Invalid merchant id")
	}
	var req updateMerchantReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Merchants.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Merchant not found")
		}
		return fail(c, http.StatusInternalServerError, "query failed")
	}

	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.Email != nil {
		m.Email = strings.ToLower(*req.Email)
	}
	if req.PhoneNumber != nil {
		m.Phone = *req.PhoneNumber
	}
	if req.Wallet != nil {
		m.Wallet = *req.Wallet
	}
	if req.Password != nil && *req.Password != "" {
		hash, herr := utils.HashPassword(*req.Password, h.BcryptCost)
		if herr != nil {
			return fail(c, http.StatusInternalServerError, "Something went wrong")
		}
		m.PasswordHash = hash
	}
	applyFeeSplit(m, req.AdminFee, req.MerchantFee)

	if len(req.PaymentProviders) > 0 {
		valid := make([]string, 0, len(req.PaymentProviders))
		seen := map[string]bool{}
		for _, pid := range req.PaymentProviders {
			pid = strings.TrimSpace(pid)
			if pid == "" || seen[pid] {
				continue
			}
			seen[pid] = true
			if _, perr := h.Providers.GetByID(ctx, pid); perr != nil {
				if errors.Is(perr, repository.ErrNotFound) {
					return fail(c, http.StatusBadRequest, "Payment provider with ID "+pid+" not found")
				}
				return fail(c, http.StatusInternalServerError, "query failed")
			}
			valid = append(valid, pid)
		}
		if err := h.Merchants.SetProviders(ctx, m.ID, valid); err != nil {
			return fail(c, http.StatusInternalServerError, "update failed")
		}
		m.ProviderIDs = valid
	}

	if err := h.Merchants.Update(ctx, m); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return fail(c, http.StatusConflict, "Merchant with this email already exists")
		}
		return fail(c, http.StatusInternalServerError, "update failed")
	}

	if h.Publisher != nil {
		ev := queue.MerchantUpdatedEvent{
			MerchantID:  m.ID,
			Email:       m.Email,
			MerchantFee: m.MerchantFee,
			AdminFee:    m.AdminFee,
			UpdatedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		if perr := h.Publisher.Publish(ctx, queue.TypeMerchantUpdated, ev); perr != nil {
			c.Logger().Warnf("publish merchant.updated: %v", perr)
		}
	}

	providers, err := providerIndex(ctx, h.Providers)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	return respond(c, http.StatusOK, formatMerchant(m, providers), "Merchant updated successfully")
}

// Delete removes a merchant by primary key.
func (h *MerchantHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if !auth.IsObjectID(id) {
		return fail(c, http.StatusBadRequest, "Invalid merchant id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Merchants.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Merchant not found")
		}
		return fail(c, http.StatusInternalServerError, "delete failed")
	}
	return respond(c, http.StatusOK, echo.Map{}, "Merchant deleted successfully")
}

// ListProviders returns the payment-provider catalogue.
func (h *MerchantHandler) ListProviders(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Providers.List(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	out := make([]providerResp, 0, len(list))
	for _, p := range list {
		out = append(out, formatProvider(p))
	}
	return respond(c, http.StatusOK, out, "Payment providers retrieved successfully")
}

// applyFeeSplit writes the supplied fee sides onto m. A side left out is
// set to 100 minus the supplied one, keeping the split summing to 100.
func applyFeeSplit(m *model.Merchant, adminFee, merchantFee *float64) {
	if adminFee != nil {
		m.AdminFee = *adminFee
		if merchantFee == nil {
			m.MerchantFee = 100 - *adminFee
		}
	}
	if merchantFee != nil {
		m.MerchantFee = *merchantFee
		if adminFee == nil {
			m.AdminFee = 100 - *merchantFee
		}
	}
}
