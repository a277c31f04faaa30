package handler // handler defines http handlers

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mintgate/merchant-gateway/internal/model"
)

// apiResponse is the JSON envelope used by every endpoint.
type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respond(c echo.Context, status int, data any, msg string) error {
	return c.JSON(status, apiResponse{Success: status < 400, Message: msg, Data: data})
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, apiResponse{Success: false, Message: msg})
}

// merchantResponse is the public snake_case merchant shape.
type merchantResponse struct {
	ID               string             `json:"id"`
	UniqueID         string             `json:"unique_id"`
	Name             string             `json:"name"`
	Email            string             `json:"email"`
	EmailVerifiedAt  *time.Time         `json:"email_verified_at"`
	PhoneNumber      string             `json:"phone_number"`
	MerchantFee      float64            `json:"merchant_fee"`
	AdminFee         float64            `json:"admin_fee"`
	Role             string             `json:"role"`
	Wallet           string             `json:"wallet"`
	Status           bool               `json:"status"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
	PaymentProviders []providerLinkResp `json:"payment_providers"`
}

type providerLinkResp struct {
	ID                string       `json:"id"`
	UserID            string       `json:"user_id"`
	PaymentProviderID string       `json:"payment_provider_id"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
	Provider          providerResp `json:"provider"`
}

type providerResp struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func formatProvider(p model.PaymentProvider) providerResp {
	return providerResp{ID: p.ID, Name: p.Name, IsActive: p.IsActive,
		CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt}
}

// formatMerchant renders a merchant with its attached providers. providers
// maps provider id to the full record; ids without a match are skipped.
func formatMerchant(m *model.Merchant, providers map[string]model.PaymentProvider) merchantResponse {
	out := merchantResponse{
		ID:               m.ID,
		UniqueID:         m.UniqueID,
		Name:             m.Name,
		Email:            m.Email,
		PhoneNumber:      m.Phone,
		MerchantFee:      m.MerchantFee,
		AdminFee:         m.AdminFee,
		Role:             model.KindMerchant,
		Wallet:           m.Wallet,
		Status:           m.Status == 1,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
		PaymentProviders: []providerLinkResp{},
	}
	for _, pid := range m.ProviderIDs {
		p, ok := providers[pid]
		if !ok {
			continue
		}
		out.PaymentProviders = append(out.PaymentProviders, providerLinkResp{
			ID:                p.ID,
			UserID:            m.ID,
			PaymentProviderID: p.ID,
			CreatedAt:         m.CreatedAt,
			UpdatedAt:         m.UpdatedAt,
			Provider:          formatProvider(p),
		})
	}
	return out
}

// uidTimestamp renders timestamps in the fixed microsecond format the UID
// endpoints have always returned.
func uidTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05") + ".000000Z"
}
