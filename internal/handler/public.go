package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mintgate/merchant-gateway/internal/auth"
	"github.com/mintgate/merchant-gateway/internal/model"
	"github.com/mintgate/merchant-gateway/internal/repository"
)

// PublicHandler serves the unauthenticated merchant lookup route.
type PublicHandler struct {
	Resolver  *auth.Resolver
	Providers ProviderStore
}

func NewPublicHandler(r *auth.Resolver, p ProviderStore) *PublicHandler {
	return &PublicHandler{Resolver: r, Providers: p}
}

// GetByIdentifier resolves a path identifier that is either a merchant
// primary key or a shareable UID code. Identifiers of neither shape, and
// UIDs that do not resolve to a live merchant, return 404.
func (h *PublicHandler) GetByIdentifier(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Resolver.Resolve(ctx, c.Param("identifier"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Merchant not found")
		}
		return fail(c, http.StatusInternalServerError, "query failed")
	}

	idx, err := providerIndex(ctx, h.Providers)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	return respond(c, http.StatusOK, formatMerchant(m, idx), "Merchant retrieved")
}

// providerIndex loads the provider catalogue keyed by id.
func providerIndex(ctx context.Context, store ProviderStore) (map[string]model.PaymentProvider, error) {
	list, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]model.PaymentProvider, len(list))
	for _, p := range list {
		idx[p.ID] = p
	}
	return idx, nil
}
