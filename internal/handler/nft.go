package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mintgate/merchant-gateway/internal/crossmint"
)

// NFTHandler proxies collection and template creation to Crossmint. The
// request bodies are validated for required fields and forwarded; the
// upstream status and JSON body come back as-is inside the usual envelope.
type NFTHandler struct {
	Crossmint *crossmint.Client
}

func NewNFTHandler(c *crossmint.Client) *NFTHandler { return &NFTHandler{Crossmint: c} }

type collectionReq struct {
	Chain       string `json:"chain"`
	Fungibility string `json:"fungibility"`
	Metadata    struct {
		Name        string `json:"name"`
		ImageURL    string `json:"imageUrl"`
		Description string `json:"description"`
	} `json:"metadata"`
}

type templateReq struct {
	OnChain struct {
		TokenID any `json:"tokenId"`
	} `json:"onChain"`
	Supply struct {
		Limit any `json:"limit"`
	} `json:"supply"`
	Metadata struct {
		Name        string `json:"name"`
		Image       string `json:"image"`
		Description string `json:"description"`
	} `json:"metadata"`
}

// CreateCollection validates and forwards a collection-creation request.
func (h *NFTHandler) CreateCollection(c echo.Context) error {
	if !h.Crossmint.Configured() {
		return fail(c, http.StatusServiceUnavailable, "Crossmint is not configured")
	}
	var req collectionReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.Chain == "" || req.Fungibility == "" {
		return fail(c, http.StatusBadRequest, "chain, fungibility and metadata are required")
	}
	if req.Metadata.Name == "" || req.Metadata.ImageURL == "" || req.Metadata.Description == "" {
		return fail(c, http.StatusBadRequest, "metadata.name, metadata.imageUrl and metadata.description are required")
	}

	status, body, err := h.Crossmint.CreateCollection(c.Request().Context(), req)
	if err != nil {
		c.Logger().Errorf("crossmint create collection: %v", err)
		return fail(c, http.StatusBadGateway, "Crossmint API unreachable")
	}
	if status < 200 || status > 299 {
		return respond(c, status, body, "Crossmint API error")
	}
	return respond(c, http.StatusCreated, body, "Collection created successfully")
}

// CreateTemplate validates and forwards a template-creation request for
// the collection named in the path.
func (h *NFTHandler) CreateTemplate(c echo.Context) error {
	if !h.Crossmint.Configured() {
		return fail(c, http.StatusServiceUnavailable, "Crossmint is not configured")
	}
	collectionID := strings.TrimSpace(c.Param("id"))
	if collectionID == "" {
		return fail(c, http.StatusBadRequest, "collectionId is required")
	}
	var req templateReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.OnChain.TokenID == nil {
		return fail(c, http.StatusBadRequest, "onChain.tokenId is required")
	}
	if req.Supply.Limit == nil {
		return fail(c, http.StatusBadRequest, "supply.limit is required")
	}
	if req.Metadata.Name == "" || req.Metadata.Image == "" || req.Metadata.Description == "" {
		return fail(c, http.StatusBadRequest, "metadata.name, metadata.image and metadata.description are required")
	}

	status, body, err := h.Crossmint.CreateTemplate(c.Request().Context(), collectionID, req)
	if err != nil {
		c.Logger().Errorf("crossmint create template: %v", err)
		return fail(c, http.StatusBadGateway, "Crossmint API unreachable")
	}
	if status < 200 || status > 299 {
		return respond(c, status, body, "Crossmint API error")
	}
	return respond(c, http.StatusCreated, body, "Template created successfully")
}
