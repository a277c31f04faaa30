package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mintgate/merchant-gateway/internal/middleware"
	"github.com/mintgate/merchant-gateway/internal/model"
	"github.com/mintgate/merchant-gateway/internal/queue"
	"github.com/mintgate/merchant-gateway/internal/repository"
)

// maxCodeAttempts bounds the regenerate-on-collision loop for 8-char
// codes. With a 36^8 space five misses in a row means something is wrong
// with the store, not with luck.
const maxCodeAttempts = 5

// MerchantCodeStore is the subset of the merchant store the UID endpoints
// use for the best-effort cross-check against merchant shareable codes.
type MerchantCodeStore interface {
	UniqueIDExists(ctx context.Context, code string) (bool, error)
}

// UIDHandler implements the merchant-gated UID endpoints.
type UIDHandler struct {
	UIDs      UIDStore
	Merchants MerchantCodeStore
	Publisher EventPublisher
}

func NewUIDHandler(u UIDStore, m MerchantCodeStore, pub EventPublisher) *UIDHandler {
	return &UIDHandler{UIDs: u, Merchants: m, Publisher: pub}
}

type uidResp struct {
	ID        uint64 `json:"id"`
	UniqueID  string `json:"unique_id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Generate allocates the next sequence number and claims a fresh random
// code for the calling merchant. The sequence comes from an atomic
// fetch-and-add, so concurrent calls always observe distinct values; code
// uniqueness rests on the unique index, with a bounded retry when the
// insert reports a collision.
func (h *UIDHandler) Generate(c echo.Context) error {
	p, ok := middleware.GetPrincipal(c)
	if !ok || p.Kind != model.KindMerchant {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	seq, err := h.UIDs.NextSeq(ctx)
	if err != nil {
		c.Logger().Errorf("uid seq increment: %v", err)
		return fail(c, http.StatusInternalServerError, "Something went wrong while generating UID")
	}

	rec := &model.PublicUID{Seq: seq, CreatedBy: p.ID()}
	for attempt := 0; ; attempt++ {
		rec.Code = model.NewUIDCode()
		// Best-effort guard against clashing with a merchant's own code;
		// the unique index on uids.code is the real arbiter.
		if exists, _ := h.Merchants.UniqueIDExists(ctx, rec.Code); exists {
			err = repository.ErrUIDExists
		} else {
			err = h.UIDs.Create(ctx, rec)
		}
		if errors.Is(err, repository.ErrUIDExists) && attempt < maxCodeAttempts-1 {
			continue
		}
		break
	}
	if err != nil {
		c.Logger().Errorf("uid create: %v", err)
		return fail(c, http.StatusInternalServerError, "Something went wrong while generating UID")
	}

	now := time.Now().UTC()
	if h.Publisher != nil {
		ev := queue.UIDGeneratedEvent{
			Seq:        rec.Seq,
			Code:       rec.Code,
			MerchantID: rec.CreatedBy,
			CreatedAt:  now.Format(time.RFC3339),
		}
		if perr := h.Publisher.Publish(ctx, queue.TypeUIDGenerated, ev); perr != nil {
			c.Logger().Warnf("publish uid.generated: %v", perr)
		}
	}

	return respond(c, http.StatusCreated, uidResp{
		ID:        rec.Seq,
		UniqueID:  rec.Code,
		CreatedAt: uidTimestamp(now),
		UpdatedAt: uidTimestamp(now),
	}, "UID generated successfully")
}

// List returns the calling merchant's UIDs, newest first.
func (h *UIDHandler) List(c echo.Context) error {
	p, ok := middleware.GetPrincipal(c)
	if !ok || p.Kind != model.KindMerchant {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.UIDs.ListByCreator(ctx, p.ID())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	out := make([]uidResp, 0, len(list))
	for _, u := range list {
		out = append(out, uidResp{
			ID:        u.Seq,
			UniqueID:  u.Code,
			CreatedAt: uidTimestamp(u.CreatedAt),
			UpdatedAt: uidTimestamp(u.UpdatedAt),
		})
	}
	return respond(c, http.StatusOK, out, "UIDs retrieved successfully")
}
