package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/mintgate/merchant-gateway/internal/auth"
	"github.com/mintgate/merchant-gateway/internal/model"
	"github.com/mintgate/merchant-gateway/internal/queue"
	"github.com/mintgate/merchant-gateway/internal/utils"
)

func newMerchantFixture(merchants *fakeMerchantStore, providers *fakeProviderStore, pub *fakePublisher) *MerchantHandler {
	if merchants == nil {
		merchants = newFakeMerchantStore()
	}
	if providers == nil {
		providers = &fakeProviderStore{}
	}
	resolver := &auth.Resolver{Merchants: merchants, UIDs: newFakeUIDStore()}
	var p EventPublisher
	if pub != nil {
		p = pub
	}
	return NewMerchantHandler(merchants, providers, resolver, p, 4)
}

func doParamJSON(t *testing.T, h echo.HandlerFunc, method, path, param, value, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if param != "" {
		c.SetParamNames(param)
		c.SetParamValues(value)
	}
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	var envelope map[string]any
	if len(rec.Body.Bytes()) > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decode body %q: %v", rec.Body.String(), err)
		}
	}
	return rec, envelope
}

func TestRegisterMerchantValidation(t *testing.T) {
	h := newMerchantFixture(nil, nil, nil)
	cases := []string{
		`{}`,
		`{"name":"shop","email":"m@shop.io","password":"pw"}`,                  // no wallet, no adminFee
		`{"name":"shop","email":"m@shop.io","password":"pw","wallet":"0xabc"}`, // no adminFee
		`{"email":"m@shop.io","password":"pw","wallet":"0xabc","adminFee":30}`, // no name
	}
	for _, body := range cases {
		rec, _ := doJSON(t, h.Register, http.MethodPost, "/merchants/register", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestRegisterMerchant(t *testing.T) {
	merchants := newFakeMerchantStore()
	h := newMerchantFixture(merchants, nil, nil)

	rec, envelope := doJSON(t, h.Register, http.MethodPost, "/merchants/register",
		`{"name":"My Shop","email":"M@Shop.io","password":"s3cret","wallet":"0xABC","adminFee":30,"phone":"123"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	data := dataOf(t, envelope)
	if data["email"] != "m@shop.io" {
		t.Errorf("email = %v, want lowercased", data["email"])
	}
	code, _ := data["unique_id"].(string)
	if !auth.IsUIDCode(code) {
		t.Errorf("unique_id = %q, want 8-char code", code)
	}
	if data["admin_fee"] != float64(30) {
		t.Errorf("admin_fee = %v, want 30", data["admin_fee"])
	}

	stored, err := merchants.GetByEmail(context.Background(), "m@shop.io")
	if err != nil {
		t.Fatalf("merchant not stored: %v", err)
	}
	if stored.PasswordHash == "s3cret" || !utils.VerifyPassword(stored.PasswordHash, "s3cret") {
		t.Error("password not stored as a verifiable hash")
	}
}

func TestRegisterMerchantDuplicateEmail(t *testing.T) {
	existing := &model.Merchant{ID: "64a1b2c3d4e5f6a7b8c9d0e1", UniqueID: "AAAA1111", Email: "m@shop.io"}
	h := newMerchantFixture(newFakeMerchantStore(existing), nil, nil)

	rec, envelope := doJSON(t, h.Register, http.MethodPost, "/merchants/register",
		`{"name":"shop","email":"m@shop.io","password":"pw","wallet":"0xabc","adminFee":30}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
	if envelope["message"] != "Merchant with this email already exists" {
		t.Errorf("message = %v", envelope["message"])
	}
}

func TestGetMerchantByIDOrCode(t *testing.T) {
	m := &model.Merchant{ID: "64a1b2c3d4e5f6a7b8c9d0e1", UniqueID: "AB12CD34", Email: "m@shop.io"}
	h := newMerchantFixture(newFakeMerchantStore(m), nil, nil)

	for _, ident := range []string{m.ID, "AB12CD34"} {
		rec, envelope := doParamJSON(t, h.Get, http.MethodGet, "/merchants/"+ident, "id", ident, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("identifier %q: status = %d, body %s", ident, rec.Code, rec.Body.String())
		}
		if dataOf(t, envelope)["id"] != m.ID {
			t.Errorf("identifier %q resolved to %v", ident, dataOf(t, envelope)["id"])
		}
	}
}

func TestGetMerchantByCodeResolvesCreator(t *testing.T) {
	m := &model.Merchant{ID: "64a1b2c3d4e5f6a7b8c9d0e1", UniqueID: "AAAA1111"}
	merchants := newFakeMerchantStore(m)
	uids := newFakeUIDStore()
	uids.byCode["ZZ99XX88"] = &model.PublicUID{Seq: 3, Code: "ZZ99XX88", CreatedBy: m.ID}
	h := NewMerchantHandler(merchants, &fakeProviderStore{}, &auth.Resolver{Merchants: merchants, UIDs: uids}, nil, 4)

	rec, envelope := doParamJSON(t, h.Get, http.MethodGet, "/merchants/ZZ99XX88", "id", "ZZ99XX88", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if dataOf(t, envelope)["id"] != m.ID {
		t.Errorf("generated code did not resolve to the creating merchant")
	}
}

func TestGetMerchantNotFound(t *testing.T) {
	h := newMerchantFixture(nil, nil, nil)
	rec, envelope := doParamJSON(t, h.Get, http.MethodGet, "/merchants/x", "id", "64a1b2c3d4e5f6a7b8c9d0e1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if envelope["message"] != "Merchant not found" {
		t.Errorf("message = %v", envelope["message"])
	}
}

func TestUpdateMerchantRejectsUIDCode(t *testing.T) {
	h := newMerchantFixture(nil, nil, nil)
	rec, _ := doParamJSON(t, h.Update, http.MethodPut, "/merchants/AB12CD34", "id", "AB12CD34", `{"name":"x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUpdateMerchantFeeComplement(t *testing.T) {
	cases := []struct {
		name            string
		body            string
		wantAdmin       float64
		wantMerchant    float64
	}{
		{"admin side only", `{"admin_fee":30}`, 30, 70},
		{"merchant side only", `{"merchant_fee":25}`, 75, 25},
		{"both sides", `{"admin_fee":40,"merchant_fee":55}`, 40, 55},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := &model.Merchant{ID: "64a1b2c3d4e5f6a7b8c9d0e1", Email: "m@shop.io",
				AdminFee: 10, MerchantFee: 90}
			merchants := newFakeMerchantStore(m)
			pub := &fakePublisher{}
			h := newMerchantFixture(merchants, nil, pub)

			rec, _ := doParamJSON(t, h.Update, http.MethodPut, "/merchants/"+m.ID, "id", m.ID, tc.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			stored, _ := merchants.GetByID(context.Background(), m.ID)
			if stored.AdminFee != tc.wantAdmin || stored.MerchantFee != tc.wantMerchant {
				t.Errorf("fees = admin %v / merchant %v, want %v / %v",
					stored.AdminFee, stored.MerchantFee, tc.wantAdmin, tc.wantMerchant)
			}

			events := pub.byType(queue.TypeMerchantUpdated)
			if len(events) != 1 {
				t.Fatalf("published %d merchant.updated events, want 1", len(events))
			}
			ev, ok := events[0].Payload.(queue.MerchantUpdatedEvent)
			if !ok {
				t.Fatalf("payload type %T", events[0].Payload)
			}
			if ev.AdminFee != tc.wantAdmin || ev.MerchantFee != tc.wantMerchant {
				t.Errorf("event fees = admin %v / merchant %v", ev.AdminFee, ev.MerchantFee)
			}
		})
	}
}

func TestUpdateMerchantUnknownProvider(t *testing.T) {
	m := &model.Merchant{ID: "64a1b2c3d4e5f6a7b8c9d0e1", Email: "m@shop.io"}
	providers := &fakeProviderStore{providers: []model.PaymentProvider{
		{ID: "aaaaaaaaaaaaaaaaaaaaaaaa", Name: "wert"},
	}}
	h := newMerchantFixture(newFakeMerchantStore(m), providers, nil)

	rec, envelope := doParamJSON(t, h.Update, http.MethodPut, "/merchants/"+m.ID, "id", m.ID,
		`{"payment_providers":["bbbbbbbbbbbbbbbbbbbbbbbb"]}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	want := "Payment provider with ID bbbbbbbbbbbbbbbbbbbbbbbb not found"
	if envelope["message"] != want {
		t.Errorf("message = %v, want %q", envelope["message"], want)
	}
}

func TestUpdateMerchantProviders(t *testing.T) {
	m := &model.Merchant{ID: "64a1b2c3d4e5f6a7b8c9d0e1", Email: "m@shop.io"}
	merchants := newFakeMerchantStore(m)
	providers := &fakeProviderStore{providers: []model.PaymentProvider{
		{ID: "aaaaaaaaaaaaaaaaaaaaaaaa", Name: "wert", IsActive: true},
	}}
	h := newMerchantFixture(merchants, providers, nil)

	rec, envelope := doParamJSON(t, h.Update, http.MethodPut, "/merchants/"+m.ID, "id", m.ID,
		`{"payment_providers":["aaaaaaaaaaaaaaaaaaaaaaaa"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	stored, _ := merchants.GetByID(context.Background(), m.ID)
	if len(stored.ProviderIDs) != 1 || stored.ProviderIDs[0] != "aaaaaaaaaaaaaaaaaaaaaaaa" {
		t.Errorf("provider ids = %v", stored.ProviderIDs)
	}
	links, _ := dataOf(t, envelope)["payment_providers"].([]any)
	if len(links) != 1 {
		t.Errorf("response payment_providers = %v", links)
	}
}

func TestDeleteMerchant(t *testing.T) {
	m := &model.Merchant{ID: "64a1b2c3d4e5f6a7b8c9d0e1"}
	merchants := newFakeMerchantStore(m)
	h := newMerchantFixture(merchants, nil, nil)

	rec, _ := doParamJSON(t, h.Delete, http.MethodDelete, "/merchants/"+m.ID, "id", m.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if _, err := merchants.GetByID(context.Background(), m.ID); err == nil {
		t.Error("merchant still present after delete")
	}

	rec, _ = doParamJSON(t, h.Delete, http.MethodDelete, "/merchants/"+m.ID, "id", m.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", rec.Code)
	}
}

func TestListProviders(t *testing.T) {
	providers := &fakeProviderStore{providers: []model.PaymentProvider{
		{ID: "aaaaaaaaaaaaaaaaaaaaaaaa", Name: "wert"},
		{ID: "bbbbbbbbbbbbbbbbbbbbbbbb", Name: "crossmint"},
	}}
	h := newMerchantFixture(nil, providers, nil)

	rec, envelope := doJSON(t, h.ListProviders, http.MethodGet, "/providers", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	list, _ := envelope["data"].([]any)
	if len(list) != 2 {
		t.Errorf("providers = %v", list)
	}
}
