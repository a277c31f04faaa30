package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mintgate/merchant-gateway/internal/crossmint"
)

func TestNFTEndpointsUnconfigured(t *testing.T) {
	h := NewNFTHandler(crossmint.New("https://staging.crossmint.com", ""))

	rec, _ := doJSON(t, h.CreateCollection, http.MethodPost, "/nft/collections",
		`{"chain":"polygon","fungibility":"non-fungible","metadata":{"name":"n","imageUrl":"u","description":"d"}}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("CreateCollection: status = %d, want 503", rec.Code)
	}

	rec, _ = doParamJSON(t, h.CreateTemplate, http.MethodPost, "/nft/collections/c1/templates", "id", "c1",
		`{"onChain":{"tokenId":1},"supply":{"limit":10},"metadata":{"name":"n","image":"i","description":"d"}}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("CreateTemplate: status = %d, want 503", rec.Code)
	}
}

func TestCreateCollectionValidation(t *testing.T) {
	h := NewNFTHandler(crossmint.New("https://staging.crossmint.com", "key"))
	cases := []string{
		`{}`,
		`{"chain":"polygon"}`,
		`{"chain":"polygon","fungibility":"non-fungible"}`,
		`{"chain":"polygon","fungibility":"non-fungible","metadata":{"name":"n","imageUrl":"u"}}`,
	}
	for _, body := range cases {
		rec, _ := doJSON(t, h.CreateCollection, http.MethodPost, "/nft/collections", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestCreateTemplateValidation(t *testing.T) {
	h := NewNFTHandler(crossmint.New("https://staging.crossmint.com", "key"))
	cases := []string{
		`{}`,
		`{"onChain":{"tokenId":1}}`,
		`{"onChain":{"tokenId":1},"supply":{"limit":10}}`,
		`{"onChain":{"tokenId":1},"supply":{"limit":10},"metadata":{"name":"n"}}`,
	}
	for _, body := range cases {
		rec, _ := doParamJSON(t, h.CreateTemplate, http.MethodPost, "/nft/collections/c1/templates", "id", "c1", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestCreateCollectionForwardsUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/2022-06-09/collections" {
			t.Errorf("upstream path = %q", r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "key" {
			t.Errorf("missing api key header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"col_1","actionId":"act_1"}`))
	}))
	defer upstream.Close()

	h := NewNFTHandler(crossmint.New(upstream.URL, "key"))
	rec, envelope := doJSON(t, h.CreateCollection, http.MethodPost, "/nft/collections",
		`{"chain":"polygon","fungibility":"non-fungible","metadata":{"name":"n","imageUrl":"u","description":"d"}}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if dataOf(t, envelope)["id"] != "col_1" {
		t.Errorf("upstream body not forwarded: %v", envelope)
	}
}

func TestCreateTemplateUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/2022-06-09/collections/col_1/templates" {
			t.Errorf("upstream path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"bad chain"}`))
	}))
	defer upstream.Close()

	h := NewNFTHandler(crossmint.New(upstream.URL, "key"))
	rec, envelope := doParamJSON(t, h.CreateTemplate, http.MethodPost,
		"/nft/collections/col_1/templates", "id", "col_1",
		`{"onChain":{"tokenId":1},"supply":{"limit":10},"metadata":{"name":"n","image":"i","description":"d"}}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want upstream 422 forwarded", rec.Code)
	}
	if envelope["message"] != "Crossmint API error" {
		t.Errorf("message = %v", envelope["message"])
	}
}
