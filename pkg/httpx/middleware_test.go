package httpx_test

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/agentboard/pkg/httpx"
	"github.com/aussiebroadwan/agentboard/pkg/jwtx"
	"github.com/aussiebroadwan/agentboard/pkg/pagination"
	"github.com/stretchr/testify/require"
)

type fakeKeys map[string]string

func (f fakeKeys) AuthenticateAPIKey(_ context.Context, key string) (string, bool, error) {
	if key == "ab_broken" {
		return "", false, errors.New("db down")
	}
	id, ok := f[key]
	return id, ok, nil
}

func newAuthenticator(t *testing.T) (httpx.Authenticator, *jwtx.Signer) {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := jwtx.NewSigner("op", priv)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	return httpx.Authenticator{
		APIKeyPrefix: "ab_",
		APIKeys:      fakeKeys{"ab_good": "01A"},
		Operators:    jwtx.NewVerifier(keys, "agentboard"),
	}, signer
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) httpx.Envelope {
	t.Helper()
	var env httpx.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(okHandler, mw("a"), mw("b"), mw("c"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"a", "b", "c"}, order)
}

func TestAuthnMiddleware(t *testing.T) {
	authn, signer := newAuthenticator(t)

	var got httpx.Principal
	h := httpx.AuthnMiddleware(authn)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = httpx.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(authz string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("agent api key", func(t *testing.T) {
		rec := serve("Bearer ab_good")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, httpx.Principal{Kind: httpx.PrincipalAgent, Subject: "01A"}, got)
	})

	t.Run("operator token", func(t *testing.T) {
		tok, err := signer.Sign(jwtx.NewClaims("ops", "agentboard", []string{"agents:read"}, time.Hour, time.Now()))
		require.NoError(t, err)

		rec := serve("bearer " + tok)
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, got.IsOperator())
		require.True(t, got.HasScope("agents:read"))
	})

	for name, authz := range map[string]string{
		"missing header":  "",
		"wrong scheme":    "Basic Zm9vOmJhcg==",
		"empty token":     "Bearer ",
		"unknown api key": "Bearer ab_nope",
		"bad jwt":         "Bearer eyJhbGciOi.bad.sig",
	} {
		t.Run(name, func(t *testing.T) {
			rec := serve(authz)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
			env := decodeEnvelope(t, rec)
			require.Equal(t, httpx.CodeUnauthorized, env.Error.Code)
		})
	}

	t.Run("lookup failure is internal", func(t *testing.T) {
		rec := serve("Bearer ab_broken")
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Equal(t, httpx.CodeInternal, decodeEnvelope(t, rec).Error.Code)
	})
}

func TestRequireScopes(t *testing.T) {
	h := httpx.RequireScopes("agents:write")(okHandler)

	serve := func(p *httpx.Principal) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if p != nil {
			req = req.WithContext(httpx.WithPrincipal(req.Context(), *p))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, serve(&httpx.Principal{Kind: httpx.PrincipalOperator, Scopes: []string{"agents:read", "agents:write"}}).Code)
	require.Equal(t, http.StatusUnauthorized, serve(nil).Code)

	rec := serve(&httpx.Principal{Kind: httpx.PrincipalOperator, Scopes: []string{"agents:read"}})
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), `scope="agents:write"`)
	require.Equal(t, httpx.CodeForbidden, decodeEnvelope(t, rec).Error.Code)

	// agents never carry scopes
	require.Equal(t, http.StatusForbidden, serve(&httpx.Principal{Kind: httpx.PrincipalAgent, Subject: "01A", Scopes: []string{"agents:write"}}).Code)
}

func TestEnvelopes(t *testing.T) {
	prev := httpx.Now
	httpx.Now = func() time.Time { return time.Date(2026, 5, 4, 3, 2, 1, 5e6, time.FixedZone("AEST", 10*3600)) }
	t.Cleanup(func() { httpx.Now = prev })

	t.Run("data", func(t *testing.T) {
		rec := httptest.NewRecorder()
		httpx.WriteData(rec, http.StatusCreated, map[string]string{"id": "01A"})

		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
		require.JSONEq(t, `{"success":true,"data":{"id":"01A"},"timestamp":"2026-05-03T17:02:01.005Z"}`, rec.Body.String())
	})

	t.Run("list", func(t *testing.T) {
		rec := httptest.NewRecorder()
		httpx.WriteList(rec, pagination.BuildResponse[int](nil, 0, 20, 0))

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, []any{}, body["data"])
		require.Contains(t, body, "pagination")
		require.Nil(t, body["pagination"].(map[string]any)["nextCursor"])
	})

	t.Run("error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		httpx.WriteError(rec, http.StatusNotFound, httpx.CodeNotFound, "Agent not found", nil)
		require.JSONEq(t,
			`{"success":false,"error":{"code":"NOT_FOUND","message":"Agent not found"},"timestamp":"2026-05-03T17:02:01.005Z"}`,
			rec.Body.String())
	})
}
