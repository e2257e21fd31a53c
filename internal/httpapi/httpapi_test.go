// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ColossalErwin/culinaryexplorer-server/internal/auth"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/cooklog"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/recipeapi"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/suggest"
)

type echoRequest struct {
	Name string `json:"name"`
}

type echoResponse struct {
	Greeting string `json:"greeting"`
}

func TestHandle(t *testing.T) {
	mux := chi.NewRouter()
	Handle(mux, "/echo", func(_ context.Context, req *echoRequest) (*echoResponse, error) {
		return &echoResponse{Greeting: "hello " + req.Name}, nil
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"name":"chef"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"greeting":"hello chef"}`, rec.Body.String())
}

func TestHandleEmptyBody(t *testing.T) {
	mux := chi.NewRouter()
	Handle(mux, "/echo", func(_ context.Context, req *echoRequest) (*echoResponse, error) {
		return &echoResponse{Greeting: "hello " + req.Name}, nil
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/echo", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"greeting":"hello "}`, rec.Body.String())
}

func TestHandleMalformedBody(t *testing.T) {
	mux := chi.NewRouter()
	Handle(mux, "/echo", func(_ context.Context, _ *echoRequest) (*echoResponse, error) {
		return &echoResponse{}, nil
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("{")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unauthenticated", auth.ErrUnauthenticated, http.StatusUnauthorized},
		{"missing user", cooklog.ErrMissingUser, http.StatusUnauthorized},
		{"missing recipe", cooklog.ErrMissingRecipeID, http.StatusBadRequest},
		{"missing memory id", cooklog.ErrMissingMemoryID, http.StatusBadRequest},
		{"invalid recipe id", recipeapi.ErrInvalidRecipeID, http.StatusBadRequest},
		{"missing query", recipeapi.ErrMissingQuery, http.StatusBadRequest},
		{"user recipe not found", cooklog.ErrUserRecipeNotFound, http.StatusNotFound},
		{"memory not found", cooklog.ErrMemoryNotFound, http.StatusNotFound},
		{"unknown section", suggest.ErrUnknownSection, http.StatusNotFound},
		{"no featured", suggest.ErrNoFeatured, http.StatusConflict},
		{"wrapped", errors.Join(errors.New("outer"), cooklog.ErrMemoryNotFound), http.StatusNotFound},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := chi.NewRouter()
			Handle(mux, "/fail", func(_ context.Context, _ *echoRequest) (*echoResponse, error) {
				return nil, tt.err
			})

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/fail", nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestHandleRejectsGet(t *testing.T) {
	mux := chi.NewRouter()
	Handle(mux, "/echo", func(_ context.Context, _ *echoRequest) (*echoResponse, error) {
		return &echoResponse{}, nil
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/echo", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
