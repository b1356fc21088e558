package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/marketplace-leads/internal/infra/http/middleware"
	"github.com/xavierca1/marketplace-leads/internal/usecase"
)

type MockUnlockUseCase struct {
	mock.Mock
}

func (m *MockUnlockUseCase) Execute(ctx context.Context, input usecase.UnlockEnquiryInput) (*usecase.UnlockEnquiryOutput, error) {
	args := m.Called(ctx, input)
	out, _ := args.Get(0).(*usecase.UnlockEnquiryOutput)
	return out, args.Error(1)
}

type MockListUseCase struct {
	mock.Mock
}

func (m *MockListUseCase) Execute(ctx context.Context, sellerID string) (*usecase.ListEnquiriesOutput, error) {
	args := m.Called(ctx, sellerID)
	out, _ := args.Get(0).(*usecase.ListEnquiriesOutput)
	return out, args.Error(1)
}

type MockCreateEnquiryUseCase struct {
	mock.Mock
}

func (m *MockCreateEnquiryUseCase) Execute(ctx context.Context, input usecase.CreateEnquiryInput) (*usecase.CreateEnquiryOutput, error) {
	args := m.Called(ctx, input)
	out, _ := args.Get(0).(*usecase.CreateEnquiryOutput)
	return out, args.Error(1)
}

type MockGetCreditsUseCase struct {
	mock.Mock
}

func (m *MockGetCreditsUseCase) Execute(ctx context.Context, sellerID string) (*usecase.GetCreditsOutput, error) {
	args := m.Called(ctx, sellerID)
	out, _ := args.Get(0).(*usecase.GetCreditsOutput)
	return out, args.Error(1)
}

type MockStartCheckoutUseCase struct {
	mock.Mock
}

func (m *MockStartCheckoutUseCase) Execute(ctx context.Context, input usecase.StartCheckoutInput) (*usecase.StartCheckoutOutput, error) {
	args := m.Called(ctx, input)
	out, _ := args.Get(0).(*usecase.StartCheckoutOutput)
	return out, args.Error(1)
}

type MockApplyBillingEventUseCase struct {
	mock.Mock
}

func (m *MockApplyBillingEventUseCase) Execute(ctx context.Context, input usecase.ApplyBillingEventInput) (*usecase.ApplyBillingEventOutput, error) {
	args := m.Called(ctx, input)
	out, _ := args.Get(0).(*usecase.ApplyBillingEventOutput)
	return out, args.Error(1)
}

const testJWTSecret = "handler-test-secret"

// withRoute injeta params de rota do chi e, se sellerID != "", autentica o
// request pelo JWTAuth com um token assinado para esse vendedor.
func withRoute(r *http.Request, sellerID string, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	if sellerID == "" {
		return r
	}
	claims := middleware.Claims{
		Sub:              sellerID,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		panic(err)
	}
	r.Header.Set("Authorization", "Bearer "+token)
	authed := r
	middleware.JWTAuth(testJWTSecret)(http.HandlerFunc(func(_ http.ResponseWriter, in *http.Request) {
		authed = in
	})).ServeHTTP(httptest.NewRecorder(), r)
	return authed
}
