package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/storefront-kit/cart-service/internal/app/config"
	"github.com/storefront-kit/cart-service/internal/domain/entity"
	"github.com/storefront-kit/cart-service/internal/platform/logger"
	"github.com/storefront-kit/cart-service/internal/repository"
	"github.com/storefront-kit/cart-service/internal/service"
	"github.com/storefront-kit/cart-service/internal/session"
)

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) Perform(ctx context.Context, sess *session.Session, action service.CartAction) (*service.CartResult, error) {
	args := m.Called(ctx, sess, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CartResult), args.Error(1)
}

func (m *MockCartService) CurrentCart(ctx context.Context, sess *session.Session) (*entity.Cart, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Cart), args.Error(1)
}

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Load(ctx context.Context, id string) (*session.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockSessionRepository) Save(ctx context.Context, sess *session.Session, ttl time.Duration) error {
	args := m.Called(ctx, sess, ttl)
	return args.Error(0)
}

func newTestHandler(carts *MockCartService, sessions *MockSessionRepository) *CartHandler {
	return NewCartHandler(carts, sessions, logger.NewNoOpLogger(), config.SessionConfig{
		CookieName: "cart_session",
		TTL:        720 * time.Hour,
	})
}

func postForm(form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/cart", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHandleCartAction_CreateCartSetsCookieAndReturnsEvent(t *testing.T) {
	mockCarts := new(MockCartService)
	mockSessions := new(MockSessionRepository)
	handler := newTestHandler(mockCarts, mockSessions)

	adding := []entity.CartLineInput{
		{MerchandiseID: "gid://shop/ProductVariant/1", Quantity: 1},
	}
	result := &service.CartResult{
		Cart:  &entity.Cart{ID: "gid://shop/Cart/abc", TotalQuantity: 1},
		Event: entity.NewLinesAddEvent(adding, nil),
	}

	mockCarts.On("Perform", mock.Anything, mock.AnythingOfType("*session.Session"), service.AddLines{Lines: adding}).
		Run(func(args mock.Arguments) {
			sess := args.Get(1).(*session.Session)
			sess.Set(session.CartIDKey, "gid://shop/Cart/abc")
		}).
		Return(result, nil).Once()
	mockSessions.On("Save", mock.Anything, mock.AnythingOfType("*session.Session"), 720*time.Hour).Return(nil).Once()

	linesJSON, _ := json.Marshal(adding)
	form := url.Values{
		"cartAction": {"AddLines"},
		"lines":      {string(linesJSON)},
	}

	rr := httptest.NewRecorder()
	handler.HandleCartAction(rr, postForm(form))

	assert.Equal(t, http.StatusOK, rr.Code)

	cookies := rr.Result().Cookies()
	assert.Len(t, cookies, 1)
	assert.Equal(t, "cart_session", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)

	var body service.CartResult
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "gid://shop/Cart/abc", body.Cart.ID)
	assert.Equal(t, entity.EventTypeLinesAdd, body.Event.Type)

	mockCarts.AssertExpectations(t)
	mockSessions.AssertExpectations(t)
}

func TestHandleCartAction_ExistingSessionLoadedFromCookie(t *testing.T) {
	mockCarts := new(MockCartService)
	mockSessions := new(MockSessionRepository)
	handler := newTestHandler(mockCarts, mockSessions)

	existing := session.New("sess1")
	existing.Set(session.CartIDKey, "gid://shop/Cart/abc")

	mockSessions.On("Load", mock.Anything, "sess1").Return(existing, nil).Once()
	mockCarts.On("Perform", mock.Anything, existing, service.RemoveLines{LineIDs: []string{"l1"}}).
		Return(&service.CartResult{Cart: &entity.Cart{ID: "gid://shop/Cart/abc"}}, nil).Once()

	form := url.Values{
		"cartAction": {"RemoveLines"},
		"linesIds":   {`["l1"]`},
	}
	req := postForm(form)
	req.AddCookie(&http.Cookie{Name: "cart_session", Value: "sess1"})

	rr := httptest.NewRecorder()
	handler.HandleCartAction(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	mockCarts.AssertExpectations(t)
	mockSessions.AssertExpectations(t)
}

func TestHandleCartAction_MalformedLinesRejectedBeforeService(t *testing.T) {
	mockCarts := new(MockCartService)
	mockSessions := new(MockSessionRepository)
	handler := newTestHandler(mockCarts, mockSessions)

	form := url.Values{
		"cartAction": {"AddLines"},
		"lines":      {"not json"},
	}

	rr := httptest.NewRecorder()
	handler.HandleCartAction(rr, postForm(form))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockCarts.AssertNotCalled(t, "Perform", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleCartAction_MissingLinesRejectedBeforeService(t *testing.T) {
	mockCarts := new(MockCartService)
	mockSessions := new(MockSessionRepository)
	handler := newTestHandler(mockCarts, mockSessions)

	form := url.Values{
		"cartAction": {"AddLines"},
	}

	rr := httptest.NewRecorder()
	handler.HandleCartAction(rr, postForm(form))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockCarts.AssertNotCalled(t, "Perform", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleCartAction_UnknownActionRejected(t *testing.T) {
	mockCarts := new(MockCartService)
	mockSessions := new(MockSessionRepository)
	handler := newTestHandler(mockCarts, mockSessions)

	form := url.Values{
		"cartAction": {"ExplodeCart"},
	}

	rr := httptest.NewRecorder()
	handler.HandleCartAction(rr, postForm(form))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "unknown cartAction")
	mockCarts.AssertNotCalled(t, "Perform", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleCartAction_PreconditionErrorMapsTo400(t *testing.T) {
	mockCarts := new(MockCartService)
	mockSessions := new(MockSessionRepository)
	handler := newTestHandler(mockCarts, mockSessions)

	mockCarts.On("Perform", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, service.ErrMissingCartID).Once()

	form := url.Values{
		"cartAction": {"RemoveLines"},
		"linesIds":   {`["l1"]`},
	}

	rr := httptest.NewRecorder()
	handler.HandleCartAction(rr, postForm(form))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleCartAction_TransportErrorMapsTo502(t *testing.T) {
	mockCarts := new(MockCartService)
	mockSessions := new(MockSessionRepository)
	handler := newTestHandler(mockCarts, mockSessions)

	mockCarts.On("Perform", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, assert.AnError).Once()

	form := url.Values{
		"cartAction": {"RemoveLines"},
		"linesIds":   {`["l1"]`},
	}

	rr := httptest.NewRecorder()
	handler.HandleCartAction(rr, postForm(form))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestHandleCartAction_LocalRedirectAnswers303(t *testing.T) {
	mockCarts := new(MockCartService)
	mockSessions := new(MockSessionRepository)
	handler := newTestHandler(mockCarts, mockSessions)

	mockCarts.On("Perform", mock.Anything, mock.Anything, mock.Anything).
		Return(&service.CartResult{Cart: &entity.Cart{ID: "gid://shop/Cart/abc"}}, nil).Once()

	form := url.Values{
		"cartAction": {"RemoveLines"},
		"linesIds":   {`["l1"]`},
		"redirectTo": {"/cart"},
	}

	rr := httptest.NewRecorder()
	handler.HandleCartAction(rr, postForm(form))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/cart", rr.Header().Get("Location"))
}

func TestHandleCartAction_ExternalRedirectIgnored(t *testing.T) {
	mockCarts := new(MockCartService)
	mockSessions := new(MockSessionRepository)
	handler := newTestHandler(mockCarts, mockSessions)

	mockCarts.On("Perform", mock.Anything, mock.Anything, mock.Anything).
		Return(&service.CartResult{Cart: &entity.Cart{ID: "gid://shop/Cart/abc"}}, nil).Once()

	form := url.Values{
		"cartAction": {"RemoveLines"},
		"linesIds":   {`["l1"]`},
		"redirectTo": {"//evil.example/cart"},
	}

	rr := httptest.NewRecorder()
	handler.HandleCartAction(rr, postForm(form))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Location"))
}

func TestHandleCartAction_SessionSaveFailureAnswers500(t *testing.T) {
	mockCarts := new(MockCartService)
	mockSessions := new(MockSessionRepository)
	handler := newTestHandler(mockCarts, mockSessions)

	mockCarts.On("Perform", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			sess := args.Get(1).(*session.Session)
			sess.Set(session.CartIDKey, "gid://shop/Cart/abc")
		}).
		Return(&service.CartResult{Cart: &entity.Cart{ID: "gid://shop/Cart/abc"}}, nil).Once()
	mockSessions.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(repository.ErrSaveFailed).Once()

	form := url.Values{
		"cartAction": {"AddLines"},
		"lines":      {`[{"merchandiseId":"gid://shop/ProductVariant/1","quantity":1}]`},
	}

	rr := httptest.NewRecorder()
	handler.HandleCartAction(rr, postForm(form))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Empty(t, rr.Result().Cookies())
}

func TestHandleCartAction_CountryCodeShorthandMergesIntoIdentity(t *testing.T) {
	mockCarts := new(MockCartService)
	mockSessions := new(MockSessionRepository)
	handler := newTestHandler(mockCarts, mockSessions)

	mockCarts.On("Perform", mock.Anything, mock.Anything, service.UpdateBuyerIdentity{
		Identity: entity.BuyerIdentity{Email: "buyer@example.com", CountryCode: "DE"},
	}).Return(&service.CartResult{Cart: &entity.Cart{ID: "gid://shop/Cart/abc"}}, nil).Once()

	form := url.Values{
		"cartAction":    {"UpdateBuyerIdentity"},
		"buyerIdentity": {`{"email":"buyer@example.com"}`},
		"countryCode":   {"DE"},
	}

	rr := httptest.NewRecorder()
	handler.HandleCartAction(rr, postForm(form))

	assert.Equal(t, http.StatusOK, rr.Code)
	mockCarts.AssertExpectations(t)
}

func TestHandleGetCart_ReturnsCurrentCart(t *testing.T) {
	mockCarts := new(MockCartService)
	mockSessions := new(MockSessionRepository)
	handler := newTestHandler(mockCarts, mockSessions)

	existing := session.New("sess1")
	mockSessions.On("Load", mock.Anything, "sess1").Return(existing, nil).Once()
	mockCarts.On("CurrentCart", mock.Anything, existing).
		Return(&entity.Cart{ID: "gid://shop/Cart/abc", TotalQuantity: 2}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: "cart_session", Value: "sess1"})

	rr := httptest.NewRecorder()
	handler.HandleGetCart(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var body service.CartResult
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "gid://shop/Cart/abc", body.Cart.ID)
	assert.Equal(t, 2, body.Cart.TotalQuantity)
}

func TestHandleGetCart_NoSessionCartAnswersEmptyResult(t *testing.T) {
	mockCarts := new(MockCartService)
	mockSessions := new(MockSessionRepository)
	handler := newTestHandler(mockCarts, mockSessions)

	mockCarts.On("CurrentCart", mock.Anything, mock.AnythingOfType("*session.Session")).
		Return(nil, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)

	rr := httptest.NewRecorder()
	handler.HandleGetCart(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "{}", rr.Body.String())
}

func TestIsLocalPath(t *testing.T) {
	assert.True(t, isLocalPath("/cart"))
	assert.True(t, isLocalPath("/"))
	assert.False(t, isLocalPath(""))
	assert.False(t, isLocalPath("//evil.example"))
	assert.False(t, isLocalPath("https://evil.example"))
}
