package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/storefront-kit/cart-service/internal/app/config"
	"github.com/storefront-kit/cart-service/internal/domain/entity"
	"github.com/storefront-kit/cart-service/internal/platform/logger"
	"github.com/storefront-kit/cart-service/internal/repository"
	"github.com/storefront-kit/cart-service/internal/service"
	"github.com/storefront-kit/cart-service/internal/session"
)

// Form field values for cartAction.
const (
	actionAddLines            = "AddLines"
	actionUpdateLines         = "UpdateLines"
	actionRemoveLines         = "RemoveLines"
	actionUpdateDiscountCodes = "UpdateDiscountCodes"
	actionUpdateBuyerIdentity = "UpdateBuyerIdentity"
)

type CartHandler struct {
	carts      service.CartService
	sessions   repository.SessionRepository
	log        logger.Logger
	cookieName string
	sessionTTL time.Duration
}

func NewCartHandler(carts service.CartService, sessions repository.SessionRepository, log logger.Logger, cfg config.SessionConfig) *CartHandler {
	return &CartHandler{
		carts:      carts,
		sessions:   sessions,
		log:        log,
		cookieName: cfg.CookieName,
		sessionTTL: cfg.TTL,
	}
}

// HandleCartAction is the form boundary for cart mutations. Precondition
// violations answer 400 before any network call; user errors are data and
// answer 200 with the errors array populated.
func (h *CartHandler) HandleCartAction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form payload", http.StatusBadRequest)
		return
	}

	action, err := parseCartAction(r.PostForm)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess := h.loadSession(r)

	result, err := h.carts.Perform(r.Context(), sess, action)
	if err != nil {
		if errors.Is(err, service.ErrEmptyLines) || errors.Is(err, service.ErrInvalidLines) || errors.Is(err, service.ErrMissingCartID) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.log.Errorf("Cart action failed for session %s: %v", sess.ID, err)
		http.Error(w, "Cart action failed", http.StatusBadGateway)
		return
	}

	// Session commit is a required side effect: a newly established cart id
	// must reach the client as a cookie.
	if sess.Dirty() {
		if err := h.sessions.Save(r.Context(), sess, h.sessionTTL); err != nil {
			h.log.Errorf("Failed to save session %s: %v", sess.ID, err)
			http.Error(w, "Failed to persist session", http.StatusInternalServerError)
			return
		}
		http.SetCookie(w, session.Cookie(h.cookieName, sess.ID, h.sessionTTL))
	}

	if to := r.PostForm.Get("redirectTo"); isLocalPath(to) {
		http.Redirect(w, r, to, http.StatusSeeOther)
		return
	}

	writeJSON(w, result)
}

func (h *CartHandler) HandleGetCart(w http.ResponseWriter, r *http.Request) {
	sess := h.loadSession(r)

	cart, err := h.carts.CurrentCart(r.Context(), sess)
	if err != nil {
		h.log.Errorf("Failed to fetch cart for session %s: %v", sess.ID, err)
		http.Error(w, "Failed to fetch cart", http.StatusBadGateway)
		return
	}

	writeJSON(w, service.CartResult{Cart: cart})
}

func (h *CartHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *CartHandler) loadSession(r *http.Request) *session.Session {
	if cookie, err := r.Cookie(h.cookieName); err == nil && cookie.Value != "" {
		sess, err := h.sessions.Load(r.Context(), cookie.Value)
		if err == nil {
			return sess
		}
		if !errors.Is(err, repository.ErrNotFound) {
			h.log.Warnf("Failed to load session %s, starting fresh: %v", cookie.Value, err)
		}
	}
	return session.New(uuid.NewString())
}

func parseCartAction(form url.Values) (service.CartAction, error) {
	switch tag := form.Get("cartAction"); tag {
	case actionAddLines:
		var lines []entity.CartLineInput
		if err := json.Unmarshal([]byte(form.Get("lines")), &lines); err != nil {
			return nil, fmt.Errorf("invalid lines payload: %w", err)
		}
		identity, err := parseBuyerIdentity(form)
		if err != nil {
			return nil, err
		}
		return service.AddLines{Lines: lines, BuyerIdentity: identity}, nil

	case actionUpdateLines:
		var lines []entity.CartLineUpdateInput
		if err := json.Unmarshal([]byte(form.Get("lines")), &lines); err != nil {
			return nil, fmt.Errorf("invalid lines payload: %w", err)
		}
		return service.UpdateLines{Lines: lines}, nil

	case actionRemoveLines:
		var lineIDs []string
		if err := json.Unmarshal([]byte(form.Get("linesIds")), &lineIDs); err != nil {
			return nil, fmt.Errorf("invalid linesIds payload: %w", err)
		}
		return service.RemoveLines{LineIDs: lineIDs}, nil

	case actionUpdateDiscountCodes:
		var codes []string
		if raw := form.Get("discountCodes"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &codes); err != nil {
				return nil, fmt.Errorf("invalid discountCodes payload: %w", err)
			}
		}
		return service.UpdateDiscountCodes{Codes: codes}, nil

	case actionUpdateBuyerIdentity:
		identity, err := parseBuyerIdentity(form)
		if err != nil {
			return nil, err
		}
		if identity == nil {
			return nil, errors.New("buyerIdentity is required")
		}
		return service.UpdateBuyerIdentity{Identity: *identity}, nil

	case "":
		return nil, errors.New("cartAction is required")
	default:
		return nil, fmt.Errorf("unknown cartAction %q", tag)
	}
}

func parseBuyerIdentity(form url.Values) (*entity.BuyerIdentity, error) {
	var identity *entity.BuyerIdentity
	if raw := form.Get("buyerIdentity"); raw != "" {
		identity = &entity.BuyerIdentity{}
		if err := json.Unmarshal([]byte(raw), identity); err != nil {
			return nil, fmt.Errorf("invalid buyerIdentity payload: %w", err)
		}
	}
	if cc := form.Get("countryCode"); cc != "" {
		if identity == nil {
			identity = &entity.BuyerIdentity{}
		}
		identity.CountryCode = cc
	}
	return identity, nil
}

// isLocalPath accepts only same-origin paths for the no-script 303 fallback.
func isLocalPath(to string) bool {
	return strings.HasPrefix(to, "/") && !strings.HasPrefix(to, "//")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
