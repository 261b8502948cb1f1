package service

import (
	"context"
	"fmt"

	"github.com/storefront-kit/cart-service/internal/adapter/storefront"
	"github.com/storefront-kit/cart-service/internal/domain/entity"
	"github.com/storefront-kit/cart-service/internal/platform/logger"
	"github.com/storefront-kit/cart-service/internal/session"
)

// CommerceAPI is the remote commerce surface the orchestrator drives. Every
// mutation returns the resulting cart snapshot plus any application-level
// user errors; transport failures surface as the error value.
type CommerceAPI interface {
	CartFetch(ctx context.Context, cartID string) (*entity.Cart, error)
	CartCreate(ctx context.Context, input storefront.CartInput) (*entity.Cart, []entity.UserError, error)
	CartLinesAdd(ctx context.Context, cartID string, lines []entity.CartLineInput) (*entity.Cart, []entity.UserError, error)
	CartLinesUpdate(ctx context.Context, cartID string, lines []entity.CartLineUpdateInput) (*entity.Cart, []entity.UserError, error)
	CartLinesRemove(ctx context.Context, cartID string, lineIDs []string) (*entity.Cart, []entity.UserError, error)
	CartDiscountCodesUpdate(ctx context.Context, cartID string, codes []string) (*entity.Cart, []entity.UserError, error)
	CartBuyerIdentityUpdate(ctx context.Context, cartID string, identity entity.BuyerIdentity) (*entity.Cart, []entity.UserError, error)
}

// CartResult is what the caller gets back: either errors with nothing added,
// or an event for the lines that did persist plus errors for the ones that
// did not. Never a silent partial success.
type CartResult struct {
	Cart   *entity.Cart          `json:"cart,omitempty"`
	Event  *entity.LinesAddEvent `json:"event,omitempty"`
	Errors []entity.UserError    `json:"errors,omitempty"`
}

type CartService interface {
	Perform(ctx context.Context, sess *session.Session, action CartAction) (*CartResult, error)
	CurrentCart(ctx context.Context, sess *session.Session) (*entity.Cart, error)
}

type cartService struct {
	api       CommerceAPI
	analytics AnalyticsService
	log       logger.Logger
}

func NewCartService(api CommerceAPI, analytics AnalyticsService, log logger.Logger) CartService {
	return &cartService{
		api:       api,
		analytics: analytics,
		log:       log,
	}
}

func (s *cartService) Perform(ctx context.Context, sess *session.Session, action CartAction) (*CartResult, error) {
	switch a := action.(type) {
	case AddLines:
		return s.addLines(ctx, sess, a)
	case UpdateLines:
		return s.updateLines(ctx, sess, a)
	case RemoveLines:
		return s.removeLines(ctx, sess, a)
	case UpdateDiscountCodes:
		return s.updateDiscountCodes(ctx, sess, a)
	case UpdateBuyerIdentity:
		return s.updateBuyerIdentity(ctx, sess, a)
	default:
		return nil, fmt.Errorf("unsupported cart action %T", action)
	}
}

func (s *cartService) CurrentCart(ctx context.Context, sess *session.Session) (*entity.Cart, error) {
	cartID, ok := sess.Get(session.CartIDKey)
	if !ok || cartID == "" {
		return nil, nil
	}
	cart, err := s.api.CartFetch(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("could not fetch cart %s: %w", cartID, err)
	}
	return cart, nil
}

func (s *cartService) addLines(ctx context.Context, sess *session.Session, action AddLines) (*CartResult, error) {
	if len(action.Lines) == 0 {
		return nil, ErrEmptyLines
	}
	for _, line := range action.Lines {
		if err := line.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidLines, err)
		}
	}

	cartID, ok := sess.Get(session.CartIDKey)
	creating := !ok || cartID == ""

	var (
		prevLines []entity.CartLine
		cart      *entity.Cart
		userErrs  []entity.UserError
	)
	if creating {
		s.log.Infof("Session %s has no cart, creating one with %d lines", sess.ID, len(action.Lines))
		var err error
		cart, userErrs, err = s.api.CartCreate(ctx, storefront.CartInput{
			Lines:         action.Lines,
			BuyerIdentity: action.BuyerIdentity,
		})
		if err != nil {
			return nil, fmt.Errorf("could not create cart: %w", err)
		}
	} else {
		// The before snapshot must be observed strictly prior to the
		// mutation's effect; reordering would corrupt the diff.
		prev, err := s.api.CartFetch(ctx, cartID)
		if err != nil {
			return nil, fmt.Errorf("could not read cart %s before adding lines: %w", cartID, err)
		}
		prevLines = prev.Lines

		cart, userErrs, err = s.api.CartLinesAdd(ctx, cartID, action.Lines)
		if err != nil {
			return nil, fmt.Errorf("could not add lines to cart %s: %w", cartID, err)
		}
	}

	if len(userErrs) > 0 {
		// A rejected mutation produces no analytics event.
		s.log.Warnf("Add lines returned %d user errors for session %s", len(userErrs), sess.ID)
		return &CartResult{Cart: cart, Errors: userErrs}, nil
	}
	if cart == nil {
		return nil, fmt.Errorf("storefront returned neither cart nor user errors")
	}

	if creating {
		sess.Set(session.CartIDKey, cart.ID)
		s.log.Infof("Cart %s created for session %s", cart.ID, sess.ID)
	}

	event, lineErrs := reconcileLinesAdd(action.Lines, prevLines, cart.Lines)
	s.deliver(ctx, event)

	return &CartResult{Cart: cart, Event: event, Errors: lineErrs}, nil
}

func (s *cartService) updateLines(ctx context.Context, sess *session.Session, action UpdateLines) (*CartResult, error) {
	if len(action.Lines) == 0 {
		return nil, ErrEmptyLines
	}
	cartID, err := requireCartID(sess)
	if err != nil {
		return nil, err
	}

	cart, userErrs, err := s.api.CartLinesUpdate(ctx, cartID, action.Lines)
	if err != nil {
		return nil, fmt.Errorf("could not update lines of cart %s: %w", cartID, err)
	}
	return &CartResult{Cart: cart, Errors: userErrs}, nil
}

func (s *cartService) removeLines(ctx context.Context, sess *session.Session, action RemoveLines) (*CartResult, error) {
	if len(action.LineIDs) == 0 {
		return nil, ErrEmptyLines
	}
	cartID, err := requireCartID(sess)
	if err != nil {
		return nil, err
	}

	cart, userErrs, err := s.api.CartLinesRemove(ctx, cartID, action.LineIDs)
	if err != nil {
		return nil, fmt.Errorf("could not remove lines from cart %s: %w", cartID, err)
	}
	return &CartResult{Cart: cart, Errors: userErrs}, nil
}

func (s *cartService) updateDiscountCodes(ctx context.Context, sess *session.Session, action UpdateDiscountCodes) (*CartResult, error) {
	cartID, err := requireCartID(sess)
	if err != nil {
		return nil, err
	}

	cart, userErrs, err := s.api.CartDiscountCodesUpdate(ctx, cartID, action.Codes)
	if err != nil {
		return nil, fmt.Errorf("could not update discount codes of cart %s: %w", cartID, err)
	}
	return &CartResult{Cart: cart, Errors: userErrs}, nil
}

func (s *cartService) updateBuyerIdentity(ctx context.Context, sess *session.Session, action UpdateBuyerIdentity) (*CartResult, error) {
	cartID, ok := sess.Get(session.CartIDKey)
	if !ok || cartID == "" {
		// No cart yet: reuse the create path instead of erroring.
		identity := action.Identity
		cart, userErrs, err := s.api.CartCreate(ctx, storefront.CartInput{BuyerIdentity: &identity})
		if err != nil {
			return nil, fmt.Errorf("could not create cart for buyer identity: %w", err)
		}
		if len(userErrs) > 0 {
			return &CartResult{Cart: cart, Errors: userErrs}, nil
		}
		if cart == nil {
			return nil, fmt.Errorf("storefront returned neither cart nor user errors")
		}
		sess.Set(session.CartIDKey, cart.ID)
		s.log.Infof("Cart %s created for session %s via buyer identity update", cart.ID, sess.ID)
		return &CartResult{Cart: cart}, nil
	}

	cart, userErrs, err := s.api.CartBuyerIdentityUpdate(ctx, cartID, action.Identity)
	if err != nil {
		return nil, fmt.Errorf("could not update buyer identity of cart %s: %w", cartID, err)
	}
	return &CartResult{Cart: cart, Errors: userErrs}, nil
}

func (s *cartService) deliver(ctx context.Context, event *entity.LinesAddEvent) {
	if err := s.analytics.Deliver(ctx, event); err != nil {
		// The mutation already committed remotely; analytics is best-effort.
		s.log.Errorf("Failed to deliver analytics event %s: %v", event.ID, err)
	}
}

func requireCartID(sess *session.Session) (string, error) {
	cartID, ok := sess.Get(session.CartIDKey)
	if !ok || cartID == "" {
		return "", ErrMissingCartID
	}
	return cartID, nil
}
