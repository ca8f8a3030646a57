package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrDuplicateRequest = errors.New("duplicate request")
)

// ProductReader resolves catalog products by id.
type ProductReader interface {
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
}

// session is the application state of one client: its auth slice and its cart.
type session struct {
	mu   sync.Mutex
	user *domain.User
	cart *CartStore
}

// SessionService owns every live session. Sessions are kept in memory only and
// disappear with the process.
type SessionService struct {
	catalog  ProductReader
	cache    port.CacheRepository
	currency string
	logger   *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewSessionService builds the service. cache may be nil, in which case
// request ids are not deduplicated.
func NewSessionService(catalog ProductReader, cache port.CacheRepository, currency string, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		catalog:  catalog,
		cache:    cache,
		currency: currency,
		logger:   logger,
		sessions: make(map[string]*session),
	}
}

func (s *SessionService) CreateSession(ctx context.Context) string {
	id := uuid.NewString()

	s.mu.Lock()
	s.sessions[id] = &session{cart: NewCartStore(s.currency, s.logger.With(zap.String("session_id", id)))}
	s.mu.Unlock()

	s.logger.Debug("session created", zap.String("session_id", id))
	return id
}

func (s *SessionService) CloseSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	s.logger.Debug("session closed", zap.String("session_id", sessionID))
	return nil
}

func (s *SessionService) Login(ctx context.Context, sessionID string, user domain.User) error {
	return s.signIn(sessionID, user, "login")
}

func (s *SessionService) Register(ctx context.Context, sessionID string, user domain.User) error {
	return s.signIn(sessionID, user, "register")
}

// Logout forgets the user; the cart is left as it is.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	return s.with(sessionID, func(sess *session) error {
		sess.user = nil
		return nil
	})
}

func (s *SessionService) CurrentUser(ctx context.Context, sessionID string) (*domain.User, error) {
	var user *domain.User
	err := s.with(sessionID, func(sess *session) error {
		if sess.user != nil {
			u := *sess.user
			user = &u
		}
		return nil
	})
	return user, err
}

// AddProduct looks the product up in the catalog and adds it to the cart.
// A non-empty requestID is accepted once per session. The request id is only
// claimed after the lookup succeeds, so a request that failed on the catalog
// can be retried with the same id.
func (s *SessionService) AddProduct(ctx context.Context, sessionID, productID, requestID string) error {
	if _, err := s.lookup(sessionID); err != nil {
		return err
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return err
	}

	if requestID = strings.TrimSpace(requestID); requestID != "" && s.cache != nil {
		idempotencyKey := fmt.Sprintf("cart:%s:add:%s", sessionID, requestID)
		ok, err := s.cache.SetIdempotency(ctx, idempotencyKey)
		if err != nil {
			return fmt.Errorf("idempotency check failed: %w", err)
		}
		if !ok {
			return ErrDuplicateRequest
		}
	}

	return s.AddItem(ctx, sessionID, product.CartInput())
}

func (s *SessionService) AddItem(ctx context.Context, sessionID string, in domain.ProductInput) error {
	return s.with(sessionID, func(sess *session) error {
		if err := sess.cart.AddToCart(in); err != nil {
			return err
		}
		s.logger.Debug("item added", zap.String("session_id", sessionID), zap.String("product_id", in.ID))
		return nil
	})
}

func (s *SessionService) RemoveItem(ctx context.Context, sessionID, productID string) error {
	return s.with(sessionID, func(sess *session) error {
		sess.cart.RemoveFromCart(productID)
		s.logger.Debug("item removed", zap.String("session_id", sessionID), zap.String("product_id", productID))
		return nil
	})
}

func (s *SessionService) IncrementItem(ctx context.Context, sessionID, productID string) error {
	return s.with(sessionID, func(sess *session) error {
		sess.cart.IncrementQuantity(productID)
		return nil
	})
}

func (s *SessionService) DecrementItem(ctx context.Context, sessionID, productID string) error {
	return s.with(sessionID, func(sess *session) error {
		sess.cart.DecrementQuantity(productID)
		return nil
	})
}

func (s *SessionService) Cart(ctx context.Context, sessionID string) (domain.CartView, error) {
	var view domain.CartView
	err := s.with(sessionID, func(sess *session) error {
		view = sess.cart.View()
		return nil
	})
	return view, err
}

// Currency is the currency every cart of this service is priced in.
func (s *SessionService) Currency() string {
	return s.currency
}

func (s *SessionService) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionService) signIn(sessionID string, user domain.User, action string) error {
	user.Email = strings.TrimSpace(user.Email)
	user.Name = strings.TrimSpace(user.Name)
	if err := user.Validate(); err != nil {
		return err
	}
	return s.with(sessionID, func(sess *session) error {
		sess.user = &user
		s.logger.Info("user signed in", zap.String("session_id", sessionID), zap.String("action", action))
		return nil
	})
}

func (s *SessionService) lookup(sessionID string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// with runs fn while holding the session lock, so commands for one session
// are applied one at a time.
func (s *SessionService) with(sessionID string, fn func(*session) error) error {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess)
}
