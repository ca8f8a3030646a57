package handler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
)

type GRPCHandler struct {
	sessions *service.SessionService
}

var _ CartServiceServer = (*GRPCHandler)(nil)

func NewGRPCHandler(sessions *service.SessionService) *GRPCHandler {
	return &GRPCHandler{sessions: sessions}
}

func (h *GRPCHandler) CreateSession(ctx context.Context, req *CreateSessionRequest) (*CreateSessionResponse, error) {
	return &CreateSessionResponse{SessionID: h.sessions.CreateSession(ctx)}, nil
}

func (h *GRPCHandler) GetCart(ctx context.Context, req *GetCartRequest) (*CartReply, error) {
	return h.cart(ctx, req.SessionID)
}

func (h *GRPCHandler) AddToCart(ctx context.Context, req *AddToCartGRPCRequest) (*CartReply, error) {
	if req.SessionID == "" || req.ProductID == "" {
		return nil, status.Error(codes.InvalidArgument, "missing required fields")
	}
	if err := h.sessions.AddProduct(ctx, req.SessionID, req.ProductID, req.RequestID); err != nil {
		return nil, grpcError(err)
	}
	return h.cart(ctx, req.SessionID)
}

func (h *GRPCHandler) RemoveFromCart(ctx context.Context, req *ItemRequest) (*CartReply, error) {
	return h.apply(ctx, req, h.sessions.RemoveItem)
}

func (h *GRPCHandler) IncrementQuantity(ctx context.Context, req *ItemRequest) (*CartReply, error) {
	return h.apply(ctx, req, h.sessions.IncrementItem)
}

func (h *GRPCHandler) DecrementQuantity(ctx context.Context, req *ItemRequest) (*CartReply, error) {
	return h.apply(ctx, req, h.sessions.DecrementItem)
}

func (h *GRPCHandler) apply(ctx context.Context, req *ItemRequest, cmd func(ctx context.Context, sessionID, productID string) error) (*CartReply, error) {
	if err := cmd(ctx, req.SessionID, req.ProductID); err != nil {
		return nil, grpcError(err)
	}
	return h.cart(ctx, req.SessionID)
}

func (h *GRPCHandler) cart(ctx context.Context, sessionID string) (*CartReply, error) {
	view, err := h.sessions.Cart(ctx, sessionID)
	if err != nil {
		return nil, grpcError(err)
	}
	resp := toCartResponse(view)
	return &CartReply{
		Items:        resp.Items,
		Total:        resp.Total,
		TotalDisplay: resp.TotalDisplay,
		Currency:     resp.Currency,
	}, nil
}

func grpcError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidPrice):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrSessionNotFound):
		return status.Error(codes.NotFound, "session not found")
	case errors.Is(err, domain.ErrProductNotFound):
		return status.Error(codes.NotFound, "product not found")
	case errors.Is(err, service.ErrDuplicateRequest):
		return status.Error(codes.AlreadyExists, "duplicate request")
	case errors.Is(err, service.ErrCatalogUnavailable):
		return status.Error(codes.Unavailable, "catalog unavailable")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// UnaryLogger logs every unary call with its status code.
func UnaryLogger(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", code.String()),
			zap.Duration("duration", time.Since(start)),
		}
		if code == codes.Internal || code == codes.Unknown {
			logger.Error("grpc request", append(fields, zap.Error(err))...)
		} else {
			logger.Info("grpc request", fields...)
		}
		return resp, err
	}
}
