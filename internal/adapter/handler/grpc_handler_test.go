package handler

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
)

func newTestGRPC(t *testing.T, source *stubCatalog) *grpc.ClientConn {
	t.Helper()

	catalog := service.NewCatalogService(source, nil, nil, 2)
	sessions := service.NewSessionService(catalog, newMemoryIdempotency(), domain.CurrencyUSD, nil)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(UnaryLogger(zap.NewNop())))
	RegisterCartServiceServer(srv, NewGRPCHandler(sessions))
	healthpb.RegisterHealthServer(srv, health.NewServer())
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestGRPC_CartFlow(t *testing.T) {
	client := NewCartClient(newTestGRPC(t, defaultCatalog()))
	ctx := context.Background()

	session, err := client.CreateSession(ctx, &CreateSessionRequest{})
	require.NoError(t, err)
	require.NotEmpty(t, session.SessionID)
	id := session.SessionID

	_, err = client.AddToCart(ctx, &AddToCartGRPCRequest{SessionID: id, ProductID: "1"})
	require.NoError(t, err)
	cart, err := client.AddToCart(ctx, &AddToCartGRPCRequest{SessionID: id, ProductID: "2"})
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)

	cart, err = client.IncrementQuantity(ctx, &ItemRequest{SessionID: id, ProductID: "2"})
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Items[1].Quantity)
	assert.Equal(t, "154.55", cart.Total)

	cart, err = client.DecrementQuantity(ctx, &ItemRequest{SessionID: id, ProductID: "1"})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "2", cart.Items[0].ID)

	cart, err = client.RemoveFromCart(ctx, &ItemRequest{SessionID: id, ProductID: "2"})
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	cart, err = client.GetCart(ctx, &GetCartRequest{SessionID: id})
	require.NoError(t, err)
	assert.Equal(t, "0.00", cart.Total)
	assert.Equal(t, "USD", cart.Currency)
}

func TestGRPC_StatusCodes(t *testing.T) {
	source := defaultCatalog()
	client := NewCartClient(newTestGRPC(t, source))
	ctx := context.Background()

	session, err := client.CreateSession(ctx, &CreateSessionRequest{})
	require.NoError(t, err)
	id := session.SessionID

	_, err = client.AddToCart(ctx, &AddToCartGRPCRequest{SessionID: id})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.GetCart(ctx, &GetCartRequest{SessionID: "nope"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.AddToCart(ctx, &AddToCartGRPCRequest{SessionID: id, ProductID: "404"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.AddToCart(ctx, &AddToCartGRPCRequest{SessionID: id, ProductID: "1", RequestID: "r1"})
	require.NoError(t, err)
	_, err = client.AddToCart(ctx, &AddToCartGRPCRequest{SessionID: id, ProductID: "1", RequestID: "r1"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	source.err = errors.New("timeout")
	_, err = client.AddToCart(ctx, &AddToCartGRPCRequest{SessionID: id, ProductID: "2"})
	assert.Equal(t, codes.Unavailable, status.Code(err))
}

func TestGRPC_Health(t *testing.T) {
	conn := newTestGRPC(t, defaultCatalog())

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestGRPCError(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
	}{
		{domain.ErrInvalidInput, codes.InvalidArgument},
		{domain.ErrInvalidPrice, codes.InvalidArgument},
		{service.ErrSessionNotFound, codes.NotFound},
		{domain.ErrProductNotFound, codes.NotFound},
		{service.ErrDuplicateRequest, codes.AlreadyExists},
		{service.ErrCatalogUnavailable, codes.Unavailable},
		{errors.New("boom"), codes.Internal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, status.Code(grpcError(tt.err)), tt.err.Error())
	}
}
