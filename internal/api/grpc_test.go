package api

import (
	"context"
	"io"
	"net"
	"strconv"
	"testing"
	"time"

	"shareit/internal/config"
	"shareit/internal/converter"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

func dialBufconn(t *testing.T, cfg config.APIConfig, svc Services) *grpc.ClientConn {
	t.Helper()
	logger := zerolog.New(io.Discard)

	lis := bufconn.Listen(1 << 20)
	srv, err := newGRPCServer(&cfg, svc.Bookings, svc.Limits, &logger)
	require.NoError(t, err)
	go func() { _ = srv.Serve(lis) }()
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

func invoke(t *testing.T, conn *grpc.ClientConn, method string, userID int64, req map[string]any) (*structpb.Struct, error) {
	t.Helper()
	in, err := structpb.NewStruct(req)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if userID != 0 {
		ctx = metadata.AppendToOutgoingContext(ctx, "x-sharer-user-id", strconv.FormatInt(userID, 10))
	}

	out := &structpb.Struct{}
	err = conn.Invoke(ctx, method, in, out)
	return out, err
}

func TestBookingServiceGRPC(t *testing.T) {
	env := newTestEnv(t, defaultAPIConfig())
	conn := dialBufconn(t, defaultAPIConfig(), env.svc)
	ctx := context.Background()

	owner, err := env.svc.Users.CreateUser(ctx, "Owner", "owner@example.com")
	require.NoError(t, err)
	booker, err := env.svc.Users.CreateUser(ctx, "Booker", "booker@example.com")
	require.NoError(t, err)
	available := true
	item, err := env.svc.Items.CreateItem(ctx, owner.ID, "Drill", "Cordless drill", &available, nil)
	require.NoError(t, err)

	start := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	end := start.Add(time.Hour)

	created, err := invoke(t, conn, methodCreateBooking, booker.ID, map[string]any{
		"itemId": item.ID,
		"start":  start.Format(converter.LocalTimeLayout),
		"end":    end.Format(converter.LocalTimeLayout),
	})
	require.NoError(t, err)
	assert.Equal(t, "WAITING", created.Fields["status"].GetStringValue())
	assert.Equal(t, start.Format(converter.LocalTimeLayout), created.Fields["start"].GetStringValue())
	assert.Equal(t, "Drill", created.Fields["item"].GetStructValue().Fields["name"].GetStringValue())
	bookingID := int64(created.Fields["id"].GetNumberValue())
	require.Positive(t, bookingID)

	t.Run("MissingUser", func(t *testing.T) {
		_, err := invoke(t, conn, methodGetBooking, 0, map[string]any{"bookingId": bookingID})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("ValidationFails", func(t *testing.T) {
		_, err := invoke(t, conn, methodCreateBooking, booker.ID, map[string]any{"itemId": item.ID})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("IDBeyondFloatPrecision", func(t *testing.T) {
		_, err := invoke(t, conn, methodGetBooking, booker.ID, map[string]any{"bookingId": int64(1)<<53 + 1})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
		assert.Contains(t, status.Convert(err).Message(), "bookingId is out of range")

		_, err = invoke(t, conn, methodCreateBooking, booker.ID, map[string]any{
			"itemId": int64(1) << 60,
			"start":  start.Format(converter.LocalTimeLayout),
			"end":    end.Format(converter.LocalTimeLayout),
		})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("OwnBooking", func(t *testing.T) {
		_, err := invoke(t, conn, methodCreateBooking, owner.ID, map[string]any{
			"itemId": item.ID,
			"start":  start.Format(converter.LocalTimeLayout),
			"end":    end.Format(converter.LocalTimeLayout),
		})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("BookerCannotApprove", func(t *testing.T) {
		_, err := invoke(t, conn, methodApproveBooking, booker.ID, map[string]any{"bookingId": bookingID, "approved": true})
		assert.Equal(t, codes.PermissionDenied, status.Code(err))
	})

	t.Run("Reject", func(t *testing.T) {
		out, err := invoke(t, conn, methodApproveBooking, owner.ID, map[string]any{"bookingId": bookingID, "approved": false})
		require.NoError(t, err)
		assert.Equal(t, "REJECTED", out.Fields["status"].GetStringValue())
	})

	t.Run("SecondDecision", func(t *testing.T) {
		_, err := invoke(t, conn, methodApproveBooking, owner.ID, map[string]any{"bookingId": bookingID, "approved": true})
		assert.Equal(t, codes.Aborted, status.Code(err))
		assert.Contains(t, status.Convert(err).Message(), "ALREADY_REJECTED")
	})

	t.Run("Get", func(t *testing.T) {
		out, err := invoke(t, conn, methodGetBooking, booker.ID, map[string]any{"bookingId": bookingID})
		require.NoError(t, err)
		assert.Equal(t, "REJECTED", out.Fields["status"].GetStringValue())

		_, err = invoke(t, conn, methodGetBooking, booker.ID, map[string]any{"bookingId": 999})
		assert.Equal(t, codes.NotFound, status.Code(err))
	})

	t.Run("Lists", func(t *testing.T) {
		out, err := invoke(t, conn, methodListBookings, booker.ID, map[string]any{"state": "rejected"})
		require.NoError(t, err)
		assert.Len(t, out.Fields["bookings"].GetListValue().GetValues(), 1)

		out, err = invoke(t, conn, methodListOwnerBookings, owner.ID, map[string]any{})
		require.NoError(t, err)
		assert.Len(t, out.Fields["bookings"].GetListValue().GetValues(), 1)

		out, err = invoke(t, conn, methodListOwnerBookings, owner.ID, map[string]any{"state": "WAITING"})
		require.NoError(t, err)
		assert.Empty(t, out.Fields["bookings"].GetListValue().GetValues())

		_, err = invoke(t, conn, methodListBookings, booker.ID, map[string]any{"state": "LATER"})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
		assert.Equal(t, "unknown state: LATER", status.Convert(err).Message())
	})
}

func TestBookingServiceGRPCAuth(t *testing.T) {
	cfg := defaultAPIConfig()
	cfg.Auth = config.APIAuthConfig{
		Enabled: true,
		APIKeys: []config.APIClientKey{{Key: "k", Extra: "e", Permissions: []string{permReadBookings}}},
	}
	env := newTestEnv(t, cfg)
	conn := dialBufconn(t, cfg, env.svc)

	_, err := invoke(t, conn, methodListBookings, 1, map[string]any{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestGRPCServerNew(t *testing.T) {
	env := newTestEnv(t, defaultAPIConfig())
	logger := zerolog.New(io.Discard)

	cfg := config.APIConfig{GRPC: config.APIGRPCConfig{Port: 0, Reflection: true}}
	s, err := NewGRPCServer(&cfg, env.svc, &logger)
	require.NoError(t, err)
	assert.NotEmpty(t, s.Addr())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	s.Shutdown(ctx)
}

func TestBuildTLSConfig(t *testing.T) {
	t.Run("EmptyPaths", func(t *testing.T) {
		_, err := buildTLSConfig(config.APITLSConfig{Enabled: true})
		assert.Error(t, err)
	})

	t.Run("InvalidCert", func(t *testing.T) {
		_, err := buildTLSConfig(config.APITLSConfig{
			Enabled:  true,
			CertFile: "/nonexistent",
			KeyFile:  "/nonexistent",
		})
		assert.Error(t, err)
	})
}
