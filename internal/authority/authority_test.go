package authority

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/xtding233/underworld-engine/internal/apperr"
	"github.com/xtding233/underworld-engine/internal/casino"
	"github.com/xtding233/underworld-engine/internal/roll"
)

type handlerFunc func(ctx context.Context, req Request) (Response, error)

func (f handlerFunc) Resolve(ctx context.Context, req Request) (Response, error) { return f(ctx, req) }

func startAuthority(t *testing.T, h Handler) *Client {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := grpc.NewServer()
	Register(srv, h)
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(listener) }()

	client, conn, err := Dial(listener.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
		srv.GracefulStop()
		select {
		case <-serveErr:
		case <-time.After(2 * time.Second):
		}
	})
	return client
}

func TestResolveSurvived(t *testing.T) {
	house := NewHouse(roll.NewScriptedRNG(0.5))
	house.Deposit("p1", 5000)
	client := startAuthority(t, house)

	resp, err := client.Resolve(context.Background(), Request{
		PlayerID: "p1", GameKind: casino.KindRussianRoulette, Bet: 1000, RoundsAttempted: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeSurvived, resp.Outcome)
	assert.InDelta(t, 1.40, resp.Multiplier, 1e-9)
	assert.Equal(t, 400, resp.NetResult)
	assert.Equal(t, 5400, resp.UpdatedBalance)
	assert.Equal(t, 5400, house.Balance("p1"))
}

func TestResolveDead(t *testing.T) {
	// 0.0 lands on the loaded chamber.
	house := NewHouse(roll.NewScriptedRNG(0.0))
	house.Deposit("p1", 5000)
	client := startAuthority(t, house)

	resp, err := client.Resolve(context.Background(), Request{
		PlayerID: "p1", GameKind: casino.KindRussianRoulette, Bet: 1000, RoundsAttempted: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeDead, resp.Outcome)
	assert.Equal(t, -1000, resp.NetResult)
	assert.Equal(t, 4000, resp.UpdatedBalance)
}

func TestRejectedWagerIsRetryableFailure(t *testing.T) {
	house := NewHouse(roll.NewScriptedRNG(0.5))
	house.Deposit("p1", 50)
	client := startAuthority(t, house)

	_, err := client.Resolve(context.Background(), Request{
		PlayerID: "p1", GameKind: casino.KindRussianRoulette, Bet: 1000, RoundsAttempted: 1,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrRemoteAuthority))
	assert.True(t, apperr.Retryable(err))
	assert.Equal(t, 50, house.Balance("p1"))
}

func TestHandlerErrorSurfacesAsFailure(t *testing.T) {
	client := startAuthority(t, handlerFunc(func(context.Context, Request) (Response, error) {
		return Response{}, status.Error(codes.Unavailable, "maintenance")
	}))

	_, err := client.Resolve(context.Background(), Request{GameKind: casino.KindRussianRoulette, Bet: 100, RoundsAttempted: 1})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeRemoteAuthorityFailure, apperr.CodeOf(err))

	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, codes.Unavailable.String(), e.Metadata["grpc_code"])
}

func TestMissingOutcomeIsFailure(t *testing.T) {
	client := startAuthority(t, handlerFunc(func(context.Context, Request) (Response, error) {
		return Response{Success: true, UpdatedBalance: 10}, nil
	}))

	_, err := client.Resolve(context.Background(), Request{GameKind: casino.KindRussianRoulette, Bet: 100, RoundsAttempted: 1})
	assert.True(t, apperr.Retryable(err))
}

func TestUnreachableAuthority(t *testing.T) {
	client, conn, err := Dial("127.0.0.1:1")
	require.NoError(t, err)
	defer conn.Close()
	client.timeout = 300 * time.Millisecond

	_, err = client.Resolve(context.Background(), Request{GameKind: casino.KindRussianRoulette, Bet: 100, RoundsAttempted: 1})
	require.Error(t, err)
	assert.True(t, apperr.Retryable(err))
}

func TestHouseReplaysRequestID(t *testing.T) {
	house := NewHouse(roll.NewScriptedRNG(0.5, 0.0))
	house.Deposit("p1", 5000)
	req := Request{RequestID: "r-1", PlayerID: "p1", GameKind: casino.KindRussianRoulette, Bet: 1000, RoundsAttempted: 1}

	first, err := house.Resolve(context.Background(), req)
	require.NoError(t, err)
	second, err := house.Resolve(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 5150, house.Balance("p1"))
}

func TestHouseEdgePerRung(t *testing.T) {
	survive := 1.0
	for i, pct := range RoundPayoutPct {
		survive *= float64(Chambers-1) / Chambers
		assert.Less(t, survive*float64(pct)/100, 1.0, "rung %d", i+1)
	}
}

func TestRequestRoundTrip(t *testing.T) {
	in := Request{RequestID: "x", PlayerID: "p", GameKind: casino.KindRussianRoulette, Bet: 250, RoundsAttempted: 3}
	s, err := in.toStruct()
	require.NoError(t, err)
	out, err := requestFromStruct(s)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
