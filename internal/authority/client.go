// Package authority talks to the remote wager authority that resolves
// tamper-sensitive games. Messages travel as protobuf Struct values over a
// single unary gRPC method.
package authority

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/underworld-engine/internal/apperr"
)

// Service and method names on the wire.
const (
	ServiceName   = "underworld.authority.v1.WagerAuthority"
	MethodResolve = "/" + ServiceName + "/Resolve"
)

// DefaultTimeout bounds one Resolve call.
const DefaultTimeout = 5 * time.Second

// Resolver is what the engine needs from an authority.
type Resolver interface {
	Resolve(ctx context.Context, req Request) (Response, error)
}

// Client is a gRPC Resolver.
type Client struct {
	conn    grpc.ClientConnInterface
	timeout time.Duration
}

// NewClient wraps an existing connection.
func NewClient(conn grpc.ClientConnInterface, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{conn: conn, timeout: timeout}
}

// Dial connects to addr without transport security.
func Dial(addr string, opts ...grpc.DialOption) (*Client, *grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("dial authority %s: %w", addr, err)
	}
	return NewClient(conn, DefaultTimeout), conn, nil
}

func failure(msg string, cause error, meta map[string]string) error {
	e := apperr.Wrap(apperr.CodeRemoteAuthorityFailure, msg, cause)
	e.Metadata = meta
	return e
}

// Resolve sends req and validates the verdict. Every failure, including a
// well-formed response with success=false, is a retryable
// RemoteAuthorityFailure and must leave local state untouched.
func (c *Client) Resolve(ctx context.Context, req Request) (Response, error) {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	in, err := req.toStruct()
	if err != nil {
		return Response{}, failure("encode request", err, nil)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, MethodResolve, in, out); err != nil {
		st := status.Convert(err)
		slog.Warn("authority call failed", "request", req.RequestID, "code", st.Code().String(), "err", st.Message())
		return Response{}, failure("authority unavailable", err, map[string]string{
			"reason":    "The house could not confirm the result. Try again.",
			"grpc_code": st.Code().String(),
		})
	}
	resp, err := responseFromStruct(out)
	if err != nil {
		return Response{}, failure("malformed authority response", err, nil)
	}
	if !resp.Success {
		return Response{}, failure("authority rejected wager", nil, map[string]string{"reason": resp.Message})
	}
	if resp.Outcome != OutcomeSurvived && resp.Outcome != OutcomeDead {
		return Response{}, failure("authority returned no outcome", nil, nil)
	}
	if resp.UpdatedBalance < 0 {
		return Response{}, failure("authority returned a negative balance", nil, nil)
	}
	slog.Info("authority confirmed wager", "request", req.RequestID, "game", req.GameKind,
		"outcome", resp.Outcome, "net", resp.NetResult)
	return resp, nil
}
