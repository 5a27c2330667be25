package authority

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/underworld-engine/internal/casino"
)

// Request asks the authority to resolve one remote wager.
type Request struct {
	RequestID       string      `json:"requestId"`
	PlayerID        string      `json:"playerId"`
	GameKind        casino.Kind `json:"gameKind"`
	Bet             int         `json:"bet"`
	RoundsAttempted int         `json:"roundsAttempted"`
}

// Outcome of a survival game.
type Outcome string

const (
	OutcomeSurvived Outcome = "survived"
	OutcomeDead     Outcome = "dead"
)

// Response is the authority's verdict. UpdatedBalance is authoritative.
type Response struct {
	Success        bool    `json:"success"`
	Outcome        Outcome `json:"outcome"`
	Multiplier     float64 `json:"multiplier"`
	NetResult      int     `json:"netResult"`
	UpdatedBalance int     `json:"updatedBalance"`
	Message        string  `json:"message,omitempty"`
}

func (r Request) toStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"requestId":       r.RequestID,
		"playerId":        r.PlayerID,
		"gameKind":        string(r.GameKind),
		"bet":             r.Bet,
		"roundsAttempted": r.RoundsAttempted,
	})
}

func requestFromStruct(s *structpb.Struct) (Request, error) {
	f := s.GetFields()
	bet, err := intField(f, "bet")
	if err != nil {
		return Request{}, err
	}
	rounds, err := intField(f, "roundsAttempted")
	if err != nil {
		return Request{}, err
	}
	return Request{
		RequestID:       f["requestId"].GetStringValue(),
		PlayerID:        f["playerId"].GetStringValue(),
		GameKind:        casino.Kind(f["gameKind"].GetStringValue()),
		Bet:             bet,
		RoundsAttempted: rounds,
	}, nil
}

func (r Response) toStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"success":        r.Success,
		"outcome":        string(r.Outcome),
		"multiplier":     r.Multiplier,
		"netResult":      r.NetResult,
		"updatedBalance": r.UpdatedBalance,
		"message":        r.Message,
	})
}

func responseFromStruct(s *structpb.Struct) (Response, error) {
	f := s.GetFields()
	net, err := intField(f, "netResult")
	if err != nil {
		return Response{}, err
	}
	bal, err := intField(f, "updatedBalance")
	if err != nil {
		return Response{}, err
	}
	return Response{
		Success:        f["success"].GetBoolValue(),
		Outcome:        Outcome(f["outcome"].GetStringValue()),
		Multiplier:     f["multiplier"].GetNumberValue(),
		NetResult:      net,
		UpdatedBalance: bal,
		Message:        f["message"].GetStringValue(),
	}, nil
}

// intField reads a whole number. JSON-style structs carry numbers as
// float64.
func intField(f map[string]*structpb.Value, key string) (int, error) {
	v, ok := f[key]
	if !ok {
		return 0, fmt.Errorf("missing field %q", key)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("field %q is not a number", key)
	}
	if n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, fmt.Errorf("field %q is not whole: %v", key, n.NumberValue)
	}
	return int(n.NumberValue), nil
}
