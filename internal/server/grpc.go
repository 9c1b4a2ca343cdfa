package server

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/curtaincall/curtaincall-server-go/internal/game"
	"github.com/curtaincall/curtaincall-server-go/internal/game/content"
	"github.com/curtaincall/curtaincall-server-go/internal/game/state"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "curtaincall.v1.CombatService"

// Full method names, usable with grpc.ClientConn.Invoke.
const (
	MethodStartCombat = "/" + ServiceName + "/StartCombat"
	MethodPlayCard    = "/" + ServiceName + "/PlayCard"
	MethodEndTurn     = "/" + ServiceName + "/EndTurn"
	MethodGetState    = "/" + ServiceName + "/GetState"
)

// CombatServer is the server API of the combat service. Requests and
// responses are free-form structs so that clients need no generated code.
type CombatServer interface {
	StartCombat(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PlayCard(context.Context, *structpb.Struct) (*structpb.Struct, error)
	EndTurn(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetState(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func unaryHandler(call func(CombatServer, context.Context, *structpb.Struct) (*structpb.Struct, error), method string) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CombatServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CombatServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// CombatServiceDesc describes the combat service for grpc.Server.
var CombatServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CombatServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "StartCombat", Handler: unaryHandler(CombatServer.StartCombat, MethodStartCombat)},
		{MethodName: "PlayCard", Handler: unaryHandler(CombatServer.PlayCard, MethodPlayCard)},
		{MethodName: "EndTurn", Handler: unaryHandler(CombatServer.EndTurn, MethodEndTurn)},
		{MethodName: "GetState", Handler: unaryHandler(CombatServer.GetState, MethodGetState)},
	},
	Metadata: "curtaincall/v1/combat.proto",
}

// RegisterCombatServer registers srv on s.
func RegisterCombatServer(s grpc.ServiceRegistrar, srv CombatServer) {
	s.RegisterService(&CombatServiceDesc, srv)
}

// combatServer implements CombatServer on top of a SessionManager.
type combatServer struct {
	sessions *SessionManager
	logger   *zap.Logger
}

// NewCombatServer creates the gRPC handler.
func NewCombatServer(sessions *SessionManager, logger *zap.Logger) CombatServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &combatServer{sessions: sessions, logger: logger}
}

// StartCombat starts a combat. Request: {enemy_id, deck[], stage_props[],
// macguffin, difficulty}.
func (s *combatServer) StartCombat(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	opts := StartOptions{
		EnemyID:    stringField(req, "enemy_id"),
		Deck:       stringList(req, "deck"),
		StageProps: stringList(req, "stage_props"),
		MacGuffin:  stringField(req, "macguffin"),
	}
	if opts.EnemyID == "" {
		return nil, status.Error(codes.InvalidArgument, "enemy_id is required")
	}
	if v, ok := req.GetFields()["difficulty"]; ok {
		level := int(v.GetNumberValue())
		opts.Difficulty = &level
	}
	snap, err := s.sessions.Start(ctx, opts)
	if err != nil {
		return nil, toStatus(err)
	}
	return response(map[string]any{"state": snap})
}

// PlayCard plays a card. Request: {session_id, instance_id, target}.
func (s *combatServer) PlayCard(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sessionID := stringField(req, "session_id")
	instanceID := stringField(req, "instance_id")
	if sessionID == "" || instanceID == "" {
		return nil, status.Error(codes.InvalidArgument, "session_id and instance_id are required")
	}
	res, snap, err := s.sessions.PlayCard(ctx, sessionID, instanceID, state.CharacterID(stringField(req, "target")))
	if err != nil {
		return nil, toStatus(err)
	}
	return response(map[string]any{
		"legal":   res.Legal,
		"reason":  res.Reason,
		"details": res.Details,
		"state":   snap,
	})
}

// EndTurn ends the player turn. Request: {session_id}.
func (s *combatServer) EndTurn(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sessionID := stringField(req, "session_id")
	if sessionID == "" {
		return nil, status.Error(codes.InvalidArgument, "session_id is required")
	}
	ended, snap, err := s.sessions.EndTurn(ctx, sessionID)
	if err != nil {
		return nil, toStatus(err)
	}
	return response(map[string]any{"ended": ended, "state": snap})
}

// GetState returns the latest snapshot. Request: {session_id}.
func (s *combatServer) GetState(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sessionID := stringField(req, "session_id")
	if sessionID == "" {
		return nil, status.Error(codes.InvalidArgument, "session_id is required")
	}
	snap, err := s.sessions.State(ctx, sessionID)
	if err != nil {
		return nil, toStatus(err)
	}
	return response(map[string]any{"state": snap, "checksum": snap.Checksum()})
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, content.ErrUnknownEnemy), errors.Is(err, content.ErrUnknownCard):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, game.ErrCombatStarted):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case strings.Contains(err.Error(), "unknown difficulty"), strings.Contains(err.Error(), "unknown macguffin"):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// response converts v to a struct through its JSON form so snapshots keep
// their snake_case field names.
func response(v map[string]any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func stringField(s *structpb.Struct, key string) string {
	return strings.TrimSpace(s.GetFields()[key].GetStringValue())
}

func stringList(s *structpb.Struct, key string) []string {
	values := s.GetFields()[key].GetListValue().GetValues()
	out := make([]string, 0, len(values))
	for _, v := range values {
		if str := v.GetStringValue(); str != "" {
			out = append(out, str)
		}
	}
	return out
}
