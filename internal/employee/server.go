package employee

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/MikeMC777/comandas/internal/apperr"
	"github.com/MikeMC777/comandas/internal/logger"
)

// Server is the gRPC side of the employee directory.
type Server struct {
	repo Repository
	log  *zap.Logger
}

func NewServer(repo Repository, log *zap.Logger) *Server {
	return &Server{repo: repo, log: logger.OrNop(log)}
}

// GetEmployee
func (s *Server) GetEmployee(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	if _, err := uuid.Parse(in.GetValue()); err != nil {
		return nil, status.Error(codes.InvalidArgument, "id must be a uuid")
	}
	e, err := s.repo.GetByID(ctx, in.GetValue())
	if err != nil {
		return nil, toStatus(s.log, "get employee", err)
	}
	return structpb.NewStruct(map[string]any{
		"id":         e.ID,
		"name":       e.Name,
		"created_at": e.CreatedAt.Format(time.RFC3339),
	})
}

// VerifyPIN never reports which of id or pin was wrong.
func (s *Server) VerifyPIN(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id := in.GetFields()["id"].GetStringValue()
	pin := in.GetFields()["pin"].GetStringValue()
	if id == "" || pin == "" {
		return nil, status.Error(codes.InvalidArgument, "id and pin are required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return structpb.NewStruct(map[string]any{"ok": false})
	}
	e, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return structpb.NewStruct(map[string]any{"ok": false})
	}
	if err != nil {
		return nil, toStatus(s.log, "verify pin", err)
	}
	if !CheckPIN(e.PINHash, pin) {
		return structpb.NewStruct(map[string]any{"ok": false})
	}
	return structpb.NewStruct(map[string]any{"ok": true, "id": e.ID, "name": e.Name})
}

func toStatus(log *zap.Logger, op string, err error) error {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return status.Error(codes.NotFound, apperr.PublicMessage(err))
	case apperr.KindValidation:
		return status.Error(codes.InvalidArgument, apperr.PublicMessage(err))
	default:
		log.Error(op+" failed", zap.Error(err))
		return status.Error(codes.Internal, "internal error")
	}
}
