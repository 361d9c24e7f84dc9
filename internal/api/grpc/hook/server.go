package hook

import (
	"context"
	"errors"
	"sync"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	hooksvc "github.com/learning-layers/ldocs-updatetime/internal/service/hook"
)

// Invoker runs hooks by name.
type Invoker interface {
	Invoke(ctx context.Context, name string, hookCtx any, cb hooksvc.Callback) error
}

// Server implements HookServiceServer on top of an Invoker.
type Server struct {
	// invoker runs the hooks requested by clients.
	invoker Invoker
}

// NewServer wires invoker into a gRPC handler.
func NewServer(invoker Invoker) *Server {
	return &Server{
		invoker: invoker,
	}
}

// Invoke runs the requested hook and answers once the hook hands control back.
// It does not wait for, or report, the outcome of work the hook dispatched.
func (s *Server) Invoke(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	name := req.GetFields()[fieldHook].GetStringValue()
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "hook is required")
	}

	var hookCtx any
	if value, ok := req.GetFields()[fieldContext]; ok {
		hookCtx = value.AsInterface()
	}

	var (
		completed = make(chan struct{})
		once      sync.Once
	)

	err := s.invoker.Invoke(ctx, name, hookCtx, func() {
		once.Do(func() {
			close(completed)
		})
	})

	switch {
	case errors.Is(err, hooksvc.ErrUnknownHook):
		return nil, status.Error(codes.NotFound, err.Error())
	case err != nil:
		return nil, status.Error(codes.Internal, "unable to run hook")
	}

	select {
	case <-completed:
	case <-ctx.Done():
		return nil, status.FromContextError(ctx.Err()).Err()
	}

	resp, err := structpb.NewStruct(map[string]any{
		fieldHook:      name,
		fieldCompleted: true,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, "unable to encode response")
	}

	return resp, nil
}
