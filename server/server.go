// Package server relays the frames of live sessions to spectators.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/xiphiasnonus/Tetris/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// watcherBuffer is how many frames a slow watcher may fall behind before
// frames are dropped for it.
const watcherBuffer = 16

type session struct {
	id, name   string
	latest     *structpb.Struct
	watchers   map[chan *structpb.Struct]struct{}
	publishing bool
	doneCh     chan struct{}
}

func newSession(id, name string) *session {
	return &session{
		id:       id,
		name:     name,
		watchers: make(map[chan *structpb.Struct]struct{}),
		doneCh:   make(chan struct{}),
	}
}

// broadcast must be called with the hub locked.
func (s *session) broadcast(f *structpb.Struct) {
	s.latest = f
	for ch := range s.watchers {
		select {
		case ch <- f:
		default:
		}
	}
}

type spectateServer struct {
	proto.UnimplementedSpectateServer
	sessions map[string]*session
	logger   *slog.Logger
	mu       sync.Mutex
}

func New(l *slog.Logger) proto.SpectateServer {
	return &spectateServer{
		sessions: make(map[string]*session),
		logger:   l,
	}
}

func (s *spectateServer) Open(_ context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	if in.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "a player name is required")
	}
	id := uuid.New().String()

	s.mu.Lock()
	s.sessions[id] = newSession(id, in.GetValue())
	s.mu.Unlock()

	s.logger.Info("session opened", slog.String("session", id), slog.String("name", in.GetValue()))
	return wrapperspb.String(id), nil
}

func (s *spectateServer) Publish(stream grpc.ClientStreamingServer[structpb.Struct, emptypb.Empty]) error {
	var sess *session
	defer func() { s.close(sess) }()

	for {
		frame, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.close(sess)
				return stream.SendAndClose(&emptypb.Empty{})
			}
			if status.Code(err) == codes.Canceled {
				s.logger.Debug("publisher left", slog.String("error", err.Error()))
				return nil
			}
			return err
		}

		f, err := proto.DecodeFrame(frame)
		if err != nil {
			return status.Error(codes.InvalidArgument, err.Error())
		}

		s.mu.Lock()
		if sess == nil {
			got, ok := s.sessions[f.Session]
			switch {
			case !ok:
				s.mu.Unlock()
				return status.Errorf(codes.NotFound, "session %q not found", f.Session)
			case got.publishing:
				s.mu.Unlock()
				return status.Errorf(codes.FailedPrecondition, "session %q already has a publisher", f.Session)
			}
			got.publishing = true
			sess = got
		}
		if f.Session != sess.id {
			s.mu.Unlock()
			return status.Errorf(codes.InvalidArgument, "frame for session %q on the stream of %q", f.Session, sess.id)
		}
		sess.broadcast(frame)
		s.mu.Unlock()
	}
}

func (s *spectateServer) close(sess *session) {
	if sess == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sess.id]; !ok {
		return
	}
	delete(s.sessions, sess.id)
	close(sess.doneCh)
	s.logger.Info("session closed", slog.String("session", sess.id))
}

func (s *spectateServer) List(context.Context, *emptypb.Empty) (*structpb.ListValue, error) {
	s.mu.Lock()
	list := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		// a session shows up once its player has published a frame.
		if sess.publishing {
			list = append(list, sess)
		}
	}
	s.mu.Unlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].name != list[j].name {
			return list[i].name < list[j].name
		}
		return list[i].id < list[j].id
	})
	values := make([]any, len(list))
	for i, sess := range list {
		values[i] = map[string]any{"id": sess.id, "name": sess.name}
	}
	l, err := structpb.NewList(values)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return l, nil
}

func (s *spectateServer) Watch(in *wrapperspb.StringValue, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	ch := make(chan *structpb.Struct, watcherBuffer)

	s.mu.Lock()
	sess, ok := s.sessions[in.GetValue()]
	if !ok {
		s.mu.Unlock()
		return status.Errorf(codes.NotFound, "session %q not found", in.GetValue())
	}
	sess.watchers[ch] = struct{}{}
	if sess.latest != nil {
		ch <- sess.latest
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(sess.watchers, ch)
		s.mu.Unlock()
	}()

	logger := s.logger.With(slog.String("session", sess.id))
	logger.Debug("watcher joined")
	for {
		select {
		case f := <-ch:
			if err := stream.Send(f); err != nil {
				logger.Error("unable to send frame", slog.String("error", err.Error()))
				return err
			}
		case <-sess.doneCh:
			// frames published before the close are still delivered.
			for {
				select {
				case f := <-ch:
					if err := stream.Send(f); err != nil {
						return err
					}
				default:
					logger.Debug("session ended for watcher")
					return nil
				}
			}
		case <-stream.Context().Done():
			logger.Debug("watcher left")
			return nil
		}
	}
}
