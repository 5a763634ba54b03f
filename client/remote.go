package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/xiphiasnonus/Tetris/proto"
	"github.com/xiphiasnonus/Tetris/tetris"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// PublishInterval is the shortest time between two published frames.
const PublishInterval = 50 * time.Millisecond

// WatchAny asks Watch for the first open session on the hub.
const WatchAny = "any"

var ErrNoSessions = errors.New("no open sessions")

// RemoteClient talks to the spectator hub. A player publishes its sessions
// through it, a spectator watches one.
type RemoteClient struct {
	Name   string
	Addr   string
	Logger *slog.Logger

	conn    *grpc.ClientConn
	ssc     proto.SpectateClient
	session string
	stream  grpc.ClientStreamingClient[structpb.Struct, emptypb.Empty]
	cancel  context.CancelFunc
	last    time.Time
	now     func() time.Time
	mu      sync.Mutex
}

func NewRemoteClient(name, addr string, l *slog.Logger) (*RemoteClient, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("unable to create gRPC client: %w", err)
	}
	return newRemoteClient(name, addr, l, conn), nil
}

func newRemoteClient(name, addr string, l *slog.Logger, conn *grpc.ClientConn) *RemoteClient {
	return &RemoteClient{
		Name:   name,
		Addr:   addr,
		Logger: l,
		conn:   conn,
		ssc:    proto.NewSpectateClient(conn),
		now:    time.Now,
	}
}

// Open registers a new session on the hub and starts its publish stream.
func (r *RemoteClient) Open(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.end()

	id, err := r.ssc.Open(ctx, wrapperspb.String(r.Name))
	if err != nil {
		return fmt.Errorf("unable to open session: %w", err)
	}
	ctx, cancel := context.WithCancel(ctx)
	stream, err := r.ssc.Publish(ctx)
	if err != nil {
		cancel()
		return fmt.Errorf("unable to start publishing: %w", err)
	}
	r.session = id.GetValue()
	r.stream = stream
	r.cancel = cancel
	r.last = time.Time{}
	r.Logger.Info("publishing session", slog.String("session", r.session))
	return nil
}

// Publish sends t unless the last frame went out less than PublishInterval
// ago. The final frame of a session is always sent. A failed send stops
// publishing until the next Open, the game itself carries on.
func (r *RemoteClient) Publish(t *tetris.Tetris) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stream == nil {
		return
	}
	now := r.now()
	if !t.GameOver && now.Sub(r.last) < PublishInterval {
		return
	}
	f, err := proto.EncodeFrame(proto.Frame{Session: r.session, Name: r.Name, State: t})
	if err != nil {
		r.Logger.Error("unable to encode frame", slog.String("error", err.Error()))
		return
	}
	if err := r.stream.Send(f); err != nil {
		r.Logger.Error("unable to publish frame", slog.String("error", err.Error()))
		r.cancel()
		r.stream = nil
		return
	}
	r.last = now
}

// End closes the publish stream of the current session.
func (r *RemoteClient) End() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.end()
}

func (r *RemoteClient) end() {
	if r.stream == nil {
		return
	}
	if _, err := r.stream.CloseAndRecv(); err != nil {
		r.Logger.Error("unable to close publish stream", slog.String("error", err.Error()))
	}
	r.cancel()
	r.stream = nil
}

// Watch streams the frames of session id to fn until the session ends or
// ctx is done. WatchAny picks the first open session.
func (r *RemoteClient) Watch(ctx context.Context, id string, fn func(proto.Frame)) error {
	if id == WatchAny {
		list, err := r.ssc.List(ctx, &emptypb.Empty{})
		if err != nil {
			return fmt.Errorf("unable to list sessions: %w", err)
		}
		if len(list.GetValues()) == 0 {
			return ErrNoSessions
		}
		id = list.GetValues()[0].GetStructValue().GetFields()["id"].GetStringValue()
	}

	stream, err := r.ssc.Watch(ctx, wrapperspb.String(id))
	if err != nil {
		return fmt.Errorf("unable to watch %q: %w", id, err)
	}
	for {
		s, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.Logger.Debug("watch stream closed with EOF", slog.String("session", id))
				return nil
			}
			if status.Code(err) == codes.Canceled {
				r.Logger.Debug("watch stream closed with Cancel", slog.String("session", id))
				return nil
			}
			return fmt.Errorf("unable to receive frame: %w", err)
		}
		f, err := proto.DecodeFrame(s)
		if err != nil {
			r.Logger.Error("dropping frame", slog.String("error", err.Error()))
			continue
		}
		fn(f)
	}
}

func (r *RemoteClient) Close() {
	r.End()
	if r.conn != nil {
		if err := r.conn.Close(); err != nil {
			r.Logger.Error("unable to close gRPC client", slog.String("error", err.Error()))
		}
	}
}
