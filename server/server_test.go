package server

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiphiasnonus/Tetris/proto"
	"github.com/xiphiasnonus/Tetris/tetris"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func frame(t *testing.T, session string, score int, over bool) *structpb.Struct {
	t.Helper()
	state := tetris.NewTestTetris(tetris.L)
	state.Score = score
	state.GameOver = over
	f, err := proto.EncodeFrame(proto.Frame{Session: session, Name: "player", State: state})
	require.NoError(t, err)
	return f
}

func score(t *testing.T, s *structpb.Struct) int {
	t.Helper()
	f, err := proto.DecodeFrame(s)
	require.NoError(t, err)
	return f.State.Score
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	client, closer := testServer(ctx)
	defer closer()

	_, err := client.Open(ctx, wrapperspb.String(""))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	a, err := client.Open(ctx, wrapperspb.String("zesty-lark"))
	require.NoError(t, err)
	b, err := client.Open(ctx, wrapperspb.String("brave-heron"))
	require.NoError(t, err)
	c, err := client.Open(ctx, wrapperspb.String("idle-newt"))
	require.NoError(t, err)
	assert.NotEqual(t, a.GetValue(), b.GetValue())

	// nothing is listed before a frame is published.
	list, err := client.List(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	assert.Empty(t, list.GetValues())

	for _, id := range []string{a.GetValue(), b.GetValue()} {
		pub, err := client.Publish(ctx)
		require.NoError(t, err)
		require.NoError(t, pub.Send(frame(t, id, 0, false)))
	}

	require.Eventually(t, func() bool {
		list, err = client.List(ctx, &emptypb.Empty{})
		return err == nil && len(list.GetValues()) == 2
	}, time.Second, 5*time.Millisecond)
	first := list.GetValues()[0].GetStructValue().GetFields()
	assert.Equal(t, "brave-heron", first["name"].GetStringValue())
	assert.Equal(t, b.GetValue(), first["id"].GetStringValue())
	for _, v := range list.GetValues() {
		assert.NotEqual(t, c.GetValue(), v.GetStructValue().GetFields()["id"].GetStringValue())
	}
}

func TestWatchUnknownSession(t *testing.T) {
	ctx := context.Background()
	client, closer := testServer(ctx)
	defer closer()

	stream, err := client.Watch(ctx, wrapperspb.String("nope"))
	require.NoError(t, err)
	_, err = stream.Recv()
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestPublishErrors(t *testing.T) {
	tests := []struct {
		name  string
		frame func(t *testing.T, id string) *structpb.Struct
		want  codes.Code
	}{
		{
			name:  "unknown session",
			frame: func(t *testing.T, _ string) *structpb.Struct { return frame(t, "nope", 0, false) },
			want:  codes.NotFound,
		},
		{
			name: "malformed frame",
			frame: func(t *testing.T, id string) *structpb.Struct {
				f := frame(t, id, 0, false)
				delete(f.Fields, "board")
				return f
			},
			want: codes.InvalidArgument,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			client, closer := testServer(ctx)
			defer closer()

			id, err := client.Open(ctx, wrapperspb.String("player"))
			require.NoError(t, err)
			stream, err := client.Publish(ctx)
			require.NoError(t, err)
			// the server may reject the stream before the send completes.
			_ = stream.Send(tt.frame(t, id.GetValue()))
			_, err = stream.CloseAndRecv()
			assert.Equal(t, tt.want, status.Code(err))
		})
	}
}

func TestPublishWatch(t *testing.T) {
	ctx := context.Background()
	client, closer := testServer(ctx)
	defer closer()

	opened, err := client.Open(ctx, wrapperspb.String("player"))
	require.NoError(t, err)
	id := opened.GetValue()

	early, err := client.Watch(ctx, wrapperspb.String(id))
	require.NoError(t, err)

	pub, err := client.Publish(ctx)
	require.NoError(t, err)
	require.NoError(t, pub.Send(frame(t, id, 10, false)))

	got, err := early.Recv()
	require.NoError(t, err)
	assert.Equal(t, 10, score(t, got))

	// a late watcher starts from the latest frame.
	late, err := client.Watch(ctx, wrapperspb.String(id))
	require.NoError(t, err)
	got, err = late.Recv()
	require.NoError(t, err)
	assert.Equal(t, 10, score(t, got))

	require.NoError(t, pub.Send(frame(t, id, 20, true)))
	for _, w := range []grpc.ServerStreamingClient[structpb.Struct]{early, late} {
		got, err := w.Recv()
		require.NoError(t, err)
		assert.Equal(t, 20, score(t, got))
	}

	_, err = pub.CloseAndRecv()
	require.NoError(t, err)
	for _, w := range []grpc.ServerStreamingClient[structpb.Struct]{early, late} {
		_, err := w.Recv()
		assert.ErrorIs(t, err, io.EOF)
	}

	list, err := client.List(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	assert.Empty(t, list.GetValues())
}

func TestSecondPublisher(t *testing.T) {
	ctx := context.Background()
	client, closer := testServer(ctx)
	defer closer()

	opened, err := client.Open(ctx, wrapperspb.String("player"))
	require.NoError(t, err)
	id := opened.GetValue()

	watch, err := client.Watch(ctx, wrapperspb.String(id))
	require.NoError(t, err)
	first, err := client.Publish(ctx)
	require.NoError(t, err)
	require.NoError(t, first.Send(frame(t, id, 1, false)))
	_, err = watch.Recv()
	require.NoError(t, err)

	second, err := client.Publish(ctx)
	require.NoError(t, err)
	_ = second.Send(frame(t, id, 2, false))
	_, err = second.CloseAndRecv()
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func testServer(ctx context.Context) (proto.SpectateClient, func()) {
	buffer := 1024 * 1024
	lis := bufconn.Listen(buffer)

	s := grpc.NewServer()
	proto.RegisterSpectateServer(s, New(slog.New(slog.NewTextHandler(io.Discard, nil))))
	go func() {
		if err := s.Serve(lis); err != nil {
			log.Printf("unable to serve: %v", err)
		}
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet", grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
		return lis.Dial()
	}), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Printf("error connecting to server: %v", err)
	}

	closer := func() {
		if err := lis.Close(); err != nil {
			log.Printf("error closing listener: %v", err)
		}
		s.Stop()
	}

	return proto.NewSpectateClient(conn), closer
}
