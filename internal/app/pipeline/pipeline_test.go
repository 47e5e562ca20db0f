package pipeline

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dkeye/Huddle/internal/domain"
	"github.com/dkeye/Huddle/internal/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var t0 = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

type emitted struct {
	speaker domain.ConnID
	text    string
}

func chanSink(ch chan<- emitted) Sink {
	return func(_ context.Context, speaker domain.ConnID, text string, _ time.Time) {
		ch <- emitted{speaker: speaker, text: text}
	}
}

func chunk(speaker domain.ConnID, ts time.Duration, seq int64, fill byte, n int) domain.AudioChunk {
	return domain.AudioChunk{Speaker: speaker, Timestamp: t0.Add(ts), Seq: seq, Data: bytes.Repeat([]byte{fill}, n)}
}

func testConfig() Config {
	return Config{FlushInterval: 50 * time.Millisecond, MinBytes: DefaultMinBytes, Timeout: time.Second}
}

func TestAssemble_OrdersByTimestampThenSeq(t *testing.T) {
	req := require.New(t)

	// Given chunks submitted out of order
	chunks := []domain.AudioChunk{
		chunk("a", time.Second, 2, '2', 1),
		chunk("a", 0, 1, '1', 1),
		chunk("a", time.Second, 0, '0', 1),
	}

	// When
	wins := Assemble(chunks)

	// Then timestamp orders first and seq breaks ties
	req.Len(wins, 1)
	req.Equal("102", string(wins[0].Data))
	req.Equal(t0, wins[0].At)
}

func TestAssemble_GroupsBySpeaker(t *testing.T) {
	req := require.New(t)

	wins := Assemble([]domain.AudioChunk{
		chunk("b", 2*time.Second, 1, 'y', 1),
		chunk("a", time.Second, 1, 'x', 1),
		chunk("b", 3*time.Second, 2, 'z', 1),
	})

	req.Len(wins, 2)
	req.Equal(domain.ConnID("a"), wins[0].Speaker)
	req.Equal("x", string(wins[0].Data))
	req.Equal("yz", string(wins[1].Data))
}

func TestQueue_FIFOAndIdle(t *testing.T) {
	req := require.New(t)
	q := NewQueue()
	ctx := context.Background()

	q.Push(chunk("a", 0, 1, 'a', 1))
	q.Push(chunk("a", 0, 2, 'b', 1))
	req.Equal(2, q.Len())

	c, err := q.Pop(ctx, 10*time.Millisecond)
	req.NoError(err)
	req.Equal(int64(1), c.Seq)
	c, err = q.Pop(ctx, 10*time.Millisecond)
	req.NoError(err)
	req.Equal(int64(2), c.Seq)

	_, err = q.Pop(ctx, 10*time.Millisecond)
	req.ErrorIs(err, ErrIdle)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = q.Pop(cancelled, time.Second)
	req.ErrorIs(err, context.Canceled)
}

func TestQueue_WakesOnPush(t *testing.T) {
	req := require.New(t)
	q := NewQueue()

	go func() {
		time.Sleep(20 * time.Millisecond)
		q.Push(chunk("a", 0, 7, 'a', 1))
	}()

	c, err := q.Pop(context.Background(), time.Second)
	req.NoError(err)
	req.Equal(int64(7), c.Seq)
}

func TestWorker_FlushesOrderedWindow(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockTranscriber(ctrl)
	backend.EXPECT().Name().Return("mock").AnyTimes()

	// Given two chunks arriving in reverse order
	late := chunk("a", time.Second, 2, 'B', 600)
	early := chunk("a", 0, 1, 'A', 600)
	want := append(bytes.Repeat([]byte{'A'}, 600), bytes.Repeat([]byte{'B'}, 600)...)
	backend.EXPECT().Transcribe(gomock.Any(), want).Return("  hello there ", nil).Times(1)

	out := make(chan emitted, 1)
	q := NewQueue()
	p := New(NewWorker("r1", q, backend, chanSink(out), testConfig()))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// When
	p.Submit(late)
	p.Submit(early)
	p.Start(ctx)

	// Then the window is transcribed once, in timestamp order, trimmed
	select {
	case got := <-out:
		req.Equal(emitted{speaker: "a", text: "hello there"}, got)
	case <-time.After(2 * time.Second):
		req.Fail("no transcript emitted")
	}
}

func TestWorker_DropsShortAndBlank(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockTranscriber(ctrl)
	backend.EXPECT().Name().Return("mock").AnyTimes()
	// Exactly MinBytes is still too short; only the long speaker reaches the backend.
	backend.EXPECT().Transcribe(gomock.Any(), gomock.Any()).Return("   ", nil).Times(1)

	out := make(chan emitted, 1)
	w := NewWorker("r1", NewQueue(), backend, chanSink(out), testConfig())

	w.flush(context.Background(), []domain.AudioChunk{
		chunk("short", 0, 1, 's', DefaultMinBytes),
		chunk("long", 0, 1, 'l', DefaultMinBytes+1),
	})

	req.Empty(out)
}

func TestWorker_BackendFailuresDoNotStopLoop(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockTranscriber(ctrl)
	backend.EXPECT().Name().Return("mock").AnyTimes()
	gomock.InOrder(
		backend.EXPECT().Transcribe(gomock.Any(), gomock.Any()).Return("", errors.New("upstream 503")),
		backend.EXPECT().Transcribe(gomock.Any(), gomock.Any()).DoAndReturn(
			func(context.Context, []byte) (string, error) { panic("decoder exploded") }),
		backend.EXPECT().Transcribe(gomock.Any(), gomock.Any()).Return("recovered", nil),
	)

	out := make(chan emitted, 1)
	q := NewQueue()
	p := New(NewWorker("r1", q, backend, chanSink(out), testConfig()))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	// When three windows are flushed one after another
	for i := range 3 {
		q.Push(chunk("a", time.Duration(i)*time.Second, int64(i), 'x', 2048))
		time.Sleep(150 * time.Millisecond)
	}

	// Then only the healthy window produced text and the worker survived
	select {
	case got := <-out:
		req.Equal("recovered", got.text)
	case <-time.After(2 * time.Second):
		req.Fail("worker did not survive backend failures")
	}
	req.True(p.Running())
}

func TestWorker_TranscribeRecoversPanic(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockTranscriber(ctrl)
	backend.EXPECT().Transcribe(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, []byte) (string, error) { panic("boom") })

	w := NewWorker("r1", NewQueue(), backend, func(context.Context, domain.ConnID, string, time.Time) {}, testConfig())

	_, err := w.transcribe(context.Background(), []byte("x"))

	req.ErrorIs(err, ErrBackendPanic)
}

func TestPipeline_StartOnceAndCancel(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockTranscriber(ctrl)
	backend.EXPECT().Name().Return("mock").AnyTimes()

	p := New(NewWorker("r1", NewQueue(), backend, func(context.Context, domain.ConnID, string, time.Time) {}, testConfig()))
	ctx, cancel := context.WithCancel(context.Background())

	// Given the worker was started twice
	req.True(p.Start(ctx))
	req.False(p.Start(ctx))
	req.True(p.Running())

	// When the owning room goes away
	cancel()

	// Then the worker exits
	select {
	case <-p.Done():
	case <-time.After(time.Second):
		req.Fail("worker did not stop after cancel")
	}
	req.False(p.Running())
}
