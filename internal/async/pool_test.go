package async

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joseph-ayodele/contracts-tracker/internal/common"
	"github.com/joseph-ayodele/contracts-tracker/internal/entity"
)

type fakeAnalyzer struct {
	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, doc entity.RawDocument) (*entity.AnalysisResult, error) {
	f.calls.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		m := f.maxSeen.Load()
		if n <= m || f.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	if doc.Text == "bad" {
		return nil, common.NewAppError(common.CodeInvalidInput, "bad", common.ErrInvalidInput)
	}
	if common.RequestIDFromContext(ctx) == "" {
		return nil, errors.New("missing request id")
	}
	return &entity.AnalysisResult{Filename: doc.Filename}, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPoolRun(t *testing.T) {
	fa := &fakeAnalyzer{}
	pool := NewPool(fa, quietLogger(), WithWorkers(2))

	jobs := []Job{
		{Source: "a.txt", Doc: entity.RawDocument{Text: "x", Filename: "a.txt"}},
		{Source: "b.txt", Doc: entity.RawDocument{Text: "bad", Filename: "b.txt"}},
		{Source: "c.txt", Doc: entity.RawDocument{Text: "y", Filename: "c.txt"}},
		{Source: "d.txt", Doc: entity.RawDocument{Text: "z", Filename: "d.txt"}},
	}
	out, err := pool.Run(context.Background(), jobs)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out) != len(jobs) {
		t.Fatalf("got %d outcomes", len(out))
	}
	for i, o := range out {
		if o.Job.Source != jobs[i].Source {
			t.Errorf("outcome %d is for %s, want %s", i, o.Job.Source, jobs[i].Source)
		}
	}
	if !errors.Is(out[1].Err, common.ErrInvalidInput) {
		t.Errorf("outcome 1 err = %v", out[1].Err)
	}
	for _, i := range []int{0, 2, 3} {
		if out[i].Err != nil || out[i].Result == nil || out[i].Result.Filename != jobs[i].Doc.Filename {
			t.Errorf("outcome %d = %+v", i, out[i])
		}
	}
	if got := fa.calls.Load(); got != 4 {
		t.Errorf("calls = %d, want 4", got)
	}
	if got := fa.maxSeen.Load(); got > 2 {
		t.Errorf("max concurrency = %d, want <= 2", got)
	}
}

func TestPoolCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fa := &fakeAnalyzer{}
	out, err := NewPool(fa, quietLogger()).Run(ctx, []Job{{Source: "a"}, {Source: "b"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	for i, o := range out {
		if !errors.Is(o.Err, context.Canceled) {
			t.Errorf("outcome %d err = %v", i, o.Err)
		}
	}
	if fa.calls.Load() != 0 {
		t.Error("no document should be analysed after cancellation")
	}
}
