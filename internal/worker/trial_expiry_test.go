package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/sleepharmony/landing/internal/testutil"
)

type fakeExpirer struct {
	n     int64
	err   error
	calls int
}

func (f *fakeExpirer) ExpireTrials(ctx context.Context) (int64, error) {
	f.calls++
	return f.n, f.err
}

func TestNewTrialExpiry_Schedule(t *testing.T) {
	tests := []struct {
		schedule string
		wantErr  bool
	}{
		{schedule: "@every 1h"},
		{schedule: "0 * * * *"},
		{schedule: "not a schedule", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.schedule, func(t *testing.T) {
			_, err := NewTrialExpiry(&fakeExpirer{}, tt.schedule, testutil.NewTestLogger())
			if (err != nil) != tt.wantErr {
				t.Errorf("NewTrialExpiry() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTrialExpiry_RunOnce(t *testing.T) {
	tests := []struct {
		name    string
		expirer *fakeExpirer
		want    int64
		wantErr bool
	}{
		{name: "expires trials", expirer: &fakeExpirer{n: 3}, want: 3},
		{name: "store failure", expirer: &fakeExpirer{err: errors.New("db down")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewTrialExpiry(tt.expirer, "@every 1h", testutil.NewTestLogger())
			if err != nil {
				t.Fatalf("NewTrialExpiry() error = %v", err)
			}

			got, err := w.RunOnce(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("RunOnce() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("RunOnce() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTrialExpiry_StartStop(t *testing.T) {
	w, err := NewTrialExpiry(&fakeExpirer{}, "@every 1h", testutil.NewTestLogger())
	if err != nil {
		t.Fatalf("NewTrialExpiry() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := w.Start(ctx); err == nil {
		t.Error("second Start() should fail")
	}
	w.Stop()
	w.Stop()
}
