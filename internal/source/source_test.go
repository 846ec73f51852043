package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LdDl/slot-tracker/mot"
)

func TestJSONLinesSource(t *testing.T) {
	input := strings.Join([]string{
		`{"detections": [{"x": 100, "y": 100, "radius": 61}, {"x": 500, "y": 500, "radius": 62}]}`,
		``,
		`{"detections": [{"x": 501, "y": 502, "radius": 62}]}`,
		`{"frame": 7, "detections": []}`,
		`{"detections": [{"x": 1, "y": 2, "radius": 3}]}`,
	}, "\n")
	src := NewJSONLinesSource(strings.NewReader(input))
	ctx := context.Background()

	frame, err := src.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, frame.Number)
	assert.Equal(t, []mot.Detection{mot.NewDetection(100, 100, 61), mot.NewDetection(500, 500, 62)}, frame.Detections)

	frame, err = src.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, frame.Number)
	assert.Len(t, frame.Detections, 1)

	frame, err = src.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, frame.Number)
	assert.Empty(t, frame.Detections)

	frame, err = src.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, frame.Number)

	_, err = src.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)
	assert.NoError(t, src.Close())
}

func TestJSONLinesSourceErrors(t *testing.T) {
	src := NewJSONLinesSource(strings.NewReader("{\"detections\": []}\nnot json\n"))
	_, err := src.Next(context.Background())
	require.NoError(t, err)
	_, err = src.Next(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	src = NewJSONLinesSource(strings.NewReader("{\"frame\": 5}\n{\"frame\": 5}\n"))
	_, err = src.Next(context.Background())
	require.NoError(t, err)
	_, err = src.Next(context.Background())
	assert.Error(t, err, "frame numbers must increase")
}

func TestJSONLinesSourceCancelled(t *testing.T) {
	src := NewJSONLinesSource(strings.NewReader(`{"detections": []}`))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := src.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "detections.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"detections": [{"x": 3, "y": 4, "radius": 5}]}`+"\n"), 0o644))

	src, err := OpenJSONLines(path)
	require.NoError(t, err)
	frame, err := src.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, frame.Number)
	require.NoError(t, src.Close())

	_, err = OpenJSONLines(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, err)
}

func TestSliceSource(t *testing.T) {
	src := NewSliceSource([]Frame{
		{Detections: []mot.Detection{mot.NewDetection(1, 1, 1)}},
		{Number: 4},
		{},
	})
	var numbers []int
	for {
		frame, err := src.Next(context.Background())
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		numbers = append(numbers, frame.Number)
	}
	assert.Equal(t, []int{1, 4, 5}, numbers)
	assert.NoError(t, src.Close())
}

func TestJSONLinesSourceCancelWhileBlocked(t *testing.T) {
	reader, writer := io.Pipe()
	defer writer.Close()
	src := NewJSONLinesSource(reader)
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_, _ = writer.Write([]byte(`{"detections": [{"x": 1, "y": 2, "radius": 3}]}` + "\n"))
	}()
	frame, err := src.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, frame.Number)

	// Producer stays idle: Next blocks until ctx is cancelled
	errs := make(chan error, 1)
	go func() {
		_, err := src.Next(ctx)
		errs <- err
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Next is still blocked after cancellation")
	}
}

func TestJSONLinesSourceClosedWhileBlocked(t *testing.T) {
	reader, writer := io.Pipe()
	defer writer.Close()
	src := NewJSONLinesSource(reader)

	errs := make(chan error, 1)
	go func() {
		_, err := src.Next(context.Background())
		errs <- err
	}()
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, src.Close())

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, io.EOF)
	case <-time.After(2 * time.Second):
		t.Fatal("Next is still blocked after Close")
	}
	assert.NoError(t, src.Close(), "second Close is a no-op")
}
