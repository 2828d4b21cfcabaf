package player

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/olivier-w/oscilloview/internal/oscillo"
)

func pcm(samples ...int16) []byte {
	b := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(b[i*2:], uint16(s))
	}
	return b
}

// chunkReader returns at most n bytes per Read.
type chunkReader struct {
	r io.Reader
	n int
}

func (c *chunkReader) Read(p []byte) (int, error) {
	return c.r.Read(p[:min(len(p), c.n)])
}

func lastSample(t *oscillo.ChannelTrace) int16 {
	return t.Samples[oscillo.SampleCount-1]
}

func writeWAV(t *testing.T, bitDepth, channels, rate int, data []int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating wav: %v", err)
	}
	enc := wav.NewEncoder(f, rate, bitDepth, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("writing wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("closing encoder: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("closing wav: %v", err)
	}
	return path
}

func TestTapSplitsStereoIntoTraces(t *testing.T) {
	ex := oscillo.NewExchange()
	src := pcm(1000, -1000, 3000, 1000)
	tp := newTap(bytes.NewReader(src), 2, ex)

	out := make([]byte, len(src))
	n, err := tp.Read(out)
	if err != nil || n != len(src) {
		t.Fatalf("expected %d bytes, got %d (%v)", len(src), n, err)
	}
	if !bytes.Equal(out, src) {
		t.Fatal("expected pcm to pass through unchanged")
	}
	if got := tp.Pos(); got != int64(len(src)) {
		t.Fatalf("expected position %d, got %d", len(src), got)
	}

	var snap oscillo.Snapshot
	if _, fresh := ex.TryConsume(&snap); !fresh {
		t.Fatal("expected a published snapshot")
	}
	want := map[int][2]int16{
		TraceLeft:  {1000, 3000},
		TraceRight: {-1000, 1000},
		TraceMid:   {0, 2000},
		TraceSide:  {1000, 1000},
	}
	for i, w := range want {
		s := snap[i].Samples
		if s[oscillo.SampleCount-2] != w[0] || s[oscillo.SampleCount-1] != w[1] {
			t.Fatalf("trace %d: expected %v, got [%d %d]", i, w, s[oscillo.SampleCount-2], s[oscillo.SampleCount-1])
		}
	}
	if snap[TraceCount].Samples != ([oscillo.SampleCount]int16{}) {
		t.Fatal("expected channels past the file traces to stay silent")
	}
}

func TestTapCarriesPartialFrames(t *testing.T) {
	ex := oscillo.NewExchange()
	tp := newTap(&chunkReader{r: bytes.NewReader(pcm(100, 200, 300, 400)), n: 3}, 2, ex)

	buf := make([]byte, 64)
	for {
		if _, err := tp.Read(buf); err == io.EOF {
			break
		}
	}

	var snap oscillo.Snapshot
	ex.TryConsume(&snap)
	l, r := snap[TraceLeft].Samples, snap[TraceRight].Samples
	if l[oscillo.SampleCount-2] != 100 || l[oscillo.SampleCount-1] != 300 {
		t.Fatalf("expected left 100,300 got %d,%d", l[oscillo.SampleCount-2], l[oscillo.SampleCount-1])
	}
	if r[oscillo.SampleCount-2] != 200 || r[oscillo.SampleCount-1] != 400 {
		t.Fatalf("expected right 200,400 got %d,%d", r[oscillo.SampleCount-2], r[oscillo.SampleCount-1])
	}
}

func TestTapMonoFeedsBothSides(t *testing.T) {
	ex := oscillo.NewExchange()
	tp := newTap(bytes.NewReader(pcm(-50, 700)), 1, ex)
	tp.Read(make([]byte, 4))

	var snap oscillo.Snapshot
	ex.TryConsume(&snap)
	if lastSample(&snap[TraceLeft]) != 700 || lastSample(&snap[TraceRight]) != 700 {
		t.Fatal("expected mono sample on left and right")
	}
	if lastSample(&snap[TraceMid]) != 700 || lastSample(&snap[TraceSide]) != 0 {
		t.Fatalf("expected mid 700 side 0, got %d %d", lastSample(&snap[TraceMid]), lastSample(&snap[TraceSide]))
	}
}

func TestTapOffsetCountsFromRisingCrossing(t *testing.T) {
	ex := oscillo.NewExchange()
	tp := newTap(bytes.NewReader(pcm(-10, -5, 20, 30, 10, 5)), 1, ex)
	tp.Read(make([]byte, 12))

	var snap oscillo.Snapshot
	ex.TryConsume(&snap)
	if got := snap[TraceLeft].Displacement(); got != 3 {
		t.Fatalf("expected displacement 3 after the crossing, got %d", got)
	}
}

func TestClampSeekOffsetClampsAndAligns(t *testing.T) {
	if got := clampSeekOffset(39, io.SeekStart, 0, 41, 4); got != 36 {
		t.Fatalf("expected aligned offset 36, got %d", got)
	}
	if got := clampSeekOffset(-100, io.SeekCurrent, 8, 41, 4); got != 0 {
		t.Fatalf("expected negative seek to clamp to 0, got %d", got)
	}
	if got := clampSeekOffset(10, io.SeekEnd, 0, 40, 4); got != 40 {
		t.Fatalf("expected seek past end to clamp to 40, got %d", got)
	}
}

func TestWAVDecoderConverts24BitTo16Bit(t *testing.T) {
	path := writeWAV(t, 24, 2, 8000, []int{0x123456, -0x100000, 256, -256})
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	dec, err := newDecoder(f)
	if err != nil {
		t.Fatalf("opening decoder: %v", err)
	}
	if dec.SampleRate() != 8000 || dec.ChannelCount() != 2 {
		t.Fatalf("expected 8000 Hz stereo, got %d Hz x%d", dec.SampleRate(), dec.ChannelCount())
	}
	if dec.Length() != 8 {
		t.Fatalf("expected 8 output bytes, got %d", dec.Length())
	}

	got, err := io.ReadAll(dec)
	if err != nil {
		t.Fatalf("reading: %v", err)
	}
	if want := pcm(0x1234, -0x1000, 1, -1); !bytes.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if pos, err := dec.Seek(6, io.SeekStart); err != nil || pos != 4 {
		t.Fatalf("expected seek to align to 4, got %d (%v)", pos, err)
	}
	rest, _ := io.ReadAll(dec)
	if !bytes.Equal(rest, pcm(1, -1)) {
		t.Fatalf("expected second frame after seek, got %v", rest)
	}
}

func TestNewRejectsUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.m4a")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := New(path, oscillo.NewExchange(), true)
	if err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestMutedPlayerPublishesAndFinishes(t *testing.T) {
	const rate = 8000
	data := make([]int, rate/20*2) // 50 ms stereo
	for i := range data {
		data[i] = (i%40 - 20) * 500
	}
	path := writeWAV(t, 16, 2, rate, data)

	ex := oscillo.NewExchange()
	p, err := New(path, ex, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	if p.Title() != "tone" {
		t.Fatalf("expected title from file name, got %q", p.Title())
	}

	select {
	case <-p.Done():
	case <-time.After(3 * time.Second):
		t.Fatal("expected playback to finish")
	}
	if ex.Stats().Published == 0 {
		t.Fatal("expected the tap to publish snapshots")
	}
	if got := p.Status(); got != "0:00 / 0:00" {
		t.Fatalf("expected short status, got %q", got)
	}

	if err := p.Restart(); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	select {
	case <-p.Done():
	case <-time.After(3 * time.Second):
		t.Fatal("expected restarted playback to finish")
	}
}

func TestTogglePauseOnMutedPlayer(t *testing.T) {
	path := writeWAV(t, 16, 1, 8000, make([]int, 8000))
	p, err := New(path, oscillo.NewExchange(), true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.TogglePause()
	if !p.Paused() {
		t.Fatal("expected paused after toggle")
	}
	p.TogglePause()
	if p.Paused() {
		t.Fatal("expected playing after second toggle")
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
