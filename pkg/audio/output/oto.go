// ABOUTME: Oto-based audio output implementation
// ABOUTME: Streams 16-bit PCM to the default device through a pipe-fed oto player
package output

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/rs/zerolog/log"
)

var (
	// oto allows a single context per process
	otoOnce    sync.Once
	otoCtx     *oto.Context
	otoErr     error
	otoRate    int
	otoChannel int
)

// Oto output implementation using oto library
type Oto struct {
	player     *oto.Player
	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter
	buf        []byte
	sampleRate int
	channels   int
	ready      bool
}

// NewOto creates a new Oto output
func NewOto() Output {
	return &Oto{}
}

func sharedContext(sampleRate, channels int) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   50 * time.Millisecond,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			otoErr = fmt.Errorf("failed to create oto context: %w", err)
			return
		}
		<-readyChan

		otoCtx = ctx
		otoRate = sampleRate
		otoChannel = channels
	})

	if otoErr != nil {
		return nil, otoErr
	}

	if otoRate != sampleRate || otoChannel != channels {
		return nil, fmt.Errorf("oto context already initialized as %dHz %dch, cannot open %dHz %dch",
			otoRate, otoChannel, sampleRate, channels)
	}

	return otoCtx, nil
}

// Open initializes the output device
func (o *Oto) Open(sampleRate, channels int) error {
	if o.ready {
		if o.sampleRate == sampleRate && o.channels == channels {
			return nil
		}
		return fmt.Errorf("output already open as %dHz %dch", o.sampleRate, o.channels)
	}

	ctx, err := sharedContext(sampleRate, channels)
	if err != nil {
		return err
	}

	if err := ctx.Resume(); err != nil {
		return fmt.Errorf("failed to resume oto context: %w", err)
	}

	o.sampleRate = sampleRate
	o.channels = channels

	// Persistent player fed by a pipe for continuous streaming
	o.pipeReader, o.pipeWriter = io.Pipe()
	o.player = ctx.NewPlayer(o.pipeReader)
	o.player.Play()

	o.ready = true

	log.Debug().Int("sample_rate", sampleRate).Int("channels", channels).Msg("oto output opened")

	return nil
}

// Write outputs audio samples (blocks until written)
func (o *Oto) Write(samples []int16) error {
	if !o.ready {
		return ErrNotOpen
	}

	if cap(o.buf) < len(samples)*2 {
		o.buf = make([]byte, len(samples)*2)
	}
	out := o.buf[:len(samples)*2]
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(sample))
	}

	if _, err := o.pipeWriter.Write(out); err != nil {
		return fmt.Errorf("pipe write failed: %w", err)
	}

	return nil
}

// Close releases output resources
func (o *Oto) Close() error {
	if o.pipeWriter != nil {
		o.pipeWriter.Close()
		o.pipeWriter = nil
	}
	var err error
	if o.player != nil {
		err = o.player.Close()
		o.player = nil
	}
	if o.pipeReader != nil {
		o.pipeReader.Close()
		o.pipeReader = nil
	}
	o.ready = false
	return err
}
