// ABOUTME: Listener state shared by spatialized streams
// ABOUTME: Global volume, position and orientation of the audience
package stream

import (
	"sync"

	"github.com/Resonate-Protocol/soundstream/pkg/audio"
)

// DefaultListener is used by streams created without WithListener
var DefaultListener = NewListener()

// Listener is the point of view from which streams are heard
type Listener struct {
	mu           sync.RWMutex
	globalVolume float32
	position     audio.Vector3
	direction    audio.Vector3
	up           audio.Vector3
	velocity     audio.Vector3
}

// NewListener creates a listener at the origin facing -Z
func NewListener() *Listener {
	return &Listener{
		globalVolume: 100,
		direction:    audio.Vector3{Z: -1},
		up:           audio.Vector3{Y: 1},
	}
}

// SetGlobalVolume sets the master volume (0-100) applied to every stream
func (l *Listener) SetGlobalVolume(volume float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.globalVolume = volume
}

// GlobalVolume returns the master volume
func (l *Listener) GlobalVolume() float32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.globalVolume
}

// SetPosition sets the listener position
func (l *Listener) SetPosition(position audio.Vector3) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.position = position
}

// Position returns the listener position
func (l *Listener) Position() audio.Vector3 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.position
}

// SetDirection sets the forward vector
func (l *Listener) SetDirection(direction audio.Vector3) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.direction = direction
}

// Direction returns the forward vector
func (l *Listener) Direction() audio.Vector3 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.direction
}

// SetUpVector sets the up vector
func (l *Listener) SetUpVector(up audio.Vector3) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.up = up
}

// UpVector returns the up vector
func (l *Listener) UpVector() audio.Vector3 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.up
}

// SetVelocity sets the listener velocity
func (l *Listener) SetVelocity(velocity audio.Vector3) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.velocity = velocity
}

// Velocity returns the listener velocity
func (l *Listener) Velocity() audio.Vector3 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.velocity
}

// snapshot returns the values needed for mixing
func (l *Listener) snapshot() (volume float32, position audio.Vector3) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.globalVolume, l.position
}
