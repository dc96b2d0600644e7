package states

import (
	"github.com/aretw0/hfsm/pkg/domain"
	"github.com/aretw0/hfsm/pkg/persist"
)

// Animatable is an optional capability of leaf states that drive an external
// animation system. The runtime never interprets it; listeners query it with
// a type assertion on Event.State.
type Animatable interface {
	AnimationName() string
	AnimationTrack() int
	AnimationSpeed() float64
	// AnimationWindow returns the clip start and end, in seconds.
	AnimationWindow() (start, end float64)
	AnimationDuration() float64
}

// Animation is a Timed state carrying the parameters of a clip.
type Animation struct {
	Timed `mapstructure:",squash" yaml:",inline"`

	Clip      string  `json:"clip" yaml:"clip" mapstructure:"clip"`
	Track     int     `json:"track,omitempty" yaml:"track,omitempty" mapstructure:"track"`
	Speed     float64 `json:"speed,omitempty" yaml:"speed,omitempty" mapstructure:"speed"`
	ClipStart float64 `json:"clip_start,omitempty" yaml:"clip_start,omitempty" mapstructure:"clip_start"`
	ClipEnd   float64 `json:"clip_end,omitempty" yaml:"clip_end,omitempty" mapstructure:"clip_end"`
}

var _ Animatable = (*Animation)(nil)

func (s *Animation) TypeTag() string { return TagAnimation }

func (s *Animation) AnimationName() string { return s.Clip }

func (s *Animation) AnimationTrack() int { return s.Track }

// AnimationSpeed defaults to 1 when unset.
func (s *Animation) AnimationSpeed() float64 {
	if s.Speed == 0 {
		return 1
	}
	return s.Speed
}

func (s *Animation) AnimationWindow() (float64, float64) { return s.ClipStart, s.ClipEnd }

func (s *Animation) AnimationDuration() float64 { return s.Duration }

func (s *Animation) WritePayload(w *persist.Writer) {
	s.Timed.WritePayload(w)
	w.PutString(s.Clip)
	w.PutInt(s.Track)
	w.PutFloat(s.Speed)
	w.PutFloat(s.ClipStart)
	w.PutFloat(s.ClipEnd)
}

func (s *Animation) ReadPayload(r *persist.Reader) {
	s.Timed.ReadPayload(r)
	s.Clip = r.ReadString()
	s.Track = r.ReadInt()
	s.Speed = r.ReadFloat()
	s.ClipStart = r.ReadFloat()
	s.ClipEnd = r.ReadFloat()
}

// AnimationOf returns the animation capability of a leaf state, if any.
func AnimationOf(s domain.LeafState) (Animatable, bool) {
	a, ok := s.(Animatable)
	return a, ok
}
