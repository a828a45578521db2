package banner

// AnimationStyle enumerates the entry/continuous motion presets.
type AnimationStyle string

const (
	AnimationFade   AnimationStyle = "fade"
	AnimationSlide  AnimationStyle = "slide"
	AnimationZoom   AnimationStyle = "zoom"
	AnimationBounce AnimationStyle = "bounce"
	AnimationPulse  AnimationStyle = "pulse"
	AnimationNone   AnimationStyle = "none"
)

const (
	DefaultAnimationDelay    = 0.0
	DefaultAnimationDuration = 0.8
)

// ParseAnimationStyle resolves unknown or empty styles to fade.
func ParseAnimationStyle(s string) AnimationStyle {
	switch style := AnimationStyle(s); style {
	case AnimationFade, AnimationSlide, AnimationZoom, AnimationBounce, AnimationPulse, AnimationNone:
		return style
	default:
		return AnimationFade
	}
}

// Easing names the timing curve of a transition.
type Easing string

const (
	EasingNone      Easing = "none"
	EasingEaseOut   Easing = "easeOut"
	EasingEaseInOut Easing = "easeInOut"
	EasingSpring    Easing = "spring"
)

// Frame is one motion state. X and Y are pixel offsets.
type Frame struct {
	Opacity float64 `json:"opacity"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Scale   float64 `json:"scale"`
}

// Keyframes drives continuous oscillation.
type Keyframes struct {
	Opacity []float64 `json:"opacity"`
	Scale   []float64 `json:"scale"`
}

// Transition times a motion. Duration is the length of one cycle for repeating motion.
type Transition struct {
	Delay    float64 `json:"delay"`
	Duration float64 `json:"duration"`
	Easing   Easing  `json:"easing"`
	Repeat   bool    `json:"repeat"`
}

// Motion is the declarative descriptor the renderer plays.
type Motion struct {
	Style      AnimationStyle `json:"style"`
	Initial    Frame          `json:"initial"`
	Animate    Frame          `json:"animate"`
	Keyframes  *Keyframes     `json:"keyframes,omitempty"`
	Transition Transition     `json:"transition"`
	Continuous bool           `json:"continuous"`
}

var rest = Frame{Opacity: 1, Scale: 1}

// ComposeMotion maps a style and timing to a descriptor. Inputs are assumed to be in range.
func ComposeMotion(style AnimationStyle, delay, duration float64) Motion {
	m := Motion{
		Style:      ParseAnimationStyle(string(style)),
		Initial:    rest,
		Animate:    rest,
		Transition: Transition{Delay: delay, Duration: duration, Easing: EasingEaseOut},
	}

	switch m.Style {
	case AnimationSlide:
		m.Initial = Frame{Opacity: 0, X: -50, Scale: 1}
	case AnimationZoom:
		m.Initial = Frame{Opacity: 0, Scale: 0.5}
	case AnimationBounce:
		m.Initial = Frame{Opacity: 1, Y: -50, Scale: 1}
		m.Transition.Easing = EasingSpring
	case AnimationPulse:
		m.Keyframes = &Keyframes{
			Opacity: []float64{1, 0.7, 1},
			Scale:   []float64{1, 1.05, 1},
		}
		m.Transition.Duration = duration * 2
		m.Transition.Easing = EasingEaseInOut
		m.Transition.Repeat = true
		m.Continuous = true
	case AnimationNone:
		m.Transition = Transition{Easing: EasingNone}
	default:
		m.Initial = Frame{Opacity: 0, Scale: 1}
	}
	return m
}

// Compose applies the element defaults and builds the descriptor.
func (s MotionSettings) Compose() Motion {
	style := AnimationFade
	if s.Style != nil {
		style = *s.Style
	}
	return ComposeMotion(style, orDefault(s.Delay, DefaultAnimationDelay), orDefault(s.Duration, DefaultAnimationDuration))
}
