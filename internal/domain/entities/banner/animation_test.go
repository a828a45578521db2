package banner

import "testing"

func TestComposeMotion(t *testing.T) {
	tests := []struct {
		style      AnimationStyle
		initial    Frame
		easing     Easing
		duration   float64
		continuous bool
	}{
		{AnimationFade, Frame{Opacity: 0, Scale: 1}, EasingEaseOut, 0.8, false},
		{AnimationSlide, Frame{Opacity: 0, X: -50, Scale: 1}, EasingEaseOut, 0.8, false},
		{AnimationZoom, Frame{Opacity: 0, Scale: 0.5}, EasingEaseOut, 0.8, false},
		{AnimationBounce, Frame{Opacity: 1, Y: -50, Scale: 1}, EasingSpring, 0.8, false},
		{AnimationPulse, Frame{Opacity: 1, Scale: 1}, EasingEaseInOut, 1.6, true},
		{AnimationNone, Frame{Opacity: 1, Scale: 1}, EasingNone, 0, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.style), func(t *testing.T) {
			m := ComposeMotion(tt.style, 0, 0.8)
			if m.Initial != tt.initial {
				t.Fatalf("initial = %+v, want %+v", m.Initial, tt.initial)
			}
			if m.Animate != (Frame{Opacity: 1, Scale: 1}) {
				t.Fatalf("animate = %+v, want rest", m.Animate)
			}
			if m.Transition.Easing != tt.easing {
				t.Fatalf("easing = %s, want %s", m.Transition.Easing, tt.easing)
			}
			if m.Transition.Duration != tt.duration {
				t.Fatalf("duration = %v, want %v", m.Transition.Duration, tt.duration)
			}
			if m.Continuous != tt.continuous || m.Transition.Repeat != tt.continuous {
				t.Fatalf("continuous = %v repeat = %v, want %v", m.Continuous, m.Transition.Repeat, tt.continuous)
			}
		})
	}
}

func TestComposePulseKeyframes(t *testing.T) {
	m := ComposeMotion(AnimationPulse, 0.5, 1)
	if m.Keyframes == nil {
		t.Fatal("expected keyframes for pulse")
	}
	want := []float64{1, 0.7, 1}
	for i, v := range want {
		if m.Keyframes.Opacity[i] != v {
			t.Fatalf("opacity keyframes = %v, want %v", m.Keyframes.Opacity, want)
		}
	}
	if m.Keyframes.Scale[1] != 1.05 {
		t.Fatalf("scale keyframes = %v", m.Keyframes.Scale)
	}
	if m.Transition.Delay != 0.5 || m.Transition.Duration != 2 {
		t.Fatalf("unexpected transition %+v", m.Transition)
	}
}

func TestUnknownStyleFallsBackToFade(t *testing.T) {
	m := ComposeMotion(AnimationStyle("wobble"), 0, 1)
	if m.Style != AnimationFade || m.Initial.Opacity != 0 {
		t.Fatalf("expected fade fallback, got %+v", m)
	}
}

func TestMotionSettingsDefaults(t *testing.T) {
	m := MotionSettings{}.Compose()
	if m.Style != AnimationFade {
		t.Fatalf("expected default style fade, got %s", m.Style)
	}
	if m.Transition.Delay != DefaultAnimationDelay || m.Transition.Duration != DefaultAnimationDuration {
		t.Fatalf("unexpected default timing %+v", m.Transition)
	}

	style := AnimationZoom
	m = MotionSettings{Style: &style, Delay: ptr(1.5), Duration: ptr(2.0)}.Compose()
	if m.Style != AnimationZoom || m.Transition.Delay != 1.5 || m.Transition.Duration != 2 {
		t.Fatalf("explicit settings ignored: %+v", m)
	}
}
