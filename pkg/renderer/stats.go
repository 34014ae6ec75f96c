package renderer

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int // Total number of pixels rendered
	PrimaryRays     int // Camera rays traced
	ShadowRays      int // Rays cast toward lights
	ReflectionRays  int // Mirror rays traced
	MaxDepthReached int // Deepest recursion level entered by any ray
}

func newRenderStats(pixels int) RenderStats {
	return RenderStats{TotalPixels: pixels}
}

// TotalRays returns the number of rays of every kind
func (s RenderStats) TotalRays() int {
	return s.PrimaryRays + s.ShadowRays + s.ReflectionRays
}

// Merge adds other's counts into s
func (s *RenderStats) Merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.PrimaryRays += other.PrimaryRays
	s.ShadowRays += other.ShadowRays
	s.ReflectionRays += other.ReflectionRays
	s.MaxDepthReached = max(s.MaxDepthReached, other.MaxDepthReached)
}

// The counters below accept a nil receiver so that TraceRay can run without stats.

func (s *RenderStats) recordDepth(depth int) {
	if s != nil && depth > s.MaxDepthReached {
		s.MaxDepthReached = depth
	}
}

func (s *RenderStats) countShadowRay() {
	if s != nil {
		s.ShadowRays++
	}
}

func (s *RenderStats) countReflectionRay() {
	if s != nil {
		s.ReflectionRays++
	}
}
