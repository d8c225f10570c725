package fusion

import "time"

// Update merges newEvents into the session's live window, prunes events
// older than TrendWindow relative to now, recomputes the metrics snapshot
// and appends the same events to the session history.
func (s *Session) Update(now time.Time, newEvents []EmotionEvent) MetricsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.window = append(s.window, newEvents...)
	s.window = pruneWindow(s.window, now)
	s.appendHistory(newEvents)

	snap := MetricsSnapshot{
		OverallEngagement:  overallEngagement(s.window),
		EmotionIntensities: rawIntensities(s.window),
		Trend:              classifyTrend(s.window),
		AudienceSize:       s.snapshot.AudienceSize,
		UpdatedAt:          now,
	}

	// An empty window carries the previously held dominant emotion forward;
	// a fresh session starts at Silence.
	dominant, ok := dominantEmotion(snap.EmotionIntensities)
	if !ok {
		dominant = s.snapshot.DominantEmotion
	}
	snap.DominantEmotion = dominant

	s.snapshot = snap
	return cloneSnapshot(snap)
}

func pruneWindow(events []EmotionEvent, now time.Time) []EmotionEvent {
	kept := events[:0]
	for _, ev := range events {
		if now.Sub(ev.Timestamp) < TrendWindow {
			kept = append(kept, ev)
		}
	}
	return kept
}

// overallEngagement is the arithmetic mean of intensity x type weight over
// the window, 0 when the window is empty.
func overallEngagement(events []EmotionEvent) float64 {
	if len(events) == 0 {
		return 0
	}

	var sum float64
	for _, ev := range events {
		sum += ev.Intensity * engagementWeights[ev.Type]
	}
	return sum / float64(len(events))
}

func rawIntensities(events []EmotionEvent) map[EmotionType]float64 {
	intensities := make(map[EmotionType]float64, len(emotionTypes))
	for _, ev := range events {
		intensities[ev.Type] += ev.Intensity
	}
	return intensities
}

// dominantEmotion picks the type with the largest accumulated raw
// intensity. Iteration follows classifier class order with a strictly
// greater comparison, so ties keep the earlier type.
func dominantEmotion(intensities map[EmotionType]float64) (EmotionType, bool) {
	if len(intensities) == 0 {
		return Silence, false
	}

	dominant := Silence
	best := -1.0
	for _, t := range emotionTypes {
		v, ok := intensities[t]
		if !ok {
			continue
		}
		if v > best {
			dominant = t
			best = v
		}
	}
	return dominant, true
}

// classifyTrend splits the window at its list midpoint and compares the
// summed intensities of the two halves. The split is by event index, not
// by a time boundary, so bursty arrival skews which events land in which
// half.
func classifyTrend(events []EmotionEvent) Trend {
	if len(events) == 0 {
		return Stable
	}

	mid := len(events) / 2
	var firstHalf, secondHalf float64
	for _, ev := range events[:mid] {
		firstHalf += ev.Intensity
	}
	for _, ev := range events[mid:] {
		secondHalf += ev.Intensity
	}

	difference := secondHalf - firstHalf
	threshold := float64(len(events)) / 2 * trendSensitivity

	switch {
	case difference > threshold:
		return Rising
	case difference < -threshold:
		return Falling
	default:
		return Stable
	}
}
