package showgate

type AuthorizationData struct {
	ApiKey string `json:"api_key"`
}

type ShowData struct {
	ShowID   string `json:"show_id"`
	ShowName string `json:"show_name"`
}

type SnapshotData struct {
	ShowID             string             `json:"show_id"`
	SessionID          string             `json:"session_id"`
	OverallEngagement  float64            `json:"overall_engagement"`
	DominantEmotion    string             `json:"dominant_emotion"`
	EmotionIntensities map[string]float64 `json:"emotion_intensities"`
	Trend              string             `json:"trend"`
	AudienceSize       int                `json:"audience_size"`
}

type DecisionData struct {
	ShowID       string  `json:"show_id"`
	SessionID    string  `json:"session_id"`
	AdjustTiming bool    `json:"adjust_timing"`
	Laughter     float64 `json:"laughter_intensity"`
}
