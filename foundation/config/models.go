package config

type Config struct {
	Venues []Venue `json:"config"`
}

type Venue struct {
	VenueID string `json:"venue_id"`
	Shows   []Show `json:"shows"`
}

type Show struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Classifier Classifier `json:"classifier"`
	Policy     Policy     `json:"policy"`
}

type Classifier struct {
	AudioEndpoint string `json:"audio_endpoint"`
	VideoEndpoint string `json:"video_endpoint"`
	ChatEndpoint  string `json:"chat_endpoint"`
	ApiKey        string `json:"api_key"`
}

type Policy struct {
	DegradeOnFailure  bool `json:"degrade_on_failure"`
	ClassifyTimeoutMs int  `json:"classify_timeout_ms"`
	HistoryCap        int  `json:"history_cap"`
}
