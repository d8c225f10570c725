package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// GetShow loads the venue configuration file and returns the named show's
// entry.
func GetShow(configPath string, showID string) (Show, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return Show{}, err
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Show{}, err
	}

	var config Config

	if err := json.Unmarshal(bytes, &config); err != nil {
		return Show{}, err
	}
	show, exists := showExists(config.Venues, showID)
	if !exists {
		return Show{}, fmt.Errorf("show[%s] does not exist", showID)
	}

	return show, nil
}

func GetShowName(s Show) string {
	return s.Name
}

func GetClassifierEndpoint(s Show, channel string) string {
	switch channel {
	case "audio":
		return s.Classifier.AudioEndpoint

	case "video":
		return s.Classifier.VideoEndpoint

	case "chat":
		return s.Classifier.ChatEndpoint
	}
	return ""
}

func GetClassifierApiKey(s Show) string {
	return s.Classifier.ApiKey
}

func IsDegradeEnabled(s Show) bool {
	return s.Policy.DegradeOnFailure
}

func GetClassifyTimeout(s Show) time.Duration {
	return time.Duration(s.Policy.ClassifyTimeoutMs) * time.Millisecond
}

func GetHistoryCap(s Show) int {
	return s.Policy.HistoryCap
}

func showExists(venues []Venue, showID string) (Show, bool) {
	for _, v := range venues {
		for _, show := range v.Shows {
			if show.ID == showID {
				return show, true
			}
		}
	}
	return Show{}, false
}
