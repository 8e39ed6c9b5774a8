package config

import "os"

const (
	graphAPIBaseURLEnv    = "GRAPH_API_BASE_URL"
	linkedinAPIBaseURLEnv = "LINKEDIN_API_BASE_URL"

	defaultGraphAPIBaseURL    = "https://graph.facebook.com/v21.0"
	defaultLinkedInAPIBaseURL = "https://api.linkedin.com"
)

type PlatformConfig struct {
	GraphAPIBaseURL    string
	LinkedInAPIBaseURL string
}

func LoadPlatformConfig() *PlatformConfig {
	graphURL := os.Getenv(graphAPIBaseURLEnv)
	if graphURL == "" {
		graphURL = defaultGraphAPIBaseURL
	}

	linkedinURL := os.Getenv(linkedinAPIBaseURLEnv)
	if linkedinURL == "" {
		linkedinURL = defaultLinkedInAPIBaseURL
	}

	return &PlatformConfig{
		GraphAPIBaseURL:    graphURL,
		LinkedInAPIBaseURL: linkedinURL,
	}
}
