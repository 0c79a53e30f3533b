// Package config loads dayplan's configuration from the environment.
//
// A .env file in the working directory is loaded first (if present), then
// plain environment variables apply. Required values are the Gemini API key
// and the Google OAuth client credentials; everything else has defaults.
package config
