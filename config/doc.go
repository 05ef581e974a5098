// Package config loads service configuration with Viper.
//
// LoadConfig reads config.yml from the standard locations (cmd/<service>,
// config, the working directory and its parents), loads an optional .env file
// with godotenv and lets environment variables override any key:
//
//	var cfg AppConfig
//	if err := config.LoadConfig("greeter", &cfg); err != nil {
//	    return err
//	}
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// ServiceConfig carries the sections shared by every service: identity,
// logging, container discovery and telemetry.
package config
