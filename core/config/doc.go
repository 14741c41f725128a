// Package config provides configuration management for the service.
//
// It loads an optional .env file with godotenv and then reads environment
// variables through Viper. Defaults come from the `default` struct tags of
// each section, so every key is known to Viper before env binding.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key and timeouts
//   - Database: driver (mysql, postgres, sqlite) and connection details
//   - Storage: S3/MinIO credentials and the journal bucket
//   - Log: level, format and optional rotated file
//   - Persistence: batch insert size and snapshot copier
//   - Journal: record sink (log, object, none) and key prefix
//
// Nested keys map to upper case env names joined by underscores, for example
// PERSISTENCE_BATCH_SIZE or DATABASE_DRIVER.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
