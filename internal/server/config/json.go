package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/tickethub/internal/flagx"
	"github.com/dmitrijs2005/tickethub/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "1h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	MongoURI                    string         `json:"mongo_uri"`
	MongoDatabase               string         `json:"mongo_database"`
	MongoCollection             string         `json:"mongo_collection"`
	RedisAddr                   string         `json:"redis_addr"`
	RedisDB                     int            `json:"redis_db"`
	CacheKeyPrefix              string         `json:"cache_key_prefix"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	ResetTokenValidityDuration  timex.Duration `json:"reset_token_validity_duration"`
	CacheTTL                    timex.Duration `json:"cache_ttl"`
	BcryptCost                  int            `json:"bcrypt_cost"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path is taken from the -c or -config command-line flags; if
// neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
//
// The caller is expected to merge these values with defaults and
// command-line flags as part of the full configuration process.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.MongoURI = c.MongoURI
	config.MongoDatabase = c.MongoDatabase
	config.MongoCollection = c.MongoCollection
	config.RedisAddr = c.RedisAddr
	config.RedisDB = c.RedisDB
	config.CacheKeyPrefix = c.CacheKeyPrefix
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	config.ResetTokenValidityDuration = time.Duration(c.ResetTokenValidityDuration.Duration)
	config.CacheTTL = time.Duration(c.CacheTTL.Duration)
	config.BcryptCost = c.BcryptCost
}
