package config

import (
	"encoding/json"
	"os"

	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/flagx"
	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations can
// be given as strings like "1s" or as integer nanoseconds; fields absent
// from the file leave the current Config values in place.
type JsonConfig struct {
	BaseURL        *string         `json:"base_url"`
	CredentialsDSN *string         `json:"credentials_db"`
	RedisAddr      *string         `json:"redis_addr"`
	RedisDB        *int            `json:"redis_db"`
	WatchInterval  *timex.Duration `json:"watch_interval"`
	InitFloor      *timex.Duration `json:"init_floor"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// the -c/-config flags. No flag means no JSON layer. Read or unmarshal
// failures panic; configuration is resolved once at startup.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BaseURL != nil {
		cfg.BaseURL = *jc.BaseURL
	}
	if jc.CredentialsDSN != nil {
		cfg.CredentialsDSN = *jc.CredentialsDSN
	}
	if jc.RedisAddr != nil {
		cfg.RedisAddr = *jc.RedisAddr
	}
	if jc.RedisDB != nil {
		cfg.RedisDB = *jc.RedisDB
	}
	if jc.WatchInterval != nil {
		cfg.WatchInterval = jc.WatchInterval.Duration
	}
	if jc.InitFloor != nil {
		cfg.InitFloor = jc.InitFloor.Duration
	}
}
