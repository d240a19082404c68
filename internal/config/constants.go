// internal/config/constants.go
package config

import "time"

// アプリケーション情報
const (
	AppName    = "revocab"
	AppVersion = "1.0.0"
)

// デフォルト設定値
const (
	DefaultServerPort       = ":8080"
	DefaultLogLevel         = "info"
	DefaultSessionTTL       = 2 * time.Hour
	DefaultAccessTokenTTL   = 24 * time.Hour
	DefaultExtractorTimeout = 60 * time.Second
)
