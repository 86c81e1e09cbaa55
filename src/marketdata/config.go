package marketdata

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	BinanceBaseURL string `envconfig:"BINANCE_BASE_URL" default:"https://api.binance.com"`
	FinnhubBaseURL string `envconfig:"FINNHUB_BASE_URL" default:"https://finnhub.io/api/v1"`
	FinnhubAPIKey  string `envconfig:"FINNHUB_API_KEY"`
	TopCryptoLimit int    `envconfig:"TOP_CRYPTO_LIMIT" default:"50"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
