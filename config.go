package thehive

import "github.com/spf13/viper"

func setDefaults() {
	viper.SetEnvPrefix("thehive")
	viper.AutomaticEnv()
	viper.SetDefault("url", "http://localhost:9000")
	viper.SetDefault("apikey", "")
	viper.SetDefault("organisation", "")
}

// ConfigFromEnv builds a Config from THEHIVE_URL, THEHIVE_APIKEY and
// THEHIVE_ORGANISATION, falling back to defaults for a local instance.
func ConfigFromEnv() Config {
	setDefaults()
	return Config{
		URL:          viper.GetString("url"),
		APIKey:       viper.GetString("apikey"),
		Organisation: viper.GetString("organisation"),
	}
}
