package utils

import (
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// LoadConfig reads the .env file (when present) into the process environment
// and points viper at it so flags, env vars and the file share one namespace.
func LoadConfig(path string) {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("[CONFIG] no .env file loaded: %v", err)
	}

	viper.AddConfigPath(path)
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debugf("[CONFIG] viper read skipped: %v", err)
	}
}
