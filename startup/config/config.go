package config

import "os"

type Config struct {
	Port          string
	MongoURI      string
	MongoDBName   string
	SecretKey     string
	JaegerAddress string
	LogFile       string
}

func NewConfig() *Config {
	config := &Config{
		Port:          os.Getenv("PORT"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDBName:   os.Getenv("DB_NAME"),
		SecretKey:     os.Getenv("SECRET_KEY"),
		JaegerAddress: os.Getenv("JAEGER_ADDRESS"),
		LogFile:       os.Getenv("LOG_FILE"),
	}
	if config.Port == "" {
		config.Port = "3000"
	}
	if config.MongoDBName == "" {
		config.MongoDBName = "houseHunter"
	}
	return config
}
