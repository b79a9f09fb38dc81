package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env (and ENV_FILE if set) into the process environment.
// Variables already present in the environment win.
func LoadEnv() {
	files := []string{".env"}
	if f := os.Getenv("ENV_FILE"); f != "" {
		files = append([]string{f}, files...)
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			log.Printf("load %s: %v", f, err)
		}
	}
}

func Get(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func GetInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return def
}

func GetBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return def
}

// GetList splits a comma separated variable, dropping empty entries.
func GetList(key string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(key), ",") {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
