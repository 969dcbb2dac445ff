package eventkit

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// envVarMap overlays the process environment when running a handler locally
// with environment variables fetched from the deployed function (local.go)
var envVarMap = map[string]string{}

// GetEnv reads an environment variable, preferring the local-run overlay
func GetEnv(key string) string {
	if val, found := envVarMap[key]; found {
		return val
	}
	return os.Getenv(key)
}

func MustGetEnv(key string) string {
	val := GetEnv(key)
	if strings.TrimSpace(val) == "" {
		panic(fmt.Errorf("environment variable for '%s' has not been set", key))
	}
	return val
}

func MustGetEnvInt(key string) int {
	v := MustGetEnv(key)
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(err)
	}
	return i
}

func MustGetEnvBool(key string) bool {
	v := MustGetEnv(key)
	b, err := strconv.ParseBool(v)
	if err != nil {
		panic(err)
	}
	return b
}

func MustGetEnvFloat(key string) float64 {
	v := MustGetEnv(key)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		panic(err)
	}
	return f
}

// MustGetEnvMap reads a JSON object of strings from an environment variable
func MustGetEnvMap(key string) map[string]string {
	var result map[string]string
	val := MustGetEnv(key)
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		panic(fmt.Errorf("failed to unmarshal environment variable %s: %w", key, err))
	}
	return result
}
