package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RequireString 读取必填的环境变量，缺失时 panic
func RequireString(key string) string {
	val, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(val) == "" {
		panic(fmt.Sprintf("environment variable %q is required", key))
	}
	return val
}

// String returns the value of key, or def when it is unset or empty.
func String(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func Int(key string, def int) int {
	val, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return val
}

func Bool(key string, def bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	}
	return def
}

func Duration(key string, def time.Duration) time.Duration {
	val, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return def
	}
	return val
}

// List splits a comma separated value, dropping empty items.
func List(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
