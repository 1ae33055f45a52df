// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/armaan-gp-school/ossf-scada/internal/vault"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	encKey := strings.TrimSpace(os.Getenv("SMS_ENCRYPTION_KEY"))
	if encKey == "" {
		encKey = strings.TrimSpace(os.Getenv("ENCRYPTION_KEY"))
	}
	admin := strings.TrimSpace(os.Getenv("ADMIN_API_KEYS"))
	pub := strings.TrimSpace(os.Getenv("PUBLIC_API_KEYS"))
	apiAddr := strings.TrimSpace(os.Getenv("API_ADDR"))
	db := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	redisAddr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	registryURL := strings.TrimSpace(os.Getenv("REGISTRY_BASE_URL"))
	registryToken := strings.TrimSpace(os.Getenv("REGISTRY_TOKEN"))
	allowed := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS"))

	// The app password vault must not run on its built-in developer key in a
	// real deployment.
	if encKey == "" {
		fail("SMS_ENCRYPTION_KEY is empty (stored app passwords would use the insecure built-in key).")
	}
	if encKey == vault.DefaultPassphrase {
		fail("SMS_ENCRYPTION_KEY equals the built-in developer key; set a real one.")
	}
	ok("SMS_ENCRYPTION_KEY present")

	if admin == "" {
		fail("ADMIN_API_KEYS is empty (admin routes will 403).")
	}
	if pub == "" {
		fail("PUBLIC_API_KEYS is empty (read routes will 401).")
	}

	// Normalize and sanity-check lists (no spaces around commas).
	for name, v := range map[string]string{"ADMIN_API_KEYS": admin, "PUBLIC_API_KEYS": pub} {
		if strings.Contains(v, " ") {
			warn(name + " contains spaces; use comma-separated with no spaces, e.g. key1,key2")
		}
	}

	if registryURL == "" {
		fail("REGISTRY_BASE_URL is empty — no device registry to read properties from.")
	}
	ok("REGISTRY_BASE_URL=" + registryURL)
	if registryToken == "" {
		warn("REGISTRY_TOKEN empty — registry requests will be unauthenticated.")
	}

	if apiAddr == "" {
		warn("API_ADDR is empty; the app default will be used.")
	} else {
		ok("API_ADDR=" + apiAddr)
	}

	if db == "" {
		warn("DATABASE_URL empty — devices, thresholds, and SMS settings live in memory and vanish on restart.")
	} else {
		ok("DATABASE_URL present")
	}

	if redisAddr == "" {
		warn("REDIS_ADDR empty — alert markers stay local; duplicate texts possible if you run more than one instance.")
	} else {
		ok("REDIS_ADDR=" + redisAddr)
	}

	if allowed == "" {
		warn("ALLOWED_ORIGINS empty — CORS is wide open; set an explicit origin list for production.")
	} else {
		ok("ALLOWED_ORIGINS=" + allowed)
	}

	ok("preflight passed")
}
