// Command mint-token signs a session token with JWT_SECRET so PATCH
// /segments/{id} can be exercised locally.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kculafic/bikeThing/internal/auth"
)

func main() {
	subject := flag.String("sub", "local-dev", "token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	cookie := flag.String("cookie", auth.DefaultCookieName, "cookie name the server reads (TOKEN_COOKIE)")
	addr := flag.String("addr", "http://localhost:8080", "API base URL for the example request")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is not set")
		os.Exit(1)
	}

	token, err := auth.NewSigner([]byte(secret), *ttl).Sign(*subject)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sign token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "\nexample:\n")
	fmt.Fprintf(os.Stderr, "curl -X PATCH %s/segments/1 \\\n", *addr)
	fmt.Fprintf(os.Stderr, "  --cookie '%s=%s' \\\n", *cookie, token)
	fmt.Fprintf(os.Stderr, "  -H 'Content-Type: application/json' \\\n")
	fmt.Fprintf(os.Stderr, "  -d '{\"origin\":\"Moab, UT\"}'\n")
}
