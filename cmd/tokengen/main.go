// Package main provides a CLI tool for generating test session tokens for the
// suratdesa API. These tokens use the dev signing key and will NOT work in
// production.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"suratdesa/internal/auth"
	id "suratdesa/pkg/domain"
)

const (
	// Dev signing key - matches config.go when JWT_SIGNING_KEY is not set
	devSigningKey = "dev-secret-key-change-in-production"

	defaultTokenTTL = 24 * time.Hour
)

type tokenOutput struct {
	Token     string            `json:"token"`
	Role      string            `json:"role"`
	ExpiresIn string            `json:"expires_in"`
	Usage     map[string]string `json:"usage"`
}

func main() {
	roleName := flag.String("role", "applicant", "Role: applicant, tier1_verifier, tier2_verifier, or admin")
	userID := flag.String("user-id", "", "User ID (UUID). Generated if empty.")
	nationalID := flag.String("national-id", "3174012345678901", "Applicant national ID (16 digits)")
	unit := flag.String("unit", "RW-05", "Neighborhood unit scope")
	subUnit := flag.String("sub-unit", "RT-02", "Neighborhood sub-unit scope (ignored for tier-2 verifiers)")
	signingKey := flag.String("signing-key", devSigningKey, "HMAC signing key; must match the server's JWT_SIGNING_KEY")
	ttl := flag.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	asJSON := flag.Bool("json", false, "Output as JSON")
	flag.Parse()

	role, err := auth.RoleByName(*roleName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unknown role %q; valid roles: applicant, tier1_verifier, tier2_verifier, admin\n", *roleName)
		os.Exit(1)
	}

	actorID := id.NewUserID()
	if *userID != "" {
		actorID, err = id.ParseUserID(*userID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid user ID: %v\n", err)
			os.Exit(1)
		}
	}

	session := auth.Session{
		UserID:     actorID,
		NationalID: id.NationalID(*nationalID),
		Role:       role,
		Scope:      auth.Scope{Unit: *unit, SubUnit: *subUnit},
	}
	if role.Can(auth.CapDecideTier2) {
		session.Scope.SubUnit = ""
	}
	if !role.Can(auth.CapSubmitLetter) {
		session.NationalID = ""
	}

	tokens := auth.NewTokenService(*signingKey, *ttl)
	token, err := tokens.Issue(session, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to sign token: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		out := tokenOutput{
			Token:     token,
			Role:      role.Name(),
			ExpiresIn: ttl.String(),
			Usage: map[string]string{
				"curl": fmt.Sprintf(`curl -H "Authorization: Bearer %s" http://localhost:8080/api/v1/letters`, token),
			},
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
		return
	}

	fmt.Println("WARNING: dev token; will not work against a production signing key.")
	fmt.Println()
	fmt.Printf("Role:    %s\n", role.Name())
	fmt.Printf("User ID: %s\n", actorID.String())
	fmt.Printf("Scope:   unit=%s sub_unit=%s\n", session.Scope.Unit, session.Scope.SubUnit)
	fmt.Printf("Expires: %s\n", ttl.String())
	fmt.Println()
	fmt.Println(token)
}
