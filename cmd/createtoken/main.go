package main

import (
	"fmt"
	"log"
	"os"

	"bluemark.com/bluemark/core/attendance"
	"bluemark.com/bluemark/security"
)

// Mints a session token for manual API testing. The base64 signing secret
// comes from BLUEMARK_SIGNING_SECRET.
func main() {
	secret := os.Getenv("BLUEMARK_SIGNING_SECRET")
	if secret == "" {
		log.Fatal("BLUEMARK_SIGNING_SECRET not set")
	}

	user := attendance.User{
		ID:         "adm001",
		Name:       "Sarah Smith",
		Email:      "admin@bluemark.com",
		Role:       attendance.RoleAdmin,
		Department: "Human Resources",
	}

	token, err := security.CreateSessionToken(user, secret, 3600)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(token)
}
