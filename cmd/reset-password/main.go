package main

import (
	"log"
	"os"

	"go-resale-pos/internal/repository"
	"go-resale-pos/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Resets the operator password from the command line when the operator is
// locked out. Usage: reset-password <email> <new-password>
func main() {
	if len(os.Args) != 3 {
		log.Fatal("Usage: reset-password <email> <new-password>")
	}
	email := os.Args[1]
	newPassword := os.Args[2]

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	db := database.ConnectDB()
	userRepo := repository.NewUserRepo(db)

	user, err := userRepo.FindByEmail(email)
	if err != nil {
		log.Fatalf("❌ User %s not found in database: %v", email, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}

	if err := userRepo.UpdatePassword(user.ID, string(hashedPassword)); err != nil {
		log.Fatalf("❌ Failed to update password in DB: %v", err)
	}
	// Rotate the token version so any open session is logged out.
	if err := userRepo.UpdateTokenVersion(user.ID, ""); err != nil {
		log.Fatalf("❌ Failed to invalidate open sessions: %v", err)
	}

	log.Printf("✅ Success! Password for %s has been reset", email)
}
