package main

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"roleauth/internal/database"
	"roleauth/internal/domain"
)

// Seeds the schema, the well-known roles and the administrator account.
// Safe to run repeatedly: existing rows are left alone, but the admin user
// always ends up holding the Admin role.
func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "roleauth.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Role{},
		&domain.RefreshToken{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	adminRole := ensureRole(db, domain.RoleAdmin, "Administrator role")
	ensureRole(db, domain.RoleUser, "Default user role")

	username := getEnv("ADMIN_USERNAME", "admin")
	email := strings.ToLower(getEnv("ADMIN_EMAIL", "admin@example.com"))
	password := getEnv("ADMIN_PASSWORD", "Admin@123")

	var admin domain.User
	err = db.Preload("Roles").Where("username = ?", username).First(&admin).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if hashErr != nil {
			log.Fatal("password hash failed:", hashErr)
		}
		admin = domain.User{
			Username:     username,
			Email:        email,
			PasswordHash: string(hash),
			DisplayName:  "Administrator",
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Fatal("admin create failed:", err)
		}
		log.Printf("Admin created: %s", username)
	case err != nil:
		log.Fatal("admin lookup failed:", err)
	}

	// The Admin role must always have at least one member.
	if !admin.HasRole(domain.RoleAdmin) {
		if err := db.Model(&admin).Association("Roles").Append(adminRole); err != nil {
			log.Fatal("admin role grant failed:", err)
		}
		log.Printf("Admin role granted to %s", username)
	}

	log.Println("Seed completed")
}

func ensureRole(db *gorm.DB, name, description string) *domain.Role {
	role := domain.Role{Name: name, Description: description}
	if err := db.Where(domain.Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
		log.Fatalf("role seed failed for %s: %v", name, err)
	}
	return &role
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
