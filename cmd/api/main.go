package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"roleauth/internal/config"
	"roleauth/internal/database"
	"roleauth/internal/middleware"
	"roleauth/internal/modules/auth"
	"roleauth/internal/modules/role"
	"roleauth/internal/modules/user"
	jwtsvc "roleauth/internal/pkg/jwt"
	"roleauth/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	refreshRepo := repository.NewRefreshTokenRepository(db)

	signer := jwtsvc.New(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTokenTTL)

	authService := auth.NewService(userRepo, roleRepo, refreshRepo, signer, cfg.RefreshTokenTTL, cfg.RefreshTokenPepper)
	authHandler := auth.NewHandler(authService)

	roleService := role.NewService(roleRepo)
	roleHandler := role.NewHandler(roleService)

	userService := user.NewService(userRepo, roleRepo, refreshRepo)
	userHandler := user.NewHandler(userService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)

		// valid token required
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(signer))
		{
			userHandler.RegisterProtectedRoutes(protected)

			// Admin role required
			admin := protected.Group("/")
			admin.Use(middleware.AdminOnly())
			{
				userHandler.RegisterAdminRoutes(admin)
				roleHandler.RegisterRoutes(admin)
			}
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
