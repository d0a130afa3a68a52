package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"whatsapp_dashboard/internal/config"
	"whatsapp_dashboard/internal/database"
	"whatsapp_dashboard/internal/migrations"
	"whatsapp_dashboard/internal/repository"
	"whatsapp_dashboard/pkg/nocodb"
)

func main() {
	fmt.Println("Initializing NocoDB base...")

	cfg := config.Load()
	if cfg.NocoDBToken == "" {
		log.Fatal("NOCODB_TOKEN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := nocodb.NewClient(cfg.NocoDBURL, cfg.NocoDBToken)

	baseID := cfg.NocoDBBaseID
	if baseID == "" {
		var err error
		baseID, err = client.ResolveBaseID(ctx, cfg.NocoDBBaseTitle)
		if err != nil {
			log.Fatal("Failed to find NocoDB base:", err)
		}
	}
	fmt.Printf("Using base %s\n", baseID)

	tables, err := client.ListTables(ctx, baseID)
	if err != nil {
		log.Fatal("Failed to list tables:", err)
	}

	for _, spec := range repository.MissingTables(tables) {
		fmt.Printf("Creating table %s...\n", spec.Schema.Title)
		if _, err := client.CreateTable(ctx, baseID, spec.Schema); err != nil {
			log.Fatalf("Failed to create table %s: %v", spec.Schema.Title, err)
		}
	}

	ids, err := repository.ResolveTables(ctx, client, baseID, nil)
	if err != nil {
		log.Fatal("Failed to resolve tables:", err)
	}

	if email, password := os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD"); email != "" && password != "" {
		createAdmin(ctx, client, baseID, ids["users"], email, password)
	}

	if os.Getenv("SKIP_POSTGRES") == "" {
		db, err := database.Initialize(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		if err := migrations.RunMigrations(db); err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
	}

	fmt.Println("\nAdd these to your .env:")
	fmt.Printf("NOCODB_BASE_ID=%s\n", baseID)
	fmt.Printf("NOCODB_TABLE_USERS=%s\n", ids["users"])
	fmt.Printf("NOCODB_TABLE_NOTIFICATIONS=%s\n", ids["notifications"])
	fmt.Printf("NOCODB_TABLE_TUTORIALS=%s\n", ids["tutorials"])
	fmt.Printf("NOCODB_TABLE_CONTACTS=%s\n", ids["contacts"])
	fmt.Printf("NOCODB_TABLE_INSTANCES=%s\n", ids["instances"])
	fmt.Printf("NOCODB_TABLE_CAMPAIGNS=%s\n", ids["campaigns"])
}

func createAdmin(ctx context.Context, client *nocodb.Client, baseID, tableID, email, password string) {
	existing, err := client.List(ctx, baseID, tableID, nocodb.ListOptions{
		Where: []nocodb.Condition{nocodb.Eq("Email", email)},
		Limit: 1,
	})
	if err != nil {
		log.Printf("Warning: Failed to look up admin user: %v", err)
		return
	}
	if len(existing) > 0 {
		fmt.Println("Admin user already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Warning: Failed to hash admin password: %v", err)
		return
	}

	_, err = client.Create(ctx, baseID, tableID, map[string]any{
		"Email": email,
		"Nome":  "Administrador",
		"Senha": string(hash),
		"Ativo": true,
	})
	if err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
		return
	}
	fmt.Printf("Admin user %s created\n", email)
}
