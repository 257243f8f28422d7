package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

// CLI flags
var (
	email = flag.String("email", "", "Email of the account to change (required)")
	role  = flag.String("role", "admin", "Role to assign: user or admin")
	dsn   = flag.String("dsn", "", "Postgres DSN (default: env DATABASE_URL)")
)

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()

	if *email == "" {
		log.Fatal("--email is required")
	}
	if *role != "user" && *role != "admin" {
		log.Fatalf("invalid role %q (want user or admin)", *role)
	}
	if *dsn == "" {
		*dsn = os.Getenv("DATABASE_URL")
	}
	if *dsn == "" {
		log.Fatal("--dsn not provided and DATABASE_URL not set")
	}

	conn, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatalf("DB connection error: %v", err)
	}
	defer conn.Close()

	result, err := conn.Exec(`
		UPDATE app_auth.profiles
		SET role = $1
		WHERE id = (SELECT user_id FROM app_auth.users WHERE email = $2)
	`, *role, *email)
	if err != nil {
		log.Fatalf("Error updating role: %v", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		log.Fatalf("No profile found for %s", *email)
	}

	fmt.Printf("✓ Set role of %s to %s\n", *email, *role)
}
