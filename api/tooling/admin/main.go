// The admin tool applies the database schema and manages accounts and
// signing keys from the command line.
package main

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"flag"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"time"

	"github.com/councl/backend/business/domain/userbus"
	"github.com/councl/backend/business/domain/userbus/stores/usercache"
	"github.com/councl/backend/business/domain/userbus/stores/userdb"
	"github.com/councl/backend/business/sdk/sqldb"
	"github.com/councl/backend/business/types/simpleid"
	"github.com/councl/backend/foundation/logger"
	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DB struct {
		User         string `envconfig:"DB_USER" default:"postgres"`
		Password     string `envconfig:"DB_PASSWORD" default:"postgres"`
		Host         string `envconfig:"DB_HOST" default:"localhost"`
		Name         string `envconfig:"DB_NAME" default:"councl"`
		MaxIdleConns int    `envconfig:"DB_MAX_IDLE_CONNS" default:"0"`
		MaxOpenConns int    `envconfig:"DB_MAX_OPEN_CONNS" default:"0"`
		DisableTLS   bool   `envconfig:"DB_DISABLE_TLS" default:"true"`
	}
}

func main() {
	log := logger.New(os.Stdout, logger.LevelInfo, "ADMIN-TOOL", nil)
	ctx := context.Background()

	if err := run(ctx, log); err != nil {
		log.Error(ctx, "startup", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger) error {
	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		fmt.Println("Commands: migrate, keygen, create-user")
		return nil
	}

	if os.Args[1] == "keygen" {
		return runKeygen(os.Args[2:])
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return fmt.Errorf("processing config: %w", err)
	}

	db, err := sqldb.Open(sqldb.Config{
		User:         cfg.DB.User,
		Password:     cfg.DB.Password,
		Host:         cfg.DB.Host,
		Name:         cfg.DB.Name,
		MaxIdleConns: cfg.DB.MaxIdleConns,
		MaxOpenConns: cfg.DB.MaxOpenConns,
		DisableTLS:   cfg.DB.DisableTLS,
	})
	if err != nil {
		return fmt.Errorf("connecting to db: %w", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "migrate":
		ctx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()

		if err := sqldb.StatusCheck(ctx, db); err != nil {
			return fmt.Errorf("status check database: %w", err)
		}

		if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}

		log.Info(ctx, "migrate", "status", "schema applied")
		return nil

	case "create-user":
		userBus := userbus.NewCore(usercache.NewStore(log, userdb.NewStore(log, db), time.Minute))
		return runCreateUser(ctx, log, userBus, os.Args[2:])

	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

func runCreateUser(ctx context.Context, log *logger.Logger, userBus *userbus.Core, args []string) error {
	cmd := flag.NewFlagSet("create-user", flag.ExitOnError)
	usernameStr := cmd.String("username", "", "Username (required)")
	emailStr := cmd.String("email", "", "Email address (required)")
	passStr := cmd.String("password", "", "Password (required)")
	admin := cmd.Bool("admin", false, "Grant the system admin flag")
	cmd.Parse(args)

	if *usernameStr == "" || *emailStr == "" || *passStr == "" {
		cmd.PrintDefaults()
		return fmt.Errorf("missing required fields")
	}

	username, err := simpleid.Parse(*usernameStr)
	if err != nil {
		return fmt.Errorf("invalid username: %w", err)
	}

	addr, err := mail.ParseAddress(*emailStr)
	if err != nil {
		return fmt.Errorf("invalid email: %w", err)
	}

	usr, err := userBus.Create(ctx, userbus.NewUser{
		Username: username,
		Email:    *addr,
		Password: *passStr,
	})
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	if *admin {
		sysAdmin := true
		if usr, err = userBus.Update(ctx, usr, userbus.UpdateUser{SysAdmin: &sysAdmin}); err != nil {
			return fmt.Errorf("granting admin: %w", err)
		}
	}

	log.Info(ctx, "create-user", "user_id", usr.ID, "username", usr.Username, "admin", usr.SysAdmin)
	return nil
}

// runKeygen creates an RSA key pair and writes the private side under the
// given kid so the api can load it at startup.
func runKeygen(args []string) error {
	cmd := flag.NewFlagSet("keygen", flag.ExitOnError)
	folder := cmd.String("folder", "zarf/keys", "Folder to write the key to")
	kid := cmd.String("kid", uuid.NewString(), "Key id to write the key under")
	cmd.Parse(args)

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return fmt.Errorf("generating key: %w", err)
	}

	if err := os.MkdirAll(*folder, 0o755); err != nil {
		return fmt.Errorf("creating key folder: %w", err)
	}

	file, err := os.Create(filepath.Join(*folder, *kid+".pem"))
	if err != nil {
		return fmt.Errorf("creating key file: %w", err)
	}
	defer file.Close()

	block := pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	}

	if err := pem.Encode(file, &block); err != nil {
		return fmt.Errorf("encoding private key: %w", err)
	}

	fmt.Println("key id:", *kid)
	return nil
}
