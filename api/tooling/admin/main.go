// This program performs administrative tasks for the studio service:
// migrating and seeding the database, creating dashboard users, and
// generating RSA key pairs for dashboard token signing.
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

	"github.com/dattastudio/studio-api/business/domain/datasetbus"
	"github.com/dattastudio/studio-api/business/domain/datasetbus/stores/datasetdb"
	"github.com/dattastudio/studio-api/business/domain/licensebus"
	"github.com/dattastudio/studio-api/business/domain/userbus"
	"github.com/dattastudio/studio-api/business/domain/userbus/stores/usercache"
	"github.com/dattastudio/studio-api/business/domain/userbus/stores/userdb"
	"github.com/dattastudio/studio-api/business/sdk/sqldb"
	"github.com/dattastudio/studio-api/business/sdk/sqldb/migrate"
	"github.com/dattastudio/studio-api/business/types/name"
	"github.com/dattastudio/studio-api/business/types/password"
	"github.com/dattastudio/studio-api/business/types/role"
	"github.com/dattastudio/studio-api/foundation/logger"
	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DB struct {
		User         string `envconfig:"DB_USER" default:"postgres"`
		Password     string `envconfig:"DB_PASSWORD" default:"postgres"`
		Host         string `envconfig:"DB_HOST" default:"localhost"`
		Name         string `envconfig:"DB_NAME" default:"studio"`
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
		fmt.Println("Commands: migrate, seed, create-user, prune, keygen")
		return nil
	}

	// keygen has no database dependency.
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
		if err := migrate.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}
		log.Info(ctx, "migrate", "status", "complete")
		return nil

	case "seed":
		if err := migrate.Seed(ctx, db); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
		log.Info(ctx, "seed", "status", "complete")
		return nil

	case "create-user":
		userBus := userbus.NewCore(usercache.NewStore(log, userdb.NewStore(log, db), time.Minute))
		return runCreateUser(ctx, userBus, os.Args[2:])

	case "prune":
		licenseBus := licensebus.NewCore()
		datasetBus := datasetbus.NewCore(licenseBus, datasetdb.NewStore(log, db))
		n, err := datasetBus.PruneExpiredAccess(ctx)
		if err != nil {
			return fmt.Errorf("pruning expired access: %w", err)
		}
		log.Info(ctx, "prune", "removed", n)
		return nil

	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

func runCreateUser(ctx context.Context, ub *userbus.Core, args []string) error {
	cmd := flag.NewFlagSet("create-user", flag.ExitOnError)
	emailStr := cmd.String("email", "", "User email (Required)")
	passStr := cmd.String("password", "", "User password (Required)")
	nameStr := cmd.String("name", "", "User full name (Required)")
	companyStr := cmd.String("company", "", "Studio or lab the user belongs to")
	roleStr := cmd.String("role", "OWNER", "User role (ADMIN, OWNER)")
	cmd.Parse(args)

	if *emailStr == "" || *passStr == "" || *nameStr == "" {
		cmd.PrintDefaults()
		return fmt.Errorf("missing required fields")
	}

	addr, err := mail.ParseAddress(*emailStr)
	if err != nil {
		return fmt.Errorf("parsing email: %w", err)
	}

	nme, err := name.Parse(*nameStr)
	if err != nil {
		return fmt.Errorf("parsing name: %w", err)
	}

	company, err := name.ParseNull(*companyStr)
	if err != nil {
		return fmt.Errorf("parsing company: %w", err)
	}

	rl, err := role.Parse(*roleStr)
	if err != nil {
		return fmt.Errorf("parsing role: %w", err)
	}

	pwd, err := password.Parse(*passStr)
	if err != nil {
		return fmt.Errorf("parsing password: %w", err)
	}

	usr, err := ub.Create(ctx, userbus.NewUser{
		Name:     nme,
		Email:    *addr,
		Role:     rl,
		Company:  company,
		Password: pwd,
	})
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	fmt.Println("user created:", usr.ID)
	return nil
}

// runKeygen creates an x509 private key for signing dashboard tokens and
// writes it to the keys folder named by a fresh kid.
func runKeygen(args []string) error {
	cmd := flag.NewFlagSet("keygen", flag.ExitOnError)
	folder := cmd.String("folder", "foundation/zarf/keys", "Folder to write the key to")
	cmd.Parse(args)

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return fmt.Errorf("generating key: %w", err)
	}

	if err := os.MkdirAll(*folder, 0o755); err != nil {
		return fmt.Errorf("creating keys folder: %w", err)
	}

	kid := uuid.NewString()

	file, err := os.Create(filepath.Join(*folder, kid+".pem"))
	if err != nil {
		return fmt.Errorf("creating key file: %w", err)
	}
	defer file.Close()

	block := pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	}

	if err := pem.Encode(file, &block); err != nil {
		return fmt.Errorf("encoding to private file: %w", err)
	}

	fmt.Println("private key generated:", kid)
	return nil
}
