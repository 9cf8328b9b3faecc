package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"cookonomics/internal/auth"
	"cookonomics/internal/cache"
	"cookonomics/internal/config"
	"cookonomics/internal/db"
	apperrors "cookonomics/internal/errors"
	"cookonomics/internal/logger"
	"cookonomics/internal/model"
	"cookonomics/internal/repository"
	"cookonomics/internal/service"
	"cookonomics/internal/validation"
)

const fetchTimeout = 30 * time.Second

// SeedUser is one fixture entry: a user and the items it owns.
type SeedUser struct {
	Email    string          `json:"email"`
	Password string          `json:"password"`
	FullName *string         `json:"full_name,omitempty"`
	IsActive *bool           `json:"is_active,omitempty"`
	Items    []model.NewItem `json:"items"`
}

// SeedFile is the fixture document.
type SeedFile struct {
	Users []SeedUser `json:"users"`
}

// Result counts what a seed run did.
type Result struct {
	UsersCreated int
	UsersSkipped int
	ItemsCreated int
}

func main() {
	source := flag.String("source", "seed.json", "fixture file path or http(s) URL")
	flag.Parse()

	log := logger.New(logger.Options{Pretty: true, Service: "cookonomics-seed"})
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	gormDB, err := db.NewMySQL(cfg.MySQL, false)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer db.Close(gormDB)

	if err := db.Migrate(gormDB, false); err != nil {
		log.Fatal().Err(err).Msg("run migrations")
	}

	log.Info().Str("source", *source).Msg("loading fixture")
	fixture, err := loadFixture(ctx, *source)
	if err != nil {
		log.Fatal().Err(err).Msg("load fixture")
	}

	validator := validation.New()
	cacheClient := cache.New(cfg.Redis)
	defer cacheClient.Close()

	users := service.NewUserService(
		repository.NewUserRepository(gormDB),
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		validator,
		cacheClient,
		cfg.Redis.UserCacheTTL,
	)
	items := service.NewItemService(repository.NewItemRepository(gormDB), validator, log)

	res, err := seed(ctx, log, users, items, fixture)
	if err != nil {
		log.Fatal().Err(err).Msg("seed")
	}

	log.Info().
		Int("users_created", res.UsersCreated).
		Int("users_skipped", res.UsersSkipped).
		Int("items_created", res.ItemsCreated).
		Msg("seed completed")
}

// loadFixture reads the fixture from a local path or an http(s) URL.
func loadFixture(ctx context.Context, source string) (*SeedFile, error) {
	var r io.ReadCloser
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch fixture: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fixture source returned status code: %d", resp.StatusCode)
		}
		r = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open fixture: %w", err)
		}
		r = f
	}
	defer r.Close()

	return decodeFixture(r)
}

func decodeFixture(r io.Reader) (*SeedFile, error) {
	var fixture SeedFile
	if err := json.NewDecoder(r).Decode(&fixture); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &fixture, nil
}

// seed creates every fixture user that does not exist yet, then its items.
// Users already present are skipped along with their items so reruns are
// idempotent.
func seed(
	ctx context.Context,
	log zerolog.Logger,
	users service.UserService,
	items service.ItemService,
	fixture *SeedFile,
) (Result, error) {
	var res Result
	for _, su := range fixture.Users {
		user, err := users.Create(ctx, model.NewUser{
			Email:    su.Email,
			Password: su.Password,
			FullName: su.FullName,
			IsActive: su.IsActive,
		})
		if errors.Is(err, apperrors.ErrDuplicateEmail) {
			log.Info().Str("email", su.Email).Msg("user exists, skipping")
			res.UsersSkipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("create user %s: %w", su.Email, err)
		}
		res.UsersCreated++

		for _, in := range su.Items {
			if _, err := items.Create(ctx, in, user.ID); err != nil {
				return res, fmt.Errorf("create item %q for %s: %w", in.Name, su.Email, err)
			}
			res.ItemsCreated++
		}
	}
	return res, nil
}
