// Command seed loads schemes and news from a YAML catalogue and optionally
// creates the bootstrap admin account.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/entescheme/ente-api/internal/config"
	"github.com/entescheme/ente-api/internal/logging"
	"github.com/entescheme/ente-api/internal/models"
	"github.com/entescheme/ente-api/internal/services"
	"github.com/entescheme/ente-api/internal/storage"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// catalogue is the seed file layout. Entries use the same field names as
// the admin API.
type catalogue struct {
	Schemes []models.SchemeInput
	News    []models.NewsInput
}

// loadCatalogue parses a YAML seed file. YAML is decoded generically and
// re-read through the JSON field names so the file matches the API bodies.
func loadCatalogue(path string) (*catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var raw struct {
		Schemes []map[string]interface{} `yaml:"schemes"`
		News    []map[string]interface{} `yaml:"news"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cat := &catalogue{}
	for i, entry := range raw.Schemes {
		var in models.SchemeInput
		if err := reencode(entry, &in); err != nil {
			return nil, fmt.Errorf("scheme %d: %w", i, err)
		}
		cat.Schemes = append(cat.Schemes, in)
	}
	for i, entry := range raw.News {
		var in models.NewsInput
		if err := reencode(entry, &in); err != nil {
			return nil, fmt.Errorf("news %d: %w", i, err)
		}
		cat.News = append(cat.News, in)
	}
	return cat, nil
}

func reencode(src map[string]interface{}, dst interface{}) error {
	data, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

// seeder inserts catalogue entries that are not present yet.
type seeder struct {
	schemes *services.SchemeService
	news    *services.NewsService
	logger  *logging.SafeLogger
}

// seedSchemes creates every scheme whose name is not already in the catalogue.
func (s *seeder) seedSchemes(ctx context.Context, inputs []models.SchemeInput) (int, error) {
	existing, err := s.schemes.ListSchemes(ctx)
	if err != nil {
		return 0, err
	}
	names := make(map[string]bool, len(existing))
	for _, sc := range existing {
		names[strings.ToLower(sc.Name)] = true
	}

	created := 0
	for i := range inputs {
		key := strings.ToLower(strings.TrimSpace(inputs[i].Name))
		if names[key] {
			s.logger.Info("scheme already present", zap.String("name", inputs[i].Name))
			continue
		}
		if _, err := s.schemes.CreateScheme(ctx, &inputs[i]); err != nil {
			return created, fmt.Errorf("create scheme %q: %w", inputs[i].Name, err)
		}
		names[key] = true
		created++
	}
	return created, nil
}

// seedNews creates every item whose title is not already on the board.
func (s *seeder) seedNews(ctx context.Context, inputs []models.NewsInput) (int, error) {
	existing, err := s.news.ListNews(ctx)
	if err != nil {
		return 0, err
	}
	titles := make(map[string]bool, len(existing))
	for _, n := range existing {
		titles[strings.ToLower(n.Title)] = true
	}

	created := 0
	for i := range inputs {
		key := strings.ToLower(strings.TrimSpace(inputs[i].Title))
		if titles[key] {
			continue
		}
		if _, err := s.news.CreateNews(ctx, &inputs[i]); err != nil {
			return created, fmt.Errorf("create news %q: %w", inputs[i].Title, err)
		}
		titles[key] = true
		created++
	}
	return created, nil
}

func main() {
	file := flag.String("file", "cmd/seed/catalogue.yaml", "YAML catalogue to load")
	withAdmin := flag.Bool("admin", false, "create the admin account from ADMIN_* settings")
	flag.Parse()

	if err := logging.InitLogger(); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logging.Logger.Sync()
	logger := logging.Logger.Named("seed")

	if err := config.LoadConfig(); err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	cfg := config.AppConfig

	cat, err := loadCatalogue(*file)
	if err != nil {
		logger.Fatal("failed to load catalogue", zap.Error(err))
	}

	if err := config.InitMongoDB(); err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	defer func() { _ = config.MongoDB.Client().Disconnect(context.Background()) }()

	stores := storage.New(config.MongoDB, cfg)
	s := &seeder{
		// cache is nil: the API's cache expires on its own TTL
		schemes: services.NewSchemeService(stores.Schemes, nil, logger),
		news:    services.NewNewsService(stores.News, logger),
		logger:  logger,
	}

	schemes, err := s.seedSchemes(ctx, cat.Schemes)
	if err != nil {
		logger.Fatal("failed to seed schemes", zap.Error(err))
	}
	news, err := s.seedNews(ctx, cat.News)
	if err != nil {
		logger.Fatal("failed to seed news", zap.Error(err))
	}

	if *withAdmin {
		if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
			logger.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD are required with -admin")
		}
		tokens := services.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiry, nil)
		users := services.NewUserService(stores.Users, tokens, nil, logger)
		if _, err := users.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			logger.Fatal("failed to create admin", zap.Error(err))
		}
	}

	logger.Info("seed complete", zap.Int("schemes_created", schemes), zap.Int("news_created", news))
}
