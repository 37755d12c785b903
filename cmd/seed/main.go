package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/cache"
	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/logger"
	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/repository"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

const samplePassword = "testpassword123"

var sampleUsers = []struct {
	name  string
	email string
}{
	{"John Doe", "john.doe@example.com"},
	{"Jane Smith", "jane.smith@example.com"},
}

var sampleRecipes = []struct {
	title       string
	minutes     int
	price       string
	tags        []string
	ingredients []string
}{
	{"Thai Prawn Curry", 30, "12.50", []string{"Thai", "Dinner"}, []string{"Prawns", "Coconut milk", "Ginger"}},
	{"Avocado Toast", 10, "4.00", []string{"Vegan", "Breakfast"}, []string{"Avocado", "Bread", "Lime"}},
	{"Chicken Cacciatore", 45, "9.75", []string{"Dinner"}, []string{"Chicken", "Tomatoes", "Ginger"}},
	{"Porridge", 5, "1.20", []string{"Vegan", "Breakfast"}, []string{"Oats", "Almond milk"}},
}

func main() {
	email := flag.String("superuser-email", "", "Create a superuser with this email")
	password := flag.String("superuser-password", "", "Password for -superuser-email")
	sample := flag.Bool("sample", false, "Create sample users, tags, ingredients and recipes")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	zlog, err := logger.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	db, err := database.New(cfg.Database, zlog)
	if err != nil {
		zlog.Fatal("failed to open database", zap.Error(err))
	}
	if err := database.RunMigrations(db, zlog); err != nil {
		zlog.Fatal("failed to migrate", zap.Error(err))
	}

	repo := repository.NewRepository(db)
	auth := service.NewAuthService(repo, cache.NopTokenCache{}, nil, zlog)
	services := service.NewServices(repo, cache.NopTokenCache{}, nil, service.Options{}, zlog)
	ctx := context.Background()

	if *email != "" {
		if len(*password) < 5 {
			zlog.Fatal("superuser password must have at least 5 characters")
		}
		user, err := auth.CreateSuperuser(ctx, *email, *password)
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			zlog.Info("superuser already exists, skipping", zap.String("email", *email))
		case err != nil:
			zlog.Fatal("failed to create superuser", zap.Error(err))
		default:
			zlog.Info("created superuser", zap.String("email", user.Email))
		}
	}

	if *sample {
		if err := seedSample(ctx, auth, services, zlog); err != nil {
			zlog.Fatal("failed to seed sample data", zap.Error(err))
		}
	}
}

func seedSample(ctx context.Context, auth *service.AuthService, services *service.Services, zlog *zap.Logger) error {
	var owners []*models.User
	for _, u := range sampleUsers {
		user, err := auth.CreateUser(ctx, u.email, samplePassword, u.name)
		if errors.Is(err, service.ErrEmailTaken) {
			zlog.Info("sample data already present, skipping", zap.String("email", u.email))
			return nil
		}
		if err != nil {
			return err
		}
		owners = append(owners, user)
	}

	tagIDs := map[string]uint{}
	ingredientIDs := map[string]uint{}
	for i, r := range sampleRecipes {
		owner := owners[i%len(owners)]

		req := &types.RecipeRequest{Title: r.title, TimeMinutes: &r.minutes}
		price := decimal.RequireFromString(r.price)
		req.Price = &price

		for _, name := range r.tags {
			if _, ok := tagIDs[name]; !ok {
				tag, err := services.Tags.Create(ctx, owner, name)
				if err != nil {
					return err
				}
				tagIDs[name] = tag.ID
			}
			req.Tags = append(req.Tags, tagIDs[name])
		}
		for _, name := range r.ingredients {
			if _, ok := ingredientIDs[name]; !ok {
				ing, err := services.Ingredients.Create(ctx, owner, name)
				if err != nil {
					return err
				}
				ingredientIDs[name] = ing.ID
			}
			req.Ingredients = append(req.Ingredients, ingredientIDs[name])
		}

		if _, err := services.Recipes.Create(ctx, owner, req); err != nil {
			return err
		}
		zlog.Info("created recipe", zap.String("title", r.title), zap.String("owner", owner.Email))
	}

	zlog.Info("sample data created", zap.String("password", samplePassword))
	return nil
}
