package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/wildfable/brawl-bot-discord/internal/announce"
	"github.com/wildfable/brawl-bot-discord/internal/config"
	discordHandler "github.com/wildfable/brawl-bot-discord/internal/handlers/discord"
	"github.com/wildfable/brawl-bot-discord/internal/repositories/encounters"
	"github.com/wildfable/brawl-bot-discord/internal/repositories/summaries"
	"github.com/wildfable/brawl-bot-discord/internal/services/encounter"
	"github.com/wildfable/brawl-bot-discord/internal/stats"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Bot Token: %s...%s", cfg.Discord.Token[:8], cfg.Discord.Token[len(cfg.Discord.Token)-4:])
	log.Printf("Application ID: %s", cfg.Discord.AppID)
	if cfg.Discord.GuildID != "" {
		log.Printf("Guild ID: %s", cfg.Discord.GuildID)
	}

	// Create Discord session
	dg, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		log.Fatalf("Failed to create Discord session: %v", err)
	}

	// Keep Redis client for cleanup
	var redisClient *redis.Client

	// Summaries go to Redis when available, memory otherwise.
	var summarySink summaries.Sink = summaries.NewInMemorySink()

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		log.Printf("Connecting to Redis at: %s", redisURL)

		opts, parseErr := redis.ParseURL(redisURL)
		if parseErr != nil {
			log.Printf("Failed to parse Redis URL: %v", parseErr)
			log.Println("Falling back to in-memory summaries")
		} else {
			redisClient = redis.NewClient(opts)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			pingErr := redisClient.Ping(ctx).Err()
			cancel()

			if pingErr != nil {
				log.Printf("Failed to connect to Redis: %v", pingErr)
				log.Println("Falling back to in-memory summaries")
				redisClient = nil
			} else {
				log.Println("Successfully connected to Redis")
				summarySink = summaries.NewRedisSink(redisClient)
			}
		}
	} else {
		log.Println("No REDIS_URL found, using in-memory summaries")
	}

	store := encounters.NewInMemoryStore(encounters.InMemoryStoreConfig{
		GuildCap:   cfg.Combat.GuildEncounterCap,
		StaleAfter: cfg.Combat.StaleAfter,
	})

	encounterService := encounter.NewService(&encounter.ServiceConfig{
		Store:     store,
		Stats:     stats.NewStaticProvider(),
		Announcer: announce.NewDiscordAnnouncer(dg),
		Summaries: summarySink,
		Config:    cfg.Combat,
	})

	handler := discordHandler.NewHandler(&discordHandler.HandlerConfig{
		EncounterService: encounterService,
	})

	dg.AddHandler(handler.HandleInteraction)

	// Open connection to Discord
	err = dg.Open()
	if err != nil {
		log.Printf("Failed to open Discord connection: %v", err)
		return
	}
	defer func() {
		clientErr := dg.Close()
		if clientErr != nil {
			log.Printf("Failed to close Discord connection: %v", clientErr)
		}
	}()

	// Register commands
	// Use empty string for global commands, or set a specific guild ID for testing
	if err := handler.RegisterCommands(dg, cfg.Discord.GuildID); err != nil {
		log.Printf("Failed to register commands: %v", err)
		return
	}

	if cfg.Discord.GuildID != "" {
		log.Printf("Registered commands for guild: %s", cfg.Discord.GuildID)
	} else {
		log.Println("Registered global commands (may take up to 1 hour to propagate)")
	}

	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	encounterService.StartSweeper(sweeperCtx)

	fmt.Println("Bot is now running. Press CTRL-C to exit.")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	fmt.Println("Shutting down...")

	stopSweeper()
	encounterService.Destroy(context.Background())

	// Clean up Redis connection if we have one
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		} else {
			log.Println("Closed Redis connection")
		}
	}
}
