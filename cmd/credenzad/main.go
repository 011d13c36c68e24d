package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"

	"github.com/lumina-markets/credenza/adapters/events"
	ledgerstore "github.com/lumina-markets/credenza/adapters/ledger"
	"github.com/lumina-markets/credenza/adapters/store"
	"github.com/lumina-markets/credenza/adapters/tokenizer"
	"github.com/lumina-markets/credenza/internal/config"
	"github.com/lumina-markets/credenza/ports"
	"github.com/lumina-markets/credenza/service"
	"github.com/lumina-markets/credenza/transport/http"
)

func main() {
	cfg := config.FromEnv()
	if cfg.AdminWallet == "" {
		log.Fatal("CREDENZA_ADMIN_WALLET must be set")
	}
	if cfg.IssuerWallet == "" {
		log.Fatal("CREDENZA_ISSUER_WALLET must be set")
	}

	// Generate a new ECDSA key pair (you would normally load this from somewhere secure)
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		log.Fatalf("Failed to generate signing key: %v", err)
	}

	wmLogger := watermill.NewStdLogger(false, false)

	var (
		challengeStore ports.ChallengeStore
		sessionStore   ports.SessionStore
		publisher      message.Publisher
	)

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient := redis.NewClient(opts)

		publisher, err = redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: redisClient},
			wmLogger,
		)
		if err != nil {
			log.Fatalf("Failed to create Redis publisher: %v", err)
		}

		challengeStore = store.NewRedisChallengeStore(redisClient)
		sessionStore = store.NewRedisSessionStore(redisClient)
	} else {
		log.Println("REDIS_URL not set, using in-memory stores and pubsub")
		publisher = gochannel.NewGoChannel(gochannel.Config{}, wmLogger)
		challengeStore = store.NewMemoryChallengeStore()
		sessionStore = store.NewMemorySessionStore()
	}

	eventPub := events.NewWatermillPublisher(publisher)
	jwtTokenizer := tokenizer.NewJWTTokenizer(privateKey)

	// In-process ledger; production swaps in the real ledger client here
	ledgerClient := ledgerstore.NewMemoryLedger()

	authService := service.NewAuthService(challengeStore, jwtTokenizer, cfg.AdminWallet)
	credentialService := service.NewCredentialService(ledgerClient, eventPub)
	sessionService := service.NewSessionService(sessionStore, credentialService, eventPub, cfg.IssuerWallet)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sessionService.RunSweeper(ctx)

	router := http.SetupRouter(authService, credentialService, sessionService)

	log.Printf("credenza listening on %s (network %q)", cfg.Addr, cfg.NetworkName)
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
