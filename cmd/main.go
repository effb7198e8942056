package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"document-chat/internal/chunker"
	"document-chat/internal/config"
	"document-chat/internal/db"
	"document-chat/internal/embedding"
	"document-chat/internal/helper"
	"document-chat/internal/index"
	"document-chat/internal/llmservice"
	"document-chat/internal/parser"
	"document-chat/internal/rag"
)

const (
	configFilePath  = "./configs/config.yaml"
	defaultDocument = "document.pdf"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	_ = godotenv.Load()

	filePath := flag.String("file", "", "Path to the document file")
	cfgPath := flag.String("config", configFilePath, "Path to the config file")
	query := flag.String("query", "", "Ask a single question and exit")
	dryRun := flag.Bool("dry-run", false, "Parse and chunk only, do not embed or persist")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Fatal().Err(err).Msg("Error loading config")
		}
		cfg = config.Default()
	}
	log.Debug().Interface("rag", cfg.RAG).Str("embed_model", cfg.EmbedLLM.Model).Str("chat_model", cfg.ChatLLM.Model).Msg("Loaded config")

	if !*dryRun {
		if err := cfg.Validate(); err != nil {
			log.Fatal().Err(err).Msg("Invalid configuration")
		}
	}

	stdin := bufio.NewScanner(os.Stdin)
	path := *filePath
	if path == "" {
		path = promptForPath(stdin)
	}

	pages, err := parser.Load(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading document")
	}
	log.Info().Int("pages", len(pages)).Str("file", path).Msg("Loaded document")

	chunks, err := chunker.Split(pages, cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	if err != nil {
		log.Fatal().Err(err).Msg("Error chunking document")
	}
	log.Info().Int("chunks", len(chunks)).Msg("Split document")

	if *dryRun {
		helper.PrettyPrint(chunks)
		return
	}

	ctx := context.Background()

	embedder, err := embedding.NewOpenAIEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	idx, err := newIndex(cfg, embedder)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening vector index")
	}

	log.Info().Msg("Building vector index, this may take a moment")
	if err := idx.Build(ctx, chunks); err != nil {
		log.Fatal().Err(err).Msg("Error building vector index")
	}

	chatModel, err := llmservice.NewChatModel(&cfg.ChatLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing chat model")
	}

	session := rag.NewSession(idx, chatModel, cfg)
	log.Debug().Str("session", session.ID()).Msg("Session started")

	if *query != "" {
		askOnce(ctx, session, *query)
		return
	}

	chatLoop(ctx, stdin, session)
}

func newIndex(cfg *config.Config, embedder embedding.Embedder) (index.Index, error) {
	switch cfg.RAG.Store {
	case "chromem":
		if err := helper.CreateFolder(cfg.RAG.DBPath); err != nil {
			return nil, err
		}
		return index.NewChromemIndex(embedder, cfg.RAG.DBPath, cfg.RAG.Collection, false)
	case "postgres":
		dbClient, err := db.ConnectDB(&cfg.Database)
		if err != nil {
			return nil, err
		}
		return index.NewPostgresIndex(db.NewDB(dbClient, cfg.Database.Debug), embedder), nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.RAG.Store)
	}
}

func promptForPath(stdin *bufio.Scanner) string {
	fmt.Printf("Path to document [%s]: ", defaultDocument)
	if !stdin.Scan() {
		return defaultDocument
	}
	path := strings.TrimSpace(stdin.Text())
	if path == "" {
		return defaultDocument
	}
	return path
}

func chatLoop(ctx context.Context, stdin *bufio.Scanner, session *rag.Session) {
	fmt.Println("\nAsk anything about your document. Type 'quit', 'exit' or 'q' to stop.")
	for {
		fmt.Print("\nYou: ")
		if !stdin.Scan() {
			return
		}
		question := strings.TrimSpace(stdin.Text())
		switch strings.ToLower(question) {
		case "quit", "exit", "q":
			return
		case "":
			continue
		}
		askOnce(ctx, session, question)
	}
}

func askOnce(ctx context.Context, session *rag.Session, question string) {
	answer, err := session.Ask(ctx, question)
	if err != nil {
		log.Error().Err(err).Msg("Error answering question")
		return
	}

	fmt.Printf("\nAssistant: %s\n", answer.Content)
	fmt.Printf("\nSources: %d relevant chunks\n", len(answer.Sources))
	for i, src := range answer.Sources {
		if i >= 2 {
			break
		}
		snippet := src.Text
		if r := []rune(snippet); len(r) > 150 {
			snippet = string(r[:150]) + "..."
		}
		fmt.Printf("  Source %d (page %d): %s\n", i+1, src.Page, snippet)
	}
}
