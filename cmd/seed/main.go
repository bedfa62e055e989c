package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"quizbank/internal/config"
	"quizbank/internal/model"
	"quizbank/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var sampleQuestions = []model.Question{
	{
		Prompt:           "What is the capital of Catalonia?",
		CorrectAnswer:    "Barcelona",
		IncorrectAnswers: []string{"Girona", "Tarragona", "Lleida"},
	},
	{
		Prompt:           "Which planet is known as the Red Planet?",
		CorrectAnswer:    "Mars",
		IncorrectAnswers: []string{"Venus", "Jupiter", "Mercury"},
	},
	{
		Prompt:           "How many sides does a hexagon have?",
		CorrectAnswer:    "6",
		IncorrectAnswers: []string{"5", "7", "8"},
	},
	{
		Prompt:           "Which language is this service written in?",
		CorrectAnswer:    "Go",
		IncorrectAnswers: []string{"Rust", "JavaScript", "Python"},
		Image:            "gopher.png",
	},
}

func main() {
	from := flag.String("from", "", "JSON file of the form {\"questions\": [...]} to import instead of the samples")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	questions := sampleQuestions
	if *from != "" {
		questions, err = readBank(*from)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", *from, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo repository.QuestionRepo
	switch cfg.Storage.Driver {
	case config.DriverMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer client.Disconnect(ctx)
		repo = repository.NewMongoQuestionRepo(client.Database(cfg.Mongo.Database))
	default:
		repo = repository.NewFileQuestionRepo(cfg.Storage.QuestionsPath)
	}

	for _, q := range questions {
		created, err := repo.Append(ctx, q)
		if err != nil {
			log.Fatalf("Failed to insert %q: %v", q.Prompt, err)
		}
		log.Printf("Inserted question %s: %s", created.ID, created.Prompt)
	}

	log.Printf("Seeded %d questions into %s storage", len(questions), cfg.Storage.Driver)
}

func readBank(path string) ([]model.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var bank model.QuestionBank
	if err := json.Unmarshal(data, &bank); err != nil {
		return nil, err
	}
	return bank.Questions, nil
}
