package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"

	agent "github.com/nimeshkanishka/datagen-agent"
	"github.com/nimeshkanishka/datagen-agent/src/config"
	"github.com/nimeshkanishka/datagen-agent/src/memory"
	"github.com/nimeshkanishka/datagen-agent/src/models"
	"github.com/nimeshkanishka/datagen-agent/src/tools"
)

const rule = 100

func main() {
	var (
		flagProvider = flag.String("provider", "", "LLM provider: groq|openai|anthropic|gemini|ollama|dummy (default from env)")
		flagModel    = flag.String("model", "", "Model ID for the selected provider (default from env)")
		flagSession  = flag.String("session", "", "Session identifier (default: random per process)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *flagProvider != "" {
		cfg.Provider = strings.ToLower(strings.TrimSpace(*flagProvider))
	}
	if *flagModel != "" {
		cfg.Model = *flagModel
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	model, err := models.NewLLMProvider(ctx, cfg.ModelConfig())
	if err != nil {
		log.Fatalf("create model: %v", err)
	}

	ag, err := agent.New(agent.Options{
		Model:     model,
		Memory:    memory.NewSessionMemory(cfg.SessionWindow),
		StepLimit: cfg.StepLimit,
		Tools: []agent.Tool{
			&tools.SampleDataTool{},
			&tools.WriteJSONTool{},
			&tools.ReadJSONTool{},
		},
	})
	if err != nil {
		log.Fatalf("create agent: %v", err)
	}

	sessionID := *flagSession
	if sessionID == "" {
		sessionID = "cli:" + uuid.NewString()
	}

	printBanner()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("You: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Println("\nGoodbye!")
				return
			}
			log.Fatalf("read input: %v", err)
		}
		input := strings.TrimSpace(line)
		fmt.Println(strings.Repeat("-", rule))

		switch strings.ToLower(input) {
		case "", "quit", "exit", "q":
			fmt.Println("Goodbye!")
			return
		}

		fmt.Print("Agent: ")
		response, err := ag.Respond(ctx, sessionID, input)
		if err != nil {
			// Failures become a regular conversational turn; the session
			// never terminates abnormally.
			fmt.Printf("Error: %v\n\nPlease try rephrasing your request or provide more specific details.\n", err)
		} else {
			fmt.Println(response)
		}
		fmt.Println(strings.Repeat("-", rule))
	}
}

func printBanner() {
	line := strings.Repeat("=", rule)
	fmt.Println(line)
	fmt.Println("DataGen Agent - Sample Data Generator")
	fmt.Println(line)
	fmt.Println("Generate sample data and save to JSON files.")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  - Generate 5 sample users with fields: name, age, city.")
	fmt.Println("  - Make a dataset of 3 products with name, price, and category. Then save it to products.json.")
	fmt.Println("  - Make 10 sample employees with fields: name, department, and salary. Salary should be between 4000 and 8000.")
	fmt.Println("  - Create data with fields: first_names [Alice, Bob], last_names [Stone, Diaz], ages [22, 30]. Show the table.")
	fmt.Println("  - Read the contents of users.json and display the data in a table.")
	fmt.Println()
	fmt.Println("Commands: 'quit' or 'exit' to end")
	fmt.Println(line)
}
